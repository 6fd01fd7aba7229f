package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует уведомления о бронированиях в RabbitMQ
//
// Доставка best-effort: ошибка публикации логируется и проглатывается,
// она никогда не откатывает и не блокирует операцию с бронированием
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      Logger
}

// NewPublisher создает publisher и объявляет topic exchange
func NewPublisher(url, exchange string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify: rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("notify: exchange declare: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// BookingCreated публикует событие создания бронирования
func (p *Publisher) BookingCreated(ctx context.Context, event BookingCreatedEvent) {
	p.publish(ctx, KeyBookingCreated, event)
}

// BookingAssigned публикует событие назначения техника
func (p *Publisher) BookingAssigned(ctx context.Context, event BookingAssignedEvent) {
	p.publish(ctx, KeyBookingAssigned, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("notify: marshal payload for %s: %v", routingKey, err)
		return
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		p.log.Error("notify: publish %s failed: %v", routingKey, err)
		return
	}

	p.log.Info("notify: published %s/%s", p.exchange, routingKey)
}

// Close закрывает канал и соединение
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NopPublisher заглушка, используется при выключенных уведомлениях
type NopPublisher struct{}

// BookingCreated ничего не делает
func (NopPublisher) BookingCreated(ctx context.Context, event BookingCreatedEvent) {}

// BookingAssigned ничего не делает
func (NopPublisher) BookingAssigned(ctx context.Context, event BookingAssignedEvent) {}
