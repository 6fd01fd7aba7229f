package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/internal/infra/notify"
	"github.com/m04kA/CWB-BookingService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveBySlot(ctx context.Context, date time.Time, slot domain.Slot) ([]*domain.Booking, error)
}

// DiscountRepository интерфейс репозитория промокодов
type DiscountRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Discount, error)
	IncrementUsage(ctx context.Context, id int64) error
}

// CatalogServiceClient интерфейс клиента каталога услуг и дополнений
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
	GetAddons(ctx context.Context, addonIDs []int64) ([]catalogservice.Addon, error)
}

// Notifier интерфейс публикации уведомлений (fire-and-forget)
type Notifier interface {
	BookingCreated(ctx context.Context, event notify.BookingCreatedEvent)
}

// SlotCapacityProvider источник вместимости слотов (статическая конфигурация)
type SlotCapacityProvider interface {
	CapacityFor(slot domain.Slot) int
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
