package create_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/internal/infra/notify"
)

// UseCase координатор создания бронирований (одиночных и массовых)
//
// Проверка вместимости слота, проверка дубликатов номеров, выбор и списание
// скидки и запись бронирований выполняются одной сериализуемой транзакцией:
// из двух конкурентных запросов за последнее место побеждает тот, чья
// транзакция закоммитится первой, второй видит обновленное состояние и
// получает отказ
type UseCase struct {
	bookingRepo   BookingRepository
	discountRepo  DiscountRepository
	catalogClient CatalogServiceClient
	slotCapacity  SlotCapacityProvider
	txManager     TransactionManager
	notifier      Notifier
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	discountRepo DiscountRepository,
	catalogClient CatalogServiceClient,
	slotCapacity SlotCapacityProvider,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		discountRepo:  discountRepo,
		catalogClient: catalogClient,
		slotCapacity:  slotCapacity,
		txManager:     txManager,
		notifier:      notifier,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute создает одно бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	responses, err := uc.ExecuteBulk(ctx, []*Request{req})
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// ExecuteBulk создает пакет бронирований как одну атомарную операцию
// Любая ошибка в любом под-бронировании откатывает весь пакет:
// частично созданных бронирований не бывает
func (uc *UseCase) ExecuteBulk(ctx context.Context, reqs []*Request) ([]*Response, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty request batch", ErrInvalidInput)
	}
	if len(reqs) > domain.MaxBookingsPerBulkRequest {
		return nil, fmt.Errorf("%w: at most %d bookings per bulk request", ErrInvalidInput, domain.MaxBookingsPerBulkRequest)
	}

	uc.logger.Info("CreateBooking: batch of %d, user=%d, date=%s, slot=%s",
		len(reqs), reqs[0].UserID, reqs[0].Date.Format(domain.DateFormat), reqs[0].Slot)

	// 1. Валидация всех запросов до любых внешних вызовов
	for _, req := range reqs {
		if err := validateRequest(req); err != nil {
			uc.logger.Warn("CreateBooking: validation failed: %v", err)
			return nil, err
		}
		if err := checkRequestDuplicates(req.Vehicles); err != nil {
			uc.logger.Warn("CreateBooking: duplicate vehicle in request: %v", err)
			return nil, err
		}
	}

	// 2. Расчет цен по каталогу - вне транзакции, каталог внешний сервис
	priced := make([]*pricedVehicles, len(reqs))
	for i, req := range reqs {
		p, err := uc.priceVehicles(ctx, req.Vehicles)
		if err != nil {
			uc.logger.Warn("CreateBooking: pricing failed: %v", err)
			return nil, err
		}
		priced[i] = p
	}

	now := uc.timeProvider.Now()
	responses := make([]*Response, 0, len(reqs))

	// 3. Допуск, скидки и запись - одна сериализуемая транзакция на весь пакет
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		responses = responses[:0]

		// Занятость, добавленная предыдущими под-бронированиями пакета,
		// по ключу (дата, слот)
		type slotState struct {
			existing []*domain.Booking
			numbers  map[string]struct{}
			count    int
		}
		slots := make(map[string]*slotState)

		for i, req := range reqs {
			key := req.Date.Format(domain.DateFormat) + "/" + string(req.Slot)

			state, ok := slots[key]
			if !ok {
				// Читаем бронирования слота с блокировкой (FOR UPDATE)
				existing, err := uc.bookingRepo.GetActiveBySlot(txCtx, req.Date, req.Slot)
				if err != nil {
					uc.logger.Error("CreateBooking: failed to get slot bookings: %v", err)
					return fmt.Errorf("%w: failed to get slot bookings: %v", ErrInternal, err)
				}
				state = &slotState{existing: existing, numbers: make(map[string]struct{})}
				slots[key] = state
			}

			requested := make([]string, 0, len(req.Vehicles))
			for _, v := range req.Vehicles {
				requested = append(requested, normalizeVehicleNumber(v.Number))
			}

			capacity := uc.slotCapacity.CapacityFor(req.Slot)
			if err := checkSlotAdmission(state.existing, requested, capacity, state.numbers, state.count); err != nil {
				uc.logger.Warn("CreateBooking: admission rejected for date=%s slot=%s: %v",
					req.Date.Format(domain.DateFormat), req.Slot, err)
				return err
			}

			// Выбор скидки: промокод против объёмной, применяется большая
			resolved, err := uc.resolveDiscount(txCtx, req.DiscountCode, priced[i].Subtotal, len(req.Vehicles), now)
			if err != nil {
				uc.logger.Warn("CreateBooking: discount rejected: %v", err)
				return err
			}

			// Списание использования промокода той же транзакцией, что и запись
			if err := uc.consumeDiscount(txCtx, resolved); err != nil {
				uc.logger.Warn("CreateBooking: discount consumption failed: %v", err)
				return err
			}

			booking := &domain.Booking{
				BookingNumber: domain.NewBookingNumber(now),
				UserID:        req.UserID,
				Category:      req.Category,
				Customer: domain.CustomerInfo{
					Name:         req.Customer.Name,
					Phone:        req.Customer.Phone,
					Address:      req.Customer.Address,
					BuildingName: req.Customer.BuildingName,
				},
				Vehicles: priced[i].Vehicles,
				Slot:     req.Slot,
				SlotDate: req.Date,
				Status:   domain.StatusPending,
				Payment: domain.Payment{
					Method: req.PaymentMethod,
					Status: domain.PaymentUnpaid,
				},
				TotalAmount:  priced[i].Subtotal - resolved.Amount,
				Discount:     resolved.Amount,
				DiscountCode: resolved.Code,
				IsBulk:       len(req.Vehicles) > 1,
			}

			created, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			// Учитываем вставленное под-бронирование в занятости слота
			for _, number := range requested {
				state.numbers[number] = struct{}{}
			}
			state.count += len(requested)

			responses = append(responses, responseFromDomain(created, priced[i].Subtotal))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// 4. Уведомления после коммита: best-effort, не влияют на результат
	for _, resp := range responses {
		uc.notifier.BookingCreated(ctx, notify.BookingCreatedEvent{
			UserID:        resp.UserID,
			BookingNumber: resp.BookingNumber,
			Date:          resp.Date.Format(domain.DateFormat),
			Slot:          string(resp.Slot),
			VehicleCount:  len(resp.Vehicles),
			TotalAmount:   resp.TotalAmount,
		})
	}

	uc.logger.Info("CreateBooking: successfully created %d booking(s)", len(responses))
	return responses, nil
}
