package get_slot_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

// UseCase расчет доступности слотов на дату
//
// Читает активные бронирования без блокировок: снимок может устареть к
// моменту создания бронирования, окончательную проверку вместимости делает
// транзакция создания
type UseCase struct {
	bookingRepo  BookingRepository
	slotCapacity SlotCapacityProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, slotCapacity SlotCapacityProvider, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotCapacity: slotCapacity,
		logger:       logger,
	}
}

// Execute возвращает занятость и остаток мест по каждому слоту на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	slots := make([]SlotAvailability, 0, len(domain.AllSlots))

	for _, slot := range domain.AllSlots {
		bookings, err := uc.bookingRepo.GetActiveBySlot(ctx, req.Date, slot)
		if err != nil {
			uc.logger.Error("GetSlotAvailability: failed to get bookings for slot %s: %v", slot, err)
			return nil, fmt.Errorf("%w: failed to get slot bookings: %v", ErrInternal, err)
		}

		occupied := 0
		for _, b := range bookings {
			occupied += b.VehicleCount()
		}

		capacity := uc.slotCapacity.CapacityFor(slot)
		available := capacity - occupied
		if available < 0 {
			available = 0
		}

		slots = append(slots, SlotAvailability{
			Slot:      slot,
			Capacity:  capacity,
			Occupied:  occupied,
			Available: available,
		})
	}

	return &Response{Date: req.Date, Slots: slots}, nil
}
