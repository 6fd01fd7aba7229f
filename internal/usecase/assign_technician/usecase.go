package assign_technician

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/internal/infra/notify"
	storageBooking "github.com/m04kA/CWB-BookingService/internal/infra/storage/booking"
	storageTechnician "github.com/m04kA/CWB-BookingService/internal/infra/storage/technician"
)

// UseCase назначение техника на бронирование
//
// Проверка занятости техника и перевод бронирования в ASSIGNED выполняются
// одной транзакцией; уникальный индекс по (техник, дата, слот) служит
// арбитром при конкурентных назначениях одного техника на один слот
type UseCase struct {
	bookingRepo    BookingRepository
	technicianRepo TechnicianRepository
	txManager      TransactionManager
	notifier       Notifier
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	technicianRepo TechnicianRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		technicianRepo: technicianRepo,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
	}
}

// Execute назначает техника на бронирование и переводит его в ASSIGNED
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if strings.TrimSpace(req.BookingNumber) == "" {
		return nil, fmt.Errorf("%w: booking number is required", ErrInvalidInput)
	}
	if req.TechnicianID <= 0 {
		return nil, fmt.Errorf("%w: technician id must be positive", ErrInvalidInput)
	}

	uc.logger.Info("AssignTechnician: booking=%s, technician=%d", req.BookingNumber, req.TechnicianID)

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByNumber(txCtx, req.BookingNumber)
		if err != nil {
			if errors.Is(err, storageBooking.ErrBookingNotFound) {
				return fmt.Errorf("%w: %s", ErrBookingNotFound, req.BookingNumber)
			}
			uc.logger.Error("AssignTechnician: failed to get booking: %v", err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.Status != domain.StatusPending {
			return fmt.Errorf("%w: status is %s", ErrBookingNotAssignable, booking.Status)
		}

		technician, err := uc.technicianRepo.GetByID(txCtx, req.TechnicianID)
		if err != nil {
			if errors.Is(err, storageTechnician.ErrTechnicianNotFound) {
				return fmt.Errorf("%w: id %d", ErrTechnicianNotFound, req.TechnicianID)
			}
			uc.logger.Error("AssignTechnician: failed to get technician: %v", err)
			return fmt.Errorf("%w: failed to get technician: %v", ErrInternal, err)
		}

		if !technician.Active {
			return fmt.Errorf("%w: id %d", ErrTechnicianInactive, technician.ID)
		}

		// Ранняя проверка по загруженным слотам; окончательное слово за
		// уникальным индексом при вставке
		if technician.HasSlot(booking.SlotDate, booking.Slot) {
			return fmt.Errorf("%w: technician %d, date %s, slot %s",
				ErrSlotAlreadyAssigned, technician.ID, booking.SlotDate.Format(domain.DateFormat), booking.Slot)
		}

		if err := uc.technicianRepo.AppendAssignedSlot(txCtx, technician.ID, booking.SlotDate, booking.Slot, booking.ID); err != nil {
			if errors.Is(err, storageTechnician.ErrSlotAlreadyAssigned) {
				return fmt.Errorf("%w: technician %d, date %s, slot %s",
					ErrSlotAlreadyAssigned, technician.ID, booking.SlotDate.Format(domain.DateFormat), booking.Slot)
			}
			uc.logger.Error("AssignTechnician: failed to reserve slot: %v", err)
			return fmt.Errorf("%w: failed to reserve technician slot: %v", ErrInternal, err)
		}

		if err := uc.bookingRepo.AssignTechnician(txCtx, booking.ID, technician.ID); err != nil {
			if errors.Is(err, storageBooking.ErrStatusConflict) {
				return fmt.Errorf("%w: booking status changed concurrently", ErrBookingNotAssignable)
			}
			uc.logger.Error("AssignTechnician: failed to update booking: %v", err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		resp = &Response{
			BookingNumber:  booking.BookingNumber,
			Status:         domain.StatusAssigned,
			TechnicianID:   technician.ID,
			TechnicianName: technician.Name,
			Date:           booking.SlotDate,
			Slot:           booking.Slot,
		}

		// Для уведомления после коммита
		resp.userID = booking.UserID
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.notifier.BookingAssigned(ctx, notify.BookingAssignedEvent{
		UserID:         resp.userID,
		BookingNumber:  resp.BookingNumber,
		TechnicianName: resp.TechnicianName,
		Date:           resp.Date.Format(domain.DateFormat),
		Slot:           string(resp.Slot),
	})

	uc.logger.Info("AssignTechnician: booking %s assigned to technician %d", resp.BookingNumber, resp.TechnicianID)
	return resp, nil
}
