package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/CWB-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с жизненным циклом бронирований
type Service struct {
	bookingRepo    BookingRepository
	technicianRepo TechnicianRepository
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	technicianRepo TechnicianRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		technicianRepo: technicianRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// GetByNumber получает бронирование по номеру
// Пользователь может видеть только своё бронирование
func (s *Service) GetByNumber(ctx context.Context, bookingNumber string, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByNumber: fetching booking %s for user=%d", bookingNumber, userID)

	booking, err := s.getBooking(ctx, bookingNumber, "GetByNumber")
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		s.logger.Warn("GetByNumber: access denied for user=%d to booking %s", userID, bookingNumber)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование по запросу клиента
// Клиент может отменить только своё бронирование и только в статусе PENDING
func (s *Service) Cancel(ctx context.Context, bookingNumber string, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking %s by user=%d", bookingNumber, req.UserID)

	reason := strings.TrimSpace(req.CancellationReason)
	if reason == "" {
		return fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}
	if len(reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingNumber, "Cancel")
	if err != nil {
		return err
	}

	if booking.UserID != req.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to booking %s", req.UserID, bookingNumber)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelledByCustomer() {
		s.logger.Warn("Cancel: booking %s cannot be cancelled by customer, status=%s", bookingNumber, booking.Status)
		return ErrCannotCancel
	}

	// CAS по статусу PENDING: конкурентное назначение техника отменит отмену
	if err := s.bookingRepo.Cancel(ctx, booking.ID, domain.StatusPending, reason); err != nil {
		return s.mapCASError(err, bookingNumber, "Cancel")
	}

	s.logger.Info("Cancel: successfully cancelled booking %s", bookingNumber)
	return nil
}

// UpdateStatus обновляет статус бронирования (операторская операция)
// Переход проверяется по машине статусов; перевод в CANCELLED требует причину
// и освобождает слот техника, если тот был назначен
func (s *Service) UpdateStatus(ctx context.Context, bookingNumber string, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking %s to status=%s", bookingNumber, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking %s", req.Status, bookingNumber)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	var reason string
	if newStatus == domain.StatusCancelled {
		if req.Reason == nil || strings.TrimSpace(*req.Reason) == "" {
			return fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
		}
		reason = strings.TrimSpace(*req.Reason)
		if len(reason) > domain.MaxCancellationReasonLength {
			return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
		}
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingNumber, "UpdateStatus")
		if err != nil {
			return err
		}

		if booking.IsImmutable() {
			s.logger.Warn("UpdateStatus: booking %s is completed and immutable", bookingNumber)
			return ErrBookingImmutable
		}

		if !booking.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking %s",
				booking.Status, newStatus, bookingNumber)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if newStatus == domain.StatusCancelled {
			if err := s.bookingRepo.Cancel(txCtx, booking.ID, booking.Status, reason); err != nil {
				return s.mapCASError(err, bookingNumber, "UpdateStatus")
			}

			// Назначенный техник освобождается: слот снова доступен для назначения
			if booking.TechnicianID != nil {
				if err := s.technicianRepo.ReleaseSlotByBooking(txCtx, booking.ID); err != nil {
					s.logger.Error("UpdateStatus: failed to release technician slot for booking %s: %v", bookingNumber, err)
					return fmt.Errorf("%w: UpdateStatus - failed to release technician slot: %v", ErrInternal, err)
				}
			}

			return nil
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status, newStatus); err != nil {
			return s.mapCASError(err, bookingNumber, "UpdateStatus")
		}

		s.logger.Info("UpdateStatus: successfully updated booking %s to status=%s", bookingNumber, newStatus)
		return nil
	})
}

// UpdatePayment обновляет статус платежа бронирования
// Переход проверяется по машине статусов платежа; для завершённого
// бронирования допустим только возвратный поток
func (s *Service) UpdatePayment(ctx context.Context, bookingNumber string, req *models.UpdatePaymentRequest) error {
	s.logger.Info("UpdatePayment: updating payment of booking %s to status=%s", bookingNumber, req.Status)

	newStatus, err := models.ToDomainPaymentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdatePayment: invalid payment status=%s for booking %s", req.Status, bookingNumber)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	booking, err := s.getBooking(ctx, bookingNumber, "UpdatePayment")
	if err != nil {
		return err
	}

	if booking.IsImmutable() && newStatus != domain.PaymentRefundInitiated && newStatus != domain.PaymentRefunded {
		s.logger.Warn("UpdatePayment: booking %s is completed, only refund flow is allowed", bookingNumber)
		return ErrBookingImmutable
	}

	if !booking.Payment.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdatePayment: transition %s -> %s is not allowed for booking %s",
			booking.Payment.Status, newStatus, bookingNumber)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidPaymentTransition, booking.Payment.Status, newStatus)
	}

	method := booking.Payment.Method
	if req.Method != nil && strings.TrimSpace(*req.Method) != "" {
		method = strings.TrimSpace(*req.Method)
	}

	if err := s.bookingRepo.UpdatePayment(ctx, booking.ID, method, booking.Payment.Status, newStatus, req.TransactionID); err != nil {
		return s.mapCASError(err, bookingNumber, "UpdatePayment")
	}

	s.logger.Info("UpdatePayment: successfully updated payment of booking %s to status=%s", bookingNumber, newStatus)
	return nil
}

// RequestRefund инициирует возврат средств по отменённому оплаченному бронированию
// Платёж переводится PAID -> REFUND_INITIATED с записью причины возврата
func (s *Service) RequestRefund(ctx context.Context, bookingNumber string, req *models.RefundRequest) error {
	s.logger.Info("RequestRefund: initiating refund for booking %s", bookingNumber)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return fmt.Errorf("%w: refund reason is required", ErrInvalidInput)
	}
	if len(reason) > domain.MaxRefundReasonLength {
		return fmt.Errorf("%w: refund reason is too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingNumber, "RequestRefund")
	if err != nil {
		return err
	}

	if booking.Status != domain.StatusCancelled {
		s.logger.Warn("RequestRefund: booking %s is not cancelled, status=%s", bookingNumber, booking.Status)
		return fmt.Errorf("%w: booking is not cancelled", ErrRefundNotAllowed)
	}

	if booking.Payment.Status != domain.PaymentPaid {
		s.logger.Warn("RequestRefund: booking %s payment is not paid, status=%s", bookingNumber, booking.Payment.Status)
		return fmt.Errorf("%w: payment status is %s", ErrRefundNotAllowed, booking.Payment.Status)
	}

	if err := s.bookingRepo.InitiateRefund(ctx, booking.ID, reason); err != nil {
		return s.mapCASError(err, bookingNumber, "RequestRefund")
	}

	s.logger.Info("RequestRefund: refund initiated for booking %s", bookingNumber)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, bookingNumber string, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByNumber(ctx, bookingNumber)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking %s not found", op, bookingNumber)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking %s: %v", op, bookingNumber, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// mapCASError транслирует ошибки CAS-обновлений репозитория в ошибки сервиса
func (s *Service) mapCASError(err error, bookingNumber string, op string) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking %s not found during update", op, bookingNumber)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		s.logger.Warn("%s: booking %s was modified concurrently", op, bookingNumber)
		return ErrStatusConflict
	default:
		s.logger.Error("%s: repository error for booking %s: %v", op, bookingNumber, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
