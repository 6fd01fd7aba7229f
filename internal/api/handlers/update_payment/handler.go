package update_payment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWB-BookingService/internal/api/handlers"
	"github.com/m04kA/CWB-BookingService/internal/service/bookings"
	"github.com/m04kA/CWB-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgInvalidStatus      = "неизвестный статус платежа"
	msgInvalidTransition  = "недопустимый переход статуса платежа"
	msgBookingImmutable   = "для завершённого бронирования допустим только возврат средств"
	msgStatusConflict     = "платёж был изменён параллельным запросом"
)

// UpdatePaymentRequest HTTP request model
type UpdatePaymentRequest struct {
	Method        *string `json:"method,omitempty"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transactionId,omitempty"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingNumber}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingNumber := mux.Vars(r)["bookingNumber"]

	var req UpdatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{bookingNumber}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.UpdatePayment(r.Context(), bookingNumber, &models.UpdatePaymentRequest{
		Method:        req.Method,
		Status:        req.Status,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/payment - Booking not found: number=%s", bookingNumber)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/payment - Invalid payment status: number=%s, status=%s", bookingNumber, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrBookingImmutable):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/payment - Booking immutable: number=%s", bookingNumber)
			handlers.RespondConflict(w, msgBookingImmutable)

		case errors.Is(err, bookings.ErrInvalidPaymentTransition):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/payment - Invalid transition: number=%s, status=%s", bookingNumber, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, bookings.ErrStatusConflict):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/payment - Concurrent modification: number=%s", bookingNumber)
			handlers.RespondConflict(w, msgStatusConflict)

		default:
			h.logger.Error("PATCH /bookings/{bookingNumber}/payment - Failed to update payment: number=%s, error=%v", bookingNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingNumber}/payment - Payment updated: number=%s, status=%s", bookingNumber, req.Status)
	w.WriteHeader(http.StatusNoContent)
}
