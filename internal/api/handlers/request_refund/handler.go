package request_refund

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
	msgRefundNotAllowed   = "возврат возможен только по отменённому оплаченному бронированию"
	msgStatusConflict     = "платёж был изменён параллельным запросом"
	msgInvalidInput       = "причина возврата обязательна"
)

// RefundRequest HTTP request model
type RefundRequest struct {
	Reason string `json:"reason"`
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

// Handle PATCH /api/v1/bookings/{bookingNumber}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingNumber := mux.Vars(r)["bookingNumber"]

	var req RefundRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{bookingNumber}/refund - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.RequestRefund(r.Context(), bookingNumber, &models.RefundRequest{Reason: req.Reason})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/refund - Booking not found: number=%s", bookingNumber)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrRefundNotAllowed):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/refund - Refund not allowed: number=%s, error=%v", bookingNumber, err)
			handlers.RespondConflict(w, msgRefundNotAllowed)

		case errors.Is(err, bookings.ErrStatusConflict):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/refund - Concurrent modification: number=%s", bookingNumber)
			handlers.RespondConflict(w, msgStatusConflict)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/refund - Invalid input: number=%s, error=%v", bookingNumber, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{bookingNumber}/refund - Failed to initiate refund: number=%s, error=%v", bookingNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingNumber}/refund - Refund initiated: number=%s", bookingNumber)
	w.WriteHeader(http.StatusNoContent)
}
