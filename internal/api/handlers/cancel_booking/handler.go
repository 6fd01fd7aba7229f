package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWB-BookingService/internal/api/handlers"
	"github.com/m04kA/CWB-BookingService/internal/api/middleware"
	"github.com/m04kA/CWB-BookingService/internal/service/bookings"
	"github.com/m04kA/CWB-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgAccessDenied       = "нет доступа к этому бронированию"
	msgCannotCancel       = "бронирование нельзя отменить: мойка уже назначена или выполнена"
	msgStatusConflict     = "бронирование было изменено параллельным запросом"
	msgInvalidInput       = "причина отмены обязательна"
)

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

// Handle PATCH /api/v1/bookings/{bookingNumber}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	bookingNumber := mux.Vars(r)["bookingNumber"]

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{bookingNumber}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.Cancel(r.Context(), bookingNumber, &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/cancel - Booking not found: number=%s", bookingNumber)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/cancel - Access denied: number=%s, user_id=%d", bookingNumber, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/cancel - Cannot cancel: number=%s", bookingNumber)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrStatusConflict):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/cancel - Concurrent modification: number=%s", bookingNumber)
			handlers.RespondConflict(w, msgStatusConflict)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/cancel - Invalid input: number=%s, error=%v", bookingNumber, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{bookingNumber}/cancel - Failed to cancel: number=%s, error=%v", bookingNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingNumber}/cancel - Booking cancelled: number=%s, user_id=%d", bookingNumber, userID)
	w.WriteHeader(http.StatusNoContent)
}
