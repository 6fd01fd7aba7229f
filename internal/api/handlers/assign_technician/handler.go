package assign_technician

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWB-BookingService/internal/api/handlers"
	assignTechnician "github.com/m04kA/CWB-BookingService/internal/usecase/assign_technician"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgBookingNotFound      = "бронирование не найдено"
	msgTechnicianNotFound   = "техник не найден"
	msgTechnicianInactive   = "техник деактивирован"
	msgBookingNotAssignable = "бронирование не ожидает назначения техника"
	msgSlotAlreadyAssigned  = "техник уже занят на этом слоте"
	msgInvalidInput         = "некорректные данные назначения"
)

type Handler struct {
	useCase AssignTechnicianUseCase
	logger  Logger
}

func NewHandler(useCase AssignTechnicianUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingNumber}/assign-technician
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingNumber := mux.Vars(r)["bookingNumber"]

	var req AssignTechnicianRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{bookingNumber}/assign-technician - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &assignTechnician.Request{
		BookingNumber: bookingNumber,
		TechnicianID:  req.TechnicianID,
	})
	if err != nil {
		switch {
		case errors.Is(err, assignTechnician.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/assign-technician - Booking not found: number=%s", bookingNumber)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, assignTechnician.ErrTechnicianNotFound):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/assign-technician - Technician not found: id=%d", req.TechnicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, assignTechnician.ErrTechnicianInactive):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/assign-technician - Technician inactive: id=%d", req.TechnicianID)
			handlers.RespondConflict(w, msgTechnicianInactive)

		case errors.Is(err, assignTechnician.ErrBookingNotAssignable):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/assign-technician - Booking not assignable: number=%s", bookingNumber)
			handlers.RespondConflict(w, msgBookingNotAssignable)

		case errors.Is(err, assignTechnician.ErrSlotAlreadyAssigned):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/assign-technician - Slot already assigned: technician=%d", req.TechnicianID)
			handlers.RespondConflict(w, msgSlotAlreadyAssigned)

		case errors.Is(err, assignTechnician.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingNumber}/assign-technician - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{bookingNumber}/assign-technician - Failed to assign: number=%s, error=%v", bookingNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingNumber}/assign-technician - Technician assigned: number=%s, technician=%d",
		bookingNumber, req.TechnicianID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
