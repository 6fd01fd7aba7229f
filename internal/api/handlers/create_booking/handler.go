package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWB-BookingService/internal/api/handlers"
	"github.com/m04kA/CWB-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/CWB-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidInput          = "некорректные данные бронирования"
	msgDuplicateVehicle      = "номера автомобилей в заявке повторяются"
	msgVehicleAlreadyBooked  = "автомобиль уже записан на этот слот"
	msgSlotCapacityExceeded  = "в выбранном слоте недостаточно мест"
	msgServiceNotFound       = "услуга не найдена или недоступна"
	msgDiscountNotFound      = "промокод не найден"
	msgDiscountNotApplicable = "промокод не применим к этому заказу"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, "POST /bookings", userID, err)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: number=%s, user_id=%d",
		result.BookingNumber, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// HandleBulk POST /api/v1/bookings/bulk
// Пакет создается атомарно: либо все бронирования, либо ни одного
func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req BulkCreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReqs := make([]*createBooking.Request, len(req.Bookings))
	for i := range req.Bookings {
		useCaseReq, err := req.Bookings[i].ToUseCaseRequest(userID)
		if err != nil {
			h.logger.Warn("POST /bookings/bulk - Failed to parse request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		useCaseReqs[i] = useCaseReq
	}

	results, err := h.useCase.ExecuteBulk(r.Context(), useCaseReqs)
	if err != nil {
		h.respondUseCaseError(w, "POST /bookings/bulk", userID, err)
		return
	}

	response := BulkBookingResponse{Bookings: make([]BookingResponse, len(results))}
	for i, result := range results {
		response.Bookings[i] = *FromUseCaseResponse(result)
	}

	h.logger.Info("POST /bookings/bulk - %d bookings created successfully: user_id=%d", len(results), userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, op string, userID int64, err error) {
	switch {
	case errors.Is(err, createBooking.ErrDuplicateVehicle):
		h.logger.Warn("%s - Duplicate vehicle in request: user_id=%d", op, userID)
		handlers.RespondBadRequest(w, msgDuplicateVehicle)

	case errors.Is(err, createBooking.ErrVehicleAlreadyBooked):
		h.logger.Warn("%s - Vehicle already booked: user_id=%d", op, userID)
		handlers.RespondConflict(w, msgVehicleAlreadyBooked)

	case errors.Is(err, createBooking.ErrSlotCapacityExceeded):
		h.logger.Warn("%s - Slot capacity exceeded: user_id=%d", op, userID)
		handlers.RespondConflict(w, msgSlotCapacityExceeded)

	case errors.Is(err, createBooking.ErrInvalidService):
		h.logger.Warn("%s - Service not found: user_id=%d", op, userID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrDiscountNotFound):
		h.logger.Warn("%s - Discount not found: user_id=%d", op, userID)
		handlers.RespondNotFound(w, msgDiscountNotFound)

	case errors.Is(err, createBooking.ErrDiscountNotApplicable):
		h.logger.Warn("%s - Discount not applicable: user_id=%d, error=%v", op, userID, err)
		handlers.RespondError(w, http.StatusUnprocessableEntity, msgDiscountNotApplicable)

	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: user_id=%d, error=%v", op, userID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed to create booking: user_id=%d, error=%v", op, userID, err)
		handlers.RespondInternalError(w)
	}
}
