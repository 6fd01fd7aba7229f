package get_slot_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/CWB-BookingService/internal/api/handlers"
	"github.com/m04kA/CWB-BookingService/internal/domain"
	getSlotAvailability "github.com/m04kA/CWB-BookingService/internal/usecase/get_slot_availability"
)

const (
	msgMissingDate  = "параметр date обязателен"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetSlotAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/availability?date=2026-03-15
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		h.logger.Warn("GET /slots/availability - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateParam)
	if err != nil {
		h.logger.Warn("GET /slots/availability - Invalid date: %s", dateParam)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlotAvailability.Request{Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getSlotAvailability.ErrInvalidInput):
			h.logger.Warn("GET /slots/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /slots/availability - Failed to get availability: date=%s, error=%v", dateParam, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
