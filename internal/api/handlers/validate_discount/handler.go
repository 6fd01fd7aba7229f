package validate_discount

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWB-BookingService/internal/api/handlers"
	"github.com/m04kA/CWB-BookingService/internal/service/discounts"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgDiscountNotFound      = "промокод не найден"
	msgDiscountNotApplicable = "промокод не применим к этому заказу"
	msgInvalidInput          = "код и сумма заказа обязательны"
)

type Handler struct {
	service DiscountService
	logger  Logger
}

func NewHandler(service DiscountService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/discounts/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req discounts.ValidateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /discounts/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, discounts.ErrDiscountNotFound):
			h.logger.Warn("POST /discounts/validate - Discount not found: code=%s", req.Code)
			handlers.RespondNotFound(w, msgDiscountNotFound)

		case errors.Is(err, discounts.ErrDiscountNotApplicable):
			h.logger.Warn("POST /discounts/validate - Discount not applicable: code=%s, error=%v", req.Code, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgDiscountNotApplicable)

		case errors.Is(err, discounts.ErrInvalidInput):
			h.logger.Warn("POST /discounts/validate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /discounts/validate - Failed to validate discount: code=%s, error=%v", req.Code, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
