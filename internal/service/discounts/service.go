package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	discountRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/discount"
)

// Service проверка применимости промокодов без их списания
// Списание выполняется только транзакцией создания бронирования, поэтому
// положительный ответ здесь не резервирует использование
type Service struct {
	discountRepo DiscountRepository
	timeProvider TimeProvider
	logger       Logger
}

// ValidateRequest запрос на проверку промокода
type ValidateRequest struct {
	Code       string  `json:"code"`
	OrderValue float64 `json:"orderValue"`
}

// ValidateResponse результат проверки промокода
type ValidateResponse struct {
	Code           string  `json:"code"`
	Type           string  `json:"type"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
}

// NewService создает новый экземпляр сервиса промокодов
func NewService(discountRepo DiscountRepository, logger Logger) *Service {
	return &Service{
		discountRepo: discountRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Validate проверяет промокод против суммы заказа и возвращает расчёт скидки
func (s *Service) Validate(ctx context.Context, req *ValidateRequest) (*ValidateResponse, error) {
	code := domain.NormalizeDiscountCode(req.Code)
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if req.OrderValue <= 0 {
		return nil, fmt.Errorf("%w: order value must be positive", ErrInvalidInput)
	}

	s.logger.Info("Validate: checking discount code=%s, orderValue=%.2f", code, req.OrderValue)

	discount, err := s.discountRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, discountRepo.ErrDiscountNotFound) {
			s.logger.Warn("Validate: discount code=%s not found", code)
			return nil, ErrDiscountNotFound
		}
		s.logger.Error("Validate: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: Validate - repository error: %v", ErrInternal, err)
	}

	if err := discount.CheckEligibility(req.OrderValue, s.timeProvider.Now()); err != nil {
		s.logger.Warn("Validate: discount code=%s not applicable: %v", code, err)
		return nil, fmt.Errorf("%w: %w", ErrDiscountNotApplicable, err)
	}

	amount := discount.AmountFor(req.OrderValue)

	s.logger.Info("Validate: discount code=%s applicable, amount=%.2f", code, amount)
	return &ValidateResponse{
		Code:           discount.Code,
		Type:           string(discount.Type),
		DiscountAmount: amount,
		FinalAmount:    req.OrderValue - amount,
	}, nil
}
