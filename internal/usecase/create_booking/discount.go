package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	discountRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/discount"
)

// resolvedDiscount выбранная скидка бронирования
type resolvedDiscount struct {
	Amount float64
	Code   *string          // Заполнен, только когда применен промокод
	Coupon *domain.Discount // Промокод, чей used_count нужно инкрементировать
}

// resolveDiscount выбирает скидку бронирования: промокод против объёмной скидки
//
// Скидки не суммируются - применяется большая из двух. Если промокод указан,
// но не проходит проверку, бронирование отклоняется с конкретной причиной;
// молчаливого отката на объёмную скидку нет.
// Вызывается внутри транзакции: GetByCode блокирует строку промокода,
// инкремент used_count выполняется той же транзакцией
func (uc *UseCase) resolveDiscount(ctx context.Context, code *string, subtotal float64, vehicleCount int, now time.Time) (*resolvedDiscount, error) {
	volume := volumeDiscount(subtotal, vehicleCount)

	if code == nil || *code == "" {
		return &resolvedDiscount{Amount: volume}, nil
	}

	coupon, err := uc.discountRepo.GetByCode(ctx, *code)
	if err != nil {
		if errors.Is(err, discountRepo.ErrDiscountNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDiscountNotFound, *code)
		}
		return nil, fmt.Errorf("%w: failed to get discount: %v", ErrInternal, err)
	}

	if err := coupon.CheckEligibility(subtotal, now); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscountNotApplicable, err)
	}

	couponAmount := coupon.AmountFor(subtotal)
	if couponAmount <= volume {
		// Объёмная скидка выгоднее: промокод не применяется и не расходуется
		return &resolvedDiscount{Amount: volume}, nil
	}

	normalized := domain.NormalizeDiscountCode(*code)
	return &resolvedDiscount{
		Amount: couponAmount,
		Code:   &normalized,
		Coupon: coupon,
	}, nil
}

// consumeDiscount атомарно расходует одно использование промокода
// При гонке за последнее использование проигравшая транзакция получает
// usage-limit ошибку и откатывается целиком
func (uc *UseCase) consumeDiscount(ctx context.Context, d *resolvedDiscount) error {
	if d.Coupon == nil {
		return nil
	}

	if err := uc.discountRepo.IncrementUsage(ctx, d.Coupon.ID); err != nil {
		if errors.Is(err, discountRepo.ErrUsageLimitReached) {
			return fmt.Errorf("%w: %w", ErrDiscountNotApplicable, domain.ErrDiscountUsageLimitReached)
		}
		return fmt.Errorf("%w: failed to increment discount usage: %v", ErrInternal, err)
	}

	return nil
}
