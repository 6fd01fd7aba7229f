package domain

import (
	"errors"
	"strings"
	"time"
)

// DiscountType тип скидки промокода
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Ошибки проверки промокода
// Проверки выполняются строго в этом порядке (см. CheckEligibility)
var (
	// ErrDiscountInactive промокод не активен
	ErrDiscountInactive = errors.New("domain: discount code is inactive")

	// ErrDiscountNotYetActive срок действия промокода ещё не начался
	ErrDiscountNotYetActive = errors.New("domain: discount code is not yet active")

	// ErrDiscountExpired срок действия промокода истёк
	ErrDiscountExpired = errors.New("domain: discount code has expired")

	// ErrDiscountUsageLimitReached лимит использований промокода исчерпан
	ErrDiscountUsageLimitReached = errors.New("domain: discount code usage limit exceeded")

	// ErrDiscountMinOrderValue сумма заказа меньше минимальной для промокода
	ErrDiscountMinOrderValue = errors.New("domain: order value below discount minimum")
)

// Discount промокод с ограничением числа использований
// UsedCount изменяется только атомарным инкрементом в хранилище
type Discount struct {
	ID            int64
	Code          string // Уникальный, нормализуется в верхний регистр
	Type          DiscountType
	Value         float64
	MinOrderValue float64
	MaxDiscount   *float64
	ValidFrom     *time.Time
	ValidTo       *time.Time
	UsageLimit    int // 0 = без ограничений
	UsedCount     int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeDiscountCode приводит промокод к канонической форме
func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckEligibility проверяет применимость промокода к заказу на указанную сумму
// Порядок проверок фиксирован: активность, начало действия, окончание действия,
// лимит использований, минимальная сумма заказа
func (d *Discount) CheckEligibility(subtotal float64, now time.Time) error {
	if !d.Active {
		return ErrDiscountInactive
	}

	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return ErrDiscountNotYetActive
	}

	if d.ValidTo != nil && now.After(*d.ValidTo) {
		return ErrDiscountExpired
	}

	if d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit {
		return ErrDiscountUsageLimitReached
	}

	if subtotal < d.MinOrderValue {
		return ErrDiscountMinOrderValue
	}

	return nil
}

// AmountFor возвращает сумму скидки для заказа на указанную сумму
// percentage - процент от суммы заказа, fixed - фиксированная сумма,
// в обоих случаях с ограничением MaxDiscount, если оно задано
func (d *Discount) AmountFor(subtotal float64) float64 {
	var amount float64
	switch d.Type {
	case DiscountPercentage:
		amount = subtotal * d.Value / 100
	case DiscountFixed:
		amount = d.Value
	}

	if d.MaxDiscount != nil && amount > *d.MaxDiscount {
		amount = *d.MaxDiscount
	}

	return amount
}

// HasUsageLimit возвращает true, если число использований ограничено
func (d *Discount) HasUsageLimit() bool {
	return d.UsageLimit > 0
}
