package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDiscountCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeDiscountCode("  summer10 "))
	assert.Equal(t, "WASH50", NormalizeDiscountCode("Wash50"))
}

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	base := func() *Discount {
		return &Discount{
			Code:          "WASH10",
			Type:          DiscountPercentage,
			Value:         10,
			MinOrderValue: 100,
			ValidFrom:     &past,
			ValidTo:       &future,
			UsageLimit:    5,
			UsedCount:     0,
			Active:        true,
		}
	}

	t.Run("eligible", func(t *testing.T) {
		assert.NoError(t, base().CheckEligibility(500, now))
	})

	t.Run("inactive", func(t *testing.T) {
		d := base()
		d.Active = false
		assert.ErrorIs(t, d.CheckEligibility(500, now), ErrDiscountInactive)
	})

	t.Run("not yet active", func(t *testing.T) {
		d := base()
		d.ValidFrom = &future
		assert.ErrorIs(t, d.CheckEligibility(500, now), ErrDiscountNotYetActive)
	})

	t.Run("expired", func(t *testing.T) {
		d := base()
		d.ValidTo = &past
		assert.ErrorIs(t, d.CheckEligibility(500, now), ErrDiscountExpired)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		d := base()
		d.UsedCount = 5
		assert.ErrorIs(t, d.CheckEligibility(500, now), ErrDiscountUsageLimitReached)
	})

	t.Run("zero usage limit is unlimited", func(t *testing.T) {
		d := base()
		d.UsageLimit = 0
		d.UsedCount = 1000
		assert.NoError(t, d.CheckEligibility(500, now))
	})

	t.Run("below min order value", func(t *testing.T) {
		assert.ErrorIs(t, base().CheckEligibility(99, now), ErrDiscountMinOrderValue)
	})

	// Деактивированный промокод с истёкшим сроком: сначала сообщаем о неактивности
	t.Run("check order fixed", func(t *testing.T) {
		d := base()
		d.Active = false
		d.ValidTo = &past
		assert.ErrorIs(t, d.CheckEligibility(500, now), ErrDiscountInactive)
	})
}

func TestAmountFor(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		d := &Discount{Type: DiscountPercentage, Value: 10}
		assert.InDelta(t, 50.0, d.AmountFor(500), 0.001)
	})

	t.Run("fixed", func(t *testing.T) {
		d := &Discount{Type: DiscountFixed, Value: 75}
		assert.InDelta(t, 75.0, d.AmountFor(500), 0.001)
	})

	t.Run("percentage capped by max discount", func(t *testing.T) {
		maxDiscount := 30.0
		d := &Discount{Type: DiscountPercentage, Value: 10, MaxDiscount: &maxDiscount}
		assert.InDelta(t, 30.0, d.AmountFor(500), 0.001)
	})

	t.Run("fixed capped by max discount", func(t *testing.T) {
		maxDiscount := 50.0
		d := &Discount{Type: DiscountFixed, Value: 75, MaxDiscount: &maxDiscount}
		assert.InDelta(t, 50.0, d.AmountFor(500), 0.001)
	})
}

func TestVolumeDiscountPercent(t *testing.T) {
	assert.Equal(t, 0, VolumeDiscountPercent(0))
	assert.Equal(t, 0, VolumeDiscountPercent(1))
	assert.Equal(t, 5, VolumeDiscountPercent(2))
	assert.Equal(t, 10, VolumeDiscountPercent(3))
	assert.Equal(t, 10, VolumeDiscountPercent(10))
}
