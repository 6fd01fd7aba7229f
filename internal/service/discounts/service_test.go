package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	discountRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/discount"
	"github.com/m04kA/CWB-BookingService/pkg/ptr"
)

type mockDiscountRepo struct {
	getByCodeFn func(ctx context.Context, code string) (*domain.Discount, error)
}

func (m *mockDiscountRepo) GetByCode(ctx context.Context, code string) (*domain.Discount, error) {
	return m.getByCodeFn(ctx, code)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(discount *domain.Discount) *Service {
	repo := &mockDiscountRepo{
		getByCodeFn: func(ctx context.Context, code string) (*domain.Discount, error) {
			if discount == nil || discount.Code != code {
				return nil, discountRepo.ErrDiscountNotFound
			}
			return discount, nil
		},
	}
	svc := NewService(repo, nopLogger{})
	svc.timeProvider = fixedTimeProvider{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	return svc
}

func TestValidate(t *testing.T) {
	t.Run("percentage discount", func(t *testing.T) {
		svc := newTestService(&domain.Discount{
			Code:   "SPRING10",
			Type:   domain.DiscountPercentage,
			Value:  10,
			Active: true,
		})

		resp, err := svc.Validate(context.Background(), &ValidateRequest{Code: "spring10", OrderValue: 500})
		require.NoError(t, err)
		assert.Equal(t, "SPRING10", resp.Code)
		assert.Equal(t, "percentage", resp.Type)
		assert.InDelta(t, 50.0, resp.DiscountAmount, 0.001)
		assert.InDelta(t, 450.0, resp.FinalAmount, 0.001)
	})

	t.Run("fixed discount with cap", func(t *testing.T) {
		svc := newTestService(&domain.Discount{
			Code:        "WASH50",
			Type:        domain.DiscountFixed,
			Value:       50,
			MaxDiscount: ptr.Ptr(30.0),
			Active:      true,
		})

		resp, err := svc.Validate(context.Background(), &ValidateRequest{Code: "WASH50", OrderValue: 200})
		require.NoError(t, err)
		assert.InDelta(t, 30.0, resp.DiscountAmount, 0.001)
		assert.InDelta(t, 170.0, resp.FinalAmount, 0.001)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc := newTestService(nil)

		_, err := svc.Validate(context.Background(), &ValidateRequest{Code: "NOPE", OrderValue: 100})
		assert.ErrorIs(t, err, ErrDiscountNotFound)
	})

	t.Run("expired code", func(t *testing.T) {
		svc := newTestService(&domain.Discount{
			Code:    "OLD",
			Type:    domain.DiscountFixed,
			Value:   10,
			Active:  true,
			ValidTo: ptr.Ptr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		})

		_, err := svc.Validate(context.Background(), &ValidateRequest{Code: "OLD", OrderValue: 100})
		assert.ErrorIs(t, err, ErrDiscountNotApplicable)
		assert.ErrorIs(t, err, domain.ErrDiscountExpired)
	})

	t.Run("below minimum order value", func(t *testing.T) {
		svc := newTestService(&domain.Discount{
			Code:          "BIG",
			Type:          domain.DiscountPercentage,
			Value:         15,
			MinOrderValue: 1000,
			Active:        true,
		})

		_, err := svc.Validate(context.Background(), &ValidateRequest{Code: "BIG", OrderValue: 100})
		assert.ErrorIs(t, err, ErrDiscountNotApplicable)
		assert.ErrorIs(t, err, domain.ErrDiscountMinOrderValue)
	})

	t.Run("usage limit exhausted", func(t *testing.T) {
		svc := newTestService(&domain.Discount{
			Code:       "LIMITED",
			Type:       domain.DiscountFixed,
			Value:      10,
			UsageLimit: 5,
			UsedCount:  5,
			Active:     true,
		})

		_, err := svc.Validate(context.Background(), &ValidateRequest{Code: "LIMITED", OrderValue: 100})
		assert.ErrorIs(t, err, ErrDiscountNotApplicable)
		assert.ErrorIs(t, err, domain.ErrDiscountUsageLimitReached)
	})

	t.Run("empty code", func(t *testing.T) {
		svc := newTestService(nil)

		_, err := svc.Validate(context.Background(), &ValidateRequest{Code: "   ", OrderValue: 100})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("non-positive order value", func(t *testing.T) {
		svc := newTestService(nil)

		_, err := svc.Validate(context.Background(), &ValidateRequest{Code: "ANY", OrderValue: 0})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
