package validate_discount

import (
	"context"

	"github.com/m04kA/CWB-BookingService/internal/service/discounts"
)

type DiscountService interface {
	Validate(ctx context.Context, req *discounts.ValidateRequest) (*discounts.ValidateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
