package update_payment

import (
	"context"

	"github.com/m04kA/CWB-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	UpdatePayment(ctx context.Context, bookingNumber string, req *models.UpdatePaymentRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
