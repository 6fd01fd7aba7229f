package get_slot_availability

import (
	"context"
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveBySlot(ctx context.Context, date time.Time, slot domain.Slot) ([]*domain.Booking, error)
}

// SlotCapacityProvider источник вместимости слотов (статическая конфигурация)
type SlotCapacityProvider interface {
	CapacityFor(slot domain.Slot) int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
