package assign_technician

import (
	"context"
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/internal/infra/notify"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByNumber(ctx context.Context, bookingNumber string) (*domain.Booking, error)
	AssignTechnician(ctx context.Context, id int64, technicianID int64) error
}

// TechnicianRepository интерфейс репозитория техников
type TechnicianRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Technician, error)
	AppendAssignedSlot(ctx context.Context, technicianID int64, date time.Time, slot domain.Slot, bookingID int64) error
}

// Notifier интерфейс публикации уведомлений (fire-and-forget)
type Notifier interface {
	BookingAssigned(ctx context.Context, event notify.BookingAssignedEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
