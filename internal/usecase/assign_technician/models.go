package assign_technician

import (
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

// Request запрос на назначение техника на бронирование
type Request struct {
	BookingNumber string
	TechnicianID  int64
}

// Response результат назначения
type Response struct {
	BookingNumber  string
	Status         domain.BookingStatus
	TechnicianID   int64
	TechnicianName string
	Date           time.Time
	Slot           domain.Slot

	userID int64 // владелец бронирования, для уведомления
}
