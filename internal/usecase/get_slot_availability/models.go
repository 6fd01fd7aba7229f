package get_slot_availability

import (
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

// Request запрос доступности слотов на дату
type Request struct {
	Date time.Time
}

// SlotAvailability доступность одного слота
type SlotAvailability struct {
	Slot      domain.Slot
	Capacity  int
	Occupied  int
	Available int
}

// Response доступность всех слотов на дату
type Response struct {
	Date  time.Time
	Slots []SlotAvailability
}
