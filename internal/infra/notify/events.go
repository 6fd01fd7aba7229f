package notify

// Routing keys уведомлений
const (
	KeyBookingCreated  = "booking.created"
	KeyBookingAssigned = "booking.assigned"
)

// BookingCreatedEvent событие создания бронирования
type BookingCreatedEvent struct {
	UserID        int64   `json:"userId"`
	BookingNumber string  `json:"bookingNumber"`
	Date          string  `json:"date"` // YYYY-MM-DD
	Slot          string  `json:"slot"`
	VehicleCount  int     `json:"vehicleCount"`
	TotalAmount   float64 `json:"totalAmount"`
}

// BookingAssignedEvent событие назначения техника на бронирование
type BookingAssignedEvent struct {
	UserID         int64  `json:"userId"`
	BookingNumber  string `json:"bookingNumber"`
	TechnicianName string `json:"technicianName"`
	Date           string `json:"date"` // YYYY-MM-DD
	Slot           string `json:"slot"`
}
