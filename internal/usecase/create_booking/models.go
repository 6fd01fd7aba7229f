package create_booking

import (
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

// VehicleRequest автомобиль в запросе на создание бронирования
type VehicleRequest struct {
	Type      domain.VehicleType
	Number    string
	Model     string
	CC        string
	ServiceID int64
	AddonIDs  []int64
}

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name         string
	Phone        string
	Address      string
	BuildingName *string
}

// Request модель запроса на создание одного бронирования
type Request struct {
	UserID        int64
	Category      *domain.BookingCategory
	Customer      CustomerRequest
	PaymentMethod string
	Date          time.Time // Дата бронирования (без времени)
	Slot          domain.Slot
	Vehicles      []VehicleRequest
	DiscountCode  *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	BookingNumber string
	UserID        int64
	Category      *domain.BookingCategory
	Slot          domain.Slot
	Date          time.Time
	Status        domain.BookingStatus
	Vehicles      []domain.Vehicle // С ценами-снимками
	PaymentMethod string
	PaymentStatus domain.PaymentStatus
	Subtotal      float64
	Discount      float64
	DiscountCode  *string
	TotalAmount   float64
	IsBulk        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func responseFromDomain(b *domain.Booking, subtotal float64) *Response {
	return &Response{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		UserID:        b.UserID,
		Category:      b.Category,
		Slot:          b.Slot,
		Date:          b.SlotDate,
		Status:        b.Status,
		Vehicles:      b.Vehicles,
		PaymentMethod: b.Payment.Method,
		PaymentStatus: b.Payment.Status,
		Subtotal:      subtotal,
		Discount:      b.Discount,
		DiscountCode:  b.DiscountCode,
		TotalAmount:   b.TotalAmount,
		IsBulk:        b.IsBulk,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
