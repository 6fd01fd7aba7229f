package create_booking

import (
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	createBooking "github.com/m04kA/CWB-BookingService/internal/usecase/create_booking"
)

// VehicleRequest автомобиль в составе HTTP запроса
type VehicleRequest struct {
	Type      string  `json:"type"` // "2W", "4W", "CAB"
	Number    string  `json:"number"`
	Model     string  `json:"model"`
	CC        string  `json:"cc,omitempty"`
	ServiceID int64   `json:"serviceId"`
	AddonIDs  []int64 `json:"addonIds,omitempty"`
}

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	BuildingName *string `json:"buildingName,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Category      *string          `json:"category,omitempty"` // "private", "commercial"
	Customer      CustomerRequest  `json:"customer"`
	PaymentMethod string           `json:"paymentMethod"`
	Date          string           `json:"date"` // "2026-03-15"
	Slot          string           `json:"slot"` // "MORNING", "AFTERNOON", "EVENING"
	Vehicles      []VehicleRequest `json:"vehicles"`
	DiscountCode  *string          `json:"discountCode,omitempty"`
}

// BulkCreateBookingRequest HTTP request model для пакетного создания
type BulkCreateBookingRequest struct {
	Bookings []CreateBookingRequest `json:"bookings"`
}

// VehicleResponse автомобиль в ответе, с ценой-снимком
type VehicleResponse struct {
	Type      string  `json:"type"`
	Number    string  `json:"number"`
	Model     string  `json:"model"`
	CC        string  `json:"cc,omitempty"`
	ServiceID int64   `json:"serviceId"`
	AddonIDs  []int64 `json:"addonIds,omitempty"`
	Price     float64 `json:"price"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64             `json:"id"`
	BookingNumber string            `json:"bookingNumber"`
	UserID        int64             `json:"userId"`
	Category      *string           `json:"category,omitempty"`
	Slot          string            `json:"slot"`
	Date          string            `json:"date"`
	Status        string            `json:"status"`
	Vehicles      []VehicleResponse `json:"vehicles"`
	PaymentMethod string            `json:"paymentMethod"`
	PaymentStatus string            `json:"paymentStatus"`
	Subtotal      float64           `json:"subtotal"`
	Discount      float64           `json:"discount"`
	DiscountCode  *string           `json:"discountCode,omitempty"`
	TotalAmount   float64           `json:"totalAmount"`
	IsBulk        bool              `json:"isBulk"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

// BulkBookingResponse HTTP response model для пакетного создания
type BulkBookingResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	vehicles := make([]createBooking.VehicleRequest, len(r.Vehicles))
	for i, v := range r.Vehicles {
		vehicles[i] = createBooking.VehicleRequest{
			Type:      domain.VehicleType(v.Type),
			Number:    v.Number,
			Model:     v.Model,
			CC:        v.CC,
			ServiceID: v.ServiceID,
			AddonIDs:  v.AddonIDs,
		}
	}

	var category *domain.BookingCategory
	if r.Category != nil {
		c := domain.BookingCategory(*r.Category)
		category = &c
	}

	return &createBooking.Request{
		UserID:   userID,
		Category: category,
		Customer: createBooking.CustomerRequest{
			Name:         r.Customer.Name,
			Phone:        r.Customer.Phone,
			Address:      r.Customer.Address,
			BuildingName: r.Customer.BuildingName,
		},
		PaymentMethod: r.PaymentMethod,
		Date:          date,
		Slot:          domain.Slot(r.Slot),
		Vehicles:      vehicles,
		DiscountCode:  r.DiscountCode,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	vehicles := make([]VehicleResponse, len(resp.Vehicles))
	for i, v := range resp.Vehicles {
		vehicles[i] = VehicleResponse{
			Type:      string(v.Type),
			Number:    v.Number,
			Model:     v.Model,
			CC:        v.CC,
			ServiceID: v.ServiceID,
			AddonIDs:  v.AddonIDs,
			Price:     v.Price,
		}
	}

	var category *string
	if resp.Category != nil {
		c := string(*resp.Category)
		category = &c
	}

	return &BookingResponse{
		ID:            resp.ID,
		BookingNumber: resp.BookingNumber,
		UserID:        resp.UserID,
		Category:      category,
		Slot:          string(resp.Slot),
		Date:          resp.Date.Format(domain.DateFormat),
		Status:        string(resp.Status),
		Vehicles:      vehicles,
		PaymentMethod: resp.PaymentMethod,
		PaymentStatus: string(resp.PaymentStatus),
		Subtotal:      resp.Subtotal,
		Discount:      resp.Discount,
		DiscountCode:  resp.DiscountCode,
		TotalAmount:   resp.TotalAmount,
		IsBulk:        resp.IsBulk,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
