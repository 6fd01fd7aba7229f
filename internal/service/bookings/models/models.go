package models

import (
	"errors"
	"time"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе бронирования
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentStatus возвращается при некорректном статусе платежа
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Request модели

// CancelBookingRequest запрос клиента на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования (операторский)
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"` // Обязателен при переводе в CANCELLED
}

// UpdatePaymentRequest запрос на обновление статуса платежа
type UpdatePaymentRequest struct {
	Method        *string `json:"method,omitempty"` // Если не задан, сохраняется текущий способ оплаты
	Status        string  `json:"status"`
	TransactionID *string `json:"transactionId,omitempty"`
}

// RefundRequest запрос на инициацию возврата средств
type RefundRequest struct {
	Reason string `json:"reason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// VehicleResponse автомобиль в составе бронирования
type VehicleResponse struct {
	Type      string  `json:"type"`
	Number    string  `json:"number"`
	Model     string  `json:"model"`
	CC        string  `json:"cc,omitempty"`
	ServiceID int64   `json:"serviceId"`
	AddonIDs  []int64 `json:"addonIds,omitempty"`
	Price     float64 `json:"price"`
}

// CustomerResponse контактные данные клиента
type CustomerResponse struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	BuildingName *string `json:"buildingName,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64             `json:"id"`
	BookingNumber string            `json:"bookingNumber"`
	UserID        int64             `json:"userId"`
	Category      *string           `json:"category,omitempty"`
	Customer      CustomerResponse  `json:"customer"`
	Vehicles      []VehicleResponse `json:"vehicles"`
	Slot          string            `json:"slot"`
	Date          string            `json:"date"` // "2026-03-15"
	Status        string            `json:"status"`
	TechnicianID  *int64            `json:"technicianId,omitempty"`
	PaymentMethod string            `json:"paymentMethod"`
	PaymentStatus string            `json:"paymentStatus"`
	TransactionID *string           `json:"transactionId,omitempty"`
	TotalAmount   float64           `json:"totalAmount"`
	Discount      float64           `json:"discount"`
	DiscountCode  *string           `json:"discountCode,omitempty"`
	IsBulk        bool              `json:"isBulk"`
	RefundReason  *string           `json:"refundReason,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	vehicles := make([]VehicleResponse, len(b.Vehicles))
	for i, v := range b.Vehicles {
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

	resp := &BookingResponse{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		UserID:        b.UserID,
		Customer: CustomerResponse{
			Name:         b.Customer.Name,
			Phone:        b.Customer.Phone,
			Address:      b.Customer.Address,
			BuildingName: b.Customer.BuildingName,
		},
		Vehicles:      vehicles,
		Slot:          string(b.Slot),
		Date:          b.SlotDate.Format(domain.DateFormat),
		Status:        string(b.Status),
		TechnicianID:  b.TechnicianID,
		PaymentMethod: b.Payment.Method,
		PaymentStatus: string(b.Payment.Status),
		TransactionID: b.Payment.TransactionID,
		TotalAmount:   b.TotalAmount,
		Discount:      b.Discount,
		DiscountCode:  b.DiscountCode,
		IsBulk:        b.IsBulk,
		RefundReason:  b.RefundReason,

		CancellationReason: b.CancellationReason,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.Category != nil {
		category := string(*b.Category)
		resp.Category = &category
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToDomainPaymentStatus конвертирует строку в domain.PaymentStatus с валидацией
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidPaymentStatus
	}
	return s, nil
}
