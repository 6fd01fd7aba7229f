package domain

import "time"

// Slot временной слот мойки в течение дня
type Slot string

const (
	SlotMorning   Slot = "MORNING"
	SlotAfternoon Slot = "AFTERNOON"
	SlotEvening   Slot = "EVENING"
)

// IsValid проверяет, что слот один из трёх допустимых
func (s Slot) IsValid() bool {
	return s == SlotMorning || s == SlotAfternoon || s == SlotEvening
}

// BookingCategory категория бронирования
type BookingCategory string

const (
	CategoryPrivate    BookingCategory = "private"
	CategoryCommercial BookingCategory = "commercial"
)

// VehicleType тип транспортного средства
type VehicleType string

const (
	VehicleTwoWheeler  VehicleType = "2W"
	VehicleFourWheeler VehicleType = "4W"
	VehicleCab         VehicleType = "CAB"
)

// Vehicle транспортное средство в составе бронирования
// Value object: живет только внутри Booking, собственной идентичности не имеет
// Price - снимок цены на момент создания бронирования (цена услуги + цены активных дополнений), не изменяется
type Vehicle struct {
	Type      VehicleType `json:"type"`
	Number    string      `json:"number"`
	Model     string      `json:"model"`
	CC        string      `json:"cc"`
	ServiceID int64       `json:"serviceId"`
	AddonIDs  []int64     `json:"addonIds"`
	Price     float64     `json:"price"`
}

// Payment встроенные платежные данные бронирования
// Value object без собственного жизненного цикла
type Payment struct {
	Method        string
	Status        PaymentStatus
	TransactionID *string
}

// CustomerInfo снимок контактных данных клиента на момент бронирования
type CustomerInfo struct {
	Name         string
	Phone        string
	Address      string
	BuildingName *string
}

// Booking бронирование мойки одного или нескольких автомобилей на дату и слот
type Booking struct {
	ID            int64
	BookingNumber string // Внешний идентификатор, генерируется при создании, не переиспользуется
	UserID        int64
	Category      *BookingCategory
	Customer      CustomerInfo
	Vehicles      []Vehicle
	Slot          Slot
	SlotDate      time.Time // Только дата, сравнивается строго на равенство
	Status        BookingStatus
	TechnicianID  *int64
	Payment       Payment
	TotalAmount   float64 // Итог после вычета скидки
	Discount      float64 // Абсолютная сумма скидки
	DiscountCode  *string
	IsBulk        bool // Вычисляется при записи из числа автомобилей
	RefundReason  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VehicleCount возвращает число автомобилей в бронировании
func (b *Booking) VehicleCount() int {
	return len(b.Vehicles)
}

// VehicleNumbers возвращает регистрационные номера автомобилей бронирования
func (b *Booking) VehicleNumbers() []string {
	numbers := make([]string, 0, len(b.Vehicles))
	for _, v := range b.Vehicles {
		numbers = append(numbers, v.Number)
	}
	return numbers
}

// IsActive возвращает true, если бронирование занимает место в слоте
// Отмененные бронирования не учитываются при подсчете занятости
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelledByCustomer возвращает true, если клиент может отменить бронирование
// Клиентская отмена разрешена только из статуса PENDING
func (b *Booking) CanBeCancelledByCustomer() bool {
	return b.Status == StatusPending
}

// IsImmutable возвращает true, если бронирование завершено и заморожено
// После COMPLETED допустим только перевод платежа в REFUND_INITIATED
func (b *Booking) IsImmutable() bool {
	return b.Status == StatusCompleted
}
