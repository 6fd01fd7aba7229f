package domain

// Default configuration values
const (
	DefaultSlotCapacity = 10
)

// Business validation constants
const (
	MinSlotCapacity             = 1
	MaxSlotCapacity             = 100
	MaxVehiclesPerBooking       = 10
	MaxBookingsPerBulkRequest   = 20
	MaxCancellationReasonLength = 500
	MaxRefundReasonLength       = 500
)

// Volume discount tiers: процент скидки по числу автомобилей в одном бронировании
// 1 автомобиль - 0%, ровно 2 - 5%, 3 и более - 10%
// Скидка считается от суммы заказа, не по каждому автомобилю
const (
	VolumeDiscountPairPercent = 5
	VolumeDiscountBulkPercent = 10
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllSlots все слоты в порядке следования в течение дня
var AllSlots = []Slot{SlotMorning, SlotAfternoon, SlotEvening}

// VolumeDiscountPercent возвращает процент объёмной скидки для указанного числа автомобилей
func VolumeDiscountPercent(vehicleCount int) int {
	switch {
	case vehicleCount >= 3:
		return VolumeDiscountBulkPercent
	case vehicleCount == 2:
		return VolumeDiscountPairPercent
	default:
		return 0
	}
}
