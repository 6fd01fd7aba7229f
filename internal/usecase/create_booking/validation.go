package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Customer.Phone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Customer.Address) == "" {
		return fmt.Errorf("%w: customer address is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PaymentMethod) == "" {
		return fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !req.Slot.IsValid() {
		return fmt.Errorf("%w: unknown slot %q", ErrInvalidInput, req.Slot)
	}

	if req.Category != nil && *req.Category != domain.CategoryPrivate && *req.Category != domain.CategoryCommercial {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *req.Category)
	}

	if len(req.Vehicles) == 0 {
		return fmt.Errorf("%w: at least one vehicle is required", ErrInvalidInput)
	}

	if len(req.Vehicles) > domain.MaxVehiclesPerBooking {
		return fmt.Errorf("%w: at most %d vehicles per booking", ErrInvalidInput, domain.MaxVehiclesPerBooking)
	}

	for i, v := range req.Vehicles {
		if v.Type != domain.VehicleTwoWheeler && v.Type != domain.VehicleFourWheeler && v.Type != domain.VehicleCab {
			return fmt.Errorf("%w: vehicle %d has unknown type %q", ErrInvalidInput, i, v.Type)
		}
		if strings.TrimSpace(v.Number) == "" {
			return fmt.Errorf("%w: vehicle %d has empty registration number", ErrInvalidInput, i)
		}
		if v.ServiceID <= 0 {
			return fmt.Errorf("%w: vehicle %d has invalid serviceID", ErrInvalidInput, i)
		}
	}

	return nil
}

// normalizeVehicleNumber приводит регистрационный номер к канонической форме
func normalizeVehicleNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// checkRequestDuplicates проверяет отсутствие повторов номеров внутри запроса
func checkRequestDuplicates(vehicles []VehicleRequest) error {
	seen := make(map[string]struct{}, len(vehicles))
	for _, v := range vehicles {
		number := normalizeVehicleNumber(v.Number)
		if _, ok := seen[number]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateVehicle, number)
		}
		seen[number] = struct{}{}
	}
	return nil
}

// occupiedVehicleCount возвращает суммарное число автомобилей
// в неотмененных бронированиях слота
func occupiedVehicleCount(bookings []*domain.Booking) int {
	count := 0
	for _, b := range bookings {
		if b.IsActive() {
			count += b.VehicleCount()
		}
	}
	return count
}

// checkSlotAdmission выполняет допуск запроса в слот:
// (a) ни один из запрошенных номеров не занят существующим неотмененным
// бронированием слота и не добавлен ранее в этом же батче;
// (b) суммарная занятость слота с учетом запроса не превышает вместимость
//
// existing - бронирования слота, прочитанные с блокировкой внутри транзакции;
// batchNumbers и batchCount - номера и число автомобилей, добавленные
// предыдущими под-бронированиями текущего батча в этот же слот
func checkSlotAdmission(
	existing []*domain.Booking,
	requested []string,
	capacity int,
	batchNumbers map[string]struct{},
	batchCount int,
) error {
	booked := make(map[string]struct{})
	for _, b := range existing {
		if !b.IsActive() {
			continue
		}
		for _, number := range b.VehicleNumbers() {
			booked[normalizeVehicleNumber(number)] = struct{}{}
		}
	}

	for _, number := range requested {
		if _, ok := booked[number]; ok {
			return fmt.Errorf("%w: %s", ErrVehicleAlreadyBooked, number)
		}
		if _, ok := batchNumbers[number]; ok {
			return fmt.Errorf("%w: %s", ErrVehicleAlreadyBooked, number)
		}
	}

	occupied := occupiedVehicleCount(existing) + batchCount
	if occupied+len(requested) > capacity {
		return fmt.Errorf("%w: %d of %d spots taken, %d requested",
			ErrSlotCapacityExceeded, occupied, capacity, len(requested))
	}

	return nil
}
