package create_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/CWB-BookingService/internal/domain"
)

func validRequest() *Request {
	return &Request{
		UserID: 42,
		Customer: CustomerRequest{
			Name:    "Иван Петров",
			Phone:   "+79001234567",
			Address: "ул. Ленина, 1",
		},
		PaymentMethod: "card",
		Date:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Slot:          domain.SlotMorning,
		Vehicles: []VehicleRequest{
			{Type: domain.VehicleFourWheeler, Number: "A123BC", Model: "Lada Vesta", ServiceID: 1},
		},
	}
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateRequest(validRequest()))
	})

	t.Run("missing user", func(t *testing.T) {
		req := validRequest()
		req.UserID = 0
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("missing customer name", func(t *testing.T) {
		req := validRequest()
		req.Customer.Name = "  "
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("unknown slot", func(t *testing.T) {
		req := validRequest()
		req.Slot = "NIGHT"
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("unknown category", func(t *testing.T) {
		req := validRequest()
		category := domain.BookingCategory("corporate")
		req.Category = &category
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("no vehicles", func(t *testing.T) {
		req := validRequest()
		req.Vehicles = nil
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("too many vehicles", func(t *testing.T) {
		req := validRequest()
		req.Vehicles = make([]VehicleRequest, domain.MaxVehiclesPerBooking+1)
		for i := range req.Vehicles {
			req.Vehicles[i] = VehicleRequest{Type: domain.VehicleFourWheeler, Number: "A123BC", ServiceID: 1}
		}
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("unknown vehicle type", func(t *testing.T) {
		req := validRequest()
		req.Vehicles[0].Type = "TRUCK"
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})

	t.Run("empty vehicle number", func(t *testing.T) {
		req := validRequest()
		req.Vehicles[0].Number = "  "
		assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
	})
}

func TestCheckRequestDuplicates(t *testing.T) {
	t.Run("no duplicates", func(t *testing.T) {
		vehicles := []VehicleRequest{
			{Number: "A123BC"},
			{Number: "B456DE"},
		}
		assert.NoError(t, checkRequestDuplicates(vehicles))
	})

	t.Run("duplicate after normalization", func(t *testing.T) {
		vehicles := []VehicleRequest{
			{Number: "A123BC"},
			{Number: " a123bc "},
		}
		assert.ErrorIs(t, checkRequestDuplicates(vehicles), ErrDuplicateVehicle)
	})
}

func slotBooking(status domain.BookingStatus, numbers ...string) *domain.Booking {
	vehicles := make([]domain.Vehicle, len(numbers))
	for i, n := range numbers {
		vehicles[i] = domain.Vehicle{Number: n}
	}
	return &domain.Booking{Status: status, Vehicles: vehicles}
}

func TestCheckSlotAdmission(t *testing.T) {
	t.Run("fits into empty slot", func(t *testing.T) {
		err := checkSlotAdmission(nil, []string{"A123BC"}, 10, map[string]struct{}{}, 0)
		assert.NoError(t, err)
	})

	t.Run("vehicle already booked in slot", func(t *testing.T) {
		existing := []*domain.Booking{slotBooking(domain.StatusPending, "A123BC")}
		err := checkSlotAdmission(existing, []string{"A123BC"}, 10, map[string]struct{}{}, 0)
		assert.ErrorIs(t, err, ErrVehicleAlreadyBooked)
	})

	t.Run("cancelled booking does not block vehicle", func(t *testing.T) {
		existing := []*domain.Booking{slotBooking(domain.StatusCancelled, "A123BC")}
		err := checkSlotAdmission(existing, []string{"A123BC"}, 10, map[string]struct{}{}, 0)
		assert.NoError(t, err)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		existing := []*domain.Booking{
			slotBooking(domain.StatusPending, "X001XX", "X002XX"),
			slotBooking(domain.StatusAssigned, "X003XX"),
		}
		err := checkSlotAdmission(existing, []string{"A123BC", "B456DE"}, 4, map[string]struct{}{}, 0)
		assert.ErrorIs(t, err, ErrSlotCapacityExceeded)
	})

	t.Run("exact capacity fits", func(t *testing.T) {
		existing := []*domain.Booking{slotBooking(domain.StatusPending, "X001XX", "X002XX")}
		err := checkSlotAdmission(existing, []string{"A123BC", "B456DE"}, 4, map[string]struct{}{}, 0)
		assert.NoError(t, err)
	})

	t.Run("cancelled bookings free capacity", func(t *testing.T) {
		existing := []*domain.Booking{
			slotBooking(domain.StatusCancelled, "X001XX", "X002XX", "X003XX"),
		}
		err := checkSlotAdmission(existing, []string{"A123BC"}, 1, map[string]struct{}{}, 0)
		assert.NoError(t, err)
	})

	t.Run("batch occupancy counts", func(t *testing.T) {
		batchNumbers := map[string]struct{}{"C789FG": {}}
		err := checkSlotAdmission(nil, []string{"A123BC"}, 1, batchNumbers, 1)
		assert.ErrorIs(t, err, ErrSlotCapacityExceeded)
	})

	t.Run("duplicate within batch", func(t *testing.T) {
		batchNumbers := map[string]struct{}{"A123BC": {}}
		err := checkSlotAdmission(nil, []string{"A123BC"}, 10, batchNumbers, 1)
		assert.ErrorIs(t, err, ErrVehicleAlreadyBooked)
	})
}
