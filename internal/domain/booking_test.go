package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingIsActive(t *testing.T) {
	for _, status := range []BookingStatus{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted} {
		b := &Booking{Status: status}
		assert.True(t, b.IsActive(), "status %s must occupy slot capacity", status)
	}

	cancelled := &Booking{Status: StatusCancelled}
	assert.False(t, cancelled.IsActive())
}

func TestBookingCanBeCancelledByCustomer(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeCancelledByCustomer())
	assert.False(t, (&Booking{Status: StatusAssigned}).CanBeCancelledByCustomer())
	assert.False(t, (&Booking{Status: StatusInProgress}).CanBeCancelledByCustomer())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelledByCustomer())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelledByCustomer())
}

func TestTechnicianHasSlot(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tech := &Technician{
		AssignedSlots: []AssignedSlot{
			{SlotDate: date, Slot: SlotMorning, BookingID: 1},
		},
	}

	assert.True(t, tech.HasSlot(date, SlotMorning))
	assert.False(t, tech.HasSlot(date, SlotAfternoon))
	assert.False(t, tech.HasSlot(date.AddDate(0, 0, 1), SlotMorning))

	// Время суток не влияет на сравнение дат
	assert.True(t, tech.HasSlot(date.Add(13*time.Hour), SlotMorning))
}

func TestNewBookingNumber(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 30, 45, 0, time.UTC)

	number := NewBookingNumber(now)
	assert.Regexp(t, `^CWB-20260315093045-\d{4}$`, number)
}
