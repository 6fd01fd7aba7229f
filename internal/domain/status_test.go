package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to assigned", StatusPending, StatusAssigned, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to in_progress", StatusPending, StatusInProgress, false},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"assigned to in_progress", StatusAssigned, StatusInProgress, true},
		{"assigned to cancelled", StatusAssigned, StatusCancelled, true},
		{"assigned to completed", StatusAssigned, StatusCompleted, false},
		{"assigned to pending", StatusAssigned, StatusPending, false},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"completed to pending", StatusCompleted, StatusPending, false},
		{"cancelled to pending", StatusCancelled, StatusPending, false},
		{"cancelled to assigned", StatusCancelled, StatusAssigned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAssigned.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestBookingStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.False(t, BookingStatus("UNKNOWN").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"unpaid to paid", PaymentUnpaid, PaymentPaid, true},
		{"unpaid to failed", PaymentUnpaid, PaymentFailed, true},
		{"unpaid to refund_initiated", PaymentUnpaid, PaymentRefundInitiated, false},
		{"paid to refund_initiated", PaymentPaid, PaymentRefundInitiated, true},
		{"paid to unpaid", PaymentPaid, PaymentUnpaid, false},
		{"paid to refunded", PaymentPaid, PaymentRefunded, false},
		{"refund_initiated to refunded", PaymentRefundInitiated, PaymentRefunded, true},
		{"refund_initiated to paid", PaymentRefundInitiated, PaymentPaid, false},
		{"failed to paid", PaymentFailed, PaymentPaid, false},
		{"refunded to paid", PaymentRefunded, PaymentPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.True(t, PaymentFailed.IsTerminal())
	assert.True(t, PaymentRefunded.IsTerminal())
	assert.False(t, PaymentUnpaid.IsTerminal())
	assert.False(t, PaymentPaid.IsTerminal())
	assert.False(t, PaymentRefundInitiated.IsTerminal())
}
