package assign_technician

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/internal/infra/notify"
	storageBooking "github.com/m04kA/CWB-BookingService/internal/infra/storage/booking"
	storageTechnician "github.com/m04kA/CWB-BookingService/internal/infra/storage/technician"
)

type mockBookingRepo struct {
	getByNumberFn      func(ctx context.Context, bookingNumber string) (*domain.Booking, error)
	assignTechnicianFn func(ctx context.Context, id int64, technicianID int64) error
	assignCalls        int
}

func (m *mockBookingRepo) GetByNumber(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
	return m.getByNumberFn(ctx, bookingNumber)
}

func (m *mockBookingRepo) AssignTechnician(ctx context.Context, id int64, technicianID int64) error {
	m.assignCalls++
	if m.assignTechnicianFn != nil {
		return m.assignTechnicianFn(ctx, id, technicianID)
	}
	return nil
}

type mockTechnicianRepo struct {
	getByIDFn    func(ctx context.Context, id int64) (*domain.Technician, error)
	appendSlotFn func(ctx context.Context, technicianID int64, date time.Time, slot domain.Slot, bookingID int64) error
	appendCalls  int
}

func (m *mockTechnicianRepo) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTechnicianRepo) AppendAssignedSlot(ctx context.Context, technicianID int64, date time.Time, slot domain.Slot, bookingID int64) error {
	m.appendCalls++
	if m.appendSlotFn != nil {
		return m.appendSlotFn(ctx, technicianID, date, slot, bookingID)
	}
	return nil
}

type mockNotifier struct {
	assigned []notify.BookingAssignedEvent
}

func (m *mockNotifier) BookingAssigned(ctx context.Context, event notify.BookingAssignedEvent) {
	m.assigned = append(m.assigned, event)
}

type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var slotDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            5,
		BookingNumber: "CWB-20260310090000-0001",
		UserID:        42,
		Slot:          domain.SlotMorning,
		SlotDate:      slotDate,
		Status:        domain.StatusPending,
	}
}

func activeTechnician() *domain.Technician {
	return &domain.Technician{ID: 3, Name: "Сергей", Active: true}
}

func TestExecute_Success(t *testing.T) {
	bookings := &mockBookingRepo{
		getByNumberFn: func(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
			return pendingBooking(), nil
		},
	}
	technicians := &mockTechnicianRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Technician, error) {
			return activeTechnician(), nil
		},
	}
	notifier := &mockNotifier{}

	uc := NewUseCase(bookings, technicians, inlineTxManager{}, notifier, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookingNumber: "CWB-20260310090000-0001",
		TechnicianID:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAssigned, resp.Status)
	assert.Equal(t, int64(3), resp.TechnicianID)
	assert.Equal(t, "Сергей", resp.TechnicianName)
	assert.Equal(t, 1, technicians.appendCalls)
	assert.Equal(t, 1, bookings.assignCalls)

	require.Len(t, notifier.assigned, 1)
	assert.Equal(t, "Сергей", notifier.assigned[0].TechnicianName)
	assert.Equal(t, int64(42), notifier.assigned[0].UserID)
}

func TestExecute_BookingNotFound(t *testing.T) {
	bookings := &mockBookingRepo{
		getByNumberFn: func(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
			return nil, storageBooking.ErrBookingNotFound
		},
	}

	uc := NewUseCase(bookings, &mockTechnicianRepo{}, inlineTxManager{}, &mockNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingNumber: "CWB-X", TechnicianID: 3})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_BookingNotPending(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusAssigned, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled,
	} {
		bookings := &mockBookingRepo{
			getByNumberFn: func(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
				b := pendingBooking()
				b.Status = status
				return b, nil
			},
		}

		uc := NewUseCase(bookings, &mockTechnicianRepo{}, inlineTxManager{}, &mockNotifier{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{BookingNumber: "CWB-X", TechnicianID: 3})
		assert.ErrorIs(t, err, ErrBookingNotAssignable, "status %s", status)
	}
}

func TestExecute_TechnicianNotFound(t *testing.T) {
	bookings := &mockBookingRepo{
		getByNumberFn: func(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
			return pendingBooking(), nil
		},
	}
	technicians := &mockTechnicianRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Technician, error) {
			return nil, storageTechnician.ErrTechnicianNotFound
		},
	}

	uc := NewUseCase(bookings, technicians, inlineTxManager{}, &mockNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingNumber: "CWB-X", TechnicianID: 99})
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
}

func TestExecute_TechnicianInactive(t *testing.T) {
	bookings := &mockBookingRepo{
		getByNumberFn: func(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
			return pendingBooking(), nil
		},
	}
	technicians := &mockTechnicianRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Technician, error) {
			tech := activeTechnician()
			tech.Active = false
			return tech, nil
		},
	}

	uc := NewUseCase(bookings, technicians, inlineTxManager{}, &mockNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingNumber: "CWB-X", TechnicianID: 3})
	assert.ErrorIs(t, err, ErrTechnicianInactive)
}

func TestExecute_TechnicianBusyOnSlot(t *testing.T) {
	bookings := &mockBookingRepo{
		getByNumberFn: func(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
			return pendingBooking(), nil
		},
	}
	technicians := &mockTechnicianRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Technician, error) {
			tech := activeTechnician()
			tech.AssignedSlots = []domain.AssignedSlot{
				{SlotDate: slotDate, Slot: domain.SlotMorning, BookingID: 77},
			}
			return tech, nil
		},
	}

	uc := NewUseCase(bookings, technicians, inlineTxManager{}, &mockNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingNumber: "CWB-X", TechnicianID: 3})
	assert.ErrorIs(t, err, ErrSlotAlreadyAssigned)
	assert.Equal(t, 0, technicians.appendCalls)
}

// Два конкурентных назначения: ранняя проверка по загруженным слотам прошла,
// но вставка в technician_slots упёрлась в уникальный индекс
func TestExecute_ConcurrentAssignmentLosesOnInsert(t *testing.T) {
	bookings := &mockBookingRepo{
		getByNumberFn: func(ctx context.Context, bookingNumber string) (*domain.Booking, error) {
			return pendingBooking(), nil
		},
	}
	technicians := &mockTechnicianRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Technician, error) {
			return activeTechnician(), nil
		},
		appendSlotFn: func(ctx context.Context, technicianID int64, date time.Time, slot domain.Slot, bookingID int64) error {
			return storageTechnician.ErrSlotAlreadyAssigned
		},
	}
	notifier := &mockNotifier{}

	uc := NewUseCase(bookings, technicians, inlineTxManager{}, notifier, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingNumber: "CWB-X", TechnicianID: 3})
	assert.ErrorIs(t, err, ErrSlotAlreadyAssigned)
	assert.Equal(t, 0, bookings.assignCalls)
	assert.Empty(t, notifier.assigned)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&mockBookingRepo{}, &mockTechnicianRepo{}, inlineTxManager{}, &mockNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingNumber: "", TechnicianID: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingNumber: "CWB-X", TechnicianID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
