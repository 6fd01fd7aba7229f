package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWB-BookingService/internal/domain"
	"github.com/m04kA/CWB-BookingService/internal/infra/notify"
	discountRepo "github.com/m04kA/CWB-BookingService/internal/infra/storage/discount"
	"github.com/m04kA/CWB-BookingService/internal/integrations/catalogservice"
	"github.com/m04kA/CWB-BookingService/pkg/ptr"
)

// Моки

type mockBookingRepo struct {
	createFn        func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	getActiveFn     func(ctx context.Context, date time.Time, slot domain.Slot) ([]*domain.Booking, error)
	createdBookings []*domain.Booking
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = int64(len(m.createdBookings) + 1)
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	m.createdBookings = append(m.createdBookings, booking)
	return booking, nil
}

func (m *mockBookingRepo) GetActiveBySlot(ctx context.Context, date time.Time, slot domain.Slot) ([]*domain.Booking, error) {
	if m.getActiveFn != nil {
		return m.getActiveFn(ctx, date, slot)
	}
	return nil, nil
}

type mockDiscountRepo struct {
	getByCodeFn      func(ctx context.Context, code string) (*domain.Discount, error)
	incrementUsageFn func(ctx context.Context, id int64) error
	incrementCalls   int
}

func (m *mockDiscountRepo) GetByCode(ctx context.Context, code string) (*domain.Discount, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, discountRepo.ErrDiscountNotFound
}

func (m *mockDiscountRepo) IncrementUsage(ctx context.Context, id int64) error {
	m.incrementCalls++
	if m.incrementUsageFn != nil {
		return m.incrementUsageFn(ctx, id)
	}
	return nil
}

type mockCatalogClient struct {
	services map[int64]*catalogservice.Service
	addons   map[int64]catalogservice.Addon
}

func (m *mockCatalogClient) GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	service, ok := m.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return service, nil
}

func (m *mockCatalogClient) GetAddons(ctx context.Context, addonIDs []int64) ([]catalogservice.Addon, error) {
	result := make([]catalogservice.Addon, 0, len(addonIDs))
	for _, id := range addonIDs {
		if addon, ok := m.addons[id]; ok {
			result = append(result, addon)
		}
	}
	return result, nil
}

type mockNotifier struct {
	created []notify.BookingCreatedEvent
}

func (m *mockNotifier) BookingCreated(ctx context.Context, event notify.BookingCreatedEvent) {
	m.created = append(m.created, event)
}

type staticCapacity int

func (c staticCapacity) CapacityFor(slot domain.Slot) int { return int(c) }

type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Сборка use case с дефолтными моками

type testEnv struct {
	uc        *UseCase
	bookings  *mockBookingRepo
	discounts *mockDiscountRepo
	catalog   *mockCatalogClient
	notifier  *mockNotifier
}

func newTestEnv(capacity int) *testEnv {
	env := &testEnv{
		bookings:  &mockBookingRepo{},
		discounts: &mockDiscountRepo{},
		catalog: &mockCatalogClient{
			services: map[int64]*catalogservice.Service{
				1: {ID: 1, Name: "Базовая мойка", Price: 100, Active: true},
				2: {ID: 2, Name: "Детейлинг", Price: 300, Active: true},
				3: {ID: 3, Name: "Снятая с продажи", Price: 50, Active: false},
			},
			addons: map[int64]catalogservice.Addon{
				10: {ID: 10, Name: "Воск", Price: 20, Active: true},
				11: {ID: 11, Name: "Старый воск", Price: 15, Active: false},
			},
		},
		notifier: &mockNotifier{},
	}

	env.uc = NewUseCase(
		env.bookings,
		env.discounts,
		env.catalog,
		staticCapacity(capacity),
		inlineTxManager{},
		env.notifier,
		nopLogger{},
	)
	env.uc.timeProvider = fixedTimeProvider{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	return env
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(10)

	req := validRequest()
	req.Vehicles[0].AddonIDs = []int64{10, 11}

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Цена: услуга 100 + активное дополнение 20; неактивное исключается
	assert.InDelta(t, 120.0, resp.Subtotal, 0.001)
	assert.InDelta(t, 0.0, resp.Discount, 0.001)
	assert.InDelta(t, 120.0, resp.TotalAmount, 0.001)

	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, domain.PaymentUnpaid, resp.PaymentStatus)
	assert.Regexp(t, `^CWB-20260310090000-\d{4}$`, resp.BookingNumber)
	assert.False(t, resp.IsBulk)

	require.Len(t, env.notifier.created, 1)
	assert.Equal(t, resp.BookingNumber, env.notifier.created[0].BookingNumber)
}

func TestExecute_VolumeDiscount(t *testing.T) {
	env := newTestEnv(10)

	req := validRequest()
	req.Vehicles = []VehicleRequest{
		{Type: domain.VehicleFourWheeler, Number: "A111AA", ServiceID: 1},
		{Type: domain.VehicleFourWheeler, Number: "B222BB", ServiceID: 2},
	}

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 2 автомобиля: 5% от суммы заказа 400
	assert.InDelta(t, 400.0, resp.Subtotal, 0.001)
	assert.InDelta(t, 20.0, resp.Discount, 0.001)
	assert.InDelta(t, 380.0, resp.TotalAmount, 0.001)
	assert.True(t, resp.IsBulk)
}

func TestExecute_CouponBeatsVolumeDiscount(t *testing.T) {
	env := newTestEnv(10)
	env.discounts.getByCodeFn = func(ctx context.Context, code string) (*domain.Discount, error) {
		return &domain.Discount{ID: 7, Code: "WASH50", Type: domain.DiscountFixed, Value: 50, Active: true, UsageLimit: 10}, nil
	}

	req := validRequest()
	req.Vehicles = []VehicleRequest{
		{Type: domain.VehicleFourWheeler, Number: "A111AA", ServiceID: 1},
		{Type: domain.VehicleFourWheeler, Number: "B222BB", ServiceID: 1},
	}
	req.DiscountCode = ptr.Ptr("wash50")

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Промокод 50 против объёмной 5% от 200 = 10: применяется промокод
	assert.InDelta(t, 50.0, resp.Discount, 0.001)
	assert.InDelta(t, 150.0, resp.TotalAmount, 0.001)
	require.NotNil(t, resp.DiscountCode)
	assert.Equal(t, "WASH50", *resp.DiscountCode)
	assert.Equal(t, 1, env.discounts.incrementCalls)
}

func TestExecute_VolumeBeatsCoupon(t *testing.T) {
	env := newTestEnv(10)
	env.discounts.getByCodeFn = func(ctx context.Context, code string) (*domain.Discount, error) {
		return &domain.Discount{ID: 7, Code: "SMALL5", Type: domain.DiscountFixed, Value: 5, Active: true}, nil
	}

	req := validRequest()
	req.Vehicles = []VehicleRequest{
		{Type: domain.VehicleFourWheeler, Number: "A111AA", ServiceID: 2},
		{Type: domain.VehicleFourWheeler, Number: "B222BB", ServiceID: 2},
		{Type: domain.VehicleFourWheeler, Number: "C333CC", ServiceID: 2},
	}
	req.DiscountCode = ptr.Ptr("SMALL5")

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Объёмная 10% от 900 = 90 выгоднее промокода 5: промокод не расходуется
	assert.InDelta(t, 90.0, resp.Discount, 0.001)
	assert.Nil(t, resp.DiscountCode)
	assert.Equal(t, 0, env.discounts.incrementCalls)
}

func TestExecute_DiscountNotFound(t *testing.T) {
	env := newTestEnv(10)

	req := validRequest()
	req.DiscountCode = ptr.Ptr("NOPE")

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
	assert.Empty(t, env.bookings.createdBookings)
}

func TestExecute_DiscountExpired(t *testing.T) {
	env := newTestEnv(10)
	expired := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	env.discounts.getByCodeFn = func(ctx context.Context, code string) (*domain.Discount, error) {
		return &domain.Discount{ID: 7, Code: "OLD", Type: domain.DiscountFixed, Value: 50, Active: true, ValidTo: &expired}, nil
	}

	req := validRequest()
	req.DiscountCode = ptr.Ptr("OLD")

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDiscountNotApplicable)
	assert.ErrorIs(t, err, domain.ErrDiscountExpired)
	assert.Empty(t, env.bookings.createdBookings)
}

func TestExecute_CouponUsageRaceLoserFails(t *testing.T) {
	env := newTestEnv(10)
	env.discounts.getByCodeFn = func(ctx context.Context, code string) (*domain.Discount, error) {
		return &domain.Discount{ID: 7, Code: "LAST1", Type: domain.DiscountFixed, Value: 50, Active: true, UsageLimit: 1}, nil
	}
	env.discounts.incrementUsageFn = func(ctx context.Context, id int64) error {
		return discountRepo.ErrUsageLimitReached
	}

	req := validRequest()
	req.DiscountCode = ptr.Ptr("LAST1")

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDiscountNotApplicable)
	assert.ErrorIs(t, err, domain.ErrDiscountUsageLimitReached)
	assert.Empty(t, env.bookings.createdBookings)
}

func TestExecute_SlotCapacityExceeded(t *testing.T) {
	env := newTestEnv(1)
	env.bookings.getActiveFn = func(ctx context.Context, date time.Time, slot domain.Slot) ([]*domain.Booking, error) {
		return []*domain.Booking{slotBooking(domain.StatusPending, "X001XX")}, nil
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotCapacityExceeded)
	assert.Empty(t, env.bookings.createdBookings)
	assert.Empty(t, env.notifier.created)
}

func TestExecute_VehicleAlreadyBooked(t *testing.T) {
	env := newTestEnv(10)
	env.bookings.getActiveFn = func(ctx context.Context, date time.Time, slot domain.Slot) ([]*domain.Booking, error) {
		return []*domain.Booking{slotBooking(domain.StatusAssigned, "A123BC")}, nil
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrVehicleAlreadyBooked)
}

func TestExecute_InactiveService(t *testing.T) {
	env := newTestEnv(10)

	req := validRequest()
	req.Vehicles[0].ServiceID = 3

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidService)
}

func TestExecute_UnknownService(t *testing.T) {
	env := newTestEnv(10)

	req := validRequest()
	req.Vehicles[0].ServiceID = 99

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidService)
}

func TestExecuteBulk_AllOrNothing(t *testing.T) {
	env := newTestEnv(2)

	first := validRequest()
	second := validRequest()
	second.Vehicles = []VehicleRequest{
		{Type: domain.VehicleFourWheeler, Number: "B456DE", ServiceID: 1},
		{Type: domain.VehicleFourWheeler, Number: "C789FG", ServiceID: 1},
	}

	// Первое под-бронирование занимает 1 место из 2, второму нужно 2
	_, err := env.uc.ExecuteBulk(context.Background(), []*Request{first, second})
	assert.ErrorIs(t, err, ErrSlotCapacityExceeded)
	assert.Empty(t, env.notifier.created)
}

func TestExecuteBulk_Success(t *testing.T) {
	env := newTestEnv(10)

	first := validRequest()
	second := validRequest()
	second.Vehicles = []VehicleRequest{
		{Type: domain.VehicleFourWheeler, Number: "B456DE", ServiceID: 2},
	}

	responses, err := env.uc.ExecuteBulk(context.Background(), []*Request{first, second})
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.Len(t, env.bookings.createdBookings, 2)
	assert.Len(t, env.notifier.created, 2)
}

func TestExecuteBulk_DuplicateVehicleAcrossBatch(t *testing.T) {
	env := newTestEnv(10)

	first := validRequest()
	second := validRequest() // тот же номер A123BC в тот же слот

	_, err := env.uc.ExecuteBulk(context.Background(), []*Request{first, second})
	assert.ErrorIs(t, err, ErrVehicleAlreadyBooked)
	assert.Empty(t, env.notifier.created)
}

func TestExecuteBulk_EmptyBatch(t *testing.T) {
	env := newTestEnv(10)

	_, err := env.uc.ExecuteBulk(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteBulk_TooManyBookings(t *testing.T) {
	env := newTestEnv(100)

	reqs := make([]*Request, domain.MaxBookingsPerBulkRequest+1)
	for i := range reqs {
		reqs[i] = validRequest()
	}

	_, err := env.uc.ExecuteBulk(context.Background(), reqs)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
