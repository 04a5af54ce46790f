package trips

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/orbitalis/starbooking/internal/catalog"
	"github.com/orbitalis/starbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = "generated-id"
		booking.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockCancellationRepository struct {
	mock.Mock
}

func (m *MockCancellationRepository) Insert(ctx context.Context, c *domain.Cancellation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetUserBookings(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockCache) SetUserBookings(ctx context.Context, userEmail string, bookings []domain.Booking) error {
	args := m.Called(ctx, userEmail, bookings)
	return args.Error(0)
}

func (m *MockCache) InvalidateUserBookings(ctx context.Context, userEmail string) error {
	args := m.Called(ctx, userEmail)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService(bookings *MockBookingRepository, cancellations *MockCancellationRepository, cache *MockCache, producer *MockProducer) *TripService {
	return &TripService{
		bookings:      bookings,
		cancellations: cancellations,
		catalog:       catalog.New(rand.New(rand.NewSource(1))),
		cache:         cache,
		producer:      producer,
		bookingTopic:  "booking-events",
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestTripService_CreateBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCancellations := &MockCancellationRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockRepo, mockCancellations, mockCache, mockProducer)

	ctx := context.Background()
	today := domain.Date(2026, time.March, 1)
	input := CreateBookingInput{
		UserEmail:   "traveler@example.com",
		Destination: "Mars Colony",
		Class:       catalog.ClassVIP,
		Departure:   domain.Date(2026, time.April, 10),
		Today:       today,
	}

	mockRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockCache.On("InvalidateUserBookings", ctx, "traveler@example.com").Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, "generated-id", booking.ID)
	assert.Equal(t, int64(20_000_000), booking.Price)
	assert.Equal(t, domain.Date(2026, time.April, 10), booking.Departure)

	days := Countdown(booking.Departure, today)
	assert.Equal(t, 40, days)
	assert.Equal(t, domain.UrgencyNormal, UrgencyFor(days))

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestTripService_CreateBooking_PastDeparture(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	booking, err := service.CreateBooking(ctx, CreateBookingInput{
		UserEmail:   "traveler@example.com",
		Destination: "Lunar Hotel",
		Class:       catalog.ClassEconomy,
		Departure:   domain.Date(2026, time.February, 28),
		Today:       domain.Date(2026, time.March, 1),
	})

	assert.ErrorIs(t, err, ErrPastDeparture)
	assert.Nil(t, booking)
	mockRepo.AssertNotCalled(t, "Insert")
}

func TestTripService_CreateBooking_SameDayIsAllowed(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, mockCache, mockProducer)

	ctx := context.Background()
	today := domain.Date(2026, time.March, 1)

	mockRepo.On("Insert", ctx, mock.Anything).Return(nil).Once()
	mockCache.On("InvalidateUserBookings", ctx, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{
		UserEmail:   "traveler@example.com",
		Destination: "Lunar Hotel",
		Class:       catalog.ClassEconomy,
		Departure:   today,
		Today:       today,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.UrgencyToday, UrgencyFor(Countdown(booking.Departure, today)))
	mockRepo.AssertExpectations(t)
}

func TestTripService_CreateBooking_UnknownDestinationOrClass(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	today := domain.Date(2026, time.March, 1)

	testCases := []struct {
		name        string
		destination string
		class       string
	}{
		{"unknown destination", "Venus Resort", catalog.ClassEconomy},
		{"unknown class", "Mars Colony", "first"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			booking, err := service.CreateBooking(ctx, CreateBookingInput{
				UserEmail:   "traveler@example.com",
				Destination: tc.destination,
				Class:       tc.class,
				Departure:   domain.Date(2026, time.April, 10),
				Today:       today,
			})
			assert.ErrorIs(t, err, catalog.ErrNotFound)
			assert.Nil(t, booking)
		})
	}

	mockRepo.AssertNotCalled(t, "Insert")
}

func TestTripService_CreateBooking_PersistenceError(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	mockRepo.On("Insert", ctx, mock.Anything).Return(errors.New("connection refused")).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{
		UserEmail:   "traveler@example.com",
		Destination: "Mars Colony",
		Class:       catalog.ClassVIP,
		Departure:   domain.Date(2026, time.April, 10),
		Today:       domain.Date(2026, time.March, 1),
	})

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, booking)
	mockRepo.AssertExpectations(t)
}

func TestTripService_ListBookings_SortedByDeparture(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, mockCache, &MockProducer{})

	ctx := context.Background()
	stored := []domain.Booking{
		{ID: "b1", UserEmail: "traveler@example.com", Departure: domain.Date(2026, time.June, 1)},
		{ID: "b2", UserEmail: "traveler@example.com", Departure: domain.Date(2026, time.April, 10)},
		{ID: "b3", UserEmail: "traveler@example.com", Departure: domain.Date(2026, time.June, 1)},
	}

	mockCache.On("GetUserBookings", ctx, "traveler@example.com").Return(nil, nil).Once()
	mockRepo.On("ListByUser", ctx, "traveler@example.com").Return(stored, nil).Once()
	mockCache.On("SetUserBookings", ctx, "traveler@example.com", mock.Anything).Return(nil).Once()

	bookings, err := service.ListBookings(ctx, "traveler@example.com")

	assert.NoError(t, err)
	assert.Len(t, bookings, 3)
	assert.Equal(t, "b2", bookings[0].ID)
	// Same-day bookings keep creation order.
	assert.Equal(t, "b1", bookings[1].ID)
	assert.Equal(t, "b3", bookings[2].ID)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestTripService_ListBookings_CacheHit(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, mockCache, &MockProducer{})

	ctx := context.Background()
	cached := []domain.Booking{{ID: "b1", UserEmail: "traveler@example.com"}}
	mockCache.On("GetUserBookings", ctx, "traveler@example.com").Return(cached, nil).Once()

	bookings, err := service.ListBookings(ctx, "traveler@example.com")

	assert.NoError(t, err)
	assert.Equal(t, cached, bookings)
	mockRepo.AssertNotCalled(t, "ListByUser")
}

func TestTripService_CancelBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCancellations := &MockCancellationRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockRepo, mockCancellations, mockCache, mockProducer)

	ctx := context.Background()
	today := domain.Date(2026, time.March, 1)
	owned := []domain.Booking{{
		ID:          "b1",
		UserEmail:   "traveler@example.com",
		Destination: "Mars Colony",
		Class:       catalog.ClassVIP,
		Departure:   domain.Date(2026, time.April, 10),
		Price:       20_000_000,
	}}

	mockRepo.On("ListByUser", ctx, "traveler@example.com").Return(owned, nil).Once()
	mockRepo.On("DeleteByID", ctx, "b1").Return(true, nil).Once()
	mockCancellations.On("Insert", ctx, mock.AnythingOfType("*domain.Cancellation")).Return(nil).Once()
	mockCache.On("InvalidateUserBookings", ctx, "traveler@example.com").Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", "b1", mock.Anything).Return(nil).Once()

	result, err := service.CancelBooking(ctx, CancelBookingInput{
		BookingID: "b1",
		UserEmail: "traveler@example.com",
		Today:     today,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 85, result.RefundPercent)
	assert.Equal(t, 17_000_000.0, result.RefundAmount)
	assert.NoError(t, result.ArchivalWarning)

	mockRepo.AssertExpectations(t)
	mockCancellations.AssertExpectations(t)
}

func TestTripService_CancelBooking_ImminentTier(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCancellations := &MockCancellationRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockRepo, mockCancellations, mockCache, mockProducer)

	ctx := context.Background()
	today := domain.Date(2026, time.March, 1)
	owned := []domain.Booking{{
		ID:          "b1",
		UserEmail:   "traveler@example.com",
		Destination: "Lunar Hotel",
		Class:       catalog.ClassEconomy,
		Departure:   domain.Date(2026, time.March, 6),
		Price:       1_500_000,
	}}

	assert.Equal(t, domain.UrgencyImminent, UrgencyFor(Countdown(owned[0].Departure, today)))

	mockRepo.On("ListByUser", ctx, "traveler@example.com").Return(owned, nil).Once()
	mockRepo.On("DeleteByID", ctx, "b1").Return(true, nil).Once()
	mockCancellations.On("Insert", ctx, mock.Anything).Return(nil).Once()
	mockCache.On("InvalidateUserBookings", ctx, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.CancelBooking(ctx, CancelBookingInput{
		BookingID: "b1",
		UserEmail: "traveler@example.com",
		Today:     today,
	})

	assert.NoError(t, err)
	assert.Equal(t, 25, result.RefundPercent)
	assert.Equal(t, 375_000.0, result.RefundAmount)
}

func TestTripService_CancelBooking_NotOwned(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	mockRepo.On("ListByUser", ctx, "other@example.com").Return([]domain.Booking{}, nil).Once()

	result, err := service.CancelBooking(ctx, CancelBookingInput{
		BookingID: "b1",
		UserEmail: "other@example.com",
		Today:     domain.Date(2026, time.March, 1),
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "DeleteByID")
}

func TestTripService_CancelBooking_AlreadyGone(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCancellations := &MockCancellationRepository{}
	service := newTestService(mockRepo, mockCancellations, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	owned := []domain.Booking{{ID: "b1", UserEmail: "traveler@example.com", Departure: domain.Date(2026, time.April, 10), Price: 100}}

	mockRepo.On("ListByUser", ctx, "traveler@example.com").Return(owned, nil).Once()
	mockRepo.On("DeleteByID", ctx, "b1").Return(false, nil).Once()

	result, err := service.CancelBooking(ctx, CancelBookingInput{
		BookingID: "b1",
		UserEmail: "traveler@example.com",
		Today:     domain.Date(2026, time.March, 1),
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, result)
	mockCancellations.AssertNotCalled(t, "Insert")
}

func TestTripService_CancelBooking_DeleteError(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := newTestService(mockRepo, &MockCancellationRepository{}, &MockCache{}, &MockProducer{})

	ctx := context.Background()
	owned := []domain.Booking{{ID: "b1", UserEmail: "traveler@example.com", Departure: domain.Date(2026, time.April, 10), Price: 100}}

	mockRepo.On("ListByUser", ctx, "traveler@example.com").Return(owned, nil).Once()
	mockRepo.On("DeleteByID", ctx, "b1").Return(false, errors.New("connection refused")).Once()

	result, err := service.CancelBooking(ctx, CancelBookingInput{
		BookingID: "b1",
		UserEmail: "traveler@example.com",
		Today:     domain.Date(2026, time.March, 1),
	})

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, result)
}

func TestTripService_CancelBooking_ArchivalFailureIsNonFatal(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCancellations := &MockCancellationRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := newTestService(mockRepo, mockCancellations, mockCache, mockProducer)

	ctx := context.Background()
	owned := []domain.Booking{{
		ID:        "b1",
		UserEmail: "traveler@example.com",
		Departure: domain.Date(2026, time.April, 10),
		Price:     1_000_000,
	}}

	mockRepo.On("ListByUser", ctx, "traveler@example.com").Return(owned, nil).Once()
	mockRepo.On("DeleteByID", ctx, "b1").Return(true, nil).Once()
	mockCancellations.On("Insert", ctx, mock.Anything).Return(errors.New("audit table unavailable")).Once()
	mockCache.On("InvalidateUserBookings", ctx, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.CancelBooking(ctx, CancelBookingInput{
		BookingID: "b1",
		UserEmail: "traveler@example.com",
		Today:     domain.Date(2026, time.March, 1),
	})

	// The deletion succeeded, so the cancellation stands; the failed audit
	// write surfaces as a warning only.
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Error(t, result.ArchivalWarning)

	mockCancellations.AssertExpectations(t)
}
