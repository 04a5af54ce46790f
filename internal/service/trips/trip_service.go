package trips

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/orbitalis/starbooking/internal/catalog"
	"github.com/orbitalis/starbooking/internal/domain"
	"github.com/orbitalis/starbooking/internal/kafka"
	"github.com/orbitalis/starbooking/internal/metrics"
	"github.com/orbitalis/starbooking/internal/repository"
)

type TripUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, userEmail string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, input CancelBookingInput) (*CancelResult, error)
}

type Cache interface {
	GetUserBookings(ctx context.Context, userEmail string) ([]domain.Booking, error)
	SetUserBookings(ctx context.Context, userEmail string, bookings []domain.Booking) error
	InvalidateUserBookings(ctx context.Context, userEmail string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TripService struct {
	bookings           repository.BookingRepository
	cancellations      repository.CancellationRepository
	catalog            *catalog.Catalog
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                *slog.Logger
}

type CreateBookingInput struct {
	UserEmail   string    `json:"user_email"`
	Destination string    `json:"destination"`
	Class       string    `json:"class"`
	Departure   time.Time `json:"date"`
	// Today is the reference date for the past-departure check; passed
	// explicitly so callers and tests control the clock.
	Today time.Time `json:"-"`
}

type CancelBookingInput struct {
	BookingID string
	UserEmail string
	Today     time.Time
}

type CancelResult struct {
	Booking       domain.Booking
	RefundPercent int
	RefundAmount  float64
	// ArchivalWarning is non-nil when the booking was deleted but the audit
	// record could not be written. The cancellation still counts.
	ArchivalWarning error
}

type TripServiceOption func(*TripService)

func WithNotificationsTopic(topic string) TripServiceOption {
	return func(s *TripService) {
		s.notificationsTopic = topic
	}
}

func NewTripService(
	bookings repository.BookingRepository,
	cancellations repository.CancellationRepository,
	cat *catalog.Catalog,
	cache Cache,
	producer Producer,
	bookingTopic string,
	log *slog.Logger,
	opts ...TripServiceOption,
) *TripService {
	service := &TripService{
		bookings:      bookings,
		cancellations: cancellations,
		catalog:       cat,
		cache:         cache,
		producer:      producer,
		bookingTopic:  bookingTopic,
		log:           log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *TripService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.UserEmail == "" {
		return nil, errors.New("user email is required")
	}

	today := input.Today
	if today.IsZero() {
		today = time.Now()
	}
	departure := domain.ToDate(input.Departure)
	if departure.Before(domain.ToDate(today)) {
		return nil, ErrPastDeparture
	}

	price, err := s.catalog.Price(input.Destination, input.Class)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		UserEmail:   input.UserEmail,
		Destination: input.Destination,
		Class:       input.Class,
		Departure:   departure,
		Price:       price,
	}

	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}

	metrics.BookingsCreated.Inc()

	if s.cache != nil {
		_ = s.cache.InvalidateUserBookings(ctx, booking.UserEmail)
	}
	if err := s.publish(ctx, "booking_created", booking, 0); err != nil {
		s.log.Warn("failed to publish booking_created event",
			slog.String("booking_id", booking.ID), slog.Any("error", err))
	}
	return booking, nil
}

func (s *TripService) ListBookings(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetUserBookings(ctx, userEmail); err == nil && cached != nil {
			return cached, nil
		}
	}

	bookings, err := s.bookings.ListByUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	// Chronological order for display; stable so same-day bookings keep
	// creation order.
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Departure.Before(bookings[j].Departure)
	})

	if s.cache != nil {
		_ = s.cache.SetUserBookings(ctx, userEmail, bookings)
	}
	return bookings, nil
}

func (s *TripService) CancelBooking(ctx context.Context, input CancelBookingInput) (*CancelResult, error) {
	today := input.Today
	if today.IsZero() {
		today = time.Now()
	}

	// Ownership: the booking must be among the caller's own bookings.
	owned, err := s.bookings.ListByUser(ctx, input.UserEmail)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	var booking *domain.Booking
	for i := range owned {
		if owned[i].ID == input.BookingID {
			booking = &owned[i]
			break
		}
	}
	if booking == nil {
		return nil, ErrNotFound
	}

	days := Countdown(booking.Departure, today)
	refund := RefundAmount(booking.Price, days)

	deleted, err := s.bookings.DeleteByID(ctx, booking.ID)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	if !deleted {
		// Gone between the list and the delete, e.g. a repeated cancel.
		return nil, ErrNotFound
	}

	metrics.BookingsCancelled.Inc()
	metrics.RefundAmounts.Observe(refund)

	result := &CancelResult{
		Booking:       *booking,
		RefundPercent: RefundPercent(days),
		RefundAmount:  refund,
	}

	// The deletion is the operation of record; the audit write is best-effort.
	archival := &domain.Cancellation{
		UserEmail:     booking.UserEmail,
		Destination:   booking.Destination,
		OriginalDate:  booking.Departure,
		Class:         booking.Class,
		OriginalPrice: booking.Price,
		RefundAmount:  refund,
		CancelledAt:   time.Now(),
	}
	if err := s.cancellations.Insert(ctx, archival); err != nil {
		metrics.ArchivalFailures.Inc()
		s.log.Warn("cancellation audit record failed to persist",
			slog.String("booking_id", booking.ID), slog.Any("error", err))
		result.ArchivalWarning = err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateUserBookings(ctx, booking.UserEmail)
	}
	if err := s.publish(ctx, "booking_cancelled", booking, refund); err != nil {
		s.log.Warn("failed to publish booking_cancelled event",
			slog.String("booking_id", booking.ID), slog.Any("error", err))
	}

	return result, nil
}

func (s *TripService) publish(ctx context.Context, eventType string, booking *domain.Booking, refund float64) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		UserEmail:    booking.UserEmail,
		Destination:  booking.Destination,
		Class:        booking.Class,
		Date:         booking.Departure.Format(domain.DateLayout),
		Price:        booking.Price,
		RefundAmount: refund,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

var _ TripUseCase = (*TripService)(nil)
