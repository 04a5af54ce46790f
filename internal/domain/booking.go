package domain

import "time"

type UrgencyTier string

const (
	UrgencyLaunched UrgencyTier = "launched"
	UrgencyToday    UrgencyTier = "today"
	UrgencyImminent UrgencyTier = "imminent"
	UrgencyNormal   UrgencyTier = "normal"
)

type Booking struct {
	ID          string
	UserEmail   string
	Destination string
	Class       string
	// Departure is a calendar date; the time component is always midnight UTC.
	Departure time.Time
	// Price is frozen from the catalog at booking time, never re-derived.
	Price     int64
	CreatedAt time.Time
}

// Cancellation is the archival record written after a booking is deleted.
type Cancellation struct {
	UserEmail     string
	Destination   string
	OriginalDate  time.Time
	Class         string
	OriginalPrice int64
	RefundAmount  float64
	CancelledAt   time.Time
}
