package trips

import (
	"math"
	"time"

	"github.com/orbitalis/starbooking/internal/domain"
)

// Countdown returns the whole number of calendar days between today and the
// departure date. Both values are treated as naive dates; time components are
// dropped before subtracting, so a launch tomorrow is always 1 regardless of
// the hour the question is asked.
func Countdown(departure, today time.Time) int {
	d := domain.ToDate(departure)
	t := domain.ToDate(today)
	return int(d.Sub(t).Hours() / 24)
}

// UrgencyFor classifies days-until-launch. Total over all integers.
func UrgencyFor(daysUntilLaunch int) domain.UrgencyTier {
	switch {
	case daysUntilLaunch < 0:
		return domain.UrgencyLaunched
	case daysUntilLaunch == 0:
		return domain.UrgencyToday
	case daysUntilLaunch <= 7:
		return domain.UrgencyImminent
	default:
		return domain.UrgencyNormal
	}
}

// RefundPercent is the refund-tier policy. The thresholds are checked in this
// exact order: day 30 and day 15 both fall in the 50% band, day 0 refunds
// nothing.
func RefundPercent(daysUntilLaunch int) int {
	switch {
	case daysUntilLaunch > 30:
		return 85
	case daysUntilLaunch >= 15:
		return 50
	case daysUntilLaunch > 0:
		return 25
	default:
		return 0
	}
}

// RefundAmount applies the refund tier to the price frozen at booking time,
// rounding half-up to the cent.
func RefundAmount(price int64, daysUntilLaunch int) float64 {
	pct := RefundPercent(daysUntilLaunch)
	cents := math.Floor(float64(price)*float64(pct) + 0.5)
	return cents / 100
}
