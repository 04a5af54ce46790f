package email

import (
	"context"
	"fmt"

	"github.com/orbitalis/starbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case "booking_cancelled":
		fmt.Printf("send email to %s: booking for %s (%s) on %s cancelled, refund $%.2f\n",
			event.UserEmail, event.Destination, event.Class, event.Date, event.RefundAmount)
	default:
		fmt.Printf("send email to %s: booking for %s (%s) on %s confirmed, price $%d\n",
			event.UserEmail, event.Destination, event.Class, event.Date, event.Price)
	}
	return nil
}
