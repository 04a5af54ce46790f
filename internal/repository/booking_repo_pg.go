package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitalis/starbooking/internal/domain"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	ListByUser(ctx context.Context, userEmail string) ([]domain.Booking, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	booking.ID = uuid.NewString()
	return r.db.QueryRow(ctx, `INSERT INTO bookings (id, user_email, destination, date, class, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		booking.ID, booking.UserEmail, booking.Destination, booking.Departure.Format(domain.DateLayout), booking.Class, booking.Price).
		Scan(&booking.CreatedAt)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_email, destination, date, class, price, created_at FROM bookings WHERE user_email=$1 ORDER BY created_at`, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		var date string
		if err := rows.Scan(&b.ID, &b.UserEmail, &b.Destination, &date, &b.Class, &b.Price, &b.CreatedAt); err != nil {
			return nil, err
		}
		departure, err := time.Parse(domain.DateLayout, date)
		if err != nil {
			return nil, err
		}
		b.Departure = departure
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
