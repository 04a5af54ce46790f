package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orbitalis/starbooking/internal/domain"
)

type CancellationRepository interface {
	Insert(ctx context.Context, cancellation *domain.Cancellation) error
}

type PGCancellationRepository struct {
	db *pgxpool.Pool
}

func NewCancellationRepository(db *pgxpool.Pool) CancellationRepository {
	return &PGCancellationRepository{db: db}
}

func (r *PGCancellationRepository) Insert(ctx context.Context, c *domain.Cancellation) error {
	_, err := r.db.Exec(ctx, `INSERT INTO cancellations (user_email, destination, original_date, class, original_price, refund_amount, cancellation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.UserEmail, c.Destination, c.OriginalDate.Format(domain.DateLayout), c.Class, c.OriginalPrice, c.RefundAmount, c.CancelledAt)
	return err
}

var _ CancellationRepository = (*PGCancellationRepository)(nil)
