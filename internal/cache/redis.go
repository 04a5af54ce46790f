package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orbitalis/starbooking/config"
	"github.com/orbitalis/starbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	bookingsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, bookingsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		bookingsTTL: bookingsTTL,
	}
}

func (c *RedisCache) GetUserBookings(ctx context.Context, userEmail string) ([]domain.Booking, error) {
	data, err := c.client.Get(ctx, userBookingsKey(userEmail)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *RedisCache) SetUserBookings(ctx context.Context, userEmail string, bookings []domain.Booking) error {
	payload, err := json.Marshal(bookings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userBookingsKey(userEmail), payload, c.bookingsTTL).Err()
}

// InvalidateUserBookings drops the cached list so the next read hits the store.
// Called after every create and cancel to keep read-your-writes.
func (c *RedisCache) InvalidateUserBookings(ctx context.Context, userEmail string) error {
	return c.client.Del(ctx, userBookingsKey(userEmail)).Err()
}

func userBookingsKey(userEmail string) string {
	return fmt.Sprintf("cache:bookings:%s", userEmail)
}
