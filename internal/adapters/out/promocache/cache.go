// Package promocache fronts a promo code repository with a Redis read-through cache.
package promocache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "promo:"

type entry struct {
	Code      string     `json:"code"`
	Type      string     `json:"type"`
	Value     float64    `json:"value"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Repository caches found codes for ttl. Misses are not cached, so a newly
// created code is visible at once. Redis failures degrade to the wrapped repository.
type Repository struct {
	next   ports.PromoCodeRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.PromoCodeRepository = (*Repository)(nil)

func New(next ports.PromoCodeRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Repository {
	return &Repository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "promo_cache"),
	}
}

// NewClient connects to Redis at addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (r *Repository) Lookup(ctx context.Context, code string) (*promo.Code, error) {
	key := keyPrefix + promo.NormalizeCode(code)

	cached, ok, err := r.get(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "promo cache read failed", "error", err)
	}
	if ok {
		return cached, nil
	}

	found, err := r.next.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	if err = r.set(ctx, key, found); err != nil {
		r.logger.WarnContext(ctx, "promo cache write failed", "error", err)
	}
	return found, nil
}

// Invalidate drops a cached code after it was changed.
func (r *Repository) Invalidate(ctx context.Context, code string) error {
	if err := r.client.Del(ctx, keyPrefix+promo.NormalizeCode(code)).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

func (r *Repository) get(ctx context.Context, key string) (*promo.Code, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}

	var e entry
	if err = json.Unmarshal(raw, &e); err != nil {
		return nil, false, errors.Wrap(err, "decode cached promo")
	}
	c, err := promo.NewCode(e.Code, promo.DiscountType(e.Type), e.Value, e.Active, e.ExpiresAt)
	if err != nil {
		return nil, false, errors.Wrap(err, "restore cached promo")
	}
	return c, true, nil
}

func (r *Repository) set(ctx context.Context, key string, c *promo.Code) error {
	raw, err := json.Marshal(entry{
		Code:      c.Code(),
		Type:      string(c.DiscountType()),
		Value:     c.DiscountValue(),
		Active:    c.IsActive(),
		ExpiresAt: c.ExpiresAt(),
	})
	if err != nil {
		return errors.Wrap(err, "encode promo")
	}
	if err = r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}
