package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("checkout session not found")

// CheckoutSession is the form-state bag a visitor builds up before submitting
// an order. Every field is optional; it carries no invariants of its own.
type CheckoutSession struct {
	CustomerName string `json:"customer_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ServiceSlug  string `json:"service_slug,omitempty"`
	VoucherCode  string `json:"voucher_code,omitempty"`
	PaymentType  string `json:"payment_type,omitempty"`
	Notes        string `json:"notes,omitempty"`

	// snapshot of the last quote shown to the visitor
	Subtotal   int64 `json:"subtotal,omitempty"`
	GrandTotal int64 `json:"grand_total,omitempty"`
	Deposit    int64 `json:"deposit,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	Save(ctx context.Context, id string, s *CheckoutSession) (string, error)
	Load(ctx context.Context, id string) (*CheckoutSession, error)
	Delete(ctx context.Context, id string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) Store {
	return &redisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("checkout:session:%s", id)
}

// Save stores the session under a fresh id when none is given, refreshing
// the TTL either way.
func (r *redisStore) Save(ctx context.Context, id string, s *CheckoutSession) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	s.UpdatedAt = time.Now()

	payload, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(id), payload, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return id, nil
}

func (r *redisStore) Load(ctx context.Context, id string) (*CheckoutSession, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s CheckoutSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &s, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}
