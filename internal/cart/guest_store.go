package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/theyashdedhia/shopwave-backend/pkg/redis"
)

// GuestLine is one cart line inside a guest's serialized Redis slot.
type GuestLine struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type slotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type slotKeyer interface {
	GuestCartKey(token string) string
}

// GuestStore keeps each guest cart as a single JSON-encoded slot keyed by the
// guest token. Every mutation rewrites the full line list, so a failed write
// leaves the previous state intact.
type GuestStore struct {
	store slotStore
	keyer slotKeyer
	ttl   time.Duration
}

// NewGuestStore builds a guest cart store with the configured slot TTL.
func NewGuestStore(client *redisclient.Client, ttl time.Duration) (*GuestStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("guest cart ttl must be positive")
	}
	return &GuestStore{store: client, keyer: client, ttl: ttl}, nil
}

// Load returns the guest's cart lines, or an empty list when no slot exists.
func (g *GuestStore) Load(ctx context.Context, token string) ([]GuestLine, error) {
	if token == "" {
		return nil, fmt.Errorf("guest token is required")
	}
	raw, err := g.store.Get(ctx, g.keyer.GuestCartKey(token))
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load guest cart: %w", err)
	}
	var lines []GuestLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decode guest cart: %w", err)
	}
	return lines, nil
}

// Save overwrites the guest's slot with the provided lines and refreshes the TTL.
func (g *GuestStore) Save(ctx context.Context, token string, lines []GuestLine) error {
	if token == "" {
		return fmt.Errorf("guest token is required")
	}
	if lines == nil {
		lines = []GuestLine{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}
	if err := g.store.Set(ctx, g.keyer.GuestCartKey(token), payload, g.ttl); err != nil {
		return fmt.Errorf("save guest cart: %w", err)
	}
	return nil
}

// Clear drops the guest's slot entirely.
func (g *GuestStore) Clear(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("guest token is required")
	}
	if err := g.store.Del(ctx, g.keyer.GuestCartKey(token)); err != nil {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	return nil
}
