package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	profiles := `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  avatar_url TEXT,
  is_seller INTEGER NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  category_id TEXT,
  name TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  image_urls TEXT NOT NULL DEFAULT '{}',
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(profiles).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	user := &models.Profile{
		Email:        fmt.Sprintf("shopper_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateProduct(t *testing.T, db *gorm.DB, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:  uuid.New(),
		Name:      fmt.Sprintf("product-%s", uuid.NewString()[:8]),
		Price:     decimal.RequireFromString(price),
		ImageURLs: []string{},
		IsActive:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// mockSlotStore is an in-memory stand-in for the Redis guest cart slot.
type mockSlotStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockSlotStore() *mockSlotStore {
	return &mockSlotStore{data: make(map[string]string)}
}

func (m *mockSlotStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (m *mockSlotStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockSlotStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockSlotStore) GuestCartKey(token string) string {
	return "sw:guest_cart:" + token
}

func (m *mockSlotStore) has(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[m.GuestCartKey(token)]
	return ok
}

func newTestGuestStore(store *mockSlotStore) *GuestStore {
	return &GuestStore{store: store, keyer: store, ttl: time.Hour}
}
