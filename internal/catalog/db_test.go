package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
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
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME
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
	require.NoError(t, db.Exec(profiles).Error)
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func mustCreateSeller(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	seller := &models.Profile{
		Email:        fmt.Sprintf("seller_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		IsSeller:     true,
	}
	require.NoError(t, db.Create(seller).Error)
	return seller
}

func mustCreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{
		Name: name,
		Slug: fmt.Sprintf("%s-%s", name, uuid.NewString()),
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func mustCreateProduct(t *testing.T, db *gorm.DB, sellerID uuid.UUID, name, price string, opts ...func(*models.Product)) *models.Product {
	t.Helper()
	p := &models.Product{
		SellerID:  sellerID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		ImageURLs: []string{},
		IsActive:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
