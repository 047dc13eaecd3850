package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddEntry inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddEntry(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	entry := models.WishlistEntry{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlists (id, user_id, product_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP) ON CONFLICT (user_id, product_id) DO NOTHING`,
			entry.ID, entry.UserID, entry.ProductID).
		Error
}

// RemoveEntry deletes the saved product if it exists.
func (r *Repository) RemoveEntry(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistEntry{}).
		Error
}

// ListByUser returns the user's saved products, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Contains reports whether the user has saved the product.
func (r *Repository) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}
