package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// Repository encapsulates authenticated cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the user's cart lines with products joined, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindByID loads a single cart line.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByUserAndProduct returns the user's line for a product, if any.
func (r *Repository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets a line's quantity in place.
func (r *Repository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", quantity).Error
}

// Delete removes the line owned by the user. Deleting an absent line is not
// an error.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{}).Error
}

// DeleteByUser removes every line belonging to the user.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
