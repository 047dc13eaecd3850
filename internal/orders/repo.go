package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists the order and its line items atomically.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// ListByUser returns the user's orders with items joined, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindByID loads a single order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus sets the order's fulfilment status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// StatusStat is one row of the per-status aggregate.
type StatusStat struct {
	Count   int64
	Revenue decimal.Decimal
}

// StatsByStatus groups the user's orders by status with count and revenue.
func (r *Repository) StatsByStatus(ctx context.Context, userID uuid.UUID) (map[string]StatusStat, error) {
	type row struct {
		Status  string
		Count   int64
		Revenue decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count, SUM(total_amount) AS revenue").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := make(map[string]StatusStat, len(rows))
	for _, r := range rows {
		stats[r.Status] = StatusStat{Count: r.Count, Revenue: r.Revenue}
	}
	return stats, nil
}
