package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

const featuredLimit = 6

// Repository encapsulates catalog persistence for products and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns every active product, newest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// ListFeatured returns up to six active featured products.
func (r *Repository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Limit(featuredLimit).
		Find(&products).Error
	return products, err
}

// FindByID loads a product with its seller and category joined.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Category").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products matching the given ids, in no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

// ListBySeller returns all of a seller's products, active or not.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update applies the provided column updates and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// FindCategoryByID loads a single category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
