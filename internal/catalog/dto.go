package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theyashdedhia/shopwave-backend/internal/users"
	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// ProductDTO is the transport shape for a catalog listing.
type ProductDTO struct {
	ID            uuid.UUID         `json:"id"`
	SellerID      uuid.UUID         `json:"seller_id"`
	CategoryID    *uuid.UUID        `json:"category_id,omitempty"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	ImageURLs     []string          `json:"image_urls"`
	StockQuantity int               `json:"stock_quantity"`
	IsFeatured    bool              `json:"is_featured"`
	IsActive      bool              `json:"is_active"`
	Seller        *users.ProfileDTO `json:"seller,omitempty"`
	Category      *CategoryDTO      `json:"category,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CategoryDTO mirrors a category row.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductDTO holds the fields a seller supplies for a new listing.
type CreateProductDTO struct {
	Name          string          `json:"name" validate:"required"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	ImageURLs     []string        `json:"image_urls"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	IsFeatured    bool            `json:"is_featured"`
	IsActive      *bool           `json:"is_active"`
}

// UpdateProductDTO carries partial edits; nil fields are left untouched.
type UpdateProductDTO struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	ImageURLs     []string         `json:"image_urls"`
	StockQuantity *int             `json:"stock_quantity"`
	IsFeatured    *bool            `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
}

// ProductFromModel converts a persisted product into its transport shape.
func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		SellerID:      p.SellerID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		ImageURLs:     append([]string(nil), p.ImageURLs...),
		StockQuantity: p.StockQuantity,
		IsFeatured:    p.IsFeatured,
		IsActive:      p.IsActive,
		Seller:        users.FromModel(p.Seller),
		Category:      CategoryFromModel(p.Category),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProductsFromModels maps a model slice into DTOs, preserving order.
func ProductsFromModels(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *ProductFromModel(&products[i]))
	}
	return dtos
}

// CategoryFromModel converts a persisted category into its transport shape.
func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
