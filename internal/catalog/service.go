package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes product browsing and seller catalog management.
type Service interface {
	ListProducts(ctx context.Context, filter Filter) ([]ProductDTO, error)
	ListFeatured(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, sellerID uuid.UUID, dto CreateProductDTO) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// ListProducts loads the active catalog and applies the filter in memory.
// Catalog sizes are small enough that a full rescan per request is fine.
func (s *service) ListProducts(ctx context.Context, filter Filter) ([]ProductDTO, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	return ProductsFromModels(ApplyFilter(products, filter)), nil
}

// ListFeatured returns the featured carousel products.
func (s *service) ListFeatured(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load featured products")
	}
	return ProductsFromModels(products), nil
}

// GetProduct loads a single product with seller and category attached.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return ProductFromModel(product), nil
}

// ListCategories returns every category.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, *CategoryFromModel(&categories[i]))
	}
	return dtos, nil
}

// ListSellerProducts returns the seller's own listings, including inactive ones.
func (s *service) ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	products, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller products")
	}
	return ProductsFromModels(products), nil
}

// CreateProduct persists a new listing owned by the seller.
func (s *service) CreateProduct(ctx context.Context, sellerID uuid.UUID, dto CreateProductDTO) (*ProductDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if dto.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if dto.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	if dto.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *dto.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product := dto.toModel(sellerID)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ProductFromModel(product), nil
}

// UpdateProduct applies partial edits after verifying ownership.
func (s *service) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	if sellerID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id and product id are required")
	}

	existing, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if existing.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}

	updates, err := dto.toUpdates()
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, productID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return ProductFromModel(updated), nil
}

func (c CreateProductDTO) toModel(sellerID uuid.UUID) *models.Product {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	return &models.Product{
		SellerID:      sellerID,
		CategoryID:    c.CategoryID,
		Name:          strings.TrimSpace(c.Name),
		Description:   c.Description,
		Price:         c.Price,
		ImageURLs:     toStringArray(c.ImageURLs),
		StockQuantity: c.StockQuantity,
		IsFeatured:    c.IsFeatured,
		IsActive:      isActive,
	}
}

func toStringArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(append([]string(nil), values...))
}

func (u UpdateProductDTO) toUpdates() (map[string]any, error) {
	updates := map[string]any{}
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Price != nil {
		if u.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *u.Price
	}
	if u.CategoryID != nil {
		updates["category_id"] = *u.CategoryID
	}
	if u.ImageURLs != nil {
		updates["image_urls"] = toStringArray(u.ImageURLs)
	}
	if u.StockQuantity != nil {
		if *u.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		updates["stock_quantity"] = *u.StockQuantity
	}
	if u.IsFeatured != nil {
		updates["is_featured"] = *u.IsFeatured
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates, nil
}
