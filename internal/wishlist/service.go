package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
)

// EntryDTO is one saved product with its catalog listing joined.
type EntryDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo    *Repository
	Catalog *catalog.Repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type service struct {
	repo    *Repository
	catalog *catalog.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo, catalog: params.Catalog}, nil
}

// List returns the user's saved products.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, EntryDTO{
			ID:        entry.ID,
			ProductID: entry.ProductID,
			Product:   catalog.ProductFromModel(entry.Product),
			CreatedAt: entry.CreatedAt,
		})
	}
	return dtos, nil
}

// Add saves the product for the user. Saving an already-saved product is a
// silent success.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.AddEntry(ctx, userID, productID); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist entry")
	}
	return nil
}

// Remove drops the entry regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.RemoveEntry(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
	}
	return nil
}

// Contains reports whether the product is saved.
func (s *service) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	saved, err := s.repo.Contains(ctx, userID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist")
	}
	return saved, nil
}
