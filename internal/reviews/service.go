package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
)

// ReviewDTO is a single product rating as returned to clients.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReviewDTO carries a buyer's new rating for a product.
type CreateReviewDTO struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Service exposes product review operations.
type Service interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	Create(ctx context.Context, userID, productID uuid.UUID, dto CreateReviewDTO) (*ReviewDTO, error)
}

type ServiceParams struct {
	Repo    *Repository
	Catalog *catalog.Repository
}

type service struct {
	repo    *Repository
	catalog *catalog.Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reviews repository is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository is required")
	}
	return &service{repo: params.Repo, catalog: params.Catalog}, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, dto CreateReviewDTO) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if dto.Rating < 1 || dto.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	_, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    dto.Rating,
	}
	if comment := strings.TrimSpace(dto.Comment); comment != "" {
		review.Comment = &comment
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	out := fromModel(review)
	return &out, nil
}

func fromModel(m *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}
