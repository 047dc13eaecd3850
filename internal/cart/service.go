package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo    *Repository
	Guest   *GuestStore
	Catalog *catalog.Repository
}

// Service exposes cart operations over both backing stores. Every operation
// addresses its cart through an Owner, so guest and authenticated carts share
// one surface.
type Service interface {
	GetCart(ctx context.Context, owner Owner) (CartDTO, error)
	AddItem(ctx context.Context, owner Owner, productID uuid.UUID, quantity int) (CartDTO, error)
	UpdateQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (CartDTO, error)
	ClearCart(ctx context.Context, owner Owner) error
	TransferOnLogin(ctx context.Context, guestToken string, userID uuid.UUID) (CartDTO, error)
}

type service struct {
	repo    *Repository
	guest   *GuestStore
	catalog *catalog.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.Guest == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest store is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		repo:    params.Repo,
		guest:   params.Guest,
		catalog: params.Catalog,
	}, nil
}

// GetCart returns the owner's cart with totals derived from current prices.
func (s *service) GetCart(ctx context.Context, owner Owner) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if owner.IsGuest() {
		return s.guestCart(ctx, owner.GuestToken)
	}
	return s.userCart(ctx, owner.UserID)
}

// AddItem merges the quantity into an existing line for the product, or
// appends a new line. One line per (owner, product) pair.
func (s *service) AddItem(ctx context.Context, owner Owner, productID uuid.UUID, quantity int) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return CartDTO{}, err
	}

	if owner.IsGuest() {
		lines, err := s.guest.Load(ctx, owner.GuestToken)
		if err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
		}
		merged := false
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, GuestLine{
				ID:        uuid.New(),
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Now().UTC(),
			})
		}
		if err := s.guest.Save(ctx, owner.GuestToken, lines); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest cart")
		}
		return s.guestCart(ctx, owner.GuestToken)
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, owner.UserID, productID)
	switch {
	case err == nil:
		if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			UserID:    owner.UserID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.repo.Create(ctx, item); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
	default:
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return s.userCart(ctx, owner.UserID)
}

// UpdateQuantity sets a line's quantity in place. Quantities below 1 remove
// the line entirely.
func (s *service) UpdateQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if quantity < 1 {
		return s.RemoveItem(ctx, owner, itemID)
	}

	if owner.IsGuest() {
		lines, err := s.guest.Load(ctx, owner.GuestToken)
		if err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
		}
		found := false
		for i := range lines {
			if lines[i].ID == itemID {
				lines[i].Quantity = quantity
				found = true
				break
			}
		}
		if !found {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		if err := s.guest.Save(ctx, owner.GuestToken, lines); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest cart")
		}
		return s.guestCart(ctx, owner.GuestToken)
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if item.UserID != owner.UserID {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := s.repo.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.userCart(ctx, owner.UserID)
}

// RemoveItem deletes the line. Removing a line that is already gone is a
// silent success.
func (s *service) RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}

	if owner.IsGuest() {
		lines, err := s.guest.Load(ctx, owner.GuestToken)
		if err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
		}
		remaining := make([]GuestLine, 0, len(lines))
		for _, line := range lines {
			if line.ID != itemID {
				remaining = append(remaining, line)
			}
		}
		if err := s.guest.Save(ctx, owner.GuestToken, remaining); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest cart")
		}
		return s.guestCart(ctx, owner.GuestToken)
	}

	if err := s.repo.Delete(ctx, owner.UserID, itemID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return s.userCart(ctx, owner.UserID)
}

// ClearCart removes every line for the owner.
func (s *service) ClearCart(ctx context.Context, owner Owner) error {
	if !owner.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if owner.IsGuest() {
		if err := s.guest.Clear(ctx, owner.GuestToken); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest cart")
		}
		return nil
	}
	if err := s.repo.DeleteByUser(ctx, owner.UserID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// TransferOnLogin merges the guest slot into the user's stored cart, line by
// line: quantities sum into an existing line for the same product, otherwise
// a new line is inserted. The slot is discarded only after every line merged
// cleanly, and the returned cart is reloaded from the database as the sole
// source of truth.
func (s *service) TransferOnLogin(ctx context.Context, guestToken string, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if guestToken == "" {
		return s.userCart(ctx, userID)
	}

	lines, err := s.guest.Load(ctx, guestToken)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
	}
	if len(lines) == 0 {
		if err := s.guest.Clear(ctx, guestToken); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest cart")
		}
		return s.userCart(ctx, userID)
	}

	var merr error
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if err := s.mergeLine(ctx, userID, line); err != nil {
			merr = multierr.Append(merr, err)
		}
	}
	if merr != nil {
		// Slot is kept so the merge can be retried.
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, merr, "merge guest cart")
	}

	if err := s.guest.Clear(ctx, guestToken); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest cart")
	}
	return s.userCart(ctx, userID)
}

func (s *service) mergeLine(ctx context.Context, userID uuid.UUID, line GuestLine) error {
	if _, err := s.catalog.FindByID(ctx, line.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Product vanished while the guest was shopping; drop the line.
			return nil
		}
		return err
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, line.ProductID)
	switch {
	case err == nil:
		return s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+line.Quantity)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.repo.Create(ctx, &models.CartItem{
			UserID:    userID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	default:
		return err
	}
}

func (s *service) userCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, itemFromModel(&items[i]))
	}
	return buildCart(dtos), nil
}

func (s *service) guestCart(ctx context.Context, token string) (CartDTO, error) {
	lines, err := s.guest.Load(ctx, token)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	dtos := make([]ItemDTO, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		dtos = append(dtos, ItemDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Product:   catalog.ProductFromModel(product),
			CreatedAt: line.AddedAt,
			UpdatedAt: line.AddedAt,
		})
	}
	return buildCart(dtos), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
