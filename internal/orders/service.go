package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/internal/cart"
	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo *Repository
	Cart cart.Service
}

// Service exposes checkout and order management.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, dto CreateOrderDTO) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, requesterIsSeller bool) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*OrderDTO, error)
	Stats(ctx context.Context, userID uuid.UUID) (StatsDTO, error)
}

type service struct {
	repo *Repository
	cart cart.Service
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	return &service{repo: params.Repo, cart: params.Cart}, nil
}

// PlaceOrder creates an order from the user's current cart, snapshotting
// product name and price per line, then clears the cart. An empty cart fails
// before any write happens.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, dto CreateOrderDTO) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if field := dto.ShippingAddress.Validate(); field != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping address: "+field)
	}

	currentCart, err := s.cart.GetCart(ctx, cart.OwnerForUser(userID))
	if err != nil {
		return nil, err
	}
	if len(currentCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	address := dto.ShippingAddress
	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		TotalAmount:     currentCart.TotalPrice,
		ShippingAddress: &address,
		PaymentIntentID: dto.PaymentMethodID,
	}
	for _, item := range currentCart.Items {
		if item.Product == nil {
			continue
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if err := s.cart.ClearCart(ctx, cart.OwnerForUser(userID)); err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// ListOrders returns the user's orders, newest first.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	return FromModels(orders), nil
}

// GetOrder loads one order. Buyers only see their own orders; sellers can
// inspect any order from the admin area.
func (s *service) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, requesterIsSeller bool) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !requesterIsSeller && order.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

// UpdateStatus moves an order to a new fulfilment status.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").WithDetails(map[string]any{"status": status})
	}

	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return FromModel(order), nil
}

// Stats groups the user's orders by status for the dashboard.
func (s *service) Stats(ctx context.Context, userID uuid.UUID) (StatsDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.StatsByStatus(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order stats")
	}
	stats := make(StatsDTO, len(rows))
	for status, row := range rows {
		stats[status] = StatusStatDTO{Count: row.Count, Revenue: row.Revenue}
	}
	return stats, nil
}
