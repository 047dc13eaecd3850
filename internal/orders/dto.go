package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	"github.com/theyashdedhia/shopwave-backend/pkg/types"
)

// OrderItemDTO is a snapshot line frozen at order time.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderDTO is the transport shape for an order and its items.
type OrderDTO struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Status          models.OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	ShippingAddress *types.ShippingAddress `json:"shipping_address,omitempty"`
	PaymentIntentID *string                `json:"payment_intent_id,omitempty"`
	Items           []OrderItemDTO         `json:"items"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// CreateOrderDTO carries checkout input. PaymentMethodID is stored verbatim;
// no payment processor is wired up yet.
type CreateOrderDTO struct {
	ShippingAddress types.ShippingAddress `json:"shipping_address" validate:"required"`
	PaymentMethodID *string               `json:"payment_method_id"`
}

// StatusStatDTO is one dashboard row: how many orders sit in a status and
// what they are worth.
type StatusStatDTO struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// StatsDTO maps order status to its dashboard row.
type StatsDTO map[string]StatusStatDTO

// FromModel converts a persisted order into its transport shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			CreatedAt:   item.CreatedAt,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentIntentID: o.PaymentIntentID,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// FromModels maps a model slice into DTOs, preserving order.
func FromModels(orders []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *FromModel(&orders[i]))
	}
	return dtos
}
