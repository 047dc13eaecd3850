package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theyashdedhia/shopwave-backend/pkg/types"
)

// OrderStatus tracks an order through fulfilment.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Order snapshots totals and a shipping address at creation time.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status          OrderStatus            `gorm:"column:status;not null;default:'pending'"`
	TotalAmount     decimal.Decimal        `gorm:"column:total_amount;type:numeric(12,2);not null"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentIntentID *string                `gorm:"column:payment_intent_id"`
	Items           []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
