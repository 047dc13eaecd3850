package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots product name, price, and quantity at order time so
// later catalog edits never alter historical orders.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
