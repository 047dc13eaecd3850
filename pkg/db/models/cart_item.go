package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one authenticated cart line. Guest carts never reach this
// table; they live in a per-token Redis slot until merge-on-login.
// At most one row exists per (user_id, product_id) pair, enforced by the
// cart service's merge-on-add logic.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:cart_items_user_id_idx"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
