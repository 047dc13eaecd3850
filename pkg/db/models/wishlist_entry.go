package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistEntry links a user to a saved product.
type WishlistEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:wishlists_user_id_idx;uniqueIndex:wishlists_user_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:wishlists_user_product_key"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the table named after the original schema.
func (WishlistEntry) TableName() string {
	return "wishlists"
}
