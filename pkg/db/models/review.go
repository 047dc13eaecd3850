package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's product rating, one per (user, product) pair.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx;uniqueIndex:reviews_user_product_key"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:reviews_user_product_key"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   *string   `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
