package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a seller's catalog listing.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID      uuid.UUID       `gorm:"column:seller_id;type:uuid;not null"`
	CategoryID    *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Name          string          `gorm:"column:name;not null"`
	Description   *string         `gorm:"column:description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURLs     pq.StringArray  `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	IsFeatured    bool            `gorm:"column:is_featured;not null;default:false"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	Seller        *Profile        `gorm:"foreignKey:SellerID"`
	Category      *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
