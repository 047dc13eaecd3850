package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents the canonical identity entity.
type Profile struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    *string    `gorm:"column:first_name"`
	LastName     *string    `gorm:"column:last_name"`
	AvatarURL    *string    `gorm:"column:avatar_url"`
	IsSeller     bool       `gorm:"column:is_seller;not null;default:false"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
