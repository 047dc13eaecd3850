package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// ProfileDTO is the transport shape that omits sensitive credentials.
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	IsSeller    bool       `json:"is_seller"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateProfileDTO holds the data required by the repo to persist a new profile.
type CreateProfileDTO struct {
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	IsSeller     bool
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		ID:          p.ID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		AvatarURL:   p.AvatarURL,
		IsSeller:    p.IsSeller,
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		IsSeller:     c.IsSeller,
	}
}
