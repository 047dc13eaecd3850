package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByEmail retrieves the profile matching the provided email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("lower(email) = ?", normalized).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID loads a profile by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateLastLogin refreshes the profile's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdateProfile applies the provided column updates to a profile.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Profile, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Profile{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}
