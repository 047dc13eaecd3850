package chat

import (
	"context"

	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
)

// Repository persists the append-only support transcript.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if msg == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *Repository) ListByOwner(ctx context.Context, ownerKey string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *Repository) DeleteByOwner(ctx context.Context, ownerKey string) error {
	return r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Delete(&models.ChatMessage{}).Error
}
