package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one line of the append-only support transcript. OwnerKey is
// either a user id or a guest token, so unauthenticated visitors keep a
// transcript too.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerKey  string    `gorm:"column:owner_key;not null;index:chat_messages_owner_key_idx"`
	Message   string    `gorm:"column:message;not null"`
	IsBot     bool      `gorm:"column:is_bot;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
