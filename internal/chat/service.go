package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
)

// OwnerKeyForUser and OwnerKeyForGuest build the transcript key for the two
// kinds of visitor. Guests keep a transcript under their cart token, so the
// conversation survives a page reload just like the guest cart does.
func OwnerKeyForUser(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func OwnerKeyForGuest(token string) string {
	return "guest:" + strings.TrimSpace(token)
}

// MessageDTO is one transcript line.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
}

// ExchangeDTO is the pair of lines a single send produces.
type ExchangeDTO struct {
	UserMessage MessageDTO `json:"user_message"`
	BotMessage  MessageDTO `json:"bot_message"`
}

// Service runs the scripted support chat.
type Service interface {
	Send(ctx context.Context, ownerKey, message string) (*ExchangeDTO, error)
	History(ctx context.Context, ownerKey string) ([]MessageDTO, error)
	ClearHistory(ctx context.Context, ownerKey string) error
}

type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "chat repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Send(ctx context.Context, ownerKey, message string) (*ExchangeDTO, error) {
	if err := validOwnerKey(ownerKey); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	userMsg := &models.ChatMessage{OwnerKey: ownerKey, Message: message, IsBot: false}
	if err := s.repo.Append(ctx, userMsg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist message")
	}

	botMsg := &models.ChatMessage{OwnerKey: ownerKey, Message: Reply(message), IsBot: true}
	if err := s.repo.Append(ctx, botMsg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist reply")
	}

	return &ExchangeDTO{
		UserMessage: messageFromModel(userMsg),
		BotMessage:  messageFromModel(botMsg),
	}, nil
}

func (s *service) History(ctx context.Context, ownerKey string) ([]MessageDTO, error) {
	if err := validOwnerKey(ownerKey); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByOwner(ctx, ownerKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat history")
	}
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, messageFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ClearHistory(ctx context.Context, ownerKey string) error {
	if err := validOwnerKey(ownerKey); err != nil {
		return err
	}
	if err := s.repo.DeleteByOwner(ctx, ownerKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear chat history")
	}
	return nil
}

func validOwnerKey(ownerKey string) error {
	switch {
	case strings.HasPrefix(ownerKey, "user:") && len(ownerKey) > len("user:"):
		return nil
	case strings.HasPrefix(ownerKey, "guest:") && len(ownerKey) > len("guest:"):
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "chat owner is required")
	}
}

func messageFromModel(m *models.ChatMessage) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Message:   m.Message,
		IsBot:     m.IsBot,
		CreatedAt: m.CreatedAt,
	}
}
