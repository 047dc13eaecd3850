package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/theyashdedhia/shopwave-backend/api/middleware"
	"github.com/theyashdedhia/shopwave-backend/api/responses"
	"github.com/theyashdedhia/shopwave-backend/api/validators"
	"github.com/theyashdedhia/shopwave-backend/internal/chat"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
)

type chatSendPayload struct {
	Message string `json:"message" validate:"required"`
}

// chatOwnerKey picks the transcript owner for the request. Authenticated
// users keep one transcript across devices; guests are keyed by token.
func chatOwnerKey(r *http.Request) (string, error) {
	ctx := r.Context()
	if userID := middleware.UserIDFromContext(ctx); userID != uuid.Nil {
		return chat.OwnerKeyForUser(userID), nil
	}
	if token := middleware.GuestTokenFromContext(ctx); token != "" {
		return chat.OwnerKeyForGuest(token), nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "guest chat token is required")
}

// ChatSend records the visitor message and the scripted reply.
func ChatSend(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		ownerKey, err := chatOwnerKey(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload chatSendPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		exchange, err := svc.Send(ctx, ownerKey, payload.Message)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, exchange)
	}
}

// ChatHistory returns the transcript in chronological order.
func ChatHistory(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		ownerKey, err := chatOwnerKey(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		transcript, err := svc.History(ctx, ownerKey)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, transcript)
	}
}

// ChatClear wipes the transcript.
func ChatClear(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		ownerKey, err := chatOwnerKey(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ClearHistory(ctx, ownerKey); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
