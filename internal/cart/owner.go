package cart

import (
	"strings"

	"github.com/google/uuid"
)

// Owner is the tagged identity a cart operation targets. Exactly one of the
// two fields is set: UserID for an authenticated cart backed by Postgres,
// GuestToken for an anonymous cart backed by a Redis slot.
type Owner struct {
	UserID     uuid.UUID
	GuestToken string
}

// OwnerForUser addresses the authenticated cart of the given user.
func OwnerForUser(id uuid.UUID) Owner {
	return Owner{UserID: id}
}

// OwnerForGuest addresses the guest cart stored under the given token.
func OwnerForGuest(token string) Owner {
	return Owner{GuestToken: strings.TrimSpace(token)}
}

// IsGuest reports whether the owner is an anonymous visitor.
func (o Owner) IsGuest() bool {
	return o.UserID == uuid.Nil
}

// Valid reports whether the owner addresses anything at all.
func (o Owner) Valid() bool {
	return o.UserID != uuid.Nil || o.GuestToken != ""
}

// Key returns a loggable identifier for the owner.
func (o Owner) Key() string {
	if o.IsGuest() {
		return "guest:" + o.GuestToken
	}
	return "user:" + o.UserID.String()
}
