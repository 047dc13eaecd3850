package auth

import (
	"github.com/theyashdedhia/shopwave-backend/internal/cart"
	"github.com/theyashdedhia/shopwave-backend/internal/users"
)

// RegisterDTO carries a new account request plus the optional guest cart
// token, since a shopper can fill a cart before ever creating an account.
type RegisterDTO struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	IsSeller       bool    `json:"is_seller"`
	GuestCartToken string  `json:"guest_cart_token"`
}

// LoginDTO carries credentials plus the optional guest cart token so the
// anonymous cart can follow the shopper into their account.
type LoginDTO struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	GuestCartToken string `json:"guest_cart_token"`
}

// RefreshDTO carries the expired access token and its paired refresh token.
type RefreshDTO struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileDTO carries the editable profile fields. Nil fields are left
// untouched.
type UpdateProfileDTO struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// SessionDTO is the token pair plus profile returned by register, login, and
// refresh.
type SessionDTO struct {
	User         *users.ProfileDTO `json:"user"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Cart         *cart.CartDTO     `json:"cart,omitempty"`
}
