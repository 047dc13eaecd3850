package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/theyashdedhia/shopwave-backend/api/middleware"
	"github.com/theyashdedhia/shopwave-backend/api/responses"
	"github.com/theyashdedhia/shopwave-backend/api/validators"
	"github.com/theyashdedhia/shopwave-backend/internal/cart"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
)

type cartAddPayload struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// A quantity below one removes the line, so no lower bound here.
type cartQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// cartOwner resolves the cart address for the request. An authenticated
// user always wins over a guest token so a stale header cannot shadow
// the account cart.
func cartOwner(r *http.Request) (cart.Owner, error) {
	ctx := r.Context()
	if userID := middleware.UserIDFromContext(ctx); userID != uuid.Nil {
		return cart.OwnerForUser(userID), nil
	}
	if token := middleware.GuestTokenFromContext(ctx); token != "" {
		return cart.OwnerForGuest(token), nil
	}
	return cart.Owner{}, pkgerrors.New(pkgerrors.CodeValidation, "guest cart token is required")
}

// CartGet returns the cart for the authenticated user or guest token.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		current, err := svc.GetCart(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// CartAddItem adds a product to the cart, merging quantities on repeat adds.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload cartAddPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		current, err := svc.AddItem(ctx, owner, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// CartUpdateItem sets the quantity of an existing line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload cartQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		current, err := svc.UpdateQuantity(ctx, owner, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// CartRemoveItem drops one line from the cart.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		current, err := svc.RemoveItem(ctx, owner, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// CartClear empties the cart without deleting the owner slot.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ClearCart(ctx, owner); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
