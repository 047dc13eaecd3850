package middleware

import (
	"net/http"

	"github.com/theyashdedhia/shopwave-backend/api/responses"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
)

// RequireSeller gates a route to accounts carrying the seller flag.
func RequireSeller(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsSellerFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "seller account required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
