package controllers

import (
	"net/http"

	"github.com/theyashdedhia/shopwave-backend/api/middleware"
	"github.com/theyashdedhia/shopwave-backend/api/responses"
	"github.com/theyashdedhia/shopwave-backend/api/validators"
	"github.com/theyashdedhia/shopwave-backend/internal/orders"
	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
)

type orderStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// OrderCreate checks out the authenticated user's cart.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload orders.CreateOrderDTO
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(ctx, middleware.UserIDFromContext(ctx), payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersList returns the authenticated user's order history, newest first.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		history, err := svc.ListOrders(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// OrderGet returns one order. Buyers see their own orders; sellers may
// inspect any order for fulfilment.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.GetOrder(ctx, orderID, middleware.UserIDFromContext(ctx), middleware.IsSellerFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderUpdateStatus moves an order through fulfilment. Seller only.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload orderStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status := models.OrderStatus(payload.Status)
		if !status.IsValid() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
			return
		}

		order, err := svc.UpdateStatus(ctx, orderID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderStats returns per-status order counts and revenue for the dashboard.
func OrderStats(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		stats, err := svc.Stats(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
