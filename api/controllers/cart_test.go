package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/theyashdedhia/shopwave-backend/api/middleware"
	"github.com/theyashdedhia/shopwave-backend/internal/cart"
)

func TestCartOwnerResolution(t *testing.T) {
	logg := testControllerLogger()
	userID := uuid.New()

	t.Run("no identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		rec := httptest.NewRecorder()
		CartGet(&stubCartService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without user or guest token, got %d", rec.Code)
		}
	})

	t.Run("guest token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req = req.WithContext(middleware.WithGuestToken(context.Background(), "guest-abc"))
		stub := &stubCartService{}
		rec := httptest.NewRecorder()
		CartGet(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.gotOwner.GuestToken != "guest-abc" {
			t.Fatalf("expected guest owner, got %+v", stub.gotOwner)
		}
	})

	t.Run("user wins over guest token", func(t *testing.T) {
		ctx := middleware.WithGuestToken(context.Background(), "guest-abc")
		ctx = middleware.WithUserID(ctx, userID)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req = req.WithContext(ctx)
		stub := &stubCartService{}
		rec := httptest.NewRecorder()
		CartGet(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.gotOwner.UserID != userID || stub.gotOwner.GuestToken != "" {
			t.Fatalf("expected user owner, got %+v", stub.gotOwner)
		}
	})
}

func TestCartAddItem(t *testing.T) {
	logg := testControllerLogger()
	productID := uuid.New()

	makeRequest := func(body string, stub *stubCartService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(middleware.WithGuestToken(context.Background(), "guest-xyz"))
		rec := httptest.NewRecorder()
		CartAddItem(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("rejects zero quantity", func(t *testing.T) {
		rec := makeRequest(`{"product_id":"`+productID.String()+`","quantity":0}`, &stubCartService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{}
		rec := makeRequest(`{"product_id":"`+productID.String()+`","quantity":2}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotProductID != productID || stub.gotQuantity != 2 {
			t.Fatalf("expected add of %s x2, got %s x%d", productID, stub.gotProductID, stub.gotQuantity)
		}
	})
}

type stubCartService struct {
	gotOwner     cart.Owner
	gotProductID uuid.UUID
	gotQuantity  int
	cleared      bool
}

func (s *stubCartService) GetCart(ctx context.Context, owner cart.Owner) (cart.CartDTO, error) {
	s.gotOwner = owner
	return cart.CartDTO{}, nil
}

func (s *stubCartService) AddItem(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int) (cart.CartDTO, error) {
	s.gotOwner = owner
	s.gotProductID = productID
	s.gotQuantity = quantity
	return cart.CartDTO{}, nil
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, owner cart.Owner, itemID uuid.UUID, quantity int) (cart.CartDTO, error) {
	s.gotOwner = owner
	s.gotQuantity = quantity
	return cart.CartDTO{}, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, owner cart.Owner, itemID uuid.UUID) (cart.CartDTO, error) {
	s.gotOwner = owner
	return cart.CartDTO{}, nil
}

func (s *stubCartService) ClearCart(ctx context.Context, owner cart.Owner) error {
	s.gotOwner = owner
	s.cleared = true
	return nil
}

func (s *stubCartService) TransferOnLogin(ctx context.Context, guestToken string, userID uuid.UUID) (cart.CartDTO, error) {
	panic("unimplemented")
}
