package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/theyashdedhia/shopwave-backend/api/middleware"
	authsvc "github.com/theyashdedhia/shopwave-backend/internal/auth"
	"github.com/theyashdedhia/shopwave-backend/internal/users"
)

func TestAuthRegister(t *testing.T) {
	logg := testControllerLogger()

	makeRequest := func(body string, stub *stubAuthService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		AuthRegister(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("rejects malformed email", func(t *testing.T) {
		rec := makeRequest(`{"email":"not-an-email","password":"longenough"}`, &stubAuthService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed email, got %d", rec.Code)
		}
	})

	t.Run("success passes client ip", func(t *testing.T) {
		stub := &stubAuthService{}
		rec := makeRequest(`{"email":"new@example.com","password":"longenough"}`, stub)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotClientIP != "203.0.113.9" {
			t.Fatalf("expected first forwarded ip, got %q", stub.gotClientIP)
		}
	})

	t.Run("falls back to guest header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"new@example.com","password":"longenough"}`))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(middleware.WithGuestToken(context.Background(), "guest-55"))

		stub := &stubAuthService{}
		rec := httptest.NewRecorder()
		AuthRegister(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotGuestCartToken != "guest-55" {
			t.Fatalf("expected guest token from header, got %q", stub.gotGuestCartToken)
		}
	})
}

func TestAuthLoginFallsBackToGuestHeader(t *testing.T) {
	logg := testControllerLogger()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"shopper@example.com","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithGuestToken(context.Background(), "guest-99"))

	stub := &stubAuthService{}
	rec := httptest.NewRecorder()
	AuthLogin(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotGuestCartToken != "guest-99" {
		t.Fatalf("expected guest token from header, got %q", stub.gotGuestCartToken)
	}
}

func TestAuthLogoutRequiresSessionContext(t *testing.T) {
	logg := testControllerLogger()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	AuthLogout(&stubAuthService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session context, got %d", rec.Code)
	}
}

type stubAuthService struct {
	gotClientIP       string
	gotGuestCartToken string
}

func (s *stubAuthService) Register(ctx context.Context, dto authsvc.RegisterDTO, clientIP string) (*authsvc.SessionDTO, error) {
	s.gotClientIP = clientIP
	s.gotGuestCartToken = dto.GuestCartToken
	return &authsvc.SessionDTO{}, nil
}

func (s *stubAuthService) Login(ctx context.Context, dto authsvc.LoginDTO, clientIP string) (*authsvc.SessionDTO, error) {
	s.gotClientIP = clientIP
	s.gotGuestCartToken = dto.GuestCartToken
	return &authsvc.SessionDTO{}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, dto authsvc.RefreshDTO) (*authsvc.SessionDTO, error) {
	return &authsvc.SessionDTO{}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (s *stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{}, nil
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, dto authsvc.UpdateProfileDTO) (*users.ProfileDTO, error) {
	return &users.ProfileDTO{}, nil
}
