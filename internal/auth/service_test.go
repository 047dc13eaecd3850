package auth

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/internal/cart"
	"github.com/theyashdedhia/shopwave-backend/internal/users"
	pkgauth "github.com/theyashdedhia/shopwave-backend/pkg/auth"
	"github.com/theyashdedhia/shopwave-backend/pkg/auth/session"
	"github.com/theyashdedhia/shopwave-backend/pkg/config"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
)

type stubSessionManager struct {
	tokens map[string]string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{tokens: map[string]string{}}
}

func (m *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + uuid.NewString()
	m.tokens[accessID] = token
	return token, nil
}

func (m *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := m.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(m.tokens, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + uuid.NewString()
	m.tokens[newID] = token
	return newID, token, nil
}

func (m *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(m.tokens, accessID)
	return nil
}

type stubLimiter struct {
	counts map[string]int64
}

func (l *stubLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if l.counts == nil {
		l.counts = map[string]int64{}
	}
	l.counts[scope]++
	return l.counts[scope] <= limit, l.counts[scope], nil
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  avatar_url TEXT,
  is_seller INTEGER NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-secret",
		Issuer:                 "shopwave-test",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 60,
	}
}

func newAuthService(t *testing.T, opts ...func(*ServiceParams)) (Service, *stubSessionManager) {
	t.Helper()

	sessions := newStubSessionManager()
	params := ServiceParams{
		Users:    users.NewRepository(setupAuthTestDB(t)),
		Sessions: sessions,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		JWT:      testJWTConfig(),
	}
	for _, opt := range opts {
		opt(&params)
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc, sessions
}

func uniqueEmail() string {
	return fmt.Sprintf("user_%s@example.com", uuid.NewString()[:8])
}

type stubCartMerger struct {
	calls     int
	gotToken  string
	gotUserID uuid.UUID
	err       error
}

func (s *stubCartMerger) TransferOnLogin(_ context.Context, guestToken string, userID uuid.UUID) (cart.CartDTO, error) {
	s.calls++
	s.gotToken = guestToken
	s.gotUserID = userID
	if s.err != nil {
		return cart.CartDTO{}, s.err
	}
	return cart.CartDTO{}, nil
}

func (s *stubCartMerger) GetCart(context.Context, cart.Owner) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (s *stubCartMerger) AddItem(context.Context, cart.Owner, uuid.UUID, int) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (s *stubCartMerger) UpdateQuantity(context.Context, cart.Owner, uuid.UUID, int) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (s *stubCartMerger) RemoveItem(context.Context, cart.Owner, uuid.UUID) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (s *stubCartMerger) ClearCart(context.Context, cart.Owner) error {
	panic("unimplemented")
}

func TestRegisterIssuesSession(t *testing.T) {
	svc, _ := newAuthService(t)
	email := uniqueEmail()

	result, err := svc.Register(context.Background(), RegisterDTO{
		Email:    email,
		Password: "hunter2hunter2",
		IsSeller: true,
	}, "203.0.113.5")
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, email, result.User.Email)
	assert.True(t, result.User.IsSeller)
	assert.NotEmpty(t, result.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.True(t, claims.IsSeller)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthService(t)
	email := uniqueEmail()

	_, err := svc.Register(context.Background(), RegisterDTO{Email: email, Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterDTO{Email: "  " + email + " ", Password: "hunter2hunter2"}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), RegisterDTO{Email: uniqueEmail(), Password: "short"}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	email := uniqueEmail()

	_, err := svc.Register(ctx, RegisterDTO{Email: email, Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginDTO{Email: email, Password: "hunter2hunter2"}, "")
	require.NoError(t, err)
	assert.Equal(t, email, result.User.Email)
	assert.NotEmpty(t, result.AccessToken)

	_, err = svc.Login(ctx, LoginDTO{Email: email, Password: "wrong-password"}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), LoginDTO{Email: uniqueEmail(), Password: "whatever1"}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRateLimited(t *testing.T) {
	limiter := &stubLimiter{}
	svc, _ := newAuthService(t, func(p *ServiceParams) {
		p.Limiter = limiter
		p.RateLimit = config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginEmailLimit: 2,
			LoginIPLimit:    100,
		}
	})
	ctx := context.Background()
	email := uniqueEmail()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, LoginDTO{Email: email, Password: "whatever1"}, "203.0.113.5")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	}

	_, err := svc.Login(ctx, LoginDTO{Email: email, Password: "whatever1"}, "203.0.113.5")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, sessions := newAuthService(t)
	ctx := context.Background()
	email := uniqueEmail()

	registered, err := svc.Register(ctx, RegisterDTO{Email: email, Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshDTO{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, email, refreshed.User.Email)

	// The old pair is spent.
	_, err = svc.Refresh(ctx, RefreshDTO{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	assert.Len(t, sessions.tokens, 1)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterDTO{Email: uniqueEmail(), Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), registered.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.Empty(t, sessions.tokens)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterDTO{Email: uniqueEmail(), Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	first := "Ada"
	updated, err := svc.UpdateProfile(ctx, registered.User.ID, UpdateProfileDTO{FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Ada", *updated.FirstName)

	me, err := svc.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	require.NotNil(t, me.FirstName)
	assert.Equal(t, "Ada", *me.FirstName)

	_, err = svc.UpdateProfile(ctx, registered.User.ID, UpdateProfileDTO{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLoginMergesGuestCart(t *testing.T) {
	merger := &stubCartMerger{}
	svc, _ := newAuthService(t, func(p *ServiceParams) { p.Cart = merger })
	ctx := context.Background()
	email := uniqueEmail()

	_, err := svc.Register(ctx, RegisterDTO{Email: email, Password: "hunter2hunter2"}, "")
	require.NoError(t, err)
	require.Zero(t, merger.calls)

	result, err := svc.Login(ctx, LoginDTO{Email: email, Password: "hunter2hunter2", GuestCartToken: "guest-tok-9"}, "")
	require.NoError(t, err)
	require.Equal(t, 1, merger.calls)
	assert.Equal(t, "guest-tok-9", merger.gotToken)
	assert.Equal(t, result.User.ID, merger.gotUserID)
	assert.NotNil(t, result.Cart)
}

func TestLoginMergeFailureStillSucceeds(t *testing.T) {
	merger := &stubCartMerger{err: fmt.Errorf("redis down")}
	svc, _ := newAuthService(t, func(p *ServiceParams) { p.Cart = merger })
	ctx := context.Background()
	email := uniqueEmail()

	_, err := svc.Register(ctx, RegisterDTO{Email: email, Password: "hunter2hunter2"}, "")
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginDTO{Email: email, Password: "hunter2hunter2", GuestCartToken: "guest-tok-10"}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, merger.calls)
	assert.NotEmpty(t, result.AccessToken)
	assert.Nil(t, result.Cart)
}

func TestRegisterMergesGuestCart(t *testing.T) {
	merger := &stubCartMerger{}
	svc, _ := newAuthService(t, func(p *ServiceParams) { p.Cart = merger })
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterDTO{
		Email:          uniqueEmail(),
		Password:       "hunter2hunter2",
		GuestCartToken: "guest-tok-11",
	}, "")
	require.NoError(t, err)
	require.Equal(t, 1, merger.calls)
	assert.Equal(t, "guest-tok-11", merger.gotToken)
	assert.Equal(t, result.User.ID, merger.gotUserID)
	assert.NotNil(t, result.Cart)
}
