package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theyashdedhia/shopwave-backend/internal/cart"
	"github.com/theyashdedhia/shopwave-backend/internal/users"
	pkgauth "github.com/theyashdedhia/shopwave-backend/pkg/auth"
	"github.com/theyashdedhia/shopwave-backend/pkg/auth/session"
	"github.com/theyashdedhia/shopwave-backend/pkg/config"
	"github.com/theyashdedhia/shopwave-backend/pkg/db/models"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
	"github.com/theyashdedhia/shopwave-backend/pkg/security"
)

// sessionManager is the slice of session.Manager the service needs. Tests
// swap in a stub.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// rateLimiter matches the fixed-window counter on the Redis client. A nil
// limiter disables throttling.
type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Service owns account lifecycle and token issuance.
type Service interface {
	Register(ctx context.Context, dto RegisterDTO, clientIP string) (*SessionDTO, error)
	Login(ctx context.Context, dto LoginDTO, clientIP string) (*SessionDTO, error)
	Refresh(ctx context.Context, dto RefreshDTO) (*SessionDTO, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*users.ProfileDTO, error)
}

type ServiceParams struct {
	Users     *users.Repository
	Sessions  sessionManager
	Cart      cart.Service
	Limiter   rateLimiter
	Logger    *logger.Logger
	JWT       config.JWTConfig
	Password  config.PasswordConfig
	RateLimit config.AuthRateLimitConfig
}

type service struct {
	users     *users.Repository
	sessions  sessionManager
	cart      cart.Service
	limiter   rateLimiter
	logg      *logger.Logger
	jwt       config.JWTConfig
	password  config.PasswordConfig
	rateLimit config.AuthRateLimitConfig
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{
		users:     params.Users,
		sessions:  params.Sessions,
		cart:      params.Cart,
		limiter:   params.Limiter,
		logg:      params.Logger,
		jwt:       params.JWT,
		password:  params.Password,
		rateLimit: params.RateLimit,
	}, nil
}

func (s *service) Register(ctx context.Context, dto RegisterDTO, clientIP string) (*SessionDTO, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(dto.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	if err := s.allow(ctx, "register:email:"+email, int64(s.rateLimit.RegisterEmailLimit), s.rateLimit.RegisterWindow); err != nil {
		return nil, err
	}
	if err := s.allowIP(ctx, "register:ip:", clientIP, int64(s.rateLimit.RegisterIPLimit), s.rateLimit.RegisterWindow); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	hash, err := security.HashPassword(dto.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	profile, err := s.users.Create(ctx, users.CreateProfileDTO{
		Email:        email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		IsSeller:     dto.IsSeller,
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}

	return s.issueSession(ctx, profile, s.mergeGuestCart(ctx, dto.GuestCartToken, profile.ID))
}

func (s *service) Login(ctx context.Context, dto LoginDTO, clientIP string) (*SessionDTO, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email == "" || dto.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if err := s.allow(ctx, "login:email:"+email, int64(s.rateLimit.LoginEmailLimit), s.rateLimit.LoginWindow); err != nil {
		return nil, err
	}
	if err := s.allowIP(ctx, "login:ip:", clientIP, int64(s.rateLimit.LoginIPLimit), s.rateLimit.LoginWindow); err != nil {
		return nil, err
	}

	profile, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	ok, err := security.VerifyPassword(dto.Password, profile.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}

	if err := s.users.UpdateLastLogin(ctx, profile.ID, time.Now().UTC()); err != nil {
		s.logg.Error(ctx, "update last login", err)
	}

	return s.issueSession(ctx, profile, s.mergeGuestCart(ctx, dto.GuestCartToken, profile.ID))
}

// mergeGuestCart folds the anonymous cart into the account right after the
// shopper signs in or registers. A merge failure never fails the session;
// the guest slot survives for a retry.
func (s *service) mergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) *cart.CartDTO {
	token := strings.TrimSpace(guestToken)
	if token == "" || s.cart == nil {
		return nil
	}
	merged, err := s.cart.TransferOnLogin(ctx, token, userID)
	if err != nil {
		s.logg.Error(ctx, "transfer guest cart", err)
		return nil
	}
	return &merged
}

func (s *service) Refresh(ctx context.Context, dto RefreshDTO) (*SessionDTO, error) {
	if dto.AccessToken == "" || dto.RefreshToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access and refresh tokens are required")
	}

	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, dto.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, dto.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	// Reload the profile so a changed seller flag lands in the new token.
	profile, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwt, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   profile.ID,
		Email:    profile.Email,
		IsSeller: profile.IsSeller,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &SessionDTO{
		User:         users.FromModel(profile),
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	profile, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return users.FromModel(profile), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*users.ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	updates := map[string]any{}
	if dto.FirstName != nil {
		updates["first_name"] = *dto.FirstName
	}
	if dto.LastName != nil {
		updates["last_name"] = *dto.LastName
	}
	if dto.AvatarURL != nil {
		updates["avatar_url"] = *dto.AvatarURL
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields to update")
	}

	profile, err := s.users.UpdateProfile(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return users.FromModel(profile), nil
}

func (s *service) issueSession(ctx context.Context, profile *models.Profile, mergedCart *cart.CartDTO) (*SessionDTO, error) {
	accessID := session.NewAccessID()

	accessToken, err := pkgauth.MintAccessToken(s.jwt, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   profile.ID,
		Email:    profile.Email,
		IsSeller: profile.IsSeller,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &SessionDTO{
		User:         users.FromModel(profile),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Cart:         mergedCart,
	}, nil
}

func (s *service) allow(ctx context.Context, scope string, limit int64, window time.Duration) error {
	if s.limiter == nil || limit <= 0 || window <= 0 {
		return nil
	}
	ok, _, err := s.limiter.FixedWindowAllow(ctx, scope, limit, window)
	if err != nil {
		// A broken counter must not lock everyone out.
		s.logg.Error(ctx, "rate limit check", err)
		return nil
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later")
	}
	return nil
}

func (s *service) allowIP(ctx context.Context, prefix, clientIP string, limit int64, window time.Duration) error {
	clientIP = strings.TrimSpace(clientIP)
	if clientIP == "" {
		return nil
	}
	return s.allow(ctx, fmt.Sprintf("%s%s", prefix, clientIP), limit, window)
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
