package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/internal/users"
	pkgAuth "github.com/aldousari/sooqfresh-backend/pkg/auth"
	"github.com/aldousari/sooqfresh-backend/pkg/auth/session"
	"github.com/aldousari/sooqfresh-backend/pkg/config"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error)
	Logout(ctx context.Context, accessID string) error
	Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

// sessionManager is the refresh-token surface backed by Redis
// (pkg/auth/session.Manager).
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users       userRepository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ServiceParams bundles the dependencies required to build an auth service.
// Sessions is optional: without it no refresh tokens are issued and the
// refresh/logout operations report a dependency error.
type ServiceParams struct {
	UserRepo       userRepository
	Sessions       sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		users:       params.UserRepo,
		sessions:    params.Sessions,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates a buyer or vendor account. Vendors start in the pending
// review state and cannot publish offers until an admin approves them.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.Validation("email is required")
	}

	role, err := enums.ParseRole(req.Role)
	if err != nil || role == enums.RoleAdmin {
		return nil, pkgerrors.Validation("role must be buyer or vendor")
	}

	dto := users.CreateUserDTO{
		Email: email,
		Name:  strings.TrimSpace(req.Name),
		Role:  role,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		dto.Phone = &phone
	}

	if role == enums.RoleVendor {
		business := strings.TrimSpace(req.BusinessName)
		if business == "" {
			return nil, pkgerrors.Validation("business_name is required for vendors")
		}
		if dto.Phone == nil {
			return nil, pkgerrors.Validation("phone is required for vendors")
		}
		status := enums.VendorStatusPending
		pref := enums.NotificationPreferenceSMS
		if req.NotificationPreference != "" {
			parsed, err := enums.ParseNotificationPreference(req.NotificationPreference)
			if err != nil {
				return nil, pkgerrors.Validation(err.Error())
			}
			pref = parsed
		}
		dto.VendorStatus = &status
		dto.BusinessName = &business
		dto.NotificationPreference = &pref
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	dto.PasswordHash = hash

	user, err := s.users.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueTokens(ctx, user, time.Now().UTC())
}

// Login verifies credentials and issues an access token.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	return s.issueTokens(ctx, user, now)
}

// Refresh verifies the (possibly expired) access token's signature, rotates
// the refresh session, and returns a new token pair. The user is reloaded so
// role or deactivation changes take effect on rotation.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if s.sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session storage not configured")
	}

	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := s.mintToken(user, time.Now().UTC(), newAccessID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  token,
		RefreshToken: newRefresh,
		User:         users.FromModel(user),
	}, nil
}

// Logout drops the refresh session for the presented access token, so the
// pair cannot be rotated again. The access token itself lapses on its TTL.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if s.sessions == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "session storage not configured")
	}
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Profile returns the authenticated user's account details.
func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := normalizeEmail(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// issueTokens mints the access token and, when session storage is wired,
// pairs it with a refresh token keyed by the token's jti.
func (s *service) issueTokens(ctx context.Context, user *models.User, now time.Time) (*AuthResponse, error) {
	accessID := session.NewAccessID()
	token, err := s.mintToken(user, now, accessID)
	if err != nil {
		return nil, err
	}

	resp := &AuthResponse{AccessToken: token, User: users.FromModel(user)}
	if s.sessions != nil {
		refresh, err := s.sessions.Generate(ctx, accessID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
		}
		resp.RefreshToken = refresh
	}
	return resp, nil
}

func (s *service) mintToken(user *models.User, now time.Time, jti string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    jti,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
