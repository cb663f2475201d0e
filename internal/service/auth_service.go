package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-hq/helpdesk-service/internal/auth"
	"github.com/helpdesk-hq/helpdesk-service/internal/config"
	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-hq/helpdesk-service/pkg/util"
)

// AuthService coordinates registration, login, and account flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	revoker    auth.Revoker
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Revoker           auth.Revoker
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoker:    deps.Revoker,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterInput describes a new account with its nested profile.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Role            domain.Role
	Phone           string
	Department      string
}

// Register creates the account and its profile in a single transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Profile, error) {
	if input.Password != input.PasswordConfirm {
		return nil, nil, apperrors.NewValidationError("password and password confirmation do not match", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, nil, apperrors.NewConflict("username already registered", map[string]any{"username": input.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	profile := &domain.Profile{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Role:       role,
		Phone:      input.Phone,
		Department: input.Department,
	}
	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, profile, nil
}

// Login authenticates by username and issues a role-bearing token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	profile, err := s.users.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, profile.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoker == nil || tokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword verifies the current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// RequestPasswordReset persists a reset token for the account behind email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("reset token", nil)
		}
		return apperrors.MapError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.resets.MarkUsed(ctx, token.ID))
}

// DeleteAccount removes the account; the profile, its tickets, and their
// comments go with it via cascade.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetProfile returns the profile for the given account.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// ProfileUpdateInput carries partial profile updates. Role changes are not
// accepted here; only an admin flow may alter roles.
type ProfileUpdateInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Department *string
}

// UpdateProfile applies partial updates to the caller's own profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Department != nil {
		profile.Department = *input.Department
	}
	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// SearchUsers finds accounts by username, email, or name, optionally
// narrowed by role. Staff only, enforced at routing.
func (s *AuthService) SearchUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, []domain.Profile, error) {
	users, profiles, err := s.users.Search(ctx, filter)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return users, profiles, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
