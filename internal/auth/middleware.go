package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-hq/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller with their role-bearing
// profile loaded.
type Principal struct {
	User    *domain.User
	Profile *domain.Profile
	// TokenID is the jti of the presented token, kept for logout.
	TokenID        string
	TokenExpiresAt int64
}

// Role returns the caller's role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.Profile == nil {
		return domain.RoleUser
	}
	return p.Profile.Role
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenManager
	users   repository.UserRepository
	revoker Revoker
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, revoker Revoker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, revoker: revoker}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	profile, err := m.users.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("profile not found")
		}
		return apperrors.MapError(err)
	}

	principal := &Principal{
		User:    user,
		Profile: profile,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.TokenExpiresAt = claims.ExpiresAt.Unix()
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
