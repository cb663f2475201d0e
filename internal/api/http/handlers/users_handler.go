package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-hq/helpdesk-service/internal/api/dto"
	"github.com/helpdesk-hq/helpdesk-service/internal/auth"
	"github.com/helpdesk-hq/helpdesk-service/internal/domain"
	"github.com/helpdesk-hq/helpdesk-service/internal/repository"
	"github.com/helpdesk-hq/helpdesk-service/internal/service"
	apperrors "github.com/helpdesk-hq/helpdesk-service/pkg/util"
)

// UsersHandler exposes account and profile endpoints.
type UsersHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService, validate: validator.New()}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}

	user, profile, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            req.Role,
		Phone:           req.Phone,
		Department:      req.Department,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": userResponse(user, profile),
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout by revoking the presented token.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	expiresAt := time.Unix(principal.TokenExpiresAt, 0)
	if err := h.auth.Logout(c.Context(), principal.TokenID, expiresAt); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"detail": "logged out"}})
}

// ChangePassword handles POST /auth/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	if err := h.auth.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"detail": "password changed"}})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	token, err := h.auth.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return err
	}
	// Token is returned directly; mail delivery is out of scope.
	return c.JSON(fiber.Map{"data": fiber.Map{
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
	}})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"detail": "password reset"}})
}

// DeleteAccount handles DELETE /users/me.
func (h *UsersHandler) DeleteAccount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.DeleteAccount(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetProfile handles GET /users/me/profile.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	profile, err := h.auth.GetProfile(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

// UpdateProfile handles PATCH /users/me/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}
	profile, err := h.auth.UpdateProfile(c.Context(), principal.User.ID, service.ProfileUpdateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

// SearchUsers handles GET /users/search (staff only).
func (h *UsersHandler) SearchUsers(c *fiber.Ctx) error {
	filter := repository.UserFilter{}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.Role(roleStr)
		if !domain.ValidRole(role) {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": roleStr})
		}
		filter.Role = &role
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	users, profiles, err := h.auth.SearchUsers(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i], &profiles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func userResponse(user *domain.User, profile *domain.Profile) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if profile != nil {
		resp.FirstName = profile.FirstName
		resp.LastName = profile.LastName
		resp.Role = profile.Role
	}
	return resp
}

func profileResponse(profile *domain.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:     profile.UserID,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Role:       profile.Role,
		Phone:      profile.Phone,
		Department: profile.Department,
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
	}
}
