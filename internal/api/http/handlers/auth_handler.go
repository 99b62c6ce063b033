package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/api/dto"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/service"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// AuthHandler exposes login and analyst account endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	analyst, token, exp, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"analyst": dto.NewAnalystResponse(analyst),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// CreateAnalyst handles POST /auth/analysts.
func (h *AuthHandler) CreateAnalyst(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var req dto.CreateAnalystRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	analyst, err := h.authService.CreateAnalyst(c.UserContext(), actor, service.AnalystCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAnalystResponse(analyst)})
}

// ListAnalysts handles GET /analysts.
func (h *AuthHandler) ListAnalysts(c *fiber.Ctx) error {
	var role *domain.AnalystRole
	if raw := c.Query("role"); raw != "" {
		r := domain.AnalystRole(raw)
		if !r.Valid() {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": raw})
		}
		role = &r
	}
	analysts, err := h.authService.ListAnalysts(c.UserContext(), role)
	if err != nil {
		return err
	}
	items := make([]dto.AnalystResponse, 0, len(analysts))
	for i := range analysts {
		items = append(items, dto.NewAnalystResponse(&analysts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetActive handles PATCH /analysts/:id/active.
func (h *AuthHandler) SetActive(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	analyst, err := h.authService.SetActive(c.UserContext(), actor, c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalystResponse(analyst)})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authService.ChangePassword(c.UserContext(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
