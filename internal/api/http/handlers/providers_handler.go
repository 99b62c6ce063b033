package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/api/dto"
	"github.com/spec-kit/demand-service/internal/service"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// ProvidersHandler exposes the recipient catalog.
type ProvidersHandler struct {
	providers *service.ProviderService
}

// NewProvidersHandler constructs handler.
func NewProvidersHandler(providers *service.ProviderService) *ProvidersHandler {
	return &ProvidersHandler{providers: providers}
}

// ListProviders GET /providers.
func (h *ProvidersHandler) ListProviders(c *fiber.Ctx) error {
	providers, err := h.providers.List(c.UserContext(), c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": providers})
}

// CreateProvider POST /providers.
func (h *ProvidersHandler) CreateProvider(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var req dto.CreateProviderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	provider, err := h.providers.Create(c.UserContext(), actor, req.Name, req.Address)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": provider})
}
