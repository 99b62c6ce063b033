package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/api/dto"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/service"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// DemandsHandler manages demand endpoints.
type DemandsHandler struct {
	demands      *service.DemandService
	distribution *service.DistributionService
}

// NewDemandsHandler constructs handler.
func NewDemandsHandler(demands *service.DemandService, distribution *service.DistributionService) *DemandsHandler {
	return &DemandsHandler{demands: demands, distribution: distribution}
}

// CreateDemand POST /demands.
func (h *DemandsHandler) CreateDemand(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var req dto.CreateDemandRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	demand, err := h.demands.Create(c.UserContext(), actor, service.DemandCreateInput{
		TipoDemanda:  req.TipoDemanda,
		Orgao:        req.Orgao,
		Analista:     req.Analista,
		Distribuidor: req.Distribuidor,
		DataInicial:  req.DataInicial,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": demand})
}

// ListDemands GET /demands.
func (h *DemandsHandler) ListDemands(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	filter := service.DemandListFilter{
		Analista:    optionalQuery(c, "analista"),
		Orgao:       optionalQuery(c, "orgao"),
		TipoDemanda: optionalQuery(c, "tipoDemanda"),
		SearchTerm:  optionalQuery(c, "q"),
		Limit:       limit,
		Offset:      offset,
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status := domain.DemandStatus(strings.TrimSpace(part))
			if !status.Valid() {
				return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	demands, err := h.demands.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": demands})
}

// GetDemand GET /demands/:id.
func (h *DemandsHandler) GetDemand(c *fiber.Ctx) error {
	demand, err := h.demands.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": demand})
}

// FinalizeDemand POST /demands/:id/finalize.
func (h *DemandsHandler) FinalizeDemand(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	req, err := parseLifecycle(c)
	if err != nil {
		return err
	}
	demand, err := h.demands.Finalize(c.UserContext(), actor, c.Params("id"), req.Data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": demand})
}

// ReopenDemand POST /demands/:id/reopen.
func (h *DemandsHandler) ReopenDemand(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	req, err := parseLifecycle(c)
	if err != nil {
		return err
	}
	demand, err := h.demands.Reopen(c.UserContext(), actor, c.Params("id"), req.Data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": demand})
}

// AssignDemand POST /demands/:id/assign.
func (h *DemandsHandler) AssignDemand(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	var demand *domain.Demand
	if strings.TrimSpace(req.Analista) == "" {
		demand, err = h.distribution.AutoAssign(c.UserContext(), actor, c.Params("id"))
	} else {
		demand, err = h.distribution.Assign(c.UserContext(), actor, c.Params("id"), req.Analista)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": demand})
}

// DemandHistory GET /demands/:id/history.
func (h *DemandsHandler) DemandHistory(c *fiber.Ctx) error {
	entries, err := h.demands.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.DemandHistory{}
	}
	return c.JSON(fiber.Map{"data": entries})
}

func parseLifecycle(c *fiber.Ctx) (dto.LifecycleRequest, error) {
	var req dto.LifecycleRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	return req, nil
}
