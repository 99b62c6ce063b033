package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/api/dto"
	"github.com/spec-kit/demand-service/internal/docworkflow"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/service"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// DocumentsHandler manages document endpoints.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documents *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// CreateDocument POST /demands/:id/documents.
func (h *DocumentsHandler) CreateDocument(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var req dto.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.documents.Create(c.UserContext(), actor, c.Params("id"), req.ToDocument())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": view})
}

// ListDocuments GET /demands/:id/documents.
func (h *DocumentsHandler) ListDocuments(c *fiber.Ctx) error {
	views, err := h.documents.ListByDemand(c.UserContext(), c.Params("id"), c.QueryBool("incomplete", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}

// GetDocument GET /documents/:id.
func (h *DocumentsHandler) GetDocument(c *fiber.Ctx) error {
	view, err := h.documents.Get(c.UserContext(), domain.DocumentID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// EditDocument GET /documents/:id/edit.
func (h *DocumentsHandler) EditDocument(c *fiber.Ctx) error {
	view, err := h.documents.EditState(c.UserContext(), domain.DocumentID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// UpdateDocument PATCH /documents/:id. The body is the edited snapshot with
// dates in DD/MM/YYYY.
func (h *DocumentsHandler) UpdateDocument(c *fiber.Ctx) error {
	actor, err := currentAnalyst(c)
	if err != nil {
		return err
	}
	var state docworkflow.EditState
	if err := c.BodyParser(&state); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.documents.Update(c.UserContext(), actor, domain.DocumentID(c.Params("id")), state)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}
