package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/auth"
	"github.com/spec-kit/demand-service/internal/domain"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

func currentAnalyst(c *fiber.Ctx) (*domain.Analyst, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Analyst == nil {
		return nil, apperrors.NewUnauthorized("analyst required")
	}
	return principal.Analyst, nil
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 1 {
		offset = (page - 1) * limit
	}
	return limit, offset
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}
