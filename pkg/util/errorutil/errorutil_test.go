package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
		assert.NoError(t, MapError(nil))
	})

	t.Run("domain errors pass through wrapped", func(t *testing.T) {
		orig := NewValidationError("bad", map[string]any{"field": "x"})
		got := ToDomainError(fmt.Errorf("ctx: %w", orig))
		require.NotNil(t, got)
		assert.Equal(t, "VALIDATION_FAILED", got.Code)
		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, ToDomainError(pgx.ErrNoRows).HTTPStatus)
		assert.Equal(t, "NOT_FOUND", ToDomainError(fmt.Errorf("get: %w", ErrNotFound)).Code)
	})

	t.Run("anything else is internal", func(t *testing.T) {
		got := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.ErrorContains(t, got, "boom")
	})
}
