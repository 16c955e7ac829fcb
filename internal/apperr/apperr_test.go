package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("Libro")

	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "Libro no encontrado", err.Error())
	assert.Equal(t, "Libro", err.Entity)
}

func TestConflictCarriesField(t *testing.T) {
	cause := errors.New("duplicate")
	err := Conflict("Usuario", "email", cause)

	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, "email", err.Field)
	assert.ErrorIs(t, err, cause)
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("updating book: %w", NotFound("Libro"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindConflict))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestValidationKeepsAllViolations(t *testing.T) {
	err := Validation("Datos de validación incorrectos", "a", "b", "c")

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, e.Violations)
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("obteniendo libros", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error obteniendo libros: connection refused", err.Error())
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindInternal:        "internal",
		KindValidation:      "validation",
		KindNotFound:        "not_found",
		KindConflict:        "conflict",
		KindUnauthenticated: "unauthenticated",
		KindUnauthorized:    "unauthorized",
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.String())
	}
}
