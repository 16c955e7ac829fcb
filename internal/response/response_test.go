package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarycatalog/library-api/internal/apperr"
)

func render(t *testing.T, dev bool, err error) (int, map[string]any) {
	t.Helper()
	rw := NewWriter(dev, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	rec := httptest.NewRecorder()
	rw.Error(rec, httptest.NewRequest(http.MethodGet, "/api/v1/books/1", nil), err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	return rec.Code, body
}

func TestErrorStatusTable(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.Validation("Datos de validación incorrectos", "El título es requerido"), 400, "Datos de validación incorrectos"},
		{"invalid token", apperr.Unauthenticated(apperr.ReasonInvalidToken, "whatever", nil), 401, MsgInvalidToken},
		{"expired token", apperr.Unauthenticated(apperr.ReasonExpiredToken, "whatever", nil), 401, MsgExpiredToken},
		{"not found", apperr.NotFound("Libro"), 404, "Libro no encontrado"},
		{"conflict", apperr.Conflict("Usuario", "email", nil), 409, "Usuario con ese email ya existe"},
		{"bad credentials", apperr.Unauthenticated(apperr.ReasonBadCredentials, "Credenciales inválidas", nil), 401, "Credenciales inválidas"},
		{"missing token", apperr.Unauthenticated(apperr.ReasonMissingToken, "Token de acceso requerido", nil), 401, "Token de acceso requerido"},
		{"unauthorized", &apperr.Error{Kind: apperr.KindUnauthorized}, 403, MsgForbidden},
		{"explicit status", apperr.WithStatus(http.StatusTooManyRequests, "Demasiadas solicitudes", nil), 429, "Demasiadas solicitudes"},
		{"wrapped kind", fmt.Errorf("handler: %w", apperr.NotFound("Usuario")), 404, "Usuario no encontrado"},
		{"unclassified", errors.New("dial tcp: refused"), 500, MsgInternal},
		{"body too large", &http.MaxBytesError{Limit: 10}, 413, MsgBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := render(t, false, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestValidationListsEveryViolation(t *testing.T) {
	_, body := render(t, false, apperr.Validation("x", "a", "b", "c"))
	assert.Equal(t, []any{"a", "b", "c"}, body["errors"])
}

func TestInternalDetailOnlyInDevelopment(t *testing.T) {
	err := apperr.Internal("creando libro", errors.New("deadlock found"))

	_, prod := render(t, false, err)
	assert.NotContains(t, prod, "error")
	assert.Equal(t, MsgInternal, prod["message"])

	_, dev := render(t, true, err)
	assert.Equal(t, MsgInternal, dev["message"])
	assert.Contains(t, dev["error"], "deadlock found")
}

func TestSuccessEnvelope(t *testing.T) {
	rw := NewWriter(false, nil)

	rec := httptest.NewRecorder()
	rw.Success(rec, http.StatusOK, "Libros obtenidos exitosamente", []string{})
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Libros obtenidos exitosamente","data":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	rw.Success(rec, http.StatusOK, "Libro eliminado exitosamente", nil)
	assert.JSONEq(t, `{"success":true,"message":"Libro eliminado exitosamente"}`, rec.Body.String())
}

func TestErrorLogLevels(t *testing.T) {
	var buf bytes.Buffer
	rw := NewWriter(false, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	rw.Error(httptest.NewRecorder(), req, apperr.NotFound("Libro"))
	assert.Empty(t, buf.String(), "4xx logs at debug")

	rw.Error(httptest.NewRecorder(), req, apperr.WithStatus(http.StatusTooManyRequests, "slow down", nil))
	assert.True(t, strings.Contains(buf.String(), "level=WARN"))

	rw.Error(httptest.NewRecorder(), req, errors.New("boom"))
	assert.True(t, strings.Contains(buf.String(), "level=ERROR"))
}
