// Package response renders the JSON envelope shared by every endpoint and is
// the single place where an error becomes an HTTP status.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
)

const (
	MsgInvalidToken = "Token inválido"
	MsgExpiredToken = "Token expirado"
	MsgInternal     = "Error interno del servidor"
	MsgForbidden    = "Acceso denegado"
	MsgBodyTooLarge = "El cuerpo de la solicitud es demasiado grande"
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	// Error carries the failure chain in development only.
	Error string `json:"error,omitempty"`
}

// Writer renders envelopes. In development mode unexpected failures expose
// their error chain.
type Writer struct {
	dev    bool
	logger *slog.Logger
}

func NewWriter(dev bool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dev: dev, logger: logger}
}

// JSON writes v with the given status.
func (rw *Writer) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rw.logger.Error("encode response", "error", err)
	}
}

// Success writes a successful envelope. A nil data is omitted from the body.
func (rw *Writer) Success(w http.ResponseWriter, status int, message string, data any) {
	rw.JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Error classifies err and writes the matching failure envelope.
func (rw *Writer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, env := rw.classify(err)

	attrs := []any{
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err,
	}
	switch {
	case status >= http.StatusInternalServerError:
		rw.logger.Error("request failed", attrs...)
	case status == http.StatusTooManyRequests:
		rw.logger.Warn("request throttled", attrs...)
	default:
		rw.logger.Debug("request rejected", attrs...)
	}

	rw.JSON(w, status, env)
}

func (rw *Writer) classify(err error) (int, Envelope) {
	env := Envelope{Success: false}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		env.Message = MsgBodyTooLarge
		return http.StatusRequestEntityTooLarge, env
	}

	e, ok := apperr.As(err)
	if !ok {
		return rw.internal(err, env)
	}

	env.Message = e.Message
	switch e.Kind {
	case apperr.KindValidation:
		env.Errors = e.Violations
		if env.Message == "" {
			env.Message = model.ValidationFailedMsg
		}
		return http.StatusBadRequest, env
	case apperr.KindUnauthenticated:
		switch e.Reason {
		case apperr.ReasonInvalidToken:
			env.Message = MsgInvalidToken
		case apperr.ReasonExpiredToken:
			env.Message = MsgExpiredToken
		}
		return http.StatusUnauthorized, env
	case apperr.KindUnauthorized:
		if env.Message == "" {
			env.Message = MsgForbidden
		}
		return http.StatusForbidden, env
	case apperr.KindNotFound:
		return http.StatusNotFound, env
	case apperr.KindConflict:
		return http.StatusConflict, env
	case apperr.KindInternal:
		if e.Status != 0 {
			return e.Status, env
		}
		return rw.internal(err, env)
	}

	return rw.internal(err, env)
}

func (rw *Writer) internal(err error, env Envelope) (int, Envelope) {
	env.Message = MsgInternal
	if rw.dev {
		env.Error = err.Error()
	}
	return http.StatusInternalServerError, env
}
