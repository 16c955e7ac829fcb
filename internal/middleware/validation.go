package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/response"
)

const (
	MsgJSONBodyRequired = "Se requiere un cuerpo JSON válido"
	MsgInvalidID        = "ID debe ser un número válido"

	// MaxBodyBytes caps every request body.
	MaxBodyBytes = 1 << 20
)

// Validatable is a request body that checks itself against the rule set.
type Validatable interface {
	Validate() []string
}

// Validator holds the request validation middleware.
type Validator struct {
	errs *response.Writer
}

func NewValidator(errs *response.Writer) *Validator {
	return &Validator{errs: errs}
}

// RequireJSONBody rejects POST and PUT requests whose body is not a non-empty
// JSON object.
func (v *Validator) RequireJSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			v.errs.Error(w, r, err)
			return
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil || len(fields) == 0 {
			v.errs.Error(w, r, apperr.Validation(MsgJSONBodyRequired))
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(data))
		next.ServeHTTP(w, r)
	})
}

// ValidID parses the named URL parameter as a positive integer and stores it
// in the request context.
func (v *Validator) ValidID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || id <= 0 {
				v.errs.Error(w, r, apperr.Validation(MsgInvalidID))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), idKey, id)))
		})
	}
}

// IDFromContext returns the id stored by ValidID.
func IDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(idKey).(int64)
	return id, ok
}

// ValidateBody decodes the body into T, runs its rule set and stores the
// decoded value in the request context. Every violation is reported.
func ValidateBody[T Validatable](v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body T
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					v.errs.Error(w, r, err)
					return
				}
				v.errs.Error(w, r, apperr.Validation(MsgJSONBodyRequired))
				return
			}

			if violations := body.Validate(); len(violations) > 0 {
				v.errs.Error(w, r, apperr.Validation(model.ValidationFailedMsg, violations...))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), bodyKey, body)))
		})
	}
}

// BodyFromContext returns the body stored by ValidateBody.
func BodyFromContext[T Validatable](ctx context.Context) (T, bool) {
	body, ok := ctx.Value(bodyKey).(T)
	return body, ok
}
