package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/middleware"
)

// requestBody returns the body validated by middleware.ValidateBody, decoding
// it directly when the route mounted no validator.
func requestBody[T middleware.Validatable](w http.ResponseWriter, r *http.Request) (T, error) {
	if body, ok := middleware.BodyFromContext[T](r.Context()); ok {
		return body, nil
	}

	var body T
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, middleware.MaxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return body, err
		}
		return body, apperr.Validation(middleware.MsgJSONBodyRequired)
	}
	return body, nil
}

// pathID returns the id stored by middleware.ValidID.
func pathID(r *http.Request) (int64, error) {
	id, ok := middleware.IDFromContext(r.Context())
	if !ok {
		return 0, apperr.Validation(middleware.MsgInvalidID)
	}
	return id, nil
}
