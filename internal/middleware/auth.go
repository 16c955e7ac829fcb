package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/crypto"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/response"
)

const (
	MsgTokenRequired = "Token de acceso requerido"
	MsgUserNotFound  = "Usuario no encontrado"
)

type contextKey string

const (
	userKey contextKey = "user"
	idKey   contextKey = "id"
	bodyKey contextKey = "body"
)

// TokenValidator verifies access tokens.
type TokenValidator interface {
	Validate(token string) (*crypto.Claims, error)
}

// UserLookup resolves the account behind a token.
type UserLookup func(ctx context.Context, id int64) (*model.User, error)

// Authenticator resolves bearer tokens into users.
type Authenticator struct {
	tokens TokenValidator
	lookup UserLookup
	errs   *response.Writer
}

func NewAuthenticator(tokens TokenValidator, lookup UserLookup, errs *response.Writer) *Authenticator {
	return &Authenticator{tokens: tokens, lookup: lookup, errs: errs}
}

// Required rejects the request with 401 unless it carries a valid token for
// an existing user.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			a.errs.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// Optional attaches the user when the request carries a valid token and
// otherwise continues anonymously.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.authenticate(r); err == nil {
			r = r.WithContext(withUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) authenticate(r *http.Request) (*model.User, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, apperr.Unauthenticated(apperr.ReasonMissingToken, MsgTokenRequired, nil)
	}

	claims, err := a.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, crypto.ErrExpiredToken) {
			return nil, apperr.Unauthenticated(apperr.ReasonExpiredToken, response.MsgExpiredToken, err)
		}
		return nil, apperr.Unauthenticated(apperr.ReasonInvalidToken, response.MsgInvalidToken, err)
	}

	user, err := a.lookup(r.Context(), claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated(apperr.ReasonUnknownUser, MsgUserNotFound, err)
		}
		return nil, err
	}

	return user, nil
}

// bearerToken extracts the credential from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func withUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}
