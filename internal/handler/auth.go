package handler

import (
	"net/http"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/middleware"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/response"
	"github.com/librarycatalog/library-api/internal/service"
)

const (
	msgRegistered    = "Usuario registrado exitosamente"
	msgLoggedIn      = "Inicio de sesión exitoso"
	msgAuthenticated = "Usuario autenticado"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	auth *service.AuthService
	resp *response.Writer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, resp *response.Writer) *AuthHandler {
	return &AuthHandler{auth: auth, resp: resp}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := requestBody[model.CreateUserRequest](w, r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusCreated, msgRegistered, resp)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := requestBody[model.LoginRequest](w, r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgLoggedIn, resp)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.resp.Error(w, r, apperr.Unauthenticated(apperr.ReasonMissingToken, middleware.MsgTokenRequired, nil))
		return
	}

	me, err := h.auth.Me(r.Context(), user.ID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgAuthenticated, me)
}
