package handler

import (
	"net/http"

	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/response"
	"github.com/librarycatalog/library-api/internal/service"
)

const (
	msgUsersListed = "Usuarios obtenidos exitosamente"
	msgUserFound   = "Usuario obtenido exitosamente"
	msgUserUpdated = "Usuario actualizado exitosamente"
	msgUserDeleted = "Usuario eliminado exitosamente"
)

// UserHandler serves account management under /api/v1/users.
type UserHandler struct {
	users *service.UserService
	resp  *response.Writer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, resp *response.Writer) *UserHandler {
	return &UserHandler{users: users, resp: resp}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgUsersListed, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgUserFound, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	req, err := requestBody[model.UpdateUserRequest](w, r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, req)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgUserUpdated, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgUserDeleted, nil)
}

func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, msgStatsFetched, stats)
}
