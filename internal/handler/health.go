package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/librarycatalog/library-api/internal/response"
)

const (
	Version    = "1.0.0"
	APIVersion = "v1"
	storage    = "database/sql + MySQL"
)

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves / and /health.
type HealthHandler struct {
	db   Pinger
	resp *response.Writer
	now  func() time.Time
}

// NewHealthHandler creates a HealthHandler. db may be nil, in which case the
// database is not probed.
func NewHealthHandler(db Pinger, resp *response.Writer) *HealthHandler {
	return &HealthHandler{db: db, resp: resp, now: time.Now}
}

type healthResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
	ORM        string `json:"orm"`
	Database   string `json:"database,omitempty"`
}

// Health handles GET /health. It answers 503 when the database is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := healthResponse{
		Success:    true,
		Message:    "API funcionando correctamente",
		Timestamp:  h.now().UTC().Format(time.RFC3339Nano),
		Version:    Version,
		APIVersion: APIVersion,
		ORM:        storage,
	}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		body.Database = "ok"
		if err := h.db.PingContext(ctx); err != nil {
			body.Success = false
			body.Message = "Base de datos no disponible"
			body.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	h.resp.JSON(w, status, body)
}

// Root handles GET / with the endpoint catalogue.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.resp.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "API de Biblioteca - Go + chi + MySQL",
		"version":    Version,
		"apiVersion": APIVersion,
		"orm":        storage,
		"endpoints": map[string]any{
			"v1": map[string]any{
				"books": map[string]string{
					"GET /api/v1/books":                             "Obtener todos los libros",
					"GET /api/v1/books/stats":                       "Obtener estadísticas de libros",
					"GET /api/v1/books/search?title=...&author=...": "Buscar libros (título y/o autor)",
					"GET /api/v1/books/:id":                         "Obtener libro por ID",
					"POST /api/v1/books":                            "Crear nuevo libro",
					"PUT /api/v1/books/:id":                         "Actualizar libro",
					"DELETE /api/v1/books/:id":                      "Eliminar libro",
				},
				"auth": map[string]string{
					"POST /api/v1/auth/register": "Registrar usuario",
					"POST /api/v1/auth/login":    "Iniciar sesión",
					"GET /api/v1/auth/me":        "Usuario autenticado",
				},
				"users": map[string]string{
					"GET /api/v1/users":        "Obtener todos los usuarios",
					"GET /api/v1/users/stats":  "Obtener estadísticas de usuarios",
					"GET /api/v1/users/:id":    "Obtener usuario por ID",
					"PUT /api/v1/users/:id":    "Actualizar usuario",
					"DELETE /api/v1/users/:id": "Eliminar usuario",
				},
			},
			"legacy": map[string]any{
				"books": map[string]string{
					"GET /api/books":                          "Obtener todos los libros",
					"GET /api/books/stats":                    "Obtener estadísticas de libros",
					"GET /api/books/search?title=...":         "Buscar libros por título",
					"GET /api/books/search/author?author=...": "Buscar libros por autor",
					"GET /api/books/:id":                      "Obtener libro por ID",
					"POST /api/books":                         "Crear nuevo libro",
					"PUT /api/books/:id":                      "Actualizar libro",
					"DELETE /api/books/:id":                   "Eliminar libro",
				},
			},
		},
	})
}
