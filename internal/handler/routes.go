package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/config"
	"github.com/librarycatalog/library-api/internal/middleware"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/response"
	"github.com/librarycatalog/library-api/internal/service"
)

// Dependencies are the components the router wires into handlers.
type Dependencies struct {
	Config config.Config
	Logger *slog.Logger
	Books  *service.BookService
	Users  *service.UserService
	Auth   *service.AuthService
	Tokens middleware.TokenValidator
	// DB is probed by /health when set.
	DB Pinger
}

type router struct {
	resp      *response.Writer
	auth      *middleware.Authenticator
	validator *middleware.Validator
	// writes guards book mutations.
	writes func(http.Handler) http.Handler

	books  *BookHandler
	users  *UserHandler
	access *AuthHandler
	health *HealthHandler
}

// NewRouter builds the HTTP handler for the whole API. Background work started
// by the middleware stops when ctx is done.
func NewRouter(ctx context.Context, deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resp := response.NewWriter(deps.Config.IsDevelopment(), logger)

	rt := &router{
		resp:      resp,
		auth:      middleware.NewAuthenticator(deps.Tokens, deps.Users.Get, resp),
		validator: middleware.NewValidator(resp),
		writes:    func(next http.Handler) http.Handler { return next },
		books:     NewBookHandler(deps.Books, resp),
		users:     NewUserHandler(deps.Users, resp),
		access:    NewAuthHandler(deps.Auth, resp),
		health:    NewHealthHandler(deps.DB, resp),
	}
	if deps.Config.AuthRequiredForWrites {
		rt.writes = rt.auth.Required
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimit(ctx, deps.Config.RateLimit.Requests, deps.Config.RateLimit.Window, resp))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.Error(w, r, apperr.WithStatus(http.StatusNotFound, "Ruta no encontrada: "+r.URL.Path, nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.Error(w, r, apperr.WithStatus(http.StatusMethodNotAllowed, "Método no permitido: "+r.Method+" "+r.URL.Path, nil))
	})

	r.Get("/", rt.health.Root)
	r.Get("/health", rt.health.Health)

	r.Route("/api/books", func(r chi.Router) {
		rt.mountBooks(r, func(r chi.Router) {
			r.Get("/search", rt.books.SearchByTitle)
			r.Get("/search/author", rt.books.SearchByAuthor)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			rt.mountBooks(r, func(r chi.Router) {
				r.Get("/search", rt.books.Search)
			})
		})
		r.Route("/auth", rt.mountAuth)
		r.Route("/users", rt.mountUsers)
	})

	return r
}

// mountBooks registers the book routes shared by every API version; search
// registers the version-specific search endpoints.
func (rt *router) mountBooks(r chi.Router, search func(chi.Router)) {
	r.Use(rt.auth.Optional)

	r.Get("/", rt.books.List)
	r.Get("/stats", rt.books.Stats)
	search(r)
	r.With(rt.writes, rt.validator.RequireJSONBody, middleware.ValidateBody[model.CreateBookRequest](rt.validator)).
		Post("/", rt.books.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(rt.validator.ValidID("id"))
		r.Get("/", rt.books.Get)
		r.With(rt.writes, rt.validator.RequireJSONBody, middleware.ValidateBody[model.UpdateBookRequest](rt.validator)).
			Put("/", rt.books.Update)
		r.With(rt.writes).Delete("/", rt.books.Delete)
	})
}

func (rt *router) mountAuth(r chi.Router) {
	r.With(rt.validator.RequireJSONBody, middleware.ValidateBody[model.CreateUserRequest](rt.validator)).
		Post("/register", rt.access.Register)
	r.With(rt.validator.RequireJSONBody, middleware.ValidateBody[model.LoginRequest](rt.validator)).
		Post("/login", rt.access.Login)
	r.With(rt.auth.Required).Get("/me", rt.access.Me)
}

func (rt *router) mountUsers(r chi.Router) {
	r.Use(rt.auth.Required)

	r.Get("/", rt.users.List)
	r.Get("/stats", rt.users.Stats)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(rt.validator.ValidID("id"))
		r.Get("/", rt.users.Get)
		r.With(rt.validator.RequireJSONBody, middleware.ValidateBody[model.UpdateUserRequest](rt.validator)).
			Put("/", rt.users.Update)
		r.Delete("/", rt.users.Delete)
	})
}
