package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/pet-house-api/app"
	"github.com/upb/pet-house-api/handlers"
	"github.com/upb/pet-house-api/internal/observability"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.AccessLog(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: deps.Config.CORS.AllowCredentials,
		MaxAge:           300,
	}))

	guard := deps.AuthMiddleware
	logger := deps.Logger

	health := handlers.NewHealthHandler(deps.Store, logger)
	r.Get("/", health.HandleRoot)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	tokens := handlers.NewTokenHandler(deps.AuthService, logger)
	r.Post("/jwt", tokens.HandleIssue)

	users := handlers.NewUserHandler(deps.Users, logger)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.HandleCreate)
		r.With(guard.RequireAuthAdmin).Get("/", users.HandleList)
		r.With(guard.RequireAuth).Get("/admin/{email}", users.HandleCheckAdmin)
		r.With(guard.RequireAuthAdmin).Patch("/admin/{id}", users.HandleMakeAdmin)
		r.With(guard.RequireAuthAdmin).Delete("/{id}", users.HandleDelete)
	})

	// Creation is open to anonymous callers unless the policy says otherwise
	createGuard := guard.AllowAnonymous
	if deps.Config.Policy.RequireAuthOnCreate {
		createGuard = guard.RequireAuth
	}

	mountOwned(r, "/pets", handlers.NewResourceHandler(deps.Pets, logger), guard.RequireAuth, createGuard)
	mountOwned(r, "/campaigns", handlers.NewResourceHandler(deps.Campaigns, logger), guard.RequireAuth, createGuard)
	mountOwned(r, "/adoptions", handlers.NewResourceHandler(deps.Adoptions, logger), guard.RequireAuth, createGuard)

	catalog := handlers.NewCatalogHandler(deps.Catalog, logger)
	r.Get("/categories", catalog.HandleListCategories)
	r.Get("/categories/{id}", catalog.HandleGetCategory)
	r.Get("/reviews", catalog.HandleListReviews)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.ErrorResponse{
			Error:   "method_not_allowed",
			Message: "method not allowed",
		})
	})

	return r
}

// ownedRoutes is the handler surface shared by every owned collection
type ownedRoutes interface {
	HandleList(http.ResponseWriter, *http.Request)
	HandleGet(http.ResponseWriter, *http.Request)
	HandleCreate(http.ResponseWriter, *http.Request)
	HandleUpdate(http.ResponseWriter, *http.Request)
	HandleDelete(http.ResponseWriter, *http.Request)
}

var (
	_ ownedRoutes = (*handlers.ResourceHandler[models.Pet, *models.Pet])(nil)
	_ ownedRoutes = (*handlers.ResourceHandler[models.Campaign, *models.Campaign])(nil)
	_ ownedRoutes = (*handlers.ResourceHandler[models.Adoption, *models.Adoption])(nil)
)

func mountOwned(r chi.Router, prefix string, h ownedRoutes, mutate, create func(http.Handler) http.Handler) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.With(create).Post("/", h.HandleCreate)
		r.With(mutate).Put("/{id}", h.HandleUpdate)
		r.With(mutate).Delete("/{id}", h.HandleDelete)
	})
}
