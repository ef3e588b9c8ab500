package app

import (
	"context"
	"fmt"

	"github.com/upb/pet-house-api/config"
	"github.com/upb/pet-house-api/middleware"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/repositories"
	"github.com/upb/pet-house-api/repositories/memory"
	"github.com/upb/pet-house-api/repositories/mongodb"
	"github.com/upb/pet-house-api/repositories/postgres"
	"github.com/upb/pet-house-api/services"
	"github.com/upb/pet-house-api/token"
	"go.uber.org/zap"
)

// Dependencies holds everything the HTTP layer needs.
// The store handle is opened once and shared by all requests.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	Store  repositories.DocumentStore

	// Auth
	Tokens         *token.Service
	Resolver       *services.IdentityResolver
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	AuthService *services.AuthService
	Users       *services.UserService
	Pets        *services.ResourceService[models.Pet, *models.Pet]
	Campaigns   *services.ResourceService[models.Campaign, *models.Campaign]
	Adoptions   *services.ResourceService[models.Adoption, *models.Adoption]
	Catalog     *services.CatalogService
}

// NewDependencies opens the configured document store and wires the rest on top of it.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	deps, err := NewDependenciesWithStore(cfg, store, logger)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	logger.Info("all dependencies initialized successfully",
		zap.String("store_driver", cfg.Store.Driver))
	return deps, nil
}

// NewDependenciesWithStore wires services around an already open store
func NewDependenciesWithStore(cfg *config.Config, store repositories.DocumentStore, logger *zap.Logger) (*Dependencies, error) {
	tokens, err := token.NewService(token.Config{
		Secret: cfg.Auth.TokenSecret,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	resolver := services.NewIdentityResolver(store, logger)

	return &Dependencies{
		Config:         cfg,
		Logger:         logger,
		Store:          store,
		Tokens:         tokens,
		Resolver:       resolver,
		AuthMiddleware: middleware.NewAuthMiddleware(tokens, resolver, logger),
		AuthService:    services.NewAuthService(tokens, logger),
		Users:          services.NewUserService(store, resolver, logger),
		Pets:           services.NewResourceService[models.Pet](services.PetSpec, store, resolver, logger),
		Campaigns:      services.NewResourceService[models.Campaign](services.CampaignSpec, store, resolver, logger),
		Adoptions:      services.NewResourceService[models.Adoption](services.AdoptionSpec, store, resolver, logger),
		Catalog:        services.NewCatalogService(store),
	}, nil
}

// openStore connects to the backend named by cfg.Store.Driver
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.DocumentStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		store, err := mongodb.Open(ctx, cfg.Store.Mongo, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.StoreDriverPostgres:
		store, err := postgres.Open(ctx, cfg.Store.Postgres, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Close releases the store and flushes the logger
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Store != nil {
		if err := d.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		} else {
			d.Logger.Info("store connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
