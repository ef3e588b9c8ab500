package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/pet-house-api/utils"
	"go.uber.org/zap"
)

// readinessTimeout bounds the store ping in HandleReadiness
const readinessTimeout = 5 * time.Second

// Pinger is satisfied by every document store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store  Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// HandleRoot handles GET /
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, utils.MessageResponse{Message: "pet-house api is running"})
}

// HandleHealth handles GET /healthz
// Always returns 200 while the process is serving
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{"store": "healthy"}
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store health check failed", zap.Error(err))
		checks["store"] = "unhealthy"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
