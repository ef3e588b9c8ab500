package handlers

import (
	"net/http"

	"github.com/upb/pet-house-api/services"
	"github.com/upb/pet-house-api/utils"
	"go.uber.org/zap"
)

// CatalogHandler serves the read-only category and review collections
type CatalogHandler struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, categories)
}

func (h *CatalogHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, category)
}

func (h *CatalogHandler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.catalog.ListReviews(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, reviews)
}
