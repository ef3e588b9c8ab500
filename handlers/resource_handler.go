package handlers

import (
	"net/http"
	"strings"

	"github.com/upb/pet-house-api/middleware"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/services"
	"github.com/upb/pet-house-api/utils"
	"go.uber.org/zap"
)

// ResourceHandler serves the CRUD endpoints of one owned collection
type ResourceHandler[T any, PT interface {
	*T
	models.OwnedRecord
}] struct {
	service *services.ResourceService[T, PT]
	logger  *zap.Logger
}

// NewResourceHandler creates a handler backed by service
func NewResourceHandler[T any, PT interface {
	*T
	models.OwnedRecord
}](service *services.ResourceService[T, PT], logger *zap.Logger) *ResourceHandler[T, PT] {
	return &ResourceHandler[T, PT]{
		service: service,
		logger:  logger.With(zap.String("resource", service.Spec().Collection)),
	}
}

// HandleList handles GET /<collection>?email=
func (h *ResourceHandler[T, PT]) HandleList(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.URL.Query().Get("email"))

	records, err := h.service.List(r.Context(), owner)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, records)
}

// HandleGet handles GET /<collection>/{id}
func (h *ResourceHandler[T, PT]) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, record)
}

// HandleCreate handles POST /<collection>
func (h *ResourceHandler[T, PT]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	record := PT(new(T))
	if err := decodeBody(r, record); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.service.Create(r.Context(), caller, record)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleUpdate handles PUT /<collection>/{id}
func (h *ResourceHandler[T, PT]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	record := PT(new(T))
	if err := decodeBody(r, record); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.service.Update(r.Context(), caller, id, record)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleDelete handles DELETE /<collection>/{id}
func (h *ResourceHandler[T, PT]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	result, err := h.service.Delete(r.Context(), caller, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}
