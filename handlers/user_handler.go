package handlers

import (
	"context"
	"net/http"

	"github.com/upb/pet-house-api/internal/auth"
	"github.com/upb/pet-house-api/middleware"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/services"
	"github.com/upb/pet-house-api/utils"
	"go.uber.org/zap"
)

// UserService defines the user operations exposed over HTTP
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (*services.InsertResult, error)
	MakeAdmin(ctx context.Context, id string) (*services.UpdateResult, error)
	Delete(ctx context.Context, id string) (*services.DeleteResult, error)
	CheckAdmin(ctx context.Context, caller *auth.Identity, email string) (bool, error)
}

// AdminStatusResponse is the body of GET /users/admin/{email}
type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleList handles GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, users)
}

// HandleCreate handles POST /users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeBody(r, &user); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.users.Create(r.Context(), &user)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleMakeAdmin handles PATCH /users/admin/{id}
func (h *UserHandler) HandleMakeAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.users.MakeAdmin(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleDelete handles DELETE /users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.users.Delete(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleCheckAdmin handles GET /users/admin/{email}
func (h *UserHandler) HandleCheckAdmin(w http.ResponseWriter, r *http.Request) {
	email, err := pathParam(r, "email")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	admin, err := h.users.CheckAdmin(r.Context(), caller, email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, AdminStatusResponse{Admin: admin})
}
