package handlers

import (
	"context"
	"net/http"

	"github.com/upb/pet-house-api/utils"
	"go.uber.org/zap"
)

// TokenIssuer issues a bearer token for an email
type TokenIssuer interface {
	IssueToken(ctx context.Context, email string) (string, error)
}

// TokenRequest is the body of POST /jwt
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenResponse carries the signed token
type TokenResponse struct {
	Token string `json:"token"`
}

// TokenHandler issues bearer tokens
type TokenHandler struct {
	issuer TokenIssuer
	logger *zap.Logger
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(issuer TokenIssuer, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		issuer: issuer,
		logger: logger,
	}
}

// HandleIssue handles POST /jwt
func (h *TokenHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeBody(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	token, err := h.issuer.IssueToken(r.Context(), req.Email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, TokenResponse{Token: token})
}
