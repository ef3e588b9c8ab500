package services

import (
	"context"
	"errors"

	"github.com/upb/pet-house-api/internal/auth"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/repositories"
	"go.uber.org/zap"
)

// IdentityResolver maps a verified identity to its stored user role
type IdentityResolver struct {
	store  repositories.DocumentStore
	logger *zap.Logger
}

// NewIdentityResolver creates a new IdentityResolver
func NewIdentityResolver(store repositories.DocumentStore, logger *zap.Logger) *IdentityResolver {
	return &IdentityResolver{
		store:  store,
		logger: logger,
	}
}

// ResolveRole looks up the user by email and returns its role.
// Returns ErrUserNotFound when no user has that email.
func (r *IdentityResolver) ResolveRole(ctx context.Context, email string) (auth.Role, error) {
	if email == "" {
		return "", ErrUserNotFound
	}

	var user models.User
	err := r.store.FindOne(ctx, models.UsersCollection, repositories.Filter{"email": email}, &user)
	if err != nil {
		if errors.Is(err, repositories.ErrNoDocuments) {
			return "", ErrUserNotFound
		}
		return "", WrapInternal("failed to resolve user role", err)
	}

	role, err := auth.ParseRole(string(user.Role))
	if err != nil {
		r.logger.Warn("unknown stored role, treating as user",
			zap.String("user_id", user.ID),
			zap.String("role", string(user.Role)))
	}
	return role, nil
}

// IsAdmin reports whether email belongs to an admin. Unknown users are not admins.
func (r *IdentityResolver) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, err := r.ResolveRole(ctx, email)
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return role.IsAdmin(), nil
}
