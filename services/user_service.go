package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/upb/pet-house-api/internal/auth"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/repositories"
	"go.uber.org/zap"
)

// MsgUserAlreadyExists is reported when a sign-in repeats for a known email
const MsgUserAlreadyExists = "user already exist"

// UserService manages user records and role elevation
type UserService struct {
	store    repositories.DocumentStore
	resolver *IdentityResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(store repositories.DocumentStore, resolver *IdentityResolver, logger *zap.Logger) *UserService {
	return &UserService{
		store:    store,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.store.Find(ctx, models.UsersCollection, repositories.Filter{}, &users); err != nil {
		return nil, WrapInternal("failed to list users", err)
	}
	return users, nil
}

// Create inserts the user unless one with the same email exists.
// New users always start with RoleUser regardless of the submitted role.
func (s *UserService) Create(ctx context.Context, user *models.User) (*InsertResult, error) {
	if user.Email == "" {
		return nil, ErrInvalidEmail
	}

	var existing models.User
	err := s.store.FindOne(ctx, models.UsersCollection, repositories.Filter{"email": user.Email}, &existing)
	switch {
	case err == nil:
		return &InsertResult{Message: MsgUserAlreadyExists}, nil
	case !errors.Is(err, repositories.ErrNoDocuments):
		return nil, WrapInternal("failed to look up user", err)
	}

	user.ID = uuid.New().String()
	user.Role = auth.RoleUser
	user.CreatedAt = s.now().UTC()

	if err := s.store.InsertOne(ctx, models.UsersCollection, user.ID, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// lost a race with a concurrent sign-in for the same email
			return &InsertResult{Message: MsgUserAlreadyExists}, nil
		}
		return nil, WrapInternal("failed to create user", err)
	}

	s.logger.Info("user created", zap.String("user_id", user.ID))
	return inserted(user.ID), nil
}

// MakeAdmin elevates the user with id to RoleAdmin. There is no demotion.
func (s *UserService) MakeAdmin(ctx context.Context, id string) (*UpdateResult, error) {
	res, err := s.store.SetFields(ctx, models.UsersCollection, repositories.ByID(id),
		map[string]interface{}{"role": auth.RoleAdmin.String()})
	if err != nil {
		return nil, WrapInternal("failed to update user role", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrUserNotFound
	}

	s.logger.Info("user promoted to admin", zap.String("user_id", id))
	return &UpdateResult{Acknowledged: true, UpdateResult: res}, nil
}

// Delete removes the user with id
func (s *UserService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	deleted, err := s.store.DeleteOne(ctx, models.UsersCollection, repositories.ByID(id))
	if err != nil {
		return nil, WrapInternal("failed to delete user", err)
	}
	if deleted == 0 {
		return nil, ErrUserNotFound
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return &DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

// CheckAdmin reports whether email is an admin. Callers may only ask about themselves.
func (s *UserService) CheckAdmin(ctx context.Context, caller *auth.Identity, email string) (bool, error) {
	if caller == nil || caller.Email == "" {
		return false, ErrUnauthorized
	}
	if caller.Email != email {
		return false, ErrForbidden
	}
	return s.resolver.IsAdmin(ctx, email)
}
