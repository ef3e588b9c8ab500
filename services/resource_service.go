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

// ResourceSpec describes an owned collection
type ResourceSpec struct {
	// Name is used in error messages, e.g. "Pet not found"
	Name       string
	Collection string
	// OwnerField is the document field holding the owner's email
	OwnerField string
}

var (
	PetSpec      = ResourceSpec{Name: "Pet", Collection: models.PetsCollection, OwnerField: models.PetOwnerField}
	CampaignSpec = ResourceSpec{Name: "Campaign", Collection: models.CampaignsCollection, OwnerField: models.CampaignOwnerField}
	AdoptionSpec = ResourceSpec{Name: "Adoption", Collection: models.AdoptionsCollection, OwnerField: models.AdoptionOwnerField}
)

// AdminChecker reports whether an email belongs to an administrator
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// ResourceService implements owner-or-admin scoped CRUD for one collection.
// T is the record type; PT is its pointer type carrying the ownership accessors.
type ResourceService[T any, PT interface {
	*T
	models.OwnedRecord
}] struct {
	spec   ResourceSpec
	store  repositories.DocumentStore
	admins AdminChecker
	logger *zap.Logger
	now    func() time.Time
}

// NewResourceService creates a service for the collection described by spec
func NewResourceService[T any, PT interface {
	*T
	models.OwnedRecord
}](spec ResourceSpec, store repositories.DocumentStore, admins AdminChecker, logger *zap.Logger) *ResourceService[T, PT] {
	return &ResourceService[T, PT]{
		spec:   spec,
		store:  store,
		admins: admins,
		logger: logger.With(zap.String("resource", spec.Collection)),
		now:    time.Now,
	}
}

// Spec returns the resource description
func (s *ResourceService[T, PT]) Spec() ResourceSpec {
	return s.spec
}

// List returns all records, or only those owned by ownerEmail when set
func (s *ResourceService[T, PT]) List(ctx context.Context, ownerEmail string) ([]T, error) {
	filter := repositories.Filter{}
	if ownerEmail != "" {
		filter[s.spec.OwnerField] = ownerEmail
	}

	records := make([]T, 0)
	if err := s.store.Find(ctx, s.spec.Collection, filter, &records); err != nil {
		return nil, WrapInternal("failed to list "+s.spec.Collection, err)
	}
	return records, nil
}

// Get returns a single record by id
func (s *ResourceService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := s.store.FindOne(ctx, s.spec.Collection, repositories.ByID(id), &rec); err != nil {
		if errors.Is(err, repositories.ErrNoDocuments) {
			return nil, NotFound(s.spec.Name)
		}
		return nil, WrapInternal("failed to get "+s.spec.Collection, err)
	}
	return &rec, nil
}

// Create inserts rec. Creation is not ownership-gated: a known caller becomes
// the owner, an anonymous caller keeps whatever owner the body carries.
func (s *ResourceService[T, PT]) Create(ctx context.Context, caller *auth.Identity, rec PT) (*InsertResult, error) {
	if rec.GetID() == "" {
		rec.SetID(uuid.New().String())
	}
	if caller != nil && caller.Email != "" {
		rec.SetOwner(caller.Email)
	}
	if rec.GetCreatedAt().IsZero() {
		rec.SetCreatedAt(s.now().UTC())
	}

	if err := s.store.InsertOne(ctx, s.spec.Collection, rec.GetID(), rec); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, NewDomainError(ErrorTypeConflict, s.spec.Name+" already exists", err)
		}
		return nil, WrapInternal("failed to create "+s.spec.Collection, err)
	}

	s.logger.Debug("record created",
		zap.String("id", rec.GetID()),
		zap.Bool("anonymous", caller == nil))
	return inserted(rec.GetID()), nil
}

// Update replaces the record with id, creating it when absent.
// Non-admins may only replace records they own; the stored owner is never changed
// by a replace.
func (s *ResourceService[T, PT]) Update(ctx context.Context, caller *auth.Identity, id string, rec PT) (*UpdateResult, error) {
	if caller == nil || caller.Email == "" {
		return nil, ErrUnauthorized
	}
	if id == "" {
		return nil, ErrMissingID
	}

	admin, err := s.admins.IsAdmin(ctx, caller.Email)
	if err != nil {
		return nil, err
	}

	var existing T
	err = s.store.FindOne(ctx, s.spec.Collection, repositories.ByID(id), &existing)
	switch {
	case err == nil:
		current := PT(&existing)
		if !admin && !caller.Owns(current.Owner()) {
			return nil, NotFoundOrUnauthorized(s.spec.Name)
		}
		rec.SetOwner(current.Owner())
		rec.SetCreatedAt(current.GetCreatedAt())
	case errors.Is(err, repositories.ErrNoDocuments):
		if !admin || rec.Owner() == "" {
			rec.SetOwner(caller.Email)
		}
		if rec.GetCreatedAt().IsZero() {
			rec.SetCreatedAt(s.now().UTC())
		}
	default:
		return nil, WrapInternal("failed to load "+s.spec.Collection, err)
	}
	rec.SetID(id)

	res, err := s.store.ReplaceOne(ctx, s.spec.Collection, s.scopedFilter(id, caller, admin), id, rec, true)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, NotFoundOrUnauthorized(s.spec.Name)
		}
		return nil, WrapInternal("failed to update "+s.spec.Collection, err)
	}

	s.logger.Debug("record replaced",
		zap.String("id", id),
		zap.Bool("admin", admin),
		zap.Int64("matched", res.MatchedCount),
		zap.Bool("upserted", res.UpsertedID != nil))
	return &UpdateResult{Acknowledged: true, UpdateResult: res}, nil
}

// Delete removes the record with id when the caller owns it or is an admin.
// A missing record and a record owned by someone else both report not found.
func (s *ResourceService[T, PT]) Delete(ctx context.Context, caller *auth.Identity, id string) (*DeleteResult, error) {
	if caller == nil || caller.Email == "" {
		return nil, ErrUnauthorized
	}

	admin, err := s.admins.IsAdmin(ctx, caller.Email)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteOne(ctx, s.spec.Collection, s.scopedFilter(id, caller, admin))
	if err != nil {
		return nil, WrapInternal("failed to delete "+s.spec.Collection, err)
	}
	if deleted == 0 {
		return nil, NotFoundOrUnauthorized(s.spec.Name)
	}

	s.logger.Debug("record deleted", zap.String("id", id), zap.Bool("admin", admin))
	return &DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

// scopedFilter matches id alone for admins and id plus ownership otherwise
func (s *ResourceService[T, PT]) scopedFilter(id string, caller *auth.Identity, admin bool) repositories.Filter {
	filter := repositories.ByID(id)
	if !admin {
		filter = filter.With(s.spec.OwnerField, caller.Email)
	}
	return filter
}
