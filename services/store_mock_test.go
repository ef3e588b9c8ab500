package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/pet-house-api/internal/auth"
	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/repositories"
	"github.com/upb/pet-house-api/repositories/memory"
)

// MockStore is a mock implementation of repositories.DocumentStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Find(ctx context.Context, collection string, filter repositories.Filter, out interface{}) error {
	args := m.Called(ctx, collection, filter, out)
	return args.Error(0)
}

func (m *MockStore) FindOne(ctx context.Context, collection string, filter repositories.Filter, out interface{}) error {
	args := m.Called(ctx, collection, filter, out)
	return args.Error(0)
}

func (m *MockStore) InsertOne(ctx context.Context, collection string, id string, doc interface{}) error {
	args := m.Called(ctx, collection, id, doc)
	return args.Error(0)
}

func (m *MockStore) ReplaceOne(ctx context.Context, collection string, filter repositories.Filter, id string, doc interface{}, upsert bool) (repositories.UpdateResult, error) {
	args := m.Called(ctx, collection, filter, id, doc, upsert)
	return args.Get(0).(repositories.UpdateResult), args.Error(1)
}

func (m *MockStore) SetFields(ctx context.Context, collection string, filter repositories.Filter, fields map[string]interface{}) (repositories.UpdateResult, error) {
	args := m.Called(ctx, collection, filter, fields)
	return args.Get(0).(repositories.UpdateResult), args.Error(1)
}

func (m *MockStore) DeleteOne(ctx context.Context, collection string, filter repositories.Filter) (int64, error) {
	args := m.Called(ctx, collection, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

const (
	adminEmail = "admin@pethouse.test"
	ownerEmail = "owner@pethouse.test"
	otherEmail = "other@pethouse.test"
)

// seedUsers stores one admin and two regular users
func seedUsers(t *testing.T, store repositories.DocumentStore) {
	t.Helper()
	users := []models.User{
		{ID: "u-admin", Email: adminEmail, Role: auth.RoleAdmin},
		{ID: "u-owner", Email: ownerEmail, Role: auth.RoleUser},
		{ID: "u-other", Email: otherEmail},
	}
	for i := range users {
		require.NoError(t, store.InsertOne(context.Background(), models.UsersCollection, users[i].ID, &users[i]))
	}
}

func newSeededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	seedUsers(t, store)
	return store
}
