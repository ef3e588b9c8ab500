package services

import (
	"context"
	"errors"

	"github.com/upb/pet-house-api/models"
	"github.com/upb/pet-house-api/repositories"
)

// CatalogService serves the read-only categories and reviews collections
type CatalogService struct {
	store repositories.DocumentStore
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(store repositories.DocumentStore) *CatalogService {
	return &CatalogService{store: store}
}

// ListCategories returns every category
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := s.store.Find(ctx, models.CategoriesCollection, repositories.Filter{}, &categories); err != nil {
		return nil, WrapInternal("failed to list categories", err)
	}
	return categories, nil
}

// GetCategory returns one category by id
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.store.FindOne(ctx, models.CategoriesCollection, repositories.ByID(id), &category); err != nil {
		if errors.Is(err, repositories.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, WrapInternal("failed to get category", err)
	}
	return &category, nil
}

// ListReviews returns every review
func (s *CatalogService) ListReviews(ctx context.Context) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	if err := s.store.Find(ctx, models.ReviewsCollection, repositories.Filter{}, &reviews); err != nil {
		return nil, WrapInternal("failed to list reviews", err)
	}
	return reviews, nil
}
