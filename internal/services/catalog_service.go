package services

import (
	"context"
	"errors"

	"github.com/isdelr/gymdiary/internal/apperr"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/isdelr/gymdiary/internal/sanitize"
	"github.com/isdelr/gymdiary/internal/store"
)

// ErrCategoryNotFound is returned for unknown category names.
var ErrCategoryNotFound = errors.New("workout category not found")

// CatalogServiceProvider defines the interface for catalog services.
type CatalogServiceProvider interface {
	GetAllCategories(ctx context.Context) ([]models.WorkoutCategory, error)
	GetCategory(ctx context.Context, name string) (models.WorkoutCategory, error)
}

// CatalogService serves the read-only workout catalog.
type CatalogService struct {
	store store.CatalogStore
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(s store.CatalogStore) *CatalogService {
	return &CatalogService{store: s}
}

func (s *CatalogService) GetAllCategories(ctx context.Context) ([]models.WorkoutCategory, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Store("Failed to load workout categories", err)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, name string) (models.WorkoutCategory, error) {
	name = sanitize.String(name)
	if name == "" {
		return models.WorkoutCategory{}, ErrCategoryNotFound
	}

	category, err := s.store.GetCategory(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.WorkoutCategory{}, ErrCategoryNotFound
		}
		return models.WorkoutCategory{}, apperr.Store("Failed to load workout category", err)
	}
	return category, nil
}
