package store

import (
	"context"
	"fmt"

	"github.com/isdelr/gymdiary/internal/models"
)

// DefaultCategories is the catalog seeded on boot.
func DefaultCategories() []models.WorkoutCategory {
	return []models.WorkoutCategory{
		{Category: "Chest", Description: "A chest workout exercise", Exercises: []string{"Bench Press", "Chest Fly"}},
		{Category: "Back", Description: "A back workout exercise", Exercises: []string{"Deadlift", "Pull-up"}},
		{Category: "Shoulders", Description: "A shoulder workout exercise", Exercises: []string{"Shoulder Press", "Lateral Raise"}},
		{Category: "Legs", Description: "A leg workout exercise", Exercises: []string{"Squat", "Lunges"}},
	}
}

// SeedCatalog replaces the stored catalog with DefaultCategories.
func SeedCatalog(ctx context.Context, s CatalogStore) error {
	if err := s.ReplaceCategories(ctx, DefaultCategories()); err != nil {
		return fmt.Errorf("failed to seed workout catalog: %w", err)
	}
	return nil
}
