package services

import (
	"context"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// CategorySvcFacade defines operations for category data
type CategorySvcFacade interface {
	// GetCategoryByID retrieves a specific category by its unique identifier.
	GetCategoryByID(ctx context.Context, householdID string, categoryID string, userID string) (*domain.Category, error)

	// ListCategories retrieves the categories of a household.
	ListCategories(ctx context.Context, householdID string, userID string) ([]domain.Category, error)

	// CreateCategory persists a new category.
	CreateCategory(ctx context.Context, householdID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)

	// UpdateCategory renames an existing category.
	UpdateCategory(ctx context.Context, householdID string, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error)

	// DeleteCategory removes a category; referencing transactions keep a null category.
	DeleteCategory(ctx context.Context, householdID string, categoryID string, userID string) error
}
