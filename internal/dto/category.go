package dto

import (
	"time"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name string              `json:"name" binding:"required,max=100"`
	Kind domain.CategoryKind `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
}

// UpdateCategoryRequest renames a category. Kind is immutable once
// transactions may reference the category.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID  string              `json:"categoryID"`
	HouseholdID string              `json:"householdID"`
	Name        string              `json:"name"`
	Kind        domain.CategoryKind `json:"kind"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.CategoryID,
		HouseholdID: c.HouseholdID,
		Name:        c.Name,
		Kind:        c.Kind,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.LastUpdatedAt,
	}
}

// ListCategoriesResponse wraps the categories of a household.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
