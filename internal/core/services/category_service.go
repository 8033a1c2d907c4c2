package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// categoryService implements the CategorySvcFacade interface
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// CategoryServiceOption is a functional option for configuring the category service
type CategoryServiceOption func(*categoryService)

// WithCategoryAuthorizer adds the household authorizer dependency
func WithCategoryAuthorizer(authorizer portssvc.HouseholdAuthorizerSvc) CategoryServiceOption {
	return func(s *categoryService) {
		s.HouseholdAuthorizer = authorizer
	}
}

// NewCategoryService creates a new category service with the provided options
func NewCategoryService(repo portsrepo.CategoryRepositoryFacade, options ...CategoryServiceOption) portssvc.CategorySvcFacade {
	svc := &categoryService{categoryRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// CreateCategory persists a new category. Requires MEMBER. Category names
// are unique per (household, kind).
func (s *categoryService) CreateCategory(ctx context.Context, householdID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		HouseholdID: householdID,
		Name:        req.Name,
		Kind:        req.Kind,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category %q already exists", apperrors.ErrDuplicate, req.Name)
		}
		s.LogError(ctx, err, "Failed to save category in repository", slog.String("category_id", category.CategoryID))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.LogInfo(ctx, "Category created successfully", slog.String("category_id", category.CategoryID), slog.String("household_id", householdID))
	return &category, nil
}

// GetCategoryByID retrieves a category, checking household scope. Requires VIEWER.
func (s *categoryService) GetCategoryByID(ctx context.Context, householdID string, categoryID string, userID string) (*domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category by ID", slog.String("category_id", categoryID))
		}
		return nil, err
	}
	if category.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return category, nil
}

// ListCategories retrieves the categories of a household. Requires VIEWER.
func (s *categoryService) ListCategories(ctx context.Context, householdID string, userID string) ([]domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListCategories(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// UpdateCategory renames a category. Requires MEMBER. Kind is immutable so
// existing transaction aggregations stay meaningful.
func (s *categoryService) UpdateCategory(ctx context.Context, householdID string, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}

	category.Name = req.Name
	category.LastUpdatedAt = time.Now()
	category.LastUpdatedBy = userID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category %q already exists", apperrors.ErrDuplicate, req.Name)
		}
		s.LogError(ctx, err, "Failed to update category in repository", slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.LogInfo(ctx, "Category updated successfully", slog.String("category_id", categoryID))
	return category, nil
}

// DeleteCategory removes a category. Requires ADMIN. Transactions that
// referenced it keep a null category rather than disappearing.
func (s *categoryService) DeleteCategory(ctx context.Context, householdID string, categoryID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleAdmin); err != nil {
		return err
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.HouseholdID != householdID {
		return apperrors.ErrNotFound
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}
