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
	"github.com/hearthkeep/household_ledger_app/internal/middleware"
)

// householdService handles business logic for households and their memberships.
// It also acts as the authorizer every other service consults before touching
// household data.
type householdService struct {
	householdRepo portsrepo.HouseholdRepositoryFacade
}

// NewHouseholdService creates a new household service.
func NewHouseholdService(repo portsrepo.HouseholdRepositoryFacade) portssvc.HouseholdSvcFacade {
	return &householdService{householdRepo: repo}
}

var _ portssvc.HouseholdSvcFacade = (*householdService)(nil)

// CreateHousehold creates a new household and makes the creator the OWNER.
func (s *householdService) CreateHousehold(ctx context.Context, req dto.CreateHouseholdRequest, creatorUserID string) (*domain.Household, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	household := domain.Household{
		HouseholdID: uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     creatorUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.householdRepo.SaveHousehold(ctx, household); err != nil {
		logger.Error("Failed to save household in repository", slog.String("error", err.Error()), slog.String("household_name", req.Name))
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	membership := domain.Member{
		HouseholdID: household.HouseholdID,
		UserID:      creatorUserID,
		Role:        domain.RoleOwner,
		JoinedAt:    now,
	}
	if err := s.householdRepo.SaveMember(ctx, membership); err != nil {
		logger.Error("Failed to add creator as owner of new household", slog.String("error", err.Error()), slog.String("household_id", household.HouseholdID))
		return nil, fmt.Errorf("failed to record household ownership: %w", err)
	}

	logger.Info("Household created successfully", slog.String("household_id", household.HouseholdID), slog.String("creator_user_id", creatorUserID))
	return &household, nil
}

// GetHouseholdByID retrieves a household the requesting user belongs to.
func (s *householdService) GetHouseholdByID(ctx context.Context, householdID string, userID string) (*domain.Household, error) {
	if err := s.AuthorizeUserAction(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	household, err := s.householdRepo.FindHouseholdByID(ctx, householdID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find household by ID", slog.String("error", err.Error()), slog.String("household_id", householdID))
		}
		return nil, err
	}
	return household, nil
}

// ListHouseholds retrieves the households the requesting user belongs to.
func (s *householdService) ListHouseholds(ctx context.Context, userID string) ([]domain.Household, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	households, err := s.householdRepo.ListHouseholdsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list households for user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list households for user %s: %w", userID, err)
	}

	if households == nil {
		return []domain.Household{}, nil
	}
	return households, nil
}

// UpdateHousehold updates a household's details. Requires ADMIN.
func (s *householdService) UpdateHousehold(ctx context.Context, householdID string, req dto.UpdateHouseholdRequest, userID string) (*domain.Household, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, userID, householdID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	household, err := s.householdRepo.FindHouseholdByID(ctx, householdID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		household.Name = *req.Name
	}
	if req.Description != nil {
		household.Description = *req.Description
	}
	household.LastUpdatedAt = time.Now()
	household.LastUpdatedBy = userID

	if err := s.householdRepo.UpdateHousehold(ctx, *household); err != nil {
		logger.Error("Failed to update household in repository", slog.String("error", err.Error()), slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to update household: %w", err)
	}

	logger.Info("Household updated successfully", slog.String("household_id", householdID))
	return household, nil
}

// DeleteHousehold removes a household and everything it owns. Owner only.
func (s *householdService) DeleteHousehold(ctx context.Context, householdID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, userID, householdID, domain.RoleOwner); err != nil {
		return err
	}

	if err := s.householdRepo.DeleteHousehold(ctx, householdID); err != nil {
		logger.Error("Failed to delete household in repository", slog.String("error", err.Error()), slog.String("household_id", householdID))
		return fmt.Errorf("failed to delete household: %w", err)
	}

	logger.Info("Household deleted", slog.String("household_id", householdID), slog.String("deleted_by", userID))
	return nil
}

// AddMember adds a user to a household with a specific role. Requires ADMIN.
func (s *householdService) AddMember(ctx context.Context, householdID string, req dto.AddMemberRequest, requestingUserID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, householdID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if req.Role == domain.RoleOwner {
		return nil, fmt.Errorf("%w: the OWNER role cannot be granted", apperrors.ErrValidation)
	}

	membership := domain.Member{
		HouseholdID: householdID,
		UserID:      req.UserID,
		Role:        req.Role,
		JoinedAt:    time.Now(),
	}

	if err := s.householdRepo.SaveMember(ctx, membership); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user %s is already a member", apperrors.ErrDuplicate, req.UserID)
		}
		logger.Error("Failed to add member to household", slog.String("error", err.Error()), slog.String("target_user_id", req.UserID), slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	logger.Info("Member added to household", slog.String("target_user_id", req.UserID), slog.String("household_id", householdID), slog.String("role", string(req.Role)))
	return &membership, nil
}

// ListMembers retrieves all members of a household.
func (s *householdService) ListMembers(ctx context.Context, householdID string, requestingUserID string) ([]domain.Member, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	members, err := s.householdRepo.ListMembers(ctx, householdID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list household members", slog.String("error", err.Error()), slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if members == nil {
		return []domain.Member{}, nil
	}
	return members, nil
}

// UpdateMemberRole changes a member's role. Requires ADMIN. The owner's role
// is fixed and the OWNER role cannot be granted.
func (s *householdService) UpdateMemberRole(ctx context.Context, householdID string, memberUserID string, req dto.UpdateMemberRoleRequest, requestingUserID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, requestingUserID, householdID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	member, err := s.householdRepo.FindMember(ctx, householdID, memberUserID)
	if err != nil {
		return nil, err
	}

	if member.Role == domain.RoleOwner {
		return nil, fmt.Errorf("%w: the owner's role cannot be changed", apperrors.ErrValidation)
	}
	if req.Role == domain.RoleOwner {
		return nil, fmt.Errorf("%w: the OWNER role cannot be granted", apperrors.ErrValidation)
	}

	now := time.Now()
	if err := s.householdRepo.UpdateMemberRole(ctx, householdID, memberUserID, req.Role, requestingUserID, now); err != nil {
		logger.Error("Failed to update member role", slog.String("error", err.Error()), slog.String("target_user_id", memberUserID), slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	member.Role = req.Role
	logger.Info("Member role updated", slog.String("target_user_id", memberUserID), slog.String("household_id", householdID), slog.String("role", string(req.Role)))
	return member, nil
}

// RemoveMember removes a member from the household. Admins can remove anyone
// but the owner; members can remove themselves.
func (s *householdService) RemoveMember(ctx context.Context, householdID string, memberUserID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if requestingUserID != memberUserID {
		if err := s.AuthorizeUserAction(ctx, requestingUserID, householdID, domain.RoleAdmin); err != nil {
			return err
		}
	}

	member, err := s.householdRepo.FindMember(ctx, householdID, memberUserID)
	if err != nil {
		return err
	}
	if member.Role == domain.RoleOwner {
		return fmt.Errorf("%w: the owner cannot be removed from the household", apperrors.ErrValidation)
	}

	if err := s.householdRepo.DeleteMember(ctx, householdID, memberUserID); err != nil {
		logger.Error("Failed to remove member from household", slog.String("error", err.Error()), slog.String("target_user_id", memberUserID), slog.String("household_id", householdID))
		return fmt.Errorf("failed to remove member: %w", err)
	}

	logger.Info("Member removed from household", slog.String("target_user_id", memberUserID), slog.String("household_id", householdID))
	return nil
}

// AuthorizeUserAction checks if a user holds at least the required role in a
// household. Returns apperrors.ErrNotFound when the user is not a member at
// all, to avoid revealing the household's existence, and
// apperrors.ErrForbidden when they are a member but lack the role.
func (s *householdService) AuthorizeUserAction(ctx context.Context, userID, householdID string, requiredRole domain.HouseholdRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.householdRepo.FindMember(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: user not a member of household", slog.String("user_id", userID), slog.String("household_id", householdID))
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to check household membership", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("household_id", householdID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if member.Role.Meets(requiredRole) {
		return nil
	}

	logger.Warn("Authorization failed: user lacks required role", slog.String("user_id", userID), slog.String("household_id", householdID), slog.String("user_role", string(member.Role)), slog.String("required_role", string(requiredRole)))
	return apperrors.ErrForbidden
}
