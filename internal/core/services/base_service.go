package services

import (
	"context"
	"log/slog"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	HouseholdAuthorizer portssvc.HouseholdAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks if a user has the required role for a household.
// A service wired without an authorizer denies everything.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, householdID string, requiredRole domain.HouseholdRole) error {
	if s.HouseholdAuthorizer == nil {
		s.LogError(ctx, apperrors.ErrForbidden, "no household authorizer configured, denying access",
			slog.String("user_id", userID),
			slog.String("household_id", householdID))
		return apperrors.ErrForbidden
	}
	return s.HouseholdAuthorizer.AuthorizeUserAction(ctx, userID, householdID, requiredRole)
}
