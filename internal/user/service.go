package user

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	userDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/user"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error)
	UpdateFullName(ctx context.Context, userID int64, fullName string) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFullName(ctx, userID, strings.TrimSpace(dto.FullName)); err != nil {
		s.logger.Error("failed to update profile", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to update profile", err)
	}
	return s.GetByID(ctx, userID)
}
