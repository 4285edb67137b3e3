package category

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	categoryDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByNameAndType(ctx context.Context, name string, t ledger.Type) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Category, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, errors.NewInternalError("failed to list categories", err)
	}

	categories := make([]*Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, FromDataModel(row))
	}
	return categories, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get category", "category_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, errors.ErrCategoryNotFound
	}
	return FromDataModel(row), nil
}

// Create adds a category. Recreating a deleted category reactivates it with the new color and icon.
func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := NewCategory(dto.Name, dto.Type, dto.Color, dto.Icon)

	existing, err := s.repo.GetByNameAndType(ctx, c.Name, c.Type)
	if err != nil {
		s.logger.Error("failed to look up category", "name", c.Name, "error", err)
		return nil, errors.NewInternalError("failed to create category", err)
	}
	if existing != nil {
		if existing.IsActive {
			return nil, errors.ErrCategoryExists
		}
		restored := FromDataModel(existing)
		restored.Color, restored.Icon = c.Color, c.Icon
		restored.Activate()
		if err := s.repo.Update(ctx, ToDataModel(restored)); err != nil {
			s.logger.Error("failed to reactivate category", "category_id", restored.ID, "error", err)
			return nil, errors.NewInternalError("failed to create category", err)
		}
		s.logger.Info("category reactivated", "category_id", restored.ID, "name", restored.Name)
		return restored, nil
	}

	row := ToDataModel(c)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create category", "name", c.Name, "error", err)
		return nil, errors.NewInternalError("failed to create category", err)
	}
	c.ID = row.ID

	s.logger.Info("category created", "category_id", c.ID, "name", c.Name, "type", c.Type)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name != c.Name {
			clash, err := s.repo.GetByNameAndType(ctx, name, c.Type)
			if err != nil {
				return nil, errors.NewInternalError("failed to update category", err)
			}
			if clash != nil {
				return nil, errors.ErrCategoryExists
			}
			c.Name = name
		}
	}
	if dto.Color != nil {
		c.Color = *dto.Color
	}
	if dto.Icon != nil {
		c.Icon = *dto.Icon
	}

	if err := s.repo.Update(ctx, ToDataModel(c)); err != nil {
		s.logger.Error("failed to update category", "category_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update category", err)
	}
	return c, nil
}

// Delete deactivates the category. Transactions already filed under it keep their reference.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		s.logger.Error("failed to deactivate category", "category_id", id, "error", err)
		return errors.NewInternalError("failed to delete category", err)
	}
	s.logger.Info("category deactivated", "category_id", id)
	return nil
}

func (s *Service) Restore(ctx context.Context, id int64) (*Category, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, true); err != nil {
		s.logger.Error("failed to reactivate category", "category_id", id, "error", err)
		return nil, errors.NewInternalError("failed to restore category", err)
	}
	c.Activate()
	return c, nil
}

// EnsureUsable fails unless the category exists, is active and belongs to ledger t.
func (s *Service) EnsureUsable(ctx context.Context, id int64, t ledger.Type) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsActiveCategory() {
		return errors.ErrCategoryInactive
	}
	if c.Type != t {
		return errors.ErrCategoryTypeMismatch
	}
	return nil
}

// Seed upserts categories by (name, type), reactivating any that were deleted.
// It returns how many were newly created.
func (s *Service) Seed(ctx context.Context, categories []*Category) (int, error) {
	created := 0
	for _, c := range categories {
		existing, err := s.repo.GetByNameAndType(ctx, c.Name, c.Type)
		if err != nil {
			return created, errors.NewInternalError("failed to seed categories", err)
		}
		if existing != nil {
			existing.Color, existing.Icon, existing.IsActive = c.Color, c.Icon, true
			if err := s.repo.Update(ctx, existing); err != nil {
				return created, errors.NewInternalError("failed to seed categories", err)
			}
			continue
		}
		if err := s.repo.Create(ctx, ToDataModel(c)); err != nil {
			return created, errors.NewInternalError("failed to seed categories", err)
		}
		created++
	}
	s.logger.Info("categories seeded", "created", created, "total", len(categories))
	return created, nil
}
