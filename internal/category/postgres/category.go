package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/finance-dashboard/internal/category"
	categoryDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, filter category.ListFilter) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	q := r.db.WithContext(ctx).Order("type ASC").Order("name ASC")
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByNameAndType(ctx context.Context, name string, t ledger.Type) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("name = ? AND type = ?", name, string(t)).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Save(cat).Error
}

// SetActive toggles the soft-delete flag.
func (r *CategoryRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).Where("id = ?", id).Update("is_active", active).Error
}
