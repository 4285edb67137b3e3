package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	userDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-dashboard/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdateFullName(ctx context.Context, userID int64, fullName string) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("full_name", fullName).Error
}
