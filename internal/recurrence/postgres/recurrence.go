package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	recurrenceDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/recurrence"
	"github.com/frahmantamala/finance-dashboard/internal/recurrence"
	transactionPostgres "github.com/frahmantamala/finance-dashboard/internal/transaction/postgres"
)

type RecurrenceRepository struct {
	db *gorm.DB
}

func NewRecurrenceRepository(db *gorm.DB) *RecurrenceRepository {
	return &RecurrenceRepository{db: db}
}

// CreateWithOccurrences rolls the rule back when its occurrences cannot be stored.
func (r *RecurrenceRepository) CreateWithOccurrences(ctx context.Context, rule *recurrenceDatamodel.Rule, build recurrence.OccurrenceBuilder) (int64, error) {
	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rule).Error; err != nil {
			return err
		}
		rows, err := build(rule)
		if err != nil {
			return err
		}
		inserted, err = transactionPostgres.NewTransactionRepository(tx).InsertOccurrences(ctx, rows)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *RecurrenceRepository) GetByID(ctx context.Context, id, userID int64) (*recurrenceDatamodel.Rule, error) {
	var rule recurrenceDatamodel.Rule
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *RecurrenceRepository) List(ctx context.Context, userID int64) ([]*recurrenceDatamodel.Rule, error) {
	var rules []*recurrenceDatamodel.Rule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_active DESC").
		Order("start_date ASC").
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *RecurrenceRepository) ListActive(ctx context.Context, userID int64, asOf time.Time) ([]*recurrenceDatamodel.Rule, error) {
	var rules []*recurrenceDatamodel.Rule
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("end_date >= ?", asOf.Format(time.DateOnly))
	if userID > 0 {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *RecurrenceRepository) Deactivate(ctx context.Context, id, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&recurrenceDatamodel.Rule{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
