package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	budgetDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/budget"
	"github.com/frahmantamala/finance-dashboard/internal/database"
)

const sumActualsQuery = `
SELECT category_id, type, COALESCE(SUM(amount), 0) AS total
FROM transactions
WHERE user_id = ? AND date >= ? AND date < ?
GROUP BY category_id, type`

// BudgetRepository stores budgets through gorm and aggregates actuals through sqlx.
type BudgetRepository struct {
	db  *gorm.DB
	sql *sqlx.DB
}

func NewBudgetRepository(db *database.DB) *BudgetRepository {
	return &BudgetRepository{db: db.Gorm, sql: db.SQL}
}

func (r *BudgetRepository) Upsert(ctx context.Context, b *budgetDatamodel.Budget) (*budgetDatamodel.Budget, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "category_id"}, {Name: "type"}, {Name: "month"}, {Name: "year"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"limit_amount", "updated_at"}),
		}).
		Create(b).Error
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, b.UserID, b.CategoryID, b.Type, b.Month, b.Year)
}

func (r *BudgetRepository) GetByID(ctx context.Context, id, userID int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) Find(ctx context.Context, userID, categoryID int64, t string, month, year int) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND type = ? AND month = ? AND year = ?", userID, categoryID, t, month, year).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) List(ctx context.Context, userID int64, month, year int) ([]*budgetDatamodel.Budget, error) {
	var rows []*budgetDatamodel.Budget
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if month > 0 {
		q = q.Where("month = ?", month)
	}
	if year > 0 {
		q = q.Where("year = ?", year)
	}
	err := q.Order("year DESC").Order("month DESC").Order("type ASC").Order("category_id ASC").Find(&rows).Error
	return rows, err
}

func (r *BudgetRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&budgetDatamodel.Budget{})
	return res.RowsAffected, res.Error
}

func (r *BudgetRepository) SumActuals(ctx context.Context, userID int64, from, to time.Time) ([]budgetDatamodel.Actual, error) {
	var actuals []budgetDatamodel.Actual
	query := r.sql.Rebind(sumActualsQuery)
	err := r.sql.SelectContext(ctx, &actuals, query,
		userID, from.Format(time.DateOnly), to.AddDate(0, 0, 1).Format(time.DateOnly))
	return actuals, err
}
