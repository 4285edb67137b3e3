package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
)

const insertBatchSize = 500

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, id, userID int64) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetOccurrence(ctx context.Context, recurrenceID int64, date time.Time) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	err := r.db.WithContext(ctx).
		Where("recurrence_id = ?", recurrenceID).
		Where("date >= ? AND date < ?", dayParam(date), dayParam(date.AddDate(0, 0, 1))).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.Filter) ([]*transactionDatamodel.Transaction, error) {
	var rows []*transactionDatamodel.Transaction
	q := r.filtered(ctx, filter).Order("date DESC").Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *TransactionRepository) Count(ctx context.Context, filter transaction.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Model(&transactionDatamodel.Transaction{}).Count(&n).Error
	return n, err
}

func (r *TransactionRepository) Update(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&transactionDatamodel.Transaction{}).
		Where("id = ? AND user_id = ?", t.ID, t.UserID).
		Updates(map[string]interface{}{
			"category_id": t.CategoryID,
			"date":        t.Date,
			"amount":      t.Amount,
			"title":       t.Title,
			"comment":     t.Comment,
		}).Error
}

func (r *TransactionRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&transactionDatamodel.Transaction{})
	return res.RowsAffected, res.Error
}

// InsertOccurrences stores generated rows, skipping any (recurrence_id, date) pair
// that already exists. It returns how many rows were inserted.
func (r *TransactionRepository) InsertOccurrences(ctx context.Context, rows []*transactionDatamodel.Transaction) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recurrence_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		CreateInBatches(rows, insertBatchSize)
	return res.RowsAffected, res.Error
}

func (r *TransactionRepository) filtered(ctx context.Context, filter transaction.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if filter.CategoryID > 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", dayParam(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("date < ?", dayParam(filter.To.AddDate(0, 0, 1)))
	}
	if filter.Recurring != nil {
		q = q.Where("is_recurring = ?", *filter.Recurring)
	}
	return q
}

// dayParam binds a calendar day as YYYY-MM-DD so the comparison against the date
// column behaves the same on PostgreSQL and SQLite.
func dayParam(t time.Time) string {
	return t.Format(time.DateOnly)
}
