package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one dated entry of the income or expense ledger. Rows generated
// from a recurrence rule are unique per (recurrence_id, date).
type Transaction struct {
	ID           int64           `gorm:"primaryKey"`
	UserID       int64           `gorm:"column:user_id;not null;index:idx_transactions_user_date"`
	Type         string          `gorm:"column:type;not null"`
	CategoryID   int64           `gorm:"column:category_id;not null;index"`
	Date         time.Time       `gorm:"column:date;type:date;not null;index:idx_transactions_user_date;uniqueIndex:idx_transactions_occurrence,priority:2"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null"`
	Title        string          `gorm:"column:title;not null"`
	Comment      string          `gorm:"column:comment"`
	IsRecurring  bool            `gorm:"column:is_recurring;default:false"`
	RecurrenceID *int64          `gorm:"column:recurrence_id;uniqueIndex:idx_transactions_occurrence,priority:1"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
