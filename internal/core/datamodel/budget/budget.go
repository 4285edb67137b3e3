package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID          int64           `gorm:"primaryKey"`
	UserID      int64           `gorm:"column:user_id;not null;uniqueIndex:idx_budgets_period"`
	CategoryID  int64           `gorm:"column:category_id;not null;uniqueIndex:idx_budgets_period"`
	Type        string          `gorm:"column:type;not null;uniqueIndex:idx_budgets_period"`
	Month       int             `gorm:"column:month;not null;uniqueIndex:idx_budgets_period"`
	Year        int             `gorm:"column:year;not null;uniqueIndex:idx_budgets_period"`
	LimitAmount decimal.Decimal `gorm:"column:limit_amount;type:decimal(14,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Budget) TableName() string {
	return "budgets"
}

// Actual is the summed amount of one (category, type) pair within a period.
type Actual struct {
	CategoryID int64           `db:"category_id"`
	Type       string          `db:"type"`
	Total      decimal.Decimal `db:"total"`
}
