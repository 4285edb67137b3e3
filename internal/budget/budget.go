package budget

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	budgetDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/budget"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

const (
	StatusWithin   = "within"
	StatusExceeded = "exceeded"

	ColorWithin   = "green"
	ColorExceeded = "red"
)

// Budget caps what a user records against one category in one calendar month.
type Budget struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Type        ledger.Type
	Month       int
	Year        int
	LimitAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Period returns the first and last day of the budget month.
func (b *Budget) Period() (time.Time, time.Time) {
	return MonthBounds(b.Year, b.Month)
}

func (b *Budget) ToResponse() BudgetResponse {
	return BudgetResponse{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		Type:        b.Type,
		Month:       b.Month,
		Year:        b.Year,
		LimitAmount: b.LimitAmount,
	}
}

// Comparison is a budget next to what was actually recorded in its month.
type Comparison struct {
	BudgetID     int64
	CategoryID   int64
	CategoryName string
	Type         ledger.Type
	Month        int
	Year         int
	Limit        decimal.Decimal
	Actual       decimal.Decimal
}

func NewComparison(b *Budget, categoryName string, actual decimal.Decimal) *Comparison {
	return &Comparison{
		BudgetID:     b.ID,
		CategoryID:   b.CategoryID,
		CategoryName: categoryName,
		Type:         b.Type,
		Month:        b.Month,
		Year:         b.Year,
		Limit:        b.LimitAmount,
		Actual:       actual,
	}
}

func (c *Comparison) Exceeded() bool {
	return c.Actual.GreaterThan(c.Limit)
}

func (c *Comparison) Remaining() decimal.Decimal {
	return c.Limit.Sub(c.Actual)
}

func (c *Comparison) Status() string {
	if c.Exceeded() {
		return StatusExceeded
	}
	return StatusWithin
}

func (c *Comparison) Color() string {
	if c.Exceeded() {
		return ColorExceeded
	}
	return ColorWithin
}

// Alert describes an exceeded budget, or returns "" when the budget holds.
func (c *Comparison) Alert() string {
	if !c.Exceeded() {
		return ""
	}
	return fmt.Sprintf("%s %s budget exceeded by %s for %04d-%02d",
		c.CategoryName, c.Type, c.Actual.Sub(c.Limit).StringFixed(2), c.Year, c.Month)
}

func (c *Comparison) ToResponse() ComparisonResponse {
	return ComparisonResponse{
		BudgetID:     c.BudgetID,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		Type:         c.Type,
		Month:        c.Month,
		Year:         c.Year,
		Limit:        c.Limit,
		Actual:       c.Actual,
		Remaining:    c.Remaining(),
		Exceeded:     c.Exceeded(),
		Status:       c.Status(),
		Color:        c.Color(),
		Alert:        c.Alert(),
	}
}

// MonthBounds returns the first and last day of month m of year y.
func MonthBounds(y, m int) (time.Time, time.Time) {
	first := schedule.Day(y, time.Month(m), 1)
	return first, first.AddDate(0, 1, -1)
}

func ToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:          b.ID,
		UserID:      b.UserID,
		CategoryID:  b.CategoryID,
		Type:        string(b.Type),
		Month:       b.Month,
		Year:        b.Year,
		LimitAmount: b.LimitAmount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromDataModel(b *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:          b.ID,
		UserID:      b.UserID,
		CategoryID:  b.CategoryID,
		Type:        ledger.Type(b.Type),
		Month:       b.Month,
		Year:        b.Year,
		LimitAmount: b.LimitAmount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
