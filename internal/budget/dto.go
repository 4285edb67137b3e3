package budget

import (
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
)

type SetBudgetDTO struct {
	CategoryID  int64           `json:"category_id"`
	Type        ledger.Type     `json:"type"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
}

func (d SetBudgetDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("category_id", d.CategoryID).Required()
	v.Field("type", d.Type).LedgerType()
	v.Field("month", d.Month).IntRange(1, 12, errors.ErrCodeInvalidPeriod)
	v.Field("year", d.Year).IntRange(1970, 9999, errors.ErrCodeInvalidPeriod)
	v.Field("limit_amount", d.LimitAmount).PositiveAmount()
	return v.Validate()
}

// Period selects one calendar month. Zero values mean "any".
type Period struct {
	Month int
	Year  int
}

func (p Period) Validate() *errors.AppError {
	v := validation.NewValidator()
	if p.Month != 0 {
		v.Field("month", p.Month).IntRange(1, 12, errors.ErrCodeInvalidPeriod)
	}
	if p.Year != 0 {
		v.Field("year", p.Year).IntRange(1970, 9999, errors.ErrCodeInvalidPeriod)
	}
	return v.Validate()
}

type BudgetResponse struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Type        ledger.Type     `json:"type"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
}

type BudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

type ComparisonResponse struct {
	BudgetID     int64           `json:"budget_id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category"`
	Type         ledger.Type     `json:"type"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Limit        decimal.Decimal `json:"limit"`
	Actual       decimal.Decimal `json:"actual"`
	Remaining    decimal.Decimal `json:"remaining"`
	Exceeded     bool            `json:"exceeded"`
	Status       string          `json:"status"`
	Color        string          `json:"color"`
	Alert        string          `json:"alert,omitempty"`
}

type ComparisonsResponse struct {
	Month       int                  `json:"month"`
	Year        int                  `json:"year"`
	Comparisons []ComparisonResponse `json:"comparisons"`
}
