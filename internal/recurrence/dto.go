package recurrence

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

type CreateRuleDTO struct {
	Type       ledger.Type     `json:"type"`
	CategoryID int64           `json:"category_id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Comment    string          `json:"comment,omitempty"`
	StartDate  schedule.Date   `json:"start_date"`
	EndDate    schedule.Date   `json:"end_date"`
	Frequency  string          `json:"frequency"`
}

func (d CreateRuleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("type", d.Type).LedgerType()
	v.Field("category_id", d.CategoryID).Required()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("amount", d.Amount).PositiveAmount()
	v.Field("comment", d.Comment).MaxLength(1000)
	v.Field("start_date", d.StartDate.Time).Required()
	v.Field("end_date", d.EndDate.Time).Required().NotBefore(d.StartDate.Time, "start_date")
	v.Field("frequency", d.Frequency).Required().Custom(func(interface{}) *errors.AppError {
		if strings.TrimSpace(d.Frequency) == "" {
			return nil
		}
		if _, err := schedule.ParseFrequency(d.Frequency); err != nil {
			return errors.ErrInvalidFrequency
		}
		return nil
	})
	return v.Validate()
}

// GenerateDTO selects the first day generation may fill. A missing as_of means today.
type GenerateDTO struct {
	AsOf schedule.Date `json:"as_of"`
}

type RuleResponse struct {
	ID         int64              `json:"id"`
	Title      string             `json:"title"`
	CategoryID int64              `json:"category_id"`
	Amount     decimal.Decimal    `json:"amount"`
	Type       ledger.Type        `json:"type"`
	Comment    string             `json:"comment,omitempty"`
	StartDate  schedule.Date      `json:"start_date"`
	EndDate    schedule.Date      `json:"end_date"`
	Frequency  schedule.Frequency `json:"frequency"`
	IsActive   bool               `json:"is_active"`
	CreatedAt  time.Time          `json:"created_at"`
}

type RulesResponse struct {
	Recurrences []RuleResponse `json:"recurrences"`
}

type CreateResponse struct {
	Recurrence  RuleResponse `json:"recurrence"`
	Occurrences int64        `json:"occurrences"`
}

type GenerateResponse struct {
	AsOf     schedule.Date `json:"as_of"`
	Rules    int           `json:"rules"`
	Inserted int64         `json:"inserted"`
	Skipped  int           `json:"skipped"`
}
