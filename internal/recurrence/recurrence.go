package recurrence

import (
	"time"

	"github.com/shopspring/decimal"

	recurrenceDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/recurrence"
	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

// Rule repeats one ledger entry at a fixed frequency between two dates.
type Rule struct {
	ID         int64
	UserID     int64
	Title      string
	CategoryID int64
	Amount     decimal.Decimal
	Type       ledger.Type
	Comment    string
	StartDate  time.Time
	EndDate    time.Time
	Frequency  schedule.Frequency
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Dates returns the rule's occurrences on or after from.
func (r *Rule) Dates(from time.Time) ([]time.Time, error) {
	all, err := schedule.Expand(r.StartDate, r.EndDate, r.Frequency)
	if err != nil {
		return nil, err
	}
	from = schedule.Truncate(from)
	out := make([]time.Time, 0, len(all))
	for _, d := range all {
		if !d.Before(from) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Occurrences builds the transaction rows of every date on or after from.
func (r *Rule) Occurrences(from time.Time) ([]*transactionDatamodel.Transaction, error) {
	dates, err := r.Dates(from)
	if err != nil {
		return nil, err
	}
	rows := make([]*transactionDatamodel.Transaction, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, r.Occurrence(d))
	}
	return rows, nil
}

// Occurrence builds the transaction row generated for date d.
func (r *Rule) Occurrence(d time.Time) *transactionDatamodel.Transaction {
	ruleID := r.ID
	return &transactionDatamodel.Transaction{
		UserID:       r.UserID,
		Type:         string(r.Type),
		CategoryID:   r.CategoryID,
		Date:         schedule.Truncate(d),
		Amount:       r.Amount,
		Title:        r.Title,
		Comment:      r.Comment,
		IsRecurring:  true,
		RecurrenceID: &ruleID,
	}
}

func (r *Rule) ToResponse() RuleResponse {
	return RuleResponse{
		ID:         r.ID,
		Title:      r.Title,
		CategoryID: r.CategoryID,
		Amount:     r.Amount,
		Type:       r.Type,
		Comment:    r.Comment,
		StartDate:  schedule.NewDate(r.StartDate),
		EndDate:    schedule.NewDate(r.EndDate),
		Frequency:  r.Frequency,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
	}
}

func ToDataModel(r *Rule) *recurrenceDatamodel.Rule {
	return &recurrenceDatamodel.Rule{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		CategoryID: r.CategoryID,
		Amount:     r.Amount,
		Type:       string(r.Type),
		Comment:    r.Comment,
		StartDate:  schedule.Truncate(r.StartDate),
		EndDate:    schedule.Truncate(r.EndDate),
		Frequency:  string(r.Frequency),
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromDataModel(r *recurrenceDatamodel.Rule) *Rule {
	return &Rule{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		CategoryID: r.CategoryID,
		Amount:     r.Amount,
		Type:       ledger.Type(r.Type),
		Comment:    r.Comment,
		StartDate:  schedule.Truncate(r.StartDate),
		EndDate:    schedule.Truncate(r.EndDate),
		Frequency:  schedule.Frequency(r.Frequency),
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
