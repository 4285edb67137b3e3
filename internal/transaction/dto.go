package transaction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

// RecurrenceDTO turns a recorded transaction into the first occurrence of a schedule.
type RecurrenceDTO struct {
	Frequency string        `json:"frequency"`
	EndDate   schedule.Date `json:"end_date"`
}

type CreateTransactionDTO struct {
	Type       ledger.Type     `json:"type"`
	CategoryID int64           `json:"category_id"`
	Date       schedule.Date   `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Title      string          `json:"title"`
	Comment    string          `json:"comment,omitempty"`
	Recurrence *RecurrenceDTO  `json:"recurrence,omitempty"`
}

func (d CreateTransactionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("type", d.Type).LedgerType()
	v.Field("category_id", d.CategoryID).Required()
	v.Field("date", d.Date.Time).Required()
	v.Field("amount", d.Amount).PositiveAmount()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("comment", d.Comment).MaxLength(1000)
	if d.Recurrence != nil {
		v.Field("recurrence.frequency", d.Recurrence.Frequency).Required().Custom(func(value interface{}) *errors.AppError {
			if _, err := schedule.ParseFrequency(d.Recurrence.Frequency); err != nil && strings.TrimSpace(d.Recurrence.Frequency) != "" {
				return errors.ErrInvalidFrequency
			}
			return nil
		})
		v.Field("recurrence.end_date", d.Recurrence.EndDate.Time).Required().NotBefore(d.Date.Time, "date")
	}
	return v.Validate()
}

// UpdateTransactionDTO changes only the fields that are set.
type UpdateTransactionDTO struct {
	CategoryID *int64           `json:"category_id,omitempty"`
	Date       *schedule.Date   `json:"date,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Title      *string          `json:"title,omitempty"`
	Comment    *string          `json:"comment,omitempty"`
}

func (d UpdateTransactionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.CategoryID != nil {
		v.Field("category_id", *d.CategoryID).Required()
	}
	if d.Date != nil {
		v.Field("date", d.Date.Time).Required()
	}
	if d.Amount != nil {
		v.Field("amount", *d.Amount).PositiveAmount()
	}
	if d.Title != nil {
		v.Field("title", *d.Title).Required().MaxLength(255)
	}
	if d.Comment != nil {
		v.Field("comment", *d.Comment).MaxLength(1000)
	}
	return v.Validate()
}

// Filter selects a user's transactions. From and To are inclusive calendar dates.
// A zero Limit returns every match.
type Filter struct {
	UserID     int64
	Type       ledger.Type
	CategoryID int64
	From       *time.Time
	To         *time.Time
	Recurring  *bool
	Limit      int
	Offset     int
}

// MonthRange returns the first and last day of month m of year y.
func MonthRange(y, m int) (time.Time, time.Time) {
	first := schedule.Day(y, time.Month(m), 1)
	return first, first.AddDate(0, 1, -1)
}

type TransactionResponse struct {
	ID           int64           `json:"id"`
	Type         ledger.Type     `json:"type"`
	CategoryID   int64           `json:"category_id"`
	Date         schedule.Date   `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Title        string          `json:"title"`
	Comment      string          `json:"comment,omitempty"`
	IsRecurring  bool            `json:"is_recurring"`
	RecurrenceID *int64          `json:"recurrence_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

type RecordResponse struct {
	Transaction  TransactionResponse `json:"transaction"`
	RecurrenceID *int64              `json:"recurrence_id,omitempty"`
	Occurrences  int64               `json:"occurrences,omitempty"`
}
