package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

type Transaction struct {
	ID           int64
	UserID       int64
	Type         ledger.Type
	CategoryID   int64
	Date         time.Time
	Amount       decimal.Decimal
	Title        string
	Comment      string
	IsRecurring  bool
	RecurrenceID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		Type:         t.Type,
		CategoryID:   t.CategoryID,
		Date:         schedule.NewDate(t.Date),
		Amount:       t.Amount,
		Title:        t.Title,
		Comment:      t.Comment,
		IsRecurring:  t.IsRecurring,
		RecurrenceID: t.RecurrenceID,
		CreatedAt:    t.CreatedAt,
	}
}

// Month and Year locate the transaction in the budget calendar.
func (t *Transaction) Month() int {
	return int(t.Date.Month())
}

func (t *Transaction) Year() int {
	return t.Date.Year()
}

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:           t.ID,
		UserID:       t.UserID,
		Type:         string(t.Type),
		CategoryID:   t.CategoryID,
		Date:         schedule.Truncate(t.Date),
		Amount:       t.Amount,
		Title:        t.Title,
		Comment:      t.Comment,
		IsRecurring:  t.IsRecurring,
		RecurrenceID: t.RecurrenceID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:           t.ID,
		UserID:       t.UserID,
		Type:         ledger.Type(t.Type),
		CategoryID:   t.CategoryID,
		Date:         schedule.Truncate(t.Date),
		Amount:       t.Amount,
		Title:        t.Title,
		Comment:      t.Comment,
		IsRecurring:  t.IsRecurring,
		RecurrenceID: t.RecurrenceID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
