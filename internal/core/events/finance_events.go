package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypeTransactionRecorded = "transaction.recorded"
	EventTypeBudgetExceeded      = "budget.exceeded"
)

// TransactionRecordedEvent fires after a transaction row is stored.
type TransactionRecordedEvent struct {
	Meta
	TransactionID int64           `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	CategoryID    int64           `json:"category_id"`
	Type          string          `json:"type"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
}

func NewTransactionRecordedEvent(transactionID, userID, categoryID int64, entryType string, date time.Time, amount decimal.Decimal) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		Meta:          newMeta(EventTypeTransactionRecorded),
		TransactionID: transactionID,
		UserID:        userID,
		CategoryID:    categoryID,
		Type:          entryType,
		Date:          date,
		Amount:        amount,
	}
}

func (e *TransactionRecordedEvent) Payload() map[string]any {
	return map[string]any{
		"transaction_id": e.TransactionID,
		"user_id":        e.UserID,
		"category_id":    e.CategoryID,
		"type":           e.Type,
		"date":           e.Date.Format(time.DateOnly),
		"amount":         e.Amount.String(),
	}
}

// BudgetExceededEvent fires when a month's actual crosses the budget limit.
type BudgetExceededEvent struct {
	Meta
	BudgetID   int64           `json:"budget_id"`
	UserID     int64           `json:"user_id"`
	CategoryID int64           `json:"category_id"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Limit      decimal.Decimal `json:"limit"`
	Actual     decimal.Decimal `json:"actual"`
}

func NewBudgetExceededEvent(budgetID, userID, categoryID int64, month, year int, limit, actual decimal.Decimal) *BudgetExceededEvent {
	return &BudgetExceededEvent{
		Meta:       newMeta(EventTypeBudgetExceeded),
		BudgetID:   budgetID,
		UserID:     userID,
		CategoryID: categoryID,
		Month:      month,
		Year:       year,
		Limit:      limit,
		Actual:     actual,
	}
}

func (e *BudgetExceededEvent) Payload() map[string]any {
	return map[string]any{
		"budget_id":   e.BudgetID,
		"user_id":     e.UserID,
		"category_id": e.CategoryID,
		"month":       e.Month,
		"year":        e.Year,
		"limit":       e.Limit.String(),
		"actual":      e.Actual.String(),
	}
}
