package transaction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/core/events"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

type RepositoryAPI interface {
	Create(ctx context.Context, t *transactionDatamodel.Transaction) error
	GetByID(ctx context.Context, id, userID int64) (*transactionDatamodel.Transaction, error)
	GetOccurrence(ctx context.Context, recurrenceID int64, date time.Time) (*transactionDatamodel.Transaction, error)
	List(ctx context.Context, filter Filter) ([]*transactionDatamodel.Transaction, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, t *transactionDatamodel.Transaction) error
	Delete(ctx context.Context, id, userID int64) (int64, error)
}

// CategoryChecker confirms a category can take new entries of a ledger.
type CategoryChecker interface {
	EnsureUsable(ctx context.Context, id int64, t ledger.Type) error
}

type Scheduled struct {
	RuleID      int64
	Occurrences int64
}

// RecurrenceScheduler stores the recurrence of a recorded entry and materializes its occurrences.
type RecurrenceScheduler interface {
	Schedule(ctx context.Context, userID int64, dto CreateTransactionDTO) (*Scheduled, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type RecordResult struct {
	Transaction  *Transaction
	RecurrenceID *int64
	Occurrences  int64
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryChecker
	scheduler  RecurrenceScheduler
	publisher  EventPublisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryChecker, scheduler RecurrenceScheduler, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		scheduler:  scheduler,
		publisher:  publisher,
		logger:     logger,
	}
}

// Record stores one entry, or hands a recurring entry to the scheduler which
// stores every occurrence from its date through the end date.
func (s *Service) Record(ctx context.Context, userID int64, dto CreateTransactionDTO) (*RecordResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.categories.EnsureUsable(ctx, dto.CategoryID, dto.Type); err != nil {
		return nil, err
	}
	dto.Title = strings.TrimSpace(dto.Title)

	if dto.Recurrence != nil {
		return s.recordRecurring(ctx, userID, dto)
	}

	t := &Transaction{
		UserID:     userID,
		Type:       dto.Type,
		CategoryID: dto.CategoryID,
		Date:       schedule.Truncate(dto.Date.Time),
		Amount:     dto.Amount,
		Title:      dto.Title,
		Comment:    dto.Comment,
	}
	row := ToDataModel(t)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to record transaction", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to record transaction", err)
	}
	t = FromDataModel(row)

	s.logger.Info("transaction recorded",
		"transaction_id", t.ID,
		"user_id", userID,
		"type", t.Type,
		"amount", t.Amount.String())
	s.publishRecorded(ctx, t)

	return &RecordResult{Transaction: t}, nil
}

func (s *Service) recordRecurring(ctx context.Context, userID int64, dto CreateTransactionDTO) (*RecordResult, error) {
	if s.scheduler == nil {
		return nil, errors.NewInternalError("recurring transactions are not available", nil)
	}

	scheduled, err := s.scheduler.Schedule(ctx, userID, dto)
	if err != nil {
		return nil, err
	}

	first, err := s.repo.GetOccurrence(ctx, scheduled.RuleID, schedule.Truncate(dto.Date.Time))
	if err != nil {
		return nil, errors.NewInternalError("failed to load recorded transaction", err)
	}
	if first == nil {
		return nil, errors.ErrTransactionNotFound
	}

	t := FromDataModel(first)
	s.publishRecorded(ctx, t)

	ruleID := scheduled.RuleID
	return &RecordResult{Transaction: t, RecurrenceID: &ruleID, Occurrences: scheduled.Occurrences}, nil
}

func (s *Service) publishRecorded(ctx context.Context, t *Transaction) {
	if s.publisher == nil {
		return
	}
	event := events.NewTransactionRecordedEvent(t.ID, t.UserID, t.CategoryID, string(t.Type), t.Date, t.Amount)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish transaction event", "transaction_id", t.ID, "error", err)
	}
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Transaction, error) {
	row, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to get transaction", "transaction_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get transaction", err)
	}
	if row == nil {
		return nil, errors.ErrTransactionNotFound
	}
	return FromDataModel(row), nil
}

// List returns one page of matches and the total number of matches.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Transaction, int64, error) {
	if err := validateRange(filter); err != nil {
		return nil, 0, err
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list transactions", "user_id", filter.UserID, "error", err)
		return nil, 0, errors.NewInternalError("failed to list transactions", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count transactions", "user_id", filter.UserID, "error", err)
		return nil, 0, errors.NewInternalError("failed to list transactions", err)
	}

	return fromRows(rows), total, nil
}

// Find returns every match without paging.
func (s *Service) Find(ctx context.Context, filter Filter) ([]*Transaction, error) {
	if err := validateRange(filter); err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = 0, 0

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to find transactions", "user_id", filter.UserID, "error", err)
		return nil, errors.NewInternalError("failed to load transactions", err)
	}
	return fromRows(rows), nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, dto UpdateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if dto.CategoryID != nil && *dto.CategoryID != t.CategoryID {
		if err := s.categories.EnsureUsable(ctx, *dto.CategoryID, t.Type); err != nil {
			return nil, err
		}
		t.CategoryID = *dto.CategoryID
	}
	if dto.Date != nil {
		date := schedule.Truncate(dto.Date.Time)
		if t.RecurrenceID != nil && !date.Equal(t.Date) {
			return nil, errors.NewValidationFieldError("date", "the date of a generated occurrence cannot change", errors.ErrCodeInvalidDate)
		}
		t.Date = date
	}
	if dto.Amount != nil {
		t.Amount = *dto.Amount
	}
	if dto.Title != nil {
		t.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Comment != nil {
		t.Comment = *dto.Comment
	}

	if err := s.repo.Update(ctx, ToDataModel(t)); err != nil {
		s.logger.Error("failed to update transaction", "transaction_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update transaction", err)
	}

	s.logger.Info("transaction updated", "transaction_id", id, "user_id", userID)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	n, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to delete transaction", "transaction_id", id, "error", err)
		return errors.NewInternalError("failed to delete transaction", err)
	}
	if n == 0 {
		return errors.ErrTransactionNotFound
	}
	s.logger.Info("transaction deleted", "transaction_id", id, "user_id", userID)
	return nil
}

func validateRange(filter Filter) error {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return errors.NewValidationFieldError("to", "to cannot be before from", errors.ErrCodeInvalidPeriod)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return errors.NewValidationFieldError("type", ledger.ErrUnknownType.Error(), errors.ErrCodeInvalidType)
	}
	return nil
}

func fromRows(rows []*transactionDatamodel.Transaction) []*Transaction {
	out := make([]*Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out
}
