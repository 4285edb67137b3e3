package recurrence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	recurrenceDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/recurrence"
	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
)

// OccurrenceBuilder returns the transactions of a rule that has just been stored.
type OccurrenceBuilder func(saved *recurrenceDatamodel.Rule) ([]*transactionDatamodel.Transaction, error)

type RepositoryAPI interface {
	// CreateWithOccurrences stores rule and the rows build returns for it in one
	// database transaction and reports how many rows were inserted.
	CreateWithOccurrences(ctx context.Context, rule *recurrenceDatamodel.Rule, build OccurrenceBuilder) (int64, error)
	GetByID(ctx context.Context, id, userID int64) (*recurrenceDatamodel.Rule, error)
	List(ctx context.Context, userID int64) ([]*recurrenceDatamodel.Rule, error)
	// ListActive returns active rules ending on or after asOf. A zero userID selects every user.
	ListActive(ctx context.Context, userID int64, asOf time.Time) ([]*recurrenceDatamodel.Rule, error)
	Deactivate(ctx context.Context, id, userID int64) (int64, error)
}

// OccurrenceStore inserts generated transactions, skipping ones that already exist.
type OccurrenceStore interface {
	InsertOccurrences(ctx context.Context, rows []*transactionDatamodel.Transaction) (int64, error)
}

type CreateResult struct {
	Rule        *Rule
	Occurrences int64
}

type GenerateResult struct {
	AsOf     time.Time
	Rules    int
	Inserted int64
	// Skipped counts rules left alone because their category is no longer usable.
	Skipped int
}

type Service struct {
	repo           RepositoryAPI
	store          OccurrenceStore
	categories     transaction.CategoryChecker
	logger         *slog.Logger
	now            func() time.Time
	maxOccurrences int
}

func NewService(repo RepositoryAPI, store OccurrenceStore, categories transaction.CategoryChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		store:          store,
		categories:     categories,
		logger:         logger,
		now:            time.Now,
		maxOccurrences: errors.DefaultMaxOccurrences,
	}
}

// WithMaxOccurrences sets how many occurrences a single rule may expand to.
// Zero or less removes the limit.
func (s *Service) WithMaxOccurrences(n int) *Service {
	s.maxOccurrences = n
	return s
}

// WithClock replaces the clock used to resolve "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateRuleDTO) (*CreateResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.categories.EnsureUsable(ctx, dto.CategoryID, dto.Type); err != nil {
		return nil, err
	}
	return s.create(ctx, userID, dto)
}

// Schedule stores the rule behind a recurring transaction and every occurrence
// from its date through the end date. The transaction service has already
// validated the entry and its category.
func (s *Service) Schedule(ctx context.Context, userID int64, dto transaction.CreateTransactionDTO) (*transaction.Scheduled, error) {
	if dto.Recurrence == nil {
		return nil, errors.NewValidationFieldError("recurrence", "recurrence is required", errors.ErrCodeValidationFailed)
	}
	result, err := s.create(ctx, userID, CreateRuleDTO{
		Type:       dto.Type,
		CategoryID: dto.CategoryID,
		Title:      dto.Title,
		Amount:     dto.Amount,
		Comment:    dto.Comment,
		StartDate:  dto.Date,
		EndDate:    dto.Recurrence.EndDate,
		Frequency:  dto.Recurrence.Frequency,
	})
	if err != nil {
		return nil, err
	}
	return &transaction.Scheduled{RuleID: result.Rule.ID, Occurrences: result.Occurrences}, nil
}

func (s *Service) create(ctx context.Context, userID int64, dto CreateRuleDTO) (*CreateResult, error) {
	freq, err := schedule.ParseFrequency(dto.Frequency)
	if err != nil {
		return nil, errors.ErrInvalidFrequency
	}

	rule := &Rule{
		UserID:     userID,
		Title:      strings.TrimSpace(dto.Title),
		CategoryID: dto.CategoryID,
		Amount:     dto.Amount,
		Type:       dto.Type,
		Comment:    dto.Comment,
		StartDate:  schedule.Truncate(dto.StartDate.Time),
		EndDate:    schedule.Truncate(dto.EndDate.Time),
		Frequency:  freq,
		IsActive:   true,
	}
	if err := s.checkSpan(rule); err != nil {
		return nil, err
	}

	row := ToDataModel(rule)
	inserted, err := s.repo.CreateWithOccurrences(ctx, row, func(saved *recurrenceDatamodel.Rule) ([]*transactionDatamodel.Transaction, error) {
		return FromDataModel(saved).Occurrences(saved.StartDate)
	})
	if err != nil {
		s.logger.Error("failed to create recurrence", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to create recurring transaction", err)
	}
	rule = FromDataModel(row)

	s.logger.Info("recurrence created",
		"recurrence_id", rule.ID,
		"user_id", userID,
		"frequency", rule.Frequency,
		"occurrences", inserted)

	return &CreateResult{Rule: rule, Occurrences: inserted}, nil
}

func (s *Service) checkSpan(rule *Rule) error {
	n, err := schedule.Count(rule.StartDate, rule.EndDate, rule.Frequency, s.maxOccurrences)
	if err != nil {
		return errors.ErrInvalidFrequency
	}
	if s.maxOccurrences > 0 && n > s.maxOccurrences {
		return errors.NewValidationError(
			fmt.Sprintf("Recurrence would create more than %d transactions", s.maxOccurrences),
			errors.ErrCodeTooManyOccurrences)
	}
	return nil
}

func (s *Service) materialize(ctx context.Context, rule *Rule, from time.Time) (int64, error) {
	rows, err := rule.Occurrences(from)
	if err != nil {
		return 0, errors.ErrInvalidFrequency
	}

	inserted, err := s.store.InsertOccurrences(ctx, rows)
	if err != nil {
		s.logger.Error("failed to insert occurrences", "recurrence_id", rule.ID, "error", err)
		return 0, errors.NewInternalError("failed to generate recurring transactions", err)
	}
	return inserted, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Rule, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list recurrences", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to list recurring transactions", err)
	}
	rules := make([]*Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, FromDataModel(row))
	}
	return rules, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Rule, error) {
	row, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to get recurrence", "recurrence_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get recurring transaction", err)
	}
	if row == nil {
		return nil, errors.ErrRecurrenceNotFound
	}
	return FromDataModel(row), nil
}

// Deactivate stops generation for the rule. Occurrences already stored are kept.
func (s *Service) Deactivate(ctx context.Context, userID, id int64) (*Rule, error) {
	n, err := s.repo.Deactivate(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to deactivate recurrence", "recurrence_id", id, "error", err)
		return nil, errors.NewInternalError("failed to deactivate recurring transaction", err)
	}
	if n == 0 {
		return nil, errors.ErrRecurrenceNotFound
	}
	s.logger.Info("recurrence deactivated", "recurrence_id", id, "user_id", userID)
	return s.Get(ctx, userID, id)
}

// Generate fills the occurrences of every user's active rules on or after asOf.
// Rules whose category was deleted or no longer matches are skipped.
func (s *Service) Generate(ctx context.Context, asOf time.Time) (*GenerateResult, error) {
	return s.generate(ctx, 0, asOf)
}

func (s *Service) GenerateForUser(ctx context.Context, userID int64, asOf time.Time) (*GenerateResult, error) {
	return s.generate(ctx, userID, asOf)
}

func (s *Service) generate(ctx context.Context, userID int64, asOf time.Time) (*GenerateResult, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOf = schedule.Truncate(asOf)

	rows, err := s.repo.ListActive(ctx, userID, asOf)
	if err != nil {
		s.logger.Error("failed to load active recurrences", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to load recurring transactions", err)
	}

	result := &GenerateResult{AsOf: asOf, Rules: len(rows)}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rule := FromDataModel(row)
		if err := s.categories.EnsureUsable(ctx, rule.CategoryID, rule.Type); err != nil {
			appErr, ok := errors.IsAppError(err)
			if !ok || appErr.Type == errors.ErrorTypeInternal {
				return result, err
			}
			s.logger.Warn("skipping recurrence with unusable category",
				"recurrence_id", rule.ID,
				"category_id", rule.CategoryID,
				"code", appErr.Code)
			result.Skipped++
			continue
		}
		inserted, err := s.materialize(ctx, rule, asOf)
		if err != nil {
			return result, err
		}
		result.Inserted += inserted
	}

	s.logger.Info("recurring transactions generated",
		"as_of", asOf.Format(time.DateOnly),
		"rules", result.Rules,
		"inserted", result.Inserted,
		"skipped", result.Skipped)
	return result, nil
}
