package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	budgetDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/budget"
	"github.com/frahmantamala/finance-dashboard/internal/core/events"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
)

type RepositoryAPI interface {
	Upsert(ctx context.Context, b *budgetDatamodel.Budget) (*budgetDatamodel.Budget, error)
	GetByID(ctx context.Context, id, userID int64) (*budgetDatamodel.Budget, error)
	Find(ctx context.Context, userID, categoryID int64, t string, month, year int) (*budgetDatamodel.Budget, error)
	List(ctx context.Context, userID int64, month, year int) ([]*budgetDatamodel.Budget, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
	// SumActuals totals the user's transactions per (category, type) for days in [from, to].
	SumActuals(ctx context.Context, userID int64, from, to time.Time) ([]budgetDatamodel.Actual, error)
}

type CategoryAPI interface {
	List(ctx context.Context, filter category.ListFilter) ([]*category.Category, error)
	EnsureUsable(ctx context.Context, id int64, t ledger.Type) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type EventSubscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryAPI
	publisher  EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, categories CategoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used to resolve the current month.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Set creates the budget of a (category, type, month, year) or replaces its limit.
func (s *Service) Set(ctx context.Context, userID int64, dto SetBudgetDTO) (*Budget, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.categories.EnsureUsable(ctx, dto.CategoryID, dto.Type); err != nil {
		return nil, err
	}

	row, err := s.repo.Upsert(ctx, ToDataModel(&Budget{
		UserID:      userID,
		CategoryID:  dto.CategoryID,
		Type:        dto.Type,
		Month:       dto.Month,
		Year:        dto.Year,
		LimitAmount: dto.LimitAmount,
	}))
	if err != nil {
		s.logger.Error("failed to set budget", "user_id", userID, "category_id", dto.CategoryID, "error", err)
		return nil, errors.NewInternalError("failed to set budget", err)
	}

	s.logger.Info("budget set",
		"budget_id", row.ID,
		"user_id", userID,
		"category_id", dto.CategoryID,
		"month", dto.Month,
		"year", dto.Year,
		"limit", dto.LimitAmount.String())
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, userID int64, period Period) ([]*Budget, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, userID, period.Month, period.Year)
	if err != nil {
		s.logger.Error("failed to list budgets", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to list budgets", err)
	}
	out := make([]*Budget, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	n, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to delete budget", "budget_id", id, "error", err)
		return errors.NewInternalError("failed to delete budget", err)
	}
	if n == 0 {
		return errors.ErrBudgetNotFound
	}
	s.logger.Info("budget deleted", "budget_id", id, "user_id", userID)
	return nil
}

// Compare returns one row per budget of the month with the recorded actual.
// A zero period resolves to the current month.
func (s *Service) Compare(ctx context.Context, userID int64, period Period) ([]*Comparison, error) {
	period = s.resolve(period)
	if err := period.Validate(); err != nil {
		return nil, err
	}

	budgets, err := s.repo.List(ctx, userID, period.Month, period.Year)
	if err != nil {
		s.logger.Error("failed to list budgets", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to compare budgets", err)
	}
	if len(budgets) == 0 {
		return []*Comparison{}, nil
	}

	from, to := MonthBounds(period.Year, period.Month)
	actuals, err := s.repo.SumActuals(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("failed to sum actuals", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to compare budgets", err)
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[actualKey]decimal.Decimal, len(actuals))
	for _, a := range actuals {
		totals[actualKey{a.CategoryID, a.Type}] = a.Total
	}

	out := make([]*Comparison, 0, len(budgets))
	for _, row := range budgets {
		b := FromDataModel(row)
		actual := totals[actualKey{b.CategoryID, string(b.Type)}]
		out = append(out, NewComparison(b, names[b.CategoryID], actual))
	}
	return out, nil
}

type actualKey struct {
	categoryID int64
	entryType  string
}

func (s *Service) resolve(p Period) Period {
	now := s.now()
	if p.Month == 0 {
		p.Month = int(now.Month())
	}
	if p.Year == 0 {
		p.Year = now.Year()
	}
	return p
}

func (s *Service) categoryNames(ctx context.Context) (map[int64]string, error) {
	cats, err := s.categories.List(ctx, category.ListFilter{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

// RegisterAlerts watches recorded transactions for budgets they push over the limit.
func (s *Service) RegisterAlerts(bus EventSubscriber) {
	bus.Subscribe(events.EventTypeTransactionRecorded, s.HandleTransactionRecorded)
}

func (s *Service) HandleTransactionRecorded(ctx context.Context, event events.Event) error {
	recorded, ok := event.(*events.TransactionRecordedEvent)
	if !ok {
		return nil
	}
	if recorded.Type != string(ledger.Expense) {
		return nil
	}

	month, year := int(recorded.Date.Month()), recorded.Date.Year()
	row, err := s.repo.Find(ctx, recorded.UserID, recorded.CategoryID, recorded.Type, month, year)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}

	b := FromDataModel(row)
	from, to := b.Period()
	actuals, err := s.repo.SumActuals(ctx, b.UserID, from, to)
	if err != nil {
		return err
	}

	actual := decimal.Zero
	for _, a := range actuals {
		if a.CategoryID == b.CategoryID && a.Type == string(b.Type) {
			actual = a.Total
		}
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return err
	}
	cmp := NewComparison(b, names[b.CategoryID], actual)
	if !cmp.Exceeded() {
		return nil
	}

	s.logger.Warn("budget exceeded",
		"budget_id", b.ID,
		"user_id", b.UserID,
		"category_id", b.CategoryID,
		"limit", b.LimitAmount.String(),
		"actual", actual.String(),
		"transaction_id", recorded.TransactionID)

	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, events.NewBudgetExceededEvent(b.ID, b.UserID, b.CategoryID, b.Month, b.Year, b.LimitAmount, actual))
}
