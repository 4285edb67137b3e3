package budget_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	budgetDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/budget"
	"github.com/frahmantamala/finance-dashboard/internal/core/events"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

func TestBudget(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Budget Suite")
}

type MockRepository struct {
	budgets map[int64]*budgetDatamodel.Budget
	actuals []budgetDatamodel.Actual
	nextID  int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{budgets: make(map[int64]*budgetDatamodel.Budget)}
}

func (m *MockRepository) Upsert(ctx context.Context, b *budgetDatamodel.Budget) (*budgetDatamodel.Budget, error) {
	existing, _ := m.Find(ctx, b.UserID, b.CategoryID, b.Type, b.Month, b.Year)
	if existing != nil {
		m.budgets[existing.ID].LimitAmount = b.LimitAmount
		return m.GetByID(ctx, existing.ID, b.UserID)
	}
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.budgets[b.ID] = &cp
	return b, nil
}

func (m *MockRepository) GetByID(_ context.Context, id, userID int64) (*budgetDatamodel.Budget, error) {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *MockRepository) Find(_ context.Context, userID, categoryID int64, t string, month, year int) (*budgetDatamodel.Budget, error) {
	for _, b := range m.budgets {
		if b.UserID == userID && b.CategoryID == categoryID && b.Type == t && b.Month == month && b.Year == year {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) List(_ context.Context, userID int64, month, year int) ([]*budgetDatamodel.Budget, error) {
	var out []*budgetDatamodel.Budget
	for id := int64(1); id <= m.nextID; id++ {
		b, ok := m.budgets[id]
		if !ok || b.UserID != userID || (month > 0 && b.Month != month) || (year > 0 && b.Year != year) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *MockRepository) Delete(_ context.Context, id, userID int64) (int64, error) {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return 0, nil
	}
	delete(m.budgets, id)
	return 1, nil
}

func (m *MockRepository) SumActuals(context.Context, int64, time.Time, time.Time) ([]budgetDatamodel.Actual, error) {
	return m.actuals, nil
}

type MockCategories struct {
	err error
}

func (m *MockCategories) List(context.Context, category.ListFilter) ([]*category.Category, error) {
	return []*category.Category{
		{ID: 1, Name: "Food", Type: ledger.Expense},
		{ID: 2, Name: "Salary", Type: ledger.Income},
	}, nil
}

func (m *MockCategories) EnsureUsable(context.Context, int64, ledger.Type) error {
	return m.err
}

type MockPublisher struct {
	published []events.Event
}

func (m *MockPublisher) Publish(_ context.Context, e events.Event) error {
	m.published = append(m.published, e)
	return nil
}

var _ = Describe("Budget Service", func() {
	var (
		ctx        context.Context
		repo       *MockRepository
		categories *MockCategories
		publisher  *MockPublisher
		service    *budget.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = NewMockRepository()
		categories = &MockCategories{}
		publisher = &MockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = budget.NewService(repo, categories, publisher, logger).
			WithClock(func() time.Time { return time.Date(2024, 6, 18, 9, 0, 0, 0, time.UTC) })
	})

	set := func(categoryID int64, t ledger.Type, limit int64) *budget.Budget {
		b, err := service.Set(ctx, 1, budget.SetBudgetDTO{
			CategoryID: categoryID, Type: t, Month: 6, Year: 2024, LimitAmount: decimal.NewFromInt(limit),
		})
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	Describe("Set", func() {
		It("replaces the limit of an existing period", func() {
			first := set(1, ledger.Expense, 100)
			second := set(1, ledger.Expense, 300)
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.LimitAmount.Equal(decimal.NewFromInt(300))).To(BeTrue())
		})

		It("validates the period and the limit", func() {
			_, err := service.Set(ctx, 1, budget.SetBudgetDTO{CategoryID: 1, Type: ledger.Expense, Month: 13, Year: 1900})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(apperrors.ValidationErrors).Errors).To(HaveLen(3))
		})

		It("refuses unusable categories", func() {
			categories.err = apperrors.ErrCategoryNotFound
			_, err := service.Set(ctx, 1, budget.SetBudgetDTO{
				CategoryID: 9, Type: ledger.Expense, Month: 6, Year: 2024, LimitAmount: decimal.NewFromInt(1),
			})
			Expect(err).To(Equal(apperrors.ErrCategoryNotFound))
		})
	})

	Describe("Compare", func() {
		BeforeEach(func() {
			set(1, ledger.Expense, 100)
			set(2, ledger.Income, 1000)
			repo.actuals = []budgetDatamodel.Actual{
				{CategoryID: 1, Type: "Expense", Total: decimal.RequireFromString("120.50")},
				{CategoryID: 2, Type: "Income", Total: decimal.NewFromInt(1000)},
			}
		})

		It("marks exceeded and held budgets", func() {
			rows, err := service.Compare(ctx, 1, budget.Period{})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))

			food := rows[0].ToResponse()
			Expect(food.CategoryName).To(Equal("Food"))
			Expect(food.Exceeded).To(BeTrue())
			Expect(food.Status).To(Equal(budget.StatusExceeded))
			Expect(food.Color).To(Equal(budget.ColorExceeded))
			Expect(food.Remaining.Equal(decimal.RequireFromString("-20.50"))).To(BeTrue())
			Expect(food.Alert).To(ContainSubstring("exceeded by 20.50"))

			salary := rows[1].ToResponse()
			Expect(salary.Status).To(Equal(budget.StatusWithin))
			Expect(salary.Color).To(Equal(budget.ColorWithin))
			Expect(salary.Alert).To(BeEmpty())
		})

		It("reports zero actuals for untouched budgets", func() {
			repo.actuals = nil
			rows, err := service.Compare(ctx, 1, budget.Period{Month: 6, Year: 2024})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].Actual.IsZero()).To(BeTrue())
			Expect(rows[0].Exceeded()).To(BeFalse())
		})

		It("returns nothing for a month without budgets", func() {
			rows, err := service.Compare(ctx, 1, budget.Period{Month: 1, Year: 2024})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("alerts", func() {
		var bus *events.EventBus

		BeforeEach(func() {
			bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
			service.RegisterAlerts(bus)
			set(1, ledger.Expense, 100)
		})

		recorded := func(categoryID int64, t ledger.Type) events.Event {
			return events.NewTransactionRecordedEvent(10, 1, categoryID, string(t), schedule.Day(2024, 6, 3), decimal.NewFromInt(50))
		}

		It("publishes when an expense pushes the category over", func() {
			repo.actuals = []budgetDatamodel.Actual{{CategoryID: 1, Type: "Expense", Total: decimal.NewFromInt(150)}}
			Expect(bus.PublishSync(ctx, recorded(1, ledger.Expense))).To(Succeed())

			Expect(publisher.published).To(HaveLen(1))
			exceeded := publisher.published[0].(*events.BudgetExceededEvent)
			Expect(exceeded.CategoryID).To(Equal(int64(1)))
			Expect(exceeded.Actual.Equal(decimal.NewFromInt(150))).To(BeTrue())
			Expect(exceeded.EventType()).To(Equal(events.EventTypeBudgetExceeded))
		})

		It("stays quiet within the limit", func() {
			repo.actuals = []budgetDatamodel.Actual{{CategoryID: 1, Type: "Expense", Total: decimal.NewFromInt(100)}}
			Expect(bus.PublishSync(ctx, recorded(1, ledger.Expense))).To(Succeed())
			Expect(publisher.published).To(BeEmpty())
		})

		It("ignores income and unbudgeted categories", func() {
			repo.actuals = []budgetDatamodel.Actual{{CategoryID: 1, Type: "Expense", Total: decimal.NewFromInt(900)}}
			Expect(bus.PublishSync(ctx, recorded(1, ledger.Income))).To(Succeed())
			Expect(bus.PublishSync(ctx, recorded(3, ledger.Expense))).To(Succeed())
			Expect(publisher.published).To(BeEmpty())
		})
	})

	It("deletes only the owner's budgets", func() {
		b := set(1, ledger.Expense, 100)
		Expect(service.Delete(ctx, 2, b.ID)).To(Equal(apperrors.ErrBudgetNotFound))
		Expect(service.Delete(ctx, 1, b.ID)).To(Succeed())

		list, err := service.List(ctx, 1, budget.Period{})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())
	})
})
