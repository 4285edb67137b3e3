package budget_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	budgetPostgres "github.com/frahmantamala/finance-dashboard/internal/budget/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-dashboard/internal/category/postgres"
	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
	"github.com/frahmantamala/finance-dashboard/internal/database"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

var _ = Describe("Budget Handler Integration", func() {
	var (
		db     *database.DB
		router *chi.Mux
		foodID int64
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.Open(internal.DatabaseConfig{Driver: database.DriverSQLite, Source: ":memory:"})
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(db.Gorm)).To(Succeed())

		categories := category.NewService(categoryPostgres.NewCategoryRepository(db.Gorm), slogger)
		food, err := categories.Create(context.Background(), category.CreateCategoryDTO{Name: "Food", Type: ledger.Expense})
		Expect(err).NotTo(HaveOccurred())
		foodID = food.ID

		service := budget.NewService(budgetPostgres.NewBudgetRepository(db), categories, nil, slogger).
			WithClock(func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) })
		handler := budget.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/budgets", handler.GetBudgets)
		router.Put("/budgets", handler.SetBudget)
		router.Get("/budgets/compare", handler.CompareBudgets)
		router.Delete("/budgets/{id}", handler.DeleteBudget)
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	doAs := func(userID int64, method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if userID > 0 {
			req = req.WithContext(internal.ContextWithSession(req.Context(), &internal.Session{UserID: userID}))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	do := func(method, path, body string) *httptest.ResponseRecorder {
		return doAs(1, method, path, body)
	}
	setBody := func(limit string) string {
		return `{"category_id":` + strconv.FormatInt(foodID, 10) +
			`,"type":"Expense","month":5,"year":2024,"limit_amount":"` + limit + `"}`
	}
	spend := func(userID int64, date time.Time, amount string) {
		Expect(db.Gorm.Create(&transactionDatamodel.Transaction{
			UserID:     userID,
			Type:       string(ledger.Expense),
			CategoryID: foodID,
			Date:       date,
			Amount:     decimal.RequireFromString(amount),
			Title:      "groceries",
		}).Error).To(Succeed())
	}

	It("requires a session", func() {
		Expect(doAs(0, http.MethodGet, "/budgets", "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("replaces the limit of an existing budget", func() {
		rec := do(http.MethodPut, "/budgets", setBody("300"))
		Expect(rec.Code).To(Equal(http.StatusOK))
		var first budget.BudgetResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &first)).To(Succeed())

		rec = do(http.MethodPut, "/budgets", setBody("250"))
		Expect(rec.Code).To(Equal(http.StatusOK))
		var second budget.BudgetResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &second)).To(Succeed())
		Expect(second.ID).To(Equal(first.ID))
		Expect(second.LimitAmount.StringFixed(2)).To(Equal("250.00"))

		rec = do(http.MethodGet, "/budgets?month=5&year=2024", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var listed budget.BudgetsResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &listed)).To(Succeed())
		Expect(listed.Budgets).To(HaveLen(1))
	})

	It("rejects bad periods and unknown categories", func() {
		Expect(do(http.MethodGet, "/budgets?month=13", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/budgets/compare?year=abc", "").Code).To(Equal(http.StatusBadRequest))

		rec := do(http.MethodPut, "/budgets", `{"category_id":999,"type":"Expense","month":5,"year":2024,"limit_amount":"10"}`)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("compares the current month against the user's own spending", func() {
		Expect(do(http.MethodPut, "/budgets", setBody("100")).Code).To(Equal(http.StatusOK))
		spend(1, schedule.Day(2024, 5, 3), "70.25")
		spend(1, schedule.Day(2024, 5, 31), "50.25")
		spend(1, schedule.Day(2024, 6, 1), "999")
		spend(2, schedule.Day(2024, 5, 10), "500")

		rec := do(http.MethodGet, "/budgets/compare", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp budget.ComparisonsResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Month).To(Equal(5))
		Expect(resp.Year).To(Equal(2024))
		Expect(resp.Comparisons).To(HaveLen(1))

		cmp := resp.Comparisons[0]
		Expect(cmp.CategoryName).To(Equal("Food"))
		Expect(cmp.Actual.StringFixed(2)).To(Equal("120.50"))
		Expect(cmp.Remaining.StringFixed(2)).To(Equal("-20.50"))
		Expect(cmp.Exceeded).To(BeTrue())
		Expect(cmp.Status).To(Equal(budget.StatusExceeded))
	})

	It("deletes only the owner's budget", func() {
		rec := do(http.MethodPut, "/budgets", setBody("100"))
		var created budget.BudgetResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		path := "/budgets/" + strconv.FormatInt(created.ID, 10)

		Expect(doAs(2, http.MethodDelete, path, "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNotFound))
	})
})
