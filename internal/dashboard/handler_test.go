package dashboard_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/dashboard"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

var _ = Describe("Dashboard Handler", func() {
	var (
		txs    *MockTransactions
		router *chi.Mux
	)

	BeforeEach(func() {
		txs = &MockTransactions{}
		cfg := internal.DashboardConfig{DefaultForecastDays: 30, MinForecastDays: 7, MaxForecastDays: 90, RollingWindow: 3}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := dashboard.NewService(txs, MockCategories{}, &MockBudgets{}, cfg, logger).
			WithClock(func() time.Time { return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC) })
		handler := dashboard.NewHandler(&transport.BaseHandler{Logger: logger}, service)

		router = chi.NewRouter()
		router.Get("/dashboard/summary", handler.GetSummary)
		router.Get("/dashboard/breakdown", handler.GetBreakdown)
		router.Get("/dashboard/history", handler.GetHistory)
		router.Get("/dashboard/trend", handler.GetTrend)
		router.Get("/dashboard/forecast", handler.GetForecast)
		router.Get("/dashboard/budgets", handler.GetBudgets)
	})

	get := func(path string, authenticated bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authenticated {
			req = req.WithContext(internal.ContextWithSession(req.Context(), &internal.Session{UserID: 1}))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("requires a session", func() {
		Expect(get("/dashboard/summary", false).Code).To(Equal(http.StatusUnauthorized))
	})

	It("passes the resolved period to the store", func() {
		rec := get("/dashboard/summary?period=last7", true)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(txs.lastFilter.UserID).To(Equal(int64(1)))
		Expect(txs.lastFilter.From.Format(time.DateOnly)).To(Equal("2024-05-14"))
		Expect(txs.lastFilter.To.Format(time.DateOnly)).To(Equal("2024-05-20"))

		var sum dashboard.Summary
		Expect(json.Unmarshal(rec.Body.Bytes(), &sum)).To(Succeed())
		Expect(sum.ExpenseIncomeRatio).To(BeZero())
	})

	It("serves chart tuples", func() {
		txs.rows = []*transaction.Transaction{entry(1, ledger.Expense, 1, 10), entry(1, ledger.Expense, 2, 20)}
		rec := get("/dashboard/forecast?type=expense&days=7", true)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"series":"Food Forecast"`))
		Expect(rec.Body.String()).To(ContainSubstring(`"x":"2024-05-03"`))
	})

	It("answers 422 when one category cannot be forecast", func() {
		txs.rows = []*transaction.Transaction{{UserID: 1, Type: ledger.Expense, CategoryID: 1, Amount: decimal.NewFromInt(5), Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}}
		rec := get("/dashboard/forecast?category_id=1", true)
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(rec.Body.String()).To(ContainSubstring("INSUFFICIENT_DATA"))
	})

	It("validates query parameters", func() {
		Expect(get("/dashboard/trend?window=0", true).Code).To(Equal(http.StatusBadRequest))
		Expect(get("/dashboard/history?period=decade", true).Code).To(Equal(http.StatusBadRequest))
		Expect(get("/dashboard/budgets?month=13", true).Code).To(Equal(http.StatusBadRequest))
	})

	It("serves budget comparisons", func() {
		rec := get("/dashboard/budgets", true)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"month":5`))
		Expect(rec.Body.String()).To(ContainSubstring(`"alerts":[]`))
	})
})
