package transaction_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-dashboard/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-dashboard/internal/transaction/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

var _ = Describe("Transaction Handler Integration", func() {
	var (
		db        *gorm.DB
		router    *chi.Mux
		foodID    int64
		salaryID  int64
		publisher *MockPublisher
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&categoryDatamodel.Category{}, &transactionDatamodel.Transaction{})).To(Succeed())

		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		food, err := categories.Create(context.Background(), category.CreateCategoryDTO{Name: "Food", Type: ledger.Expense})
		Expect(err).NotTo(HaveOccurred())
		salary, err := categories.Create(context.Background(), category.CreateCategoryDTO{Name: "Salary", Type: ledger.Income})
		Expect(err).NotTo(HaveOccurred())
		foodID, salaryID = food.ID, salary.ID

		publisher = &MockPublisher{}
		repo := transactionPostgres.NewTransactionRepository(db)
		service := transaction.NewService(repo, categories, nil, publisher, slogger)
		handler := transaction.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/transactions", handler.GetTransactions)
		router.Post("/transactions", handler.RecordTransaction)
		router.Get("/transactions/{id}", handler.GetTransaction)
		router.Patch("/transactions/{id}", handler.UpdateTransaction)
		router.Delete("/transactions/{id}", handler.DeleteTransaction)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
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
	body := func(categoryID int64, entryType, date, amount string) string {
		return `{"type":"` + entryType + `","category_id":` + strconv.FormatInt(categoryID, 10) +
			`,"date":"` + date + `","amount":"` + amount + `","title":"entry"}`
	}

	It("requires a session", func() {
		rec := doAs(0, http.MethodGet, "/transactions", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("records and fetches a transaction", func() {
		rec := do(http.MethodPost, "/transactions", body(foodID, "expense", "2024-04-02", "12.50"))
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var created transaction.RecordResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(created.Transaction.Type).To(Equal(ledger.Expense))
		Expect(created.Transaction.Date.String()).To(Equal("2024-04-02"))
		Expect(created.Transaction.Amount.StringFixed(2)).To(Equal("12.50"))
		Expect(publisher.published).To(HaveLen(1))

		rec = do(http.MethodGet, "/transactions/"+strconv.FormatInt(created.Transaction.ID, 10), "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = doAs(2, http.MethodGet, "/transactions/"+strconv.FormatInt(created.Transaction.ID, 10), "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects a category of the other ledger", func() {
		rec := do(http.MethodPost, "/transactions", body(salaryID, "Expense", "2024-04-02", "10"))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("CATEGORY_TYPE_MISMATCH"))
	})

	It("rejects unknown fields and bad amounts", func() {
		rec := do(http.MethodPost, "/transactions", `{"type":"Expense","surprise":true}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec = do(http.MethodPost, "/transactions", body(foodID, "Expense", "2024-04-02", "0"))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_AMOUNT"))
	})

	It("lists with month filters and paging", func() {
		for _, d := range []string{"2024-04-01", "2024-04-15", "2024-04-30", "2024-05-01"} {
			Expect(do(http.MethodPost, "/transactions", body(foodID, "Expense", d, "5")).Code).To(Equal(http.StatusCreated))
		}
		Expect(do(http.MethodPost, "/transactions", body(salaryID, "Income", "2024-04-10", "900")).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodGet, "/transactions?month=4&year=2024&type=expense&limit=2", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var list transaction.ListResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Total).To(Equal(int64(3)))
		Expect(list.Transactions).To(HaveLen(2))
		Expect(list.Transactions[0].Date.String()).To(Equal("2024-04-30"))

		rec = do(http.MethodGet, "/transactions?month=13&year=2024", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("updates and deletes", func() {
		rec := do(http.MethodPost, "/transactions", body(foodID, "Expense", "2024-04-02", "10"))
		var created transaction.RecordResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		path := "/transactions/" + strconv.FormatInt(created.Transaction.ID, 10)

		rec = do(http.MethodPatch, path, `{"amount":"20.00","title":"dinner"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("dinner"))

		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNotFound))
	})
})
