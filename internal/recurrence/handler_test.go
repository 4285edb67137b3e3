package recurrence_test

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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-dashboard/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/category"
	recurrenceDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/recurrence"
	transactionDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/recurrence"
	recurrencePostgres "github.com/frahmantamala/finance-dashboard/internal/recurrence/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-dashboard/internal/transaction/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

var _ = Describe("Recurrence Handler Integration", func() {
	var (
		db         *gorm.DB
		router     *chi.Mux
		txRepo     *transactionPostgres.TransactionRepository
		rentID     int64
		categories *category.Service
		txSvc      *transaction.Service
		recSvc     *recurrence.Service
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
		Expect(db.AutoMigrate(
			&categoryDatamodel.Category{},
			&transactionDatamodel.Transaction{},
			&recurrenceDatamodel.Rule{},
		)).To(Succeed())

		categories = category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		rent, err := categories.Create(context.Background(), category.CreateCategoryDTO{Name: "Rent", Type: ledger.Expense})
		Expect(err).NotTo(HaveOccurred())
		rentID = rent.ID

		txRepo = transactionPostgres.NewTransactionRepository(db)
		recSvc = recurrence.NewService(recurrencePostgres.NewRecurrenceRepository(db), txRepo, categories, slogger).
			WithClock(func() time.Time { return time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC) })
		txSvc = transaction.NewService(txRepo, categories, recSvc, nil, slogger)

		base := &transport.BaseHandler{Logger: slogger}
		recHandler := recurrence.NewHandler(base, recSvc)
		txHandler := transaction.NewHandler(base, txSvc)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := internal.ContextWithSession(r.Context(), &internal.Session{UserID: 1})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		})
		router.Post("/transactions", txHandler.RecordTransaction)
		router.Get("/recurrences", recHandler.GetRecurrences)
		router.Post("/recurrences", recHandler.CreateRecurrence)
		router.Post("/recurrences/generate", recHandler.GenerateRecurrences)
		router.Get("/recurrences/{id}", recHandler.GetRecurrence)
		router.Post("/recurrences/{id}/deactivate", recHandler.DeactivateRecurrence)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	countRecurring := func() int64 {
		recurring := true
		n, err := txRepo.Count(context.Background(), transaction.Filter{UserID: 1, Recurring: &recurring})
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	It("materializes a recurring transaction once", func() {
		body := `{"type":"Expense","category_id":` + strconv.FormatInt(rentID, 10) +
			`,"date":"2024-01-31","amount":"950","title":"Rent","recurrence":{"frequency":"monthly","end_date":"2024-04-30"}}`
		rec := do(http.MethodPost, "/transactions", body)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var created transaction.RecordResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(created.RecurrenceID).NotTo(BeNil())
		Expect(created.Occurrences).To(Equal(int64(4)))
		Expect(created.Transaction.Date.String()).To(Equal("2024-01-31"))
		Expect(countRecurring()).To(Equal(int64(4)))

		rec = do(http.MethodPost, "/recurrences/generate", `{"as_of":"2024-01-01"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var generated recurrence.GenerateResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &generated)).To(Succeed())
		Expect(generated.Rules).To(Equal(1))
		Expect(generated.Inserted).To(BeZero())
		Expect(countRecurring()).To(Equal(int64(4)))
	})

	It("creates, lists and deactivates rules", func() {
		body := `{"type":"Expense","category_id":` + strconv.FormatInt(rentID, 10) +
			`,"title":"Gym","amount":"30","start_date":"2024-02-01","end_date":"2024-02-29","frequency":"weekly"}`
		rec := do(http.MethodPost, "/recurrences", body)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var created recurrence.CreateResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(created.Occurrences).To(Equal(int64(5)))
		path := "/recurrences/" + strconv.FormatInt(created.Recurrence.ID, 10)

		rec = do(http.MethodGet, "/recurrences", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Gym"))

		rec = do(http.MethodPost, path+"/deactivate", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"is_active":false`))

		rec = do(http.MethodPost, "/recurrences/generate", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"as_of":"2024-02-10"`))
		Expect(rec.Body.String()).To(ContainSubstring(`"rules":0`))

		Expect(do(http.MethodGet, "/recurrences/999", "").Code).To(Equal(http.StatusNotFound))
	})

	It("rejects unknown frequencies", func() {
		body := `{"type":"Expense","category_id":` + strconv.FormatInt(rentID, 10) +
			`,"title":"Gym","amount":"30","start_date":"2024-02-01","end_date":"2024-02-29","frequency":"hourly"}`
		rec := do(http.MethodPost, "/recurrences", body)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_FREQUENCY"))
	})

	It("stops filling rules whose category was deleted", func() {
		body := `{"type":"Expense","category_id":` + strconv.FormatInt(rentID, 10) +
			`,"title":"Rent","amount":"950","start_date":"2024-01-01","end_date":"2024-01-03","frequency":"daily"}`
		Expect(do(http.MethodPost, "/recurrences", body).Code).To(Equal(http.StatusCreated))
		Expect(db.Where("is_recurring = ?", true).Delete(&transactionDatamodel.Transaction{}).Error).To(Succeed())
		Expect(categories.Delete(context.Background(), rentID)).To(Succeed())

		rec := do(http.MethodPost, "/recurrences/generate", `{"as_of":"2024-01-01"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var generated recurrence.GenerateResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &generated)).To(Succeed())
		Expect(generated.Rules).To(Equal(1))
		Expect(generated.Skipped).To(Equal(1))
		Expect(generated.Inserted).To(BeZero())
		Expect(countRecurring()).To(BeZero())
	})

	It("rejects a rule spanning too many occurrences", func() {
		body := `{"type":"Expense","category_id":` + strconv.FormatInt(rentID, 10) +
			`,"title":"Coffee","amount":"3","start_date":"1000-01-01","end_date":"9999-12-31","frequency":"daily"}`
		rec := do(http.MethodPost, "/recurrences", body)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("TOO_MANY_OCCURRENCES"))

		rules, err := recSvc.List(context.Background(), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(rules).To(BeEmpty())
		Expect(countRecurring()).To(BeZero())
	})
})
