package category_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/finance-dashboard/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-dashboard/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		service *category.Service
		router  *chi.Mux
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
		Expect(db.AutoMigrate(&categoryDatamodel.Category{})).To(Succeed())

		service = category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		handler := category.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Get("/categories/{id}", handler.GetCategory)
		router.Patch("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
		router.Post("/categories/{id}/restore", handler.RestoreCategory)
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

	It("creates, lists and soft deletes categories", func() {
		rec := do(http.MethodPost, "/categories", `{"name":"Food","type":"expense","color":"#FF5722","icon":"🍔"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var created category.CategoryResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(created.Type).To(BeEquivalentTo("Expense"))

		rec = do(http.MethodPost, "/categories", `{"name":"Food","type":"Expense"}`)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(ContainSubstring("CATEGORY_EXISTS"))

		rec = do(http.MethodGet, "/categories?type=Expense", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list category.CategoriesResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Categories).To(HaveLen(1))

		rec = do(http.MethodDelete, "/categories/"+itoa(created.ID), "")
		Expect(rec.Code).To(Equal(http.StatusNoContent))

		rec = do(http.MethodGet, "/categories", "")
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Categories).To(BeEmpty())

		rec = do(http.MethodGet, "/categories?include_inactive=true", "")
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Categories).To(HaveLen(1))
		Expect(list.Categories[0].IsActive).To(BeFalse())

		rec = do(http.MethodPost, "/categories/"+itoa(created.ID)+"/restore", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("updates a category", func() {
		c, err := service.Create(context.Background(), category.CreateCategoryDTO{Name: "Home", Type: "Expense"})
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodPatch, "/categories/"+itoa(c.ID), `{"icon":"🏠"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("🏠"))
	})

	It("rejects bad input", func() {
		Expect(do(http.MethodGet, "/categories?type=savings", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/categories/abc", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/categories/77", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPost, "/categories", `{"name":"x","type":"Expense","extra":1}`).Code).To(Equal(http.StatusBadRequest))
	})
})
