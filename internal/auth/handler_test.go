package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/auth"
	authPostgres "github.com/frahmantamala/finance-dashboard/internal/auth/postgres"
	userDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

var _ = Describe("Auth Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
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
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		tokens := auth.NewJWTTokenGenerator(
			"handler-access-secret-0123456789abcdef",
			"handler-refresh-secret-0123456789abcdef",
			15*time.Minute, 7*24*time.Hour,
		)
		service := auth.NewService(authPostgres.NewRepository(db), tokens, bcrypt.MinCost, slogger)
		handler := auth.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Post("/auth/signup", handler.Signup)
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/refresh", handler.RefreshToken)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/auth/logout", handler.Logout)
			r.Post("/auth/change-password", handler.ChangePassword)
			r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
				session, _ := internal.SessionFromContext(r.Context())
				w.Write([]byte(session.Email))
			})
		})
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email, password string) auth.AuthTokens {
		rec := do(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		var tokens auth.AuthTokens
		Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(Succeed())
		return tokens
	}

	It("signs up, logs in and reaches a protected route", func() {
		rec := do(http.MethodPost, "/auth/signup", "", `{"email":"Ana@Example.com","password":"s3cret-pass","full_name":"Ana"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(rec.Body.String()).To(ContainSubstring(`"email":"ana@example.com"`))
		Expect(rec.Body.String()).NotTo(ContainSubstring("password"))

		tokens := login("ana@example.com", "s3cret-pass")

		rec = do(http.MethodGet, "/whoami", tokens.AccessToken, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("ana@example.com"))
	})

	It("rejects a second signup with the same email", func() {
		payload := `{"email":"ana@example.com","password":"s3cret-pass"}`
		Expect(do(http.MethodPost, "/auth/signup", "", payload).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodPost, "/auth/signup", "", payload)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(ContainSubstring("EMAIL_TAKEN"))
	})

	It("returns 401 for wrong credentials and missing tokens", func() {
		Expect(do(http.MethodPost, "/auth/signup", "", `{"email":"ana@example.com","password":"s3cret-pass"}`).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"nope-nope"}`)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_CREDENTIALS"))

		Expect(do(http.MethodGet, "/whoami", "", "").Code).To(Equal(http.StatusUnauthorized))
		Expect(do(http.MethodGet, "/whoami", "garbage", "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("refuses refresh tokens on protected routes and refreshes a pair", func() {
		Expect(do(http.MethodPost, "/auth/signup", "", `{"email":"ana@example.com","password":"s3cret-pass"}`).Code).To(Equal(http.StatusCreated))
		tokens := login("ana@example.com", "s3cret-pass")

		Expect(do(http.MethodGet, "/whoami", tokens.RefreshToken, "").Code).To(Equal(http.StatusUnauthorized))

		rec := do(http.MethodPost, "/auth/refresh", "", `{"refresh_token":"`+tokens.RefreshToken+`"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var refreshed auth.AuthTokens
		Expect(json.Unmarshal(rec.Body.Bytes(), &refreshed)).To(Succeed())
		Expect(do(http.MethodGet, "/whoami", refreshed.AccessToken, "").Code).To(Equal(http.StatusOK))

		Expect(do(http.MethodPost, "/auth/refresh", "", `{}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("locks out deactivated accounts", func() {
		Expect(do(http.MethodPost, "/auth/signup", "", `{"email":"ana@example.com","password":"s3cret-pass"}`).Code).To(Equal(http.StatusCreated))
		tokens := login("ana@example.com", "s3cret-pass")

		Expect(db.Model(&userDatamodel.User{}).Where("email = ?", "ana@example.com").Update("is_active", false).Error).To(Succeed())

		rec := do(http.MethodGet, "/whoami", tokens.AccessToken, "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring("USER_INACTIVE"))
	})

	It("changes the password and acknowledges logout", func() {
		Expect(do(http.MethodPost, "/auth/signup", "", `{"email":"ana@example.com","password":"s3cret-pass"}`).Code).To(Equal(http.StatusCreated))
		tokens := login("ana@example.com", "s3cret-pass")

		rec := do(http.MethodPost, "/auth/change-password", tokens.AccessToken,
			`{"current_password":"s3cret-pass","new_password":"n3w-secret","confirm_password":"n3w-secrets"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("PASSWORD_MISMATCH"))

		rec = do(http.MethodPost, "/auth/change-password", tokens.AccessToken,
			`{"current_password":"s3cret-pass","new_password":"n3w-secret","confirm_password":"n3w-secret"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		login("ana@example.com", "n3w-secret")

		rec = do(http.MethodPost, "/auth/logout", tokens.AccessToken, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("logged out"))
	})
})
