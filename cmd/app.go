package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/auth"
	authPostgres "github.com/frahmantamala/finance-dashboard/internal/auth/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	budgetPostgres "github.com/frahmantamala/finance-dashboard/internal/budget/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-dashboard/internal/category/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/core/events"
	"github.com/frahmantamala/finance-dashboard/internal/dashboard"
	"github.com/frahmantamala/finance-dashboard/internal/database"
	"github.com/frahmantamala/finance-dashboard/internal/recurrence"
	recurrencePostgres "github.com/frahmantamala/finance-dashboard/internal/recurrence/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-dashboard/internal/transaction/postgres"
	"github.com/frahmantamala/finance-dashboard/internal/user"
	userPostgres "github.com/frahmantamala/finance-dashboard/internal/user/postgres"
	"github.com/frahmantamala/finance-dashboard/pkg/logger"
)

// App holds the services shared by every command.
type App struct {
	Config *internal.Config
	DB     *database.DB
	Bus    *events.EventBus
	Logger *slog.Logger

	Users        auth.UserRepository
	Auth         *auth.Service
	Profiles     *user.Service
	Categories   *category.Service
	Transactions *transaction.Service
	Recurrences  *recurrence.Service
	Budgets      *budget.Service
	Dashboard    *dashboard.Service
}

func newApp() (*App, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.Configure(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if db.Driver == database.DriverSQLite {
		if err := database.AutoMigrate(db.Gorm); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	bus := events.NewEventBus(lg)

	users := authPostgres.NewRepository(db.Gorm)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	categories := category.NewService(categoryPostgres.NewCategoryRepository(db.Gorm), lg)
	transactionRepo := transactionPostgres.NewTransactionRepository(db.Gorm)
	recurrences := recurrence.NewService(recurrencePostgres.NewRecurrenceRepository(db.Gorm), transactionRepo, categories, lg).
		WithMaxOccurrences(cfg.Recurring.MaxOccurrences)
	transactions := transaction.NewService(transactionRepo, categories, recurrences, bus, lg)
	budgets := budget.NewService(budgetPostgres.NewBudgetRepository(db), categories, bus, lg)
	budgets.RegisterAlerts(bus)

	return &App{
		Config:       cfg,
		DB:           db,
		Bus:          bus,
		Logger:       lg,
		Users:        users,
		Auth:         auth.NewService(users, tokens, cfg.Security.BCryptCost, lg),
		Profiles:     user.NewService(userPostgres.NewUserRepository(db.Gorm), lg),
		Categories:   categories,
		Transactions: transactions,
		Recurrences:  recurrences,
		Budgets:      budgets,
		Dashboard:    dashboard.NewService(transactions, categories, budgets, cfg.Dashboard, lg),
	}, nil
}

// Close drains pending event handlers and releases the connection pool.
func (a *App) Close() {
	a.Bus.Wait()
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}
