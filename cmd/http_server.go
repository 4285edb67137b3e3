package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/finance-dashboard/api"
	"github.com/frahmantamala/finance-dashboard/internal/auth"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	"github.com/frahmantamala/finance-dashboard/internal/dashboard"
	"github.com/frahmantamala/finance-dashboard/internal/recurrence"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
	"github.com/frahmantamala/finance-dashboard/internal/transport/rest"
	"github.com/frahmantamala/finance-dashboard/internal/user"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func startHTTPServer() error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := api.Load(context.Background()); err != nil {
		return err
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, newHandlers(app), rest.RouterOptions{
		AllowedOrigins: app.Config.Server.AllowedOrigins,
		Logger:         app.Logger,
	})

	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: app.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       app.Config.Server.ReadTimeout,
		WriteTimeout:      app.Config.Server.WriteTimeout,
		IdleTimeout:       app.Config.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info("starting HTTP server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if app.Config.Recurring.Enabled {
		g.Go(func() error {
			return runRecurringTicker(gctx, app, app.Config.Recurring.Interval)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	app.Logger.Info("server stopped")
	return nil
}

func newHandlers(app *App) rest.Handlers {
	base := transport.NewBaseHandler(app.Logger)
	health := rest.NewHealthHandler(app.DB.SQL, app.DB.Driver)
	if app.Config.Recurring.Enabled {
		health.WithCheck("recurring", recurringHealth)
	}
	return rest.Handlers{
		Health:      health,
		Auth:        auth.NewHandler(base, app.Auth),
		User:        user.NewHandler(base, app.Profiles),
		Category:    category.NewHandler(base, app.Categories),
		Transaction: transaction.NewHandler(base, app.Transactions),
		Recurrence:  recurrence.NewHandler(base, app.Recurrences),
		Budget:      budget.NewHandler(base, app.Budgets),
		Dashboard:   dashboard.NewHandler(base, app.Dashboard),
		OpenAPI:     api.Handler(),
	}
}
