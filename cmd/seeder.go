package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/auth"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
)

const (
	demoEmail    = "demo@mail.com"
	demoPassword = "password"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with default categories",
	Long:  `Seed the default income and expense categories. With --demo a demo user and two months of sample data are added.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			log.Fatalf("failed to init app: %v", err)
		}
		defer app.Close()

		ctx := context.Background()
		inserted, err := app.Categories.Seed(ctx, category.Defaults())
		if err != nil {
			log.Fatalf("failed to seed categories: %v", err)
		}
		fmt.Printf("Seeded %d categories\n", inserted)

		if !seedDemo {
			return
		}
		if err := seedDemoData(ctx, app); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	},
}

func seedDemoData(ctx context.Context, app *App) error {
	created, err := app.Auth.Signup(ctx, auth.SignupDTO{Email: demoEmail, Password: demoPassword, FullName: "Demo"})
	if err != nil {
		if stderrors.Is(err, internal.ErrEmailTaken) {
			fmt.Println("demo user already exists; skipping sample data")
			return nil
		}
		return err
	}
	if _, err := app.Auth.SetAdmin(ctx, demoEmail, true); err != nil {
		return err
	}
	fmt.Println("Seeded demo admin:", demoEmail)

	cats, err := app.Categories.List(ctx, category.ListFilter{})
	if err != nil {
		return err
	}
	byName := make(map[string]*category.Category, len(cats))
	for _, c := range cats {
		byName[c.Name] = c
	}

	today := schedule.Truncate(time.Now())
	start := today.AddDate(0, -2, 0)

	record := func(name string, t ledger.Type, date time.Time, amount, title string, rec *transaction.RecurrenceDTO) error {
		c, ok := byName[name]
		if !ok {
			return nil
		}
		_, err := app.Transactions.Record(ctx, created.ID, transaction.CreateTransactionDTO{
			Type:       t,
			CategoryID: c.ID,
			Date:       schedule.NewDate(date),
			Amount:     decimal.RequireFromString(amount),
			Title:      title,
			Recurrence: rec,
		})
		return err
	}

	if err := record("Salary", ledger.Income, start, "3200.00", "Monthly salary", &transaction.RecurrenceDTO{Frequency: "monthly"}); err != nil {
		return err
	}
	if err := record("Home", ledger.Expense, start, "1100.00", "Rent", &transaction.RecurrenceDTO{Frequency: "monthly"}); err != nil {
		return err
	}
	for d := start; !d.After(today); d = d.AddDate(0, 0, 3) {
		amount := fmt.Sprintf("%d.%02d", 20+d.Day(), d.YearDay()%100)
		if err := record("Food", ledger.Expense, d, amount, "Groceries", nil); err != nil {
			return err
		}
	}

	if c, ok := byName["Food"]; ok {
		_, err := app.Budgets.Set(ctx, created.ID, budget.SetBudgetDTO{
			CategoryID:  c.ID,
			Type:        ledger.Expense,
			Month:       int(today.Month()),
			Year:        today.Year(),
			LimitAmount: decimal.NewFromInt(300),
		})
		if err != nil {
			return err
		}
	}

	fmt.Println("Seeded demo transactions and budget")
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create a demo user with sample transactions")
}
