package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print dashboard reports in the terminal",
}

var reportBudgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Print a user's budget comparison for a month",
	RunE:  runBudgetsReport,
}

var (
	reportEmail string
	reportMonth int
	reportYear  int
)

func runBudgetsReport(_ *cobra.Command, _ []string) error {
	if strings.TrimSpace(reportEmail) == "" {
		return fmt.Errorf("--email is required")
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	u, err := app.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(reportEmail)))
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("no user with email %q", reportEmail)
	}

	now := time.Now()
	period := budget.Period{Month: reportMonth, Year: reportYear}
	if period.Month == 0 {
		period.Month = int(now.Month())
	}
	if period.Year == 0 {
		period.Year = now.Year()
	}

	comparisons, err := app.Budgets.Compare(ctx, u.ID, period)
	if err != nil {
		return err
	}
	return report.Budgets(os.Stdout, budget.NewComparisonsResponse(period, comparisons))
}

func init() {
	reportBudgetsCmd.Flags().StringVar(&reportEmail, "email", "", "user email")
	reportBudgetsCmd.Flags().IntVar(&reportMonth, "month", 0, "month 1-12, defaults to the current month")
	reportBudgetsCmd.Flags().IntVar(&reportYear, "year", 0, "year, defaults to the current year")
	reportCmd.AddCommand(reportBudgetsCmd)
}
