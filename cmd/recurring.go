package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Manage recurring transactions",
}

var recurringGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Insert every due occurrence of the active recurring rules",
	RunE:  runRecurringGenerate,
}

var recurringAsOf string

func runRecurringGenerate(_ *cobra.Command, _ []string) error {
	asOf := time.Now()
	if recurringAsOf != "" {
		parsed, err := time.Parse(time.DateOnly, recurringAsOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of, expected YYYY-MM-DD: %w", err)
		}
		asOf = parsed
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Recurrences.Generate(context.Background(), asOf)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Generated %d transaction(s) from %d rule(s) as of %s\n",
		result.Inserted, result.Rules, result.AsOf.Format(time.DateOnly))
	if result.Skipped > 0 {
		fmt.Fprintf(os.Stdout, "Skipped %d rule(s) with a deleted or mismatched category\n", result.Skipped)
	}
	return nil
}

func init() {
	recurringGenerateCmd.Flags().StringVar(&recurringAsOf, "as-of", "", "generate up to this date (YYYY-MM-DD), defaults to today")
	recurringCmd.AddCommand(recurringGenerateCmd)
}
