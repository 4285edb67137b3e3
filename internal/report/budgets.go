// Package report renders dashboard data for terminals.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/finance-dashboard/internal/budget"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	withinStyle   = cellStyle.Foreground(lipgloss.Color("42"))
	exceededStyle = cellStyle.Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var budgetHeaders = []string{"Category", "Type", "Limit", "Actual", "Remaining", "Status"}

const statusColumn = 5

// Budgets writes the month's budget comparisons as a table followed by any alerts.
func Budgets(w io.Writer, resp budget.ComparisonsResponse) error {
	title := titleStyle.Render(fmt.Sprintf("Budgets %04d-%02d", resp.Year, resp.Month))
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	if len(resp.Comparisons) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No budgets set for this month."))
		return err
	}

	rows := make([][]string, 0, len(resp.Comparisons)+1)
	var limit, actual decimal.Decimal
	for _, c := range resp.Comparisons {
		rows = append(rows, []string{
			c.CategoryName,
			string(c.Type),
			c.Limit.StringFixed(2),
			c.Actual.StringFixed(2),
			c.Remaining.StringFixed(2),
			c.Status,
		})
		limit = limit.Add(c.Limit)
		actual = actual.Add(c.Actual)
	}
	rows = append(rows, []string{"Total", "", limit.StringFixed(2), actual.StringFixed(2), limit.Sub(actual).StringFixed(2), ""})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(budgetHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusColumn && row < len(resp.Comparisons) {
				if resp.Comparisons[row].Exceeded {
					return exceededStyle
				}
				return withinStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	for _, c := range resp.Comparisons {
		if c.Alert == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, alertStyle.Render("! "+c.Alert)); err != nil {
			return err
		}
	}
	return nil
}
