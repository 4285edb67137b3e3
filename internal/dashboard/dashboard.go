package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
)

// ChartPoint is one (x, y, series) tuple of a chart. X is a YYYY-MM-DD day or a category name.
type ChartPoint struct {
	X      string  `json:"x"`
	Y      float64 `json:"y"`
	Series string  `json:"series"`
}

const (
	SeriesTotal    = "Total"
	SeriesNet      = "Net"
	suffixAverage  = " SMA"
	suffixAnomaly  = " Anomaly"
	suffixActual   = " Actual"
	suffixForecast = " Forecast"
)

type Summary struct {
	Income             decimal.Decimal `json:"income"`
	Expense            decimal.Decimal `json:"expense"`
	Net                decimal.Decimal `json:"net"`
	IncomeCount        int             `json:"income_count"`
	ExpenseCount       int             `json:"expense_count"`
	ExpenseIncomeRatio float64         `json:"expense_income_ratio"`
}

type CategoryTotal struct {
	CategoryID int64           `json:"category_id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Icon       string          `json:"icon"`
	Type       ledger.Type     `json:"type"`
	Total      decimal.Decimal `json:"total"`
	Share      float64         `json:"share"`
	Count      int             `json:"count"`
}

type Breakdown struct {
	Type       ledger.Type     `json:"type"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryTotal `json:"categories"`
	Points     []ChartPoint    `json:"points"`
}

type TrendResult struct {
	Type      ledger.Type  `json:"type"`
	Window    int          `json:"window"`
	Points    []ChartPoint `json:"points"`
	Anomalies []ChartPoint `json:"anomalies"`
}

type ForecastResult struct {
	Type         ledger.Type  `json:"type"`
	Days         int          `json:"days"`
	Points       []ChartPoint `json:"points"`
	Insufficient []string     `json:"insufficient"`
}

type BudgetsResult struct {
	budget.ComparisonsResponse
	Alerts []string `json:"alerts"`
}
