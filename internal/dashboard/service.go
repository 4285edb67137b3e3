package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/trend"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
)

type TransactionFinder interface {
	Find(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
}

type CategoryLister interface {
	List(ctx context.Context, filter category.ListFilter) ([]*category.Category, error)
}

type BudgetComparer interface {
	Compare(ctx context.Context, userID int64, period budget.Period) ([]*budget.Comparison, error)
}

type Service struct {
	transactions TransactionFinder
	categories   CategoryLister
	budgets      BudgetComparer
	config       internal.DashboardConfig
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(transactions TransactionFinder, categories CategoryLister, budgets BudgetComparer, config internal.DashboardConfig, logger *slog.Logger) *Service {
	return &Service{
		transactions: transactions,
		categories:   categories,
		budgets:      budgets,
		config:       config,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today is the day period presets resolve against.
func (s *Service) Today() time.Time {
	return s.now()
}

func (s *Service) Summary(ctx context.Context, filter transaction.Filter) (*Summary, error) {
	filter.Type = ""
	rows, err := s.transactions.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range rows {
		switch t.Type {
		case ledger.Income:
			sum.Income = sum.Income.Add(t.Amount)
			sum.IncomeCount++
		case ledger.Expense:
			sum.Expense = sum.Expense.Add(t.Amount)
			sum.ExpenseCount++
		}
	}
	sum.Net = sum.Income.Sub(sum.Expense)

	divisor := sum.Income
	if divisor.IsZero() {
		divisor = decimal.NewFromInt(1)
	}
	sum.ExpenseIncomeRatio = sum.Expense.Div(divisor).Round(4).InexactFloat64()
	return sum, nil
}

// Breakdown totals one ledger per category, largest first.
func (s *Service) Breakdown(ctx context.Context, filter transaction.Filter, t ledger.Type) (*Breakdown, error) {
	t = defaultType(t)
	filter.Type = t
	rows, err := s.transactions.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	cats, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64]*CategoryTotal)
	total := decimal.Zero
	for _, row := range rows {
		ct, ok := byCategory[row.CategoryID]
		if !ok {
			ct = &CategoryTotal{CategoryID: row.CategoryID, Type: t, Total: decimal.Zero}
			if c, found := cats[row.CategoryID]; found {
				ct.Name, ct.Color, ct.Icon = c.Name, c.Color, c.Icon
			} else {
				ct.Name, ct.Color, ct.Icon = unknownCategory(row.CategoryID), category.DefaultColor, category.DefaultIcon
			}
			byCategory[row.CategoryID] = ct
		}
		ct.Total = ct.Total.Add(row.Amount)
		ct.Count++
		total = total.Add(row.Amount)
	}

	out := &Breakdown{Type: t, Total: total, Categories: make([]CategoryTotal, 0, len(byCategory)), Points: make([]ChartPoint, 0, len(byCategory))}
	for _, ct := range byCategory {
		if !total.IsZero() {
			ct.Share = ct.Total.Div(total).Round(4).InexactFloat64()
		}
		out.Categories = append(out.Categories, *ct)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		a, b := out.Categories[i], out.Categories[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Name < b.Name
	})
	for _, ct := range out.Categories {
		out.Points = append(out.Points, ChartPoint{X: ct.Name, Y: ct.Total.InexactFloat64(), Series: string(t)})
	}
	return out, nil
}

// History returns daily income and expense totals and their net. A ledger
// filter keeps only that ledger's series.
func (s *Service) History(ctx context.Context, filter transaction.Filter) ([]ChartPoint, error) {
	rows, err := s.transactions.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	income := make(map[time.Time]decimal.Decimal)
	expense := make(map[time.Time]decimal.Decimal)
	days := make(map[time.Time]struct{})
	for _, row := range rows {
		days[row.Date] = struct{}{}
		if row.Type == ledger.Income {
			income[row.Date] = income[row.Date].Add(row.Amount)
		} else {
			expense[row.Date] = expense[row.Date].Add(row.Amount)
		}
	}

	points := make([]ChartPoint, 0, len(days)*3)
	for _, d := range sortedDays(days) {
		x := d.Format(time.DateOnly)
		if filter.Type == "" || filter.Type == ledger.Income {
			points = append(points, ChartPoint{X: x, Y: income[d].InexactFloat64(), Series: string(ledger.Income)})
		}
		if filter.Type == "" || filter.Type == ledger.Expense {
			points = append(points, ChartPoint{X: x, Y: expense[d].InexactFloat64(), Series: string(ledger.Expense)})
		}
		if filter.Type == "" {
			points = append(points, ChartPoint{X: x, Y: income[d].Sub(expense[d]).InexactFloat64(), Series: SeriesNet})
		}
	}
	return points, nil
}

// Trend returns each category's daily series with its moving average, plus a
// Total series, and lists the anomalous days separately.
func (s *Service) Trend(ctx context.Context, filter transaction.Filter, t ledger.Type, window int) (*TrendResult, error) {
	t = defaultType(t)
	if window <= 0 {
		window = s.config.RollingWindow
	}
	series, err := s.dailySeries(ctx, filter, t)
	if err != nil {
		return nil, err
	}

	out := &TrendResult{Type: t, Window: window, Points: []ChartPoint{}, Anomalies: []ChartPoint{}}
	for _, sr := range series {
		for _, p := range trend.Analyze(sr.points, window) {
			x := p.Date.Format(time.DateOnly)
			out.Points = append(out.Points,
				ChartPoint{X: x, Y: p.Amount, Series: sr.name},
				ChartPoint{X: x, Y: p.MovingAverage, Series: sr.name + suffixAverage},
			)
			if p.Anomaly {
				out.Anomalies = append(out.Anomalies, ChartPoint{X: x, Y: p.Amount, Series: sr.name + suffixAnomaly})
			}
		}
	}
	return out, nil
}

// Forecast projects each category days ahead. Categories without enough
// history are listed in Insufficient.
func (s *Service) Forecast(ctx context.Context, filter transaction.Filter, t ledger.Type, days int) (*ForecastResult, error) {
	t = defaultType(t)
	days = s.config.ClampForecastDays(days)
	series, err := s.dailySeries(ctx, filter, t)
	if err != nil {
		return nil, err
	}

	out := &ForecastResult{Type: t, Days: days, Points: []ChartPoint{}, Insufficient: []string{}}
	for _, sr := range series {
		if sr.name == SeriesTotal {
			continue
		}
		projection, err := trend.Forecast(sr.points, days)
		if errors.Is(err, trend.ErrInsufficientData) {
			s.logger.Debug("not enough history to forecast", "category", sr.name, "points", len(sr.points))
			out.Insufficient = append(out.Insufficient, sr.name)
			continue
		}
		if err != nil {
			return nil, internal.NewInternalError("failed to forecast", err)
		}
		out.Points = append(out.Points, forecastPoints(sr, projection)...)
	}
	return out, nil
}

// ForecastCategory projects one category and fails when its history is too short.
func (s *Service) ForecastCategory(ctx context.Context, filter transaction.Filter, t ledger.Type, categoryID int64, days int) (*ForecastResult, error) {
	t = defaultType(t)
	days = s.config.ClampForecastDays(days)
	filter.CategoryID = categoryID
	series, err := s.dailySeries(ctx, filter, t)
	if err != nil {
		return nil, err
	}

	out := &ForecastResult{Type: t, Days: days, Points: []ChartPoint{}, Insufficient: []string{}}
	for _, sr := range series {
		if sr.name == SeriesTotal {
			continue
		}
		projection, err := trend.Forecast(sr.points, days)
		if errors.Is(err, trend.ErrInsufficientData) {
			return nil, internal.ErrInsufficientData
		}
		if err != nil {
			return nil, internal.NewInternalError("failed to forecast", err)
		}
		out.Points = forecastPoints(sr, projection)
		return out, nil
	}
	return nil, internal.ErrInsufficientData
}

// Budgets compares the month's budgets with recorded actuals. A zero period is the current month.
func (s *Service) Budgets(ctx context.Context, userID int64, period budget.Period) (*BudgetsResult, error) {
	now := s.now()
	if period.Month == 0 {
		period.Month = int(now.Month())
	}
	if period.Year == 0 {
		period.Year = now.Year()
	}

	comparisons, err := s.budgets.Compare(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	out := &BudgetsResult{ComparisonsResponse: budget.NewComparisonsResponse(period, comparisons), Alerts: []string{}}
	for _, c := range comparisons {
		if alert := c.Alert(); alert != "" {
			out.Alerts = append(out.Alerts, alert)
		}
	}
	return out, nil
}

type namedSeries struct {
	name   string
	points []trend.Point
}

// dailySeries sums one ledger per category and day. Categories come sorted by
// name, followed by the Total series.
func (s *Service) dailySeries(ctx context.Context, filter transaction.Filter, t ledger.Type) ([]namedSeries, error) {
	filter.Type = t
	rows, err := s.transactions.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cats, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	perCategory := make(map[string]map[time.Time]decimal.Decimal)
	total := make(map[time.Time]decimal.Decimal)
	for _, row := range rows {
		name := unknownCategory(row.CategoryID)
		if c, ok := cats[row.CategoryID]; ok {
			name = c.Name
		}
		if perCategory[name] == nil {
			perCategory[name] = make(map[time.Time]decimal.Decimal)
		}
		perCategory[name][row.Date] = perCategory[name][row.Date].Add(row.Amount)
		total[row.Date] = total[row.Date].Add(row.Amount)
	}

	names := make([]string, 0, len(perCategory))
	for name := range perCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]namedSeries, 0, len(names)+1)
	for _, name := range names {
		out = append(out, namedSeries{name: name, points: toPoints(perCategory[name])})
	}
	out = append(out, namedSeries{name: SeriesTotal, points: toPoints(total)})
	return out, nil
}

func (s *Service) categoryIndex(ctx context.Context) (map[int64]*category.Category, error) {
	cats, err := s.categories.List(ctx, category.ListFilter{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	index := make(map[int64]*category.Category, len(cats))
	for _, c := range cats {
		index[c.ID] = c
	}
	return index, nil
}

func forecastPoints(sr namedSeries, projection *trend.Projection) []ChartPoint {
	points := make([]ChartPoint, 0, len(sr.points)+len(projection.Points))
	for _, p := range sr.points {
		points = append(points, ChartPoint{X: p.Date.Format(time.DateOnly), Y: p.Amount, Series: sr.name + suffixActual})
	}
	for _, p := range projection.Points {
		points = append(points, ChartPoint{X: p.Date.Format(time.DateOnly), Y: p.Amount, Series: sr.name + suffixForecast})
	}
	return points
}

func toPoints(byDay map[time.Time]decimal.Decimal) []trend.Point {
	days := make(map[time.Time]struct{}, len(byDay))
	for d := range byDay {
		days[d] = struct{}{}
	}
	points := make([]trend.Point, 0, len(byDay))
	for _, d := range sortedDays(days) {
		points = append(points, trend.Point{Date: d, Amount: byDay[d].InexactFloat64()})
	}
	return points
}

func sortedDays(days map[time.Time]struct{}) []time.Time {
	out := make([]time.Time, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func defaultType(t ledger.Type) ledger.Type {
	if t == "" {
		return ledger.Expense
	}
	return t
}

func unknownCategory(id int64) string {
	return fmt.Sprintf("Category #%d", id)
}
