// Package trend fits a straight line through a dated series, projects it forward
// and flags observations that sit far from the series mean.
package trend

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
)

const (
	DefaultWindow = 3
	// AnomalyZScore is the absolute z-score above which a point is an anomaly.
	AnomalyZScore = 2.0
)

var (
	ErrInsufficientData = errors.New("trend: insufficient data to forecast")
	ErrInvalidHorizon   = errors.New("trend: horizon must be positive")
)

type Point struct {
	Date   time.Time
	Amount float64
}

type Projection struct {
	Slope     float64
	Intercept float64
	Points    []Point
}

type AnalyzedPoint struct {
	Point
	MovingAverage float64
	Anomaly       bool
}

// Forecast fits amount = intercept + slope*offset by ordinary least squares, where
// offset is the day distance from the earliest date, and projects horizonDays days
// past the latest date.
func Forecast(series []Point, horizonDays int) (*Projection, error) {
	if horizonDays <= 0 {
		return nil, ErrInvalidHorizon
	}
	if len(series) < 2 || !hasDistinctAmounts(series) {
		return nil, ErrInsufficientData
	}

	sorted := sortedCopy(series)
	origin := schedule.Truncate(sorted[0].Date)

	n := float64(len(sorted))
	var sumX, sumY float64
	xs := make([]float64, len(sorted))
	for i, p := range sorted {
		xs[i] = dayOffset(origin, p.Date)
		sumX += xs[i]
		sumY += p.Amount
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for i, p := range sorted {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (p.Amount - meanY)
	}
	// every point on the same day
	if sxx == 0 {
		return nil, ErrInsufficientData
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	lastX := xs[len(xs)-1]
	lastDate := schedule.Truncate(sorted[len(sorted)-1].Date)
	points := make([]Point, horizonDays)
	for i := range horizonDays {
		step := i + 1
		points[i] = Point{
			Date:   lastDate.AddDate(0, 0, step),
			Amount: intercept + slope*(lastX+float64(step)),
		}
	}

	return &Projection{Slope: slope, Intercept: intercept, Points: points}, nil
}

// RollingMean is a simple moving average with a minimum of one period, so the
// first window-1 values average over what is available.
func RollingMean(values []float64, window int) []float64 {
	if window <= 0 {
		window = DefaultWindow
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// DetectAnomalies flags values whose z-score against the whole series exceeds
// AnomalyZScore. The standard deviation is the sample one.
func DetectAnomalies(values []float64) []bool {
	flags := make([]bool, len(values))
	if len(values) < 2 {
		return flags
	}

	mean, std := meanStd(values)
	if std == 0 || math.IsNaN(std) {
		return flags
	}
	for i, v := range values {
		flags[i] = math.Abs(v-mean)/std > AnomalyZScore
	}
	return flags
}

// Analyze orders the series by date and attaches the moving average and anomaly flag to each point.
func Analyze(series []Point, window int) []AnalyzedPoint {
	sorted := sortedCopy(series)
	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = p.Amount
	}

	sma := RollingMean(values, window)
	flags := DetectAnomalies(values)

	out := make([]AnalyzedPoint, len(sorted))
	for i, p := range sorted {
		out[i] = AnalyzedPoint{Point: p, MovingAverage: sma[i], Anomaly: flags[i]}
	}
	return out
}

func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)-1))
}

func hasDistinctAmounts(series []Point) bool {
	for _, p := range series[1:] {
		if p.Amount != series[0].Amount {
			return true
		}
	}
	return false
}

func sortedCopy(series []Point) []Point {
	sorted := make([]Point, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func dayOffset(origin, d time.Time) float64 {
	return math.Round(schedule.Truncate(d).Sub(origin).Hours() / 24)
}
