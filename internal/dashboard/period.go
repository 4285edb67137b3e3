package dashboard

import (
	"net/url"
	"strings"
	"time"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
)

type Preset string

const (
	WeekToDate  Preset = "wtd"
	MonthToDate Preset = "mtd"
	YearToDate  Preset = "ytd"
	Last7       Preset = "last7"
	Last30      Preset = "last30"
	Last365     Preset = "last365"
	AllTime     Preset = "all"
)

func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return AllTime, nil
	case WeekToDate, MonthToDate, YearToDate, Last7, Last30, Last365, AllTime:
		return p, nil
	}
	return "", errors.NewValidationFieldError("period", "period must be one of wtd, mtd, ytd, last7, last30, last365, all", errors.ErrCodeInvalidPeriod)
}

// Range resolves the preset against today. AllTime has no bounds.
func (p Preset) Range(today time.Time) (*time.Time, *time.Time) {
	today = schedule.Truncate(today)
	var from time.Time
	switch p {
	case WeekToDate:
		// weeks start on Monday
		offset := (int(today.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -offset)
	case MonthToDate:
		from = schedule.Day(today.Year(), today.Month(), 1)
	case YearToDate:
		from = schedule.Day(today.Year(), time.January, 1)
	case Last7:
		from = today.AddDate(0, 0, -6)
	case Last30:
		from = today.AddDate(0, 0, -29)
	case Last365:
		from = today.AddDate(0, 0, -364)
	default:
		return nil, nil
	}
	return &from, &today
}

// ParseQuery reads the transaction filters plus a period preset. Explicit
// from, to, month and year win over the preset.
func ParseQuery(q url.Values, userID int64, today time.Time) (transaction.Filter, error) {
	filter, err := transaction.ParseFilter(q)
	if err != nil {
		return filter, err
	}
	filter.UserID = userID

	preset, err := ParsePreset(q.Get("period"))
	if err != nil {
		return filter, err
	}
	if filter.From == nil && filter.To == nil {
		filter.From, filter.To = preset.Range(today)
	}
	return filter, nil
}
