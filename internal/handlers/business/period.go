package business

import (
	"fmt"
	"time"
)

// MAX_RANGE_DAYS limits ad-hoc reporting and feed-import date ranges
const MAX_RANGE_DAYS = 366

// Period identifies one settlement month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Validate checks the period is a plausible calendar month
func (p Period) Validate() error {
	if p.Year < 2000 || p.Year > 2200 {
		return &ValidationError{Field: "year", Msg: fmt.Sprintf("year %d out of range", p.Year)}
	}
	if p.Month < 1 || p.Month > 12 {
		return &ValidationError{Field: "month", Msg: fmt.Sprintf("month %d out of range", p.Month)}
	}
	return nil
}

// Bounds returns the half-open [start, end) window covering the month,
// in UTC. Using the exclusive end keeps the last day of the month inclusive
// regardless of month length.
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Previous returns the preceding calendar month
func (p Period) Previous() Period {
	t := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ValidateDateRange rejects malformed ad-hoc ranges before any query runs
func ValidateDateRange(start, end time.Time) error {
	if !start.Before(end) {
		return &ValidationError{Field: "date_range", Msg: "start date must be before end date"}
	}
	if end.Sub(start) > MAX_RANGE_DAYS*24*time.Hour {
		return &ValidationError{Field: "date_range", Msg: fmt.Sprintf("range exceeds %d days", MAX_RANGE_DAYS)}
	}
	return nil
}
