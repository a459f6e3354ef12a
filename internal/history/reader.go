// Package history presents archived daily logs with relative day labels.
package history

import (
	"context"
	"time"

	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/models"
)

// Source is the archive query surface of the daily log store.
type Source interface {
	GetPastDaysLogs(ctx context.Context, n int) []models.DailyLog
	GetMostRecentLogs(ctx context.Context, n int) []models.DailyLog
	GetAllHistoricalLogs(ctx context.Context) []models.DailyLog
}

// Day is one archived log prepared for display. IsExpanded is view state only.
type Day struct {
	Log        models.DailyLog
	Label      string
	IsExpanded bool
}

func (d *Day) Toggle() {
	d.IsExpanded = !d.IsExpanded
}

type Option func(*Reader)

func WithClock(c clock.Clock) Option {
	return func(r *Reader) { r.clock = c }
}

func WithLocation(loc *time.Location) Option {
	return func(r *Reader) { r.loc = loc }
}

// Reader holds no state of its own; every call re-reads the source.
type Reader struct {
	src   Source
	clock clock.Clock
	loc   *time.Location
}

func New(src Source, opts ...Option) *Reader {
	r := &Reader{src: src, clock: clock.Real{}, loc: time.Local}
	for _, opt := range opts {
		opt(r)
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	return r
}

// MostRecentDays returns up to n non-empty archived days, newest first.
func (r *Reader) MostRecentDays(ctx context.Context, n int) []Day {
	return r.wrap(r.src.GetMostRecentLogs(ctx, n))
}

// PastDays returns the archived days within the n calendar days before today,
// newest first, including empty ones.
func (r *Reader) PastDays(ctx context.Context, n int) []Day {
	return r.wrap(r.src.GetPastDaysLogs(ctx, n))
}

// AllHistory returns every archived day, newest first.
func (r *Reader) AllHistory(ctx context.Context) []Day {
	return r.wrap(r.src.GetAllHistoricalLogs(ctx))
}

func (r *Reader) wrap(logs []models.DailyLog) []Day {
	now := r.clock.Now().In(r.loc)
	days := make([]Day, 0, len(logs))
	for _, log := range logs {
		days = append(days, Day{Log: log, Label: Label(log.Date, now)})
	}
	return days
}

// Label names date relative to now: "Today", "Yesterday", or e.g. "Monday, March 10".
// Unparseable dates are returned unchanged.
func Label(date string, now time.Time) string {
	if date == now.Format(constants.DateFormat) {
		return "Today"
	}
	if date == now.AddDate(0, 0, -1).Format(constants.DateFormat) {
		return "Yesterday"
	}
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format(constants.DisplayDateFormat)
}
