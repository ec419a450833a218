// Package report holds the date-window and filter vocabulary shared by the
// reporting services.
package report

import (
	"context"
	"strings"
	"time"

	"github.com/sigesalud/dashboard/internal/store"
)

// DateLayout is the ISO calendar date every stored date uses.
const DateLayout = "2006-01-02"

// Clock returns the current time. Services take one so tests can pin today.
type Clock func() time.Time

// OrNow returns c, or time.Now when c is nil.
func OrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// Today formats the clock's UTC date.
func Today(now Clock) string {
	return now().UTC().Format(DateLayout)
}

// AddDays shifts an ISO date. Unparseable input is returned unchanged.
func AddDays(date string, days int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

// Window is an inclusive date range.
type Window struct {
	Start string
	End   string
}

// Back returns the window ending at end and reaching back days before it.
func Back(end string, days int) Window {
	return Window{Start: AddDays(end, -days), End: end}
}

// On restricts field to the window.
func (w Window) On(field store.Field) store.Predicate {
	return store.Between{Field: field, Lo: w.Start, Hi: w.End}
}

// Period is a named reporting window: DaysBack before the anchor date, with
// Nominal calendar days expected inside it.
type Period struct {
	DaysBack int
	Nominal  int64
}

// DashboardPeriod resolves today|hoy, 7d or 30d. Unknown names mean today.
func DashboardPeriod(name string) Period {
	switch strings.ToLower(name) {
	case "7d":
		return Period{DaysBack: 6, Nominal: 7}
	case "30d":
		return Period{DaysBack: 29, Nominal: 30}
	default:
		return Period{DaysBack: 0, Nominal: 1}
	}
}

// LabPeriod resolves yesterday|ayer, 7d or 30d. Unknown names mean yesterday.
func LabPeriod(name string) Period {
	return DashboardPeriod(name)
}

// Unfiltered reports whether a filter value selects everything.
func Unfiltered(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "todas", "todos", "all":
		return true
	}
	return false
}

// FacilityFilter narrows facilities by region, type and free text.
type FacilityFilter struct {
	Region string `json:"region,omitempty"`
	Type   string `json:"type,omitempty"`
	Search string `json:"search,omitempty"`
}

// Predicates returns the filter against the facility alias. Search covers
// name, city and district.
func (f FacilityFilter) Predicates(alias string) []store.Predicate {
	var out []store.Predicate
	if !Unfiltered(f.Region) {
		out = append(out, store.Eq{Field: store.F(alias, "region"), Value: f.Region})
	}
	if !Unfiltered(f.Type) {
		out = append(out, store.Eq{Field: store.F(alias, "facility_type"), Value: f.Type})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		out = append(out, store.Contains{
			Fields: []store.Field{store.F(alias, "name"), store.F(alias, "city"), store.F(alias, "district")},
			Term:   s,
		})
	}
	return out
}

// MaxDate returns the greatest value of a date column, or "" for an empty
// entity.
func MaxDate(ctx context.Context, st store.Store, e store.Entity, column string, where ...store.Predicate) (string, error) {
	rows, err := st.Query(ctx, store.Query{
		From:       store.Source{Entity: e, Alias: "t"},
		Where:      where,
		Aggregates: []store.Aggregate{{Func: store.Max, Field: store.F("t", column), As: "latest"}},
	})
	if err != nil {
		return "", err
	}
	return store.First(rows).Str("latest"), nil
}
