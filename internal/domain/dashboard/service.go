package dashboard

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sigesalud/dashboard/internal/domain/report"
	"github.com/sigesalud/dashboard/internal/platform/scale"
	"github.com/sigesalud/dashboard/internal/store"
)

const (
	// Beds assumed per facility when estimating occupancy.
	bedsPerFacility = 35
	maxOccupancy    = 95

	// Floor for the suspected-case estimate when no epi data covers the window.
	minSuspected  = 6
	suspectedRate = 0.08
)

type Service struct {
	st  store.Store
	now report.Clock
}

func NewService(st store.Store, now report.Clock) *Service {
	return &Service{st: st, now: report.OrNow(now)}
}

// Empty is the summary reported when nothing can be computed.
func (s *Service) Empty() Summary {
	today := report.Today(s.now)
	return Summary{StartDate: today, EndDate: today}
}

// Summary computes the headline figures for a period ending at the most
// recent visit date.
func (s *Service) Summary(ctx context.Context, p SummaryParams) (Summary, error) {
	end, err := report.MaxDate(ctx, s.st, store.Visits, "date")
	if err != nil {
		return Summary{}, fmt.Errorf("latest visit date: %w", err)
	}
	if end == "" {
		end = report.Today(s.now)
	}
	w := report.Back(end, report.DashboardPeriod(p.Period).DaysBack)
	out := Summary{StartDate: w.Start, EndDate: w.End}

	var (
		deaths, epiCases, facilities int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Visits, deaths, err = s.visits(ctx, w, p.Filters)
		return err
	})
	g.Go(func() error {
		var err error
		epiCases, err = s.epiCases(ctx, w, p.Filters.Region)
		return err
	})
	g.Go(func() error {
		var err error
		out.Alerts, err = s.alerts(ctx, p.Filters)
		return err
	})
	g.Go(func() error {
		var err error
		out.Stockouts, err = s.stockouts(ctx, p.Filters)
		return err
	})
	g.Go(func() error {
		var err error
		facilities, err = s.facilities(ctx, p.Filters)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	out.Suspected = epiCases
	if epiCases == 0 {
		out.Suspected = max(minSuspected, scale.Round(float64(out.Visits)*suspectedRate))
	}
	if facilities > 0 {
		out.OccupancyRate = min(maxOccupancy, scale.MulRound(out.Visits, 100, facilities*bedsPerFacility))
	}
	out.MortalityRate = scale.Ratio(deaths, out.Visits)
	return out, nil
}

func (s *Service) visits(ctx context.Context, w report.Window, f report.FacilityFilter) (visits, deaths int64, err error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.Visits, Alias: "v"},
		Joins: []store.Join{facilityJoin("v.facility_id")},
		Where: append([]store.Predicate{w.On("v.date")}, f.Predicates("f")...),
		Aggregates: []store.Aggregate{
			{Func: store.Count, As: "visits"},
			{Func: store.Count, As: "deaths", When: []store.Predicate{
				store.Contains{Fields: []store.Field{"v.outcome"}, Term: "DEF"},
			}},
		},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("count visits: %w", err)
	}
	r := store.First(rows)
	return r.Int("visits"), r.Int("deaths"), nil
}

func (s *Service) epiCases(ctx context.Context, w report.Window, region string) (int64, error) {
	where := []store.Predicate{w.On("e.week_start")}
	if !report.Unfiltered(region) {
		where = append(where, store.Eq{Field: "e.region", Value: region})
	}
	rows, err := s.st.Query(ctx, store.Query{
		From:       store.Source{Entity: store.EpiWeekly, Alias: "e"},
		Where:      where,
		Aggregates: []store.Aggregate{{Func: store.Sum, Field: "e.cases", As: "cases"}},
	})
	if err != nil {
		return 0, fmt.Errorf("sum epi cases: %w", err)
	}
	return store.First(rows).Int("cases"), nil
}

// alerts counts every alert; the region matches either the alert itself or
// the facility it is scoped to.
func (s *Service) alerts(ctx context.Context, f report.FacilityFilter) (int64, error) {
	var where []store.Predicate
	if !report.Unfiltered(f.Region) {
		where = append(where, store.Or{Any: []store.Predicate{
			store.Eq{Field: "a.region", Value: f.Region},
			store.Eq{Field: "f.region", Value: f.Region},
		}})
	}
	rest := f
	rest.Region = ""
	where = append(where, rest.Predicates("f")...)

	rows, err := s.st.Query(ctx, store.Query{
		From:       store.Source{Entity: store.Alerts, Alias: "a"},
		Joins:      []store.Join{facilityJoin("a.scope_id")},
		Where:      where,
		Aggregates: []store.Aggregate{{Func: store.Count, As: "n"}},
	})
	if err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return store.First(rows).Int("n"), nil
}

func (s *Service) stockouts(ctx context.Context, f report.FacilityFilter) (int64, error) {
	month, err := report.MaxDate(ctx, s.st, store.StockLevels, "month")
	if err != nil {
		return 0, fmt.Errorf("latest stock month: %w", err)
	}
	if month == "" {
		return 0, nil
	}
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.StockLevels, Alias: "s"},
		Joins: []store.Join{facilityJoin("s.facility_id")},
		Where: append([]store.Predicate{
			store.Eq{Field: "s.month", Value: month},
			store.CompareFields{Left: "s.stock_on_hand", Op: store.OpLte, Right: "s.min_level"},
		}, f.Predicates("f")...),
		Aggregates: []store.Aggregate{{Func: store.CountDistinct, Field: "s.facility_id", As: "n"}},
	})
	if err != nil {
		return 0, fmt.Errorf("count stockouts: %w", err)
	}
	return store.First(rows).Int("n"), nil
}

func (s *Service) facilities(ctx context.Context, f report.FacilityFilter) (int64, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:       store.Source{Entity: store.Facilities, Alias: "f"},
		Where:      f.Predicates("f"),
		Aggregates: []store.Aggregate{{Func: store.Count, As: "n"}},
	})
	if err != nil {
		return 0, fmt.Errorf("count facilities: %w", err)
	}
	return store.First(rows).Int("n"), nil
}

func facilityJoin(key store.Field) store.Join {
	return store.Join{
		Entity: store.Facilities,
		Alias:  "f",
		On:     []store.On{{Left: "f.facility_id", Right: key}},
	}
}

// normalisePeriod maps Spanish and mixed-case period names onto the
// canonical ones. Empty means today.
func normalisePeriod(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" || p == "hoy" {
		return "today"
	}
	return p
}
