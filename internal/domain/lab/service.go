package lab

import (
	"context"
	"fmt"
	"sort"

	"github.com/sigesalud/dashboard/internal/domain/report"
	"github.com/sigesalud/dashboard/internal/platform/scale"
	"github.com/sigesalud/dashboard/internal/store"
)

type Service struct {
	st  store.Store
	now report.Clock
}

func NewService(st store.Store, now report.Clock) *Service {
	return &Service{st: st, now: report.OrNow(now)}
}

// span is a resolved reporting window over one table.
type span struct {
	window report.Window
	factor scale.Factor
}

// resolve anchors the period on the latest date of e and measures how many
// distinct dates inside it carry data. ok is false when e holds no dates.
func (s *Service) resolve(ctx context.Context, e store.Entity, period string) (sp span, ok bool, err error) {
	latest, err := report.MaxDate(ctx, s.st, e, "date")
	if err != nil {
		return span{}, false, fmt.Errorf("latest %s date: %w", e, err)
	}
	if latest == "" {
		return span{}, false, nil
	}
	p := report.LabPeriod(period)
	w := report.Back(latest, p.DaysBack)
	rows, err := s.st.Query(ctx, store.Query{
		From:       store.Source{Entity: e, Alias: "t"},
		Where:      []store.Predicate{w.On("t.date")},
		Aggregates: []store.Aggregate{{Func: store.CountDistinct, Field: "t.date", As: "days"}},
	})
	if err != nil {
		return span{}, false, fmt.Errorf("count %s dates: %w", e, err)
	}
	return span{window: w, factor: scale.For(p.Nominal, store.First(rows).Int("days"))}, true, nil
}

// Summary reports test volumes for the period. Sums are scaled to the nominal
// window; the turnaround average is not.
func (s *Service) Summary(ctx context.Context, p PeriodParams) (Summary, error) {
	sp, ok, err := s.resolve(ctx, store.LabDailySummary, p.Period)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return fallbackSummary(report.Today(s.now)), nil
	}
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.LabDailySummary, Alias: "l"},
		Where: []store.Predicate{sp.window.On("l.date")},
		Aggregates: []store.Aggregate{
			{Func: store.Sum, Field: "l.tests_ordered", As: "ordered"},
			{Func: store.Sum, Field: "l.tests_completed", As: "completed"},
			{Func: store.Sum, Field: "l.rejected_samples", As: "rejected"},
			{Func: store.Sum, Field: "l.avg_turnaround_hours", As: "hours"},
			{Func: store.CountOf, Field: "l.avg_turnaround_hours", As: "reports"},
		},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("lab summary: %w", err)
	}
	r := store.First(rows)
	return Summary{
		Date:               sp.window.End,
		TestsOrdered:       sp.factor.Apply(r.Int("ordered")),
		TestsCompleted:     sp.factor.Apply(r.Int("completed")),
		AvgTurnaroundHours: scale.Mean(r.Float("hours"), r.Int("reports"), 1),
		RejectedSamples:    sp.factor.Apply(r.Int("rejected")),
	}, nil
}

// Volume groups test volumes by the province or district of the facility.
func (s *Service) Volume(ctx context.Context, p VolumeParams) ([]Volume, error) {
	scope := store.F("f", p.Level)
	sp, ok, err := s.resolve(ctx, store.LabDailySummary, p.Period)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.fallbackVolume(ctx, scope)
	}
	rows, err := s.st.Query(ctx, store.Query{
		From: store.Source{Entity: store.LabDailySummary, Alias: "l"},
		Joins: []store.Join{{
			Kind:   store.InnerJoin,
			Entity: store.Facilities,
			Alias:  "f",
			On:     []store.On{{Left: "f.facility_id", Right: "l.facility_id"}},
		}},
		Where:   []store.Predicate{sp.window.On("l.date"), store.Present{Field: scope}},
		Select:  []store.Column{{Field: scope, As: "scope_id"}},
		GroupBy: []store.Field{scope},
		Aggregates: []store.Aggregate{
			{Func: store.Sum, Field: "l.tests_ordered", As: "ordered"},
			{Func: store.Sum, Field: "l.tests_completed", As: "completed"},
		},
		OrderBy: []store.Order{store.Desc("completed"), store.Asc("scope_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("lab volume by %s: %w", p.Level, err)
	}
	out := make([]Volume, 0, len(rows))
	for _, r := range rows {
		id := r.Str("scope_id")
		out = append(out, Volume{
			ScopeID:        id,
			ScopeName:      id,
			TestsOrdered:   sp.factor.Apply(r.Int("ordered")),
			TestsCompleted: sp.factor.Apply(r.Int("completed")),
		})
	}
	return out, nil
}

func (s *Service) fallbackVolume(ctx context.Context, scope store.Field) ([]Volume, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:       store.Source{Entity: store.Facilities, Alias: "f"},
		Where:      []store.Predicate{store.Present{Field: scope}},
		Select:     []store.Column{{Field: scope, As: "scope_id"}},
		GroupBy:    []store.Field{scope},
		Aggregates: []store.Aggregate{{Func: store.Count, As: "facilities"}},
		OrderBy:    []store.Order{store.Asc("scope_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("count facilities by scope: %w", err)
	}
	out := make([]Volume, 0, len(rows))
	for _, r := range rows {
		out = append(out, fallbackVolume(r.Str("scope_id"), r.Int("facilities")))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TestsCompleted > out[j].TestsCompleted
	})
	return out, nil
}

// Positivity sums tests and positives by disease and test type.
func (s *Service) Positivity(ctx context.Context, p PeriodParams) ([]Positivity, error) {
	sp, ok, err := s.resolve(ctx, store.LabDiseaseIndicators, p.Period)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.fallbackPositivity(ctx)
	}
	rows, err := s.st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.LabDiseaseIndicators, Alias: "i"},
		Where:   []store.Predicate{sp.window.On("i.date")},
		Select:  []store.Column{{Field: "i.disease_id"}, {Field: "i.test_type"}},
		GroupBy: []store.Field{"i.disease_id", "i.test_type"},
		Aggregates: []store.Aggregate{
			{Func: store.Sum, Field: "i.total_tested", As: "tested"},
			{Func: store.Sum, Field: "i.total_positive", As: "positive"},
		},
		OrderBy: []store.Order{store.Desc("positive"), store.Asc("i.disease_id"), store.Asc("i.test_type")},
	})
	if err != nil {
		return nil, fmt.Errorf("lab positivity: %w", err)
	}
	out := make([]Positivity, 0, len(rows))
	for _, r := range rows {
		out = append(out, Positivity{
			DiseaseID:     r.Str("disease_id"),
			TestType:      r.Str("test_type"),
			TotalTested:   sp.factor.Apply(r.Int("tested")),
			TotalPositive: sp.factor.Apply(r.Int("positive")),
		})
	}
	return out, nil
}

func (s *Service) fallbackPositivity(ctx context.Context) ([]Positivity, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.Diseases, Alias: "d"},
		Select:  []store.Column{{Field: "d.disease_id"}},
		OrderBy: []store.Order{store.Asc("d.disease_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("list diseases: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Str("disease_id"))
	}
	return fallbackPositivity(ids), nil
}

// Alerts lists laboratory alerts in the period, newest first. The window is
// anchored on the daily summary when it has data.
func (s *Service) Alerts(ctx context.Context, p AlertParams) ([]Alert, error) {
	n, err := store.CountRows(ctx, s.st, store.LabAlerts)
	if err != nil {
		return nil, fmt.Errorf("count lab alerts: %w", err)
	}
	if n == 0 {
		return fallbackAlerts(report.Today(s.now), p.Limit), nil
	}
	sp, ok, err := s.resolve(ctx, store.LabDailySummary, p.Period)
	if err != nil {
		return nil, err
	}
	if !ok {
		if sp, ok, err = s.resolve(ctx, store.LabAlerts, p.Period); err != nil || !ok {
			return []Alert{}, err
		}
	}
	rows, err := s.st.Query(ctx, store.Query{
		From: store.Source{Entity: store.LabAlerts, Alias: "a"},
		Joins: []store.Join{{
			Entity: store.Facilities,
			Alias:  "f",
			On:     []store.On{{Left: "f.facility_id", Right: "a.facility_id"}},
		}},
		Where: []store.Predicate{sp.window.On("a.date")},
		Select: []store.Column{
			{Field: "a.alert_id"}, {Field: "a.date"}, {Field: "a.type"}, {Field: "a.severity"},
			{Field: "a.facility_id"}, {Field: "f.name", As: "facility_name"}, {Field: "a.message"},
		},
		OrderBy: []store.Order{store.Desc("a.date"), store.Asc("a.alert_id")},
		Limit:   p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("lab alerts: %w", err)
	}
	out := make([]Alert, 0, len(rows))
	for _, r := range rows {
		out = append(out, Alert{
			AlertID:      r.Str("alert_id"),
			Date:         r.Str("date"),
			Type:         r.NullStr("type"),
			Severity:     r.NullStr("severity"),
			FacilityID:   r.NullStr("facility_id"),
			FacilityName: r.NullStr("facility_name"),
			Message:      r.NullStr("message"),
		})
	}
	return out, nil
}

func (s *Service) today() string { return report.Today(s.now) }
