package patient

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sigesalud/dashboard/internal/store"
)

type Service struct {
	st store.Store
}

func NewService(st store.Store) *Service {
	return &Service{st: st}
}

func (p ListParams) predicates() []store.Predicate {
	var where []store.Predicate
	if p.Search != "" {
		where = append(where, store.Contains{Fields: []store.Field{"p.full_name", "p.patient_id"}, Term: p.Search})
	}
	if p.Sex != "" {
		where = append(where, store.Eq{Field: "p.sex", Value: p.Sex})
	}
	return where
}

// List returns one page of patients and the number of patients matching.
func (s *Service) List(ctx context.Context, p ListParams) (Page, error) {
	where := p.predicates()
	var total int64
	var rows []store.Row

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.st.Query(gctx, store.Query{
			From:       store.Source{Entity: store.Patients, Alias: "p"},
			Where:      where,
			Aggregates: []store.Aggregate{{Func: store.Count, As: "total"}},
		})
		if err != nil {
			return fmt.Errorf("count patients: %w", err)
		}
		total = store.First(res).Int("total")
		return nil
	})
	g.Go(func() error {
		res, err := s.st.Query(gctx, store.Query{
			From: store.Source{Entity: store.Patients, Alias: "p"},
			Joins: []store.Join{
				{Entity: store.Facilities, Alias: "f", On: []store.On{{Left: "f.facility_id", Right: "p.facility_id"}}},
				{Entity: store.Visits, Alias: "v", On: []store.On{{Left: "v.patient_id", Right: "p.patient_id"}}},
			},
			Where: where,
			Select: []store.Column{
				{Field: "p.patient_id"}, {Field: "p.full_name"}, {Field: "p.sex"}, {Field: "p.dob"},
				{Field: "p.district_id"}, {Field: "p.municipality_id"}, {Field: "p.facility_id"},
				{Field: "f.name", As: "facility_name"},
			},
			GroupBy: []store.Field{
				"p.patient_id", "p.full_name", "p.sex", "p.dob", "p.district_id",
				"p.municipality_id", "p.facility_id", "f.name",
			},
			Aggregates: []store.Aggregate{
				{Func: store.CountOf, Field: "v.visit_id", As: "visits_count"},
				{Func: store.Max, Field: "v.date", As: "last_visit"},
			},
			OrderBy: []store.Order{store.Asc("p.full_name"), store.Asc("p.patient_id")},
			Limit:   p.Limit,
			Offset:  p.Offset,
		})
		if err != nil {
			return fmt.Errorf("list patients: %w", err)
		}
		rows = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	page := Page{Total: total, Rows: make([]Patient, 0, len(rows))}
	for _, r := range rows {
		page.Rows = append(page.Rows, Patient{
			PatientID:      r.Str("patient_id"),
			FullName:       r.NullStr("full_name"),
			Sex:            r.NullStr("sex"),
			DOB:            r.NullStr("dob"),
			DistrictID:     r.NullStr("district_id"),
			MunicipalityID: r.NullStr("municipality_id"),
			FacilityID:     r.NullStr("facility_id"),
			FacilityName:   r.NullStr("facility_name"),
			VisitsCount:    r.Int("visits_count"),
			LastVisit:      r.NullStr("last_visit"),
		})
	}
	return page, nil
}

// Timeline returns a patient's visits, most recent first.
func (s *Service) Timeline(ctx context.Context, p TimelineParams) ([]Visit, error) {
	if p.PatientID == "" {
		return []Visit{}, nil
	}
	visits, err := Visits(ctx, s.st, []store.Predicate{store.Eq{Field: "v.patient_id", Value: p.PatientID}}, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("patient %s timeline: %w", p.PatientID, err)
	}
	return visits, nil
}

// Visits loads visits with their facility name, newest first.
func Visits(ctx context.Context, st store.Store, where []store.Predicate, limit int) ([]Visit, error) {
	rows, err := st.Query(ctx, store.Query{
		From: store.Source{Entity: store.Visits, Alias: "v"},
		Joins: []store.Join{{
			Entity: store.Facilities,
			Alias:  "f",
			On:     []store.On{{Left: "f.facility_id", Right: "v.facility_id"}},
		}},
		Where: where,
		Select: []store.Column{
			{Field: "v.visit_id"}, {Field: "v.patient_id"}, {Field: "v.facility_id"},
			{Field: "f.name", As: "facility_name"}, {Field: "v.date"}, {Field: "v.service"},
			{Field: "v.diagnosis_id"}, {Field: "v.diagnosis_code"}, {Field: "v.outcome"},
		},
		OrderBy: []store.Order{store.Desc("v.date"), store.Asc("v.visit_id")},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Visit, 0, len(rows))
	for _, r := range rows {
		out = append(out, Visit{
			VisitID:       r.Str("visit_id"),
			PatientID:     r.NullStr("patient_id"),
			FacilityID:    r.NullStr("facility_id"),
			FacilityName:  r.NullStr("facility_name"),
			Date:          r.NullStr("date"),
			Service:       r.NullStr("service"),
			DiagnosisID:   r.NullStr("diagnosis_id"),
			DiagnosisCode: r.NullStr("diagnosis_code"),
			Outcome:       r.NullStr("outcome"),
		})
	}
	return out, nil
}
