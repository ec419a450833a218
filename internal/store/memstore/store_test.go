package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/dataset"
)

func sample() *dataset.Dataset {
	return &dataset.Dataset{
		Facilities: []dataset.Facility{
			{FacilityID: dataset.T("F1"), Name: dataset.T("Centro Ela Nguema"), Province: dataset.T("BIOKO_NORTE")},
			{FacilityID: dataset.T("F2"), Name: dataset.T("Hospital de Bata"), Province: dataset.T("LITORAL")},
			{FacilityID: dataset.T("F3"), Name: dataset.T("Ébano Clínica")},
		},
		Patients: []dataset.Patient{
			{PatientID: dataset.T("P1"), FullName: dataset.T("Ana Mba"), FacilityID: dataset.T("F1")},
			{PatientID: dataset.T("P2"), FullName: dataset.T("Juan Nze"), FacilityID: dataset.T("F2")},
			{PatientID: dataset.T("P3"), FullName: dataset.T("Sin Visitas")},
		},
		Visits: []dataset.Visit{
			{VisitID: dataset.T("V1"), PatientID: dataset.T("P1"), FacilityID: dataset.T("F1"), Date: dataset.T("2025-03-01"), Outcome: dataset.T("ALTA")},
			{VisitID: dataset.T("V2"), PatientID: dataset.T("P1"), FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-05")},
			{VisitID: dataset.T("V3"), PatientID: dataset.T("P2"), FacilityID: dataset.T("F2"), Date: dataset.T("2025-03-03"), Outcome: dataset.T("DEFUNCION")},
			{VisitID: dataset.T("V4"), PatientID: dataset.T("PX"), FacilityID: dataset.T("F9"), Date: dataset.T("2025-02-20")},
		},
		LabSummary: []dataset.LabSummary{
			{FacilityID: dataset.T("F1"), Date: dataset.T("2025-03-01"), TestsOrdered: dataset.I(10), AvgTurnaroundHours: dataset.N(0.1)},
			{FacilityID: dataset.T("F1"), Date: dataset.T("2025-03-02"), TestsOrdered: dataset.I(5), AvgTurnaroundHours: dataset.N(0.2)},
		},
	}
}

func TestQuery_LeftJoinKeepsUnmatched(t *testing.T) {
	st := New(sample())
	rows, err := st.Query(context.Background(), store.Query{
		From: store.Source{Entity: store.Visits, Alias: "v"},
		Joins: []store.Join{{
			Entity: store.Facilities,
			Alias:  "f",
			On:     []store.On{{Left: "f.facility_id", Right: "v.facility_id"}},
		}},
		Select:  []store.Column{{Field: "v.visit_id"}, {Field: "f.name", As: "facility_name"}},
		OrderBy: []store.Order{store.Asc("v.visit_id")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Centro Ela Nguema", rows[0]["facility_name"])
	assert.Equal(t, "V4", rows[3]["visit_id"])
	assert.Nil(t, rows[3]["facility_name"])
}

func TestQuery_InnerJoinDrops(t *testing.T) {
	st := New(sample())
	rows, err := st.Query(context.Background(), store.Query{
		From: store.Source{Entity: store.Visits, Alias: "v"},
		Joins: []store.Join{{
			Kind:   store.InnerJoin,
			Entity: store.Patients,
			Alias:  "p",
			On:     []store.On{{Left: "v.patient_id", Right: "p.patient_id"}},
		}},
		Select:  []store.Column{{Field: "v.visit_id"}},
		OrderBy: []store.Order{store.Asc("v.visit_id")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "V3", rows[2]["visit_id"])
}

func TestQuery_JoinConditionVersusFilter(t *testing.T) {
	st := New(sample())
	base := store.Query{
		From: store.Source{Entity: store.Patients, Alias: "p"},
		Joins: []store.Join{{
			Entity: store.Visits,
			Alias:  "v",
			On:     []store.On{{Left: "v.patient_id", Right: "p.patient_id"}},
			Where:  []store.Predicate{store.Compare{Field: "v.date", Op: store.OpGte, Value: "2025-03-04"}},
		}},
		Select:     []store.Column{{Field: "p.patient_id"}},
		GroupBy:    []store.Field{"p.patient_id"},
		Aggregates: []store.Aggregate{{Func: store.CountOf, Field: "v.visit_id", As: "visits"}},
		OrderBy:    []store.Order{store.Asc("p.patient_id")},
	}

	rows, err := st.Query(context.Background(), base)
	require.NoError(t, err)
	require.Len(t, rows, 3, "a join condition keeps every patient")
	assert.Equal(t, int64(1), rows[0]["visits"])
	assert.Equal(t, int64(0), rows[1]["visits"])
	assert.Equal(t, int64(0), rows[2]["visits"])
}

func TestQuery_NullSemantics(t *testing.T) {
	st := New(sample())
	ctx := context.Background()

	rows, err := st.Query(ctx, store.Query{
		From:   store.Source{Entity: store.Visits, Alias: "v"},
		Where:  []store.Predicate{store.Eq{Field: "v.outcome", Value: nil}},
		Select: []store.Column{{Field: "v.visit_id"}},
	})
	require.NoError(t, err)
	assert.Empty(t, rows, "null never equals")

	rows, err = st.Query(ctx, store.Query{
		From:       store.Source{Entity: store.Visits, Alias: "v"},
		Select:     []store.Column{{Field: "v.outcome"}},
		GroupBy:    []store.Field{"v.outcome"},
		Aggregates: []store.Aggregate{{Func: store.Count, As: "n"}},
		OrderBy:    []store.Order{store.Asc("v.outcome")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Nil(t, rows[0]["outcome"], "nulls sort first ascending and group together")
	assert.Equal(t, int64(2), rows[0]["n"])
	assert.Equal(t, "ALTA", rows[1]["outcome"])

	rows, err = st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.Visits, Alias: "v"},
		Select:  []store.Column{{Field: "v.visit_id"}, {Field: "v.outcome"}},
		OrderBy: []store.Order{store.Desc("v.outcome"), store.Asc("v.visit_id")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "V3", rows[0]["visit_id"])
	assert.Nil(t, rows[2]["outcome"], "nulls sort last descending")
	assert.Equal(t, "V2", rows[2]["visit_id"])
}

func TestQuery_AggregateOnEmptyInput(t *testing.T) {
	st := New(sample())
	rows, err := st.Query(context.Background(), store.Query{
		From:  store.Source{Entity: store.LabDailySummary, Alias: "l"},
		Where: []store.Predicate{store.Eq{Field: "l.facility_id", Value: "F404"}},
		Aggregates: []store.Aggregate{
			{Func: store.Count, As: "n"},
			{Func: store.Sum, Field: "l.tests_ordered", As: "ordered"},
			{Func: store.Max, Field: "l.date", As: "latest"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0]["n"])
	assert.Nil(t, rows[0]["ordered"])
	assert.Nil(t, rows[0]["latest"])

	rows, err = st.Query(context.Background(), store.Query{
		From:       store.Source{Entity: store.LabDailySummary, Alias: "l"},
		Where:      []store.Predicate{store.Eq{Field: "l.facility_id", Value: "F404"}},
		Select:     []store.Column{{Field: "l.facility_id"}},
		GroupBy:    []store.Field{"l.facility_id"},
		Aggregates: []store.Aggregate{{Func: store.Count, As: "n"}},
	})
	require.NoError(t, err)
	assert.Empty(t, rows, "grouped queries yield no rows on empty input")
}

func TestQuery_SumKinds(t *testing.T) {
	st := New(sample())
	rows, err := st.Query(context.Background(), store.Query{
		From: store.Source{Entity: store.LabDailySummary, Alias: "l"},
		Aggregates: []store.Aggregate{
			{Func: store.Sum, Field: "l.tests_ordered", As: "ordered"},
			{Func: store.Sum, Field: "l.avg_turnaround_hours", As: "hours"},
			{Func: store.Max, Field: "l.date", As: "latest"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(15), rows[0]["ordered"])
	assert.InDelta(t, 0.3, rows[0]["hours"], 1e-12)
	assert.Equal(t, "2025-03-02", rows[0]["latest"])
}

func TestQuery_WindowAndIndexedScan(t *testing.T) {
	st := New(sample())
	ctx := context.Background()

	rows, err := st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.Visits, Alias: "v"},
		Where:   []store.Predicate{store.Eq{Field: "v.patient_id", Value: "P1"}},
		Select:  []store.Column{{Field: "v.visit_id"}},
		OrderBy: []store.Order{store.Desc("v.date")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "V2", rows[0]["visit_id"])

	rows, err = st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.Visits, Alias: "v"},
		Select:  []store.Column{{Field: "v.visit_id"}},
		OrderBy: []store.Order{store.Asc("v.visit_id")},
		Offset:  1,
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "V2", rows[0]["visit_id"])
	assert.Equal(t, "V3", rows[1]["visit_id"])

	rows, err = st.Query(ctx, store.Query{
		From:   store.Source{Entity: store.Visits, Alias: "v"},
		Select: []store.Column{{Field: "v.visit_id"}},
		Offset: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQuery_ContainsFoldsASCIIOnly(t *testing.T) {
	st := New(sample())
	search := func(term string) int {
		rows, err := st.Query(context.Background(), store.Query{
			From:   store.Source{Entity: store.Facilities, Alias: "f"},
			Where:  []store.Predicate{store.Contains{Fields: []store.Field{"f.name", "f.facility_id"}, Term: term}},
			Select: []store.Column{{Field: "f.facility_id"}},
		})
		require.NoError(t, err)
		return len(rows)
	}

	assert.Equal(t, 1, search("HOSPITAL"))
	assert.Equal(t, 1, search("f1"))
	assert.Equal(t, 1, search("clínica"))
	assert.Equal(t, 0, search("CLÍNICA"), "non-ASCII letters are not folded")
	assert.Equal(t, 3, search(""))
}

func TestQuery_ValidationAndCancellation(t *testing.T) {
	st := New(sample())

	_, err := st.Query(context.Background(), store.Query{From: store.Source{Entity: store.Visits, Alias: "v"}})
	assert.ErrorIs(t, err, store.ErrEmptyProjection)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = st.Query(ctx, store.Query{
		From:   store.Source{Entity: store.Visits, Alias: "v"},
		Select: []store.Column{{Field: "v.visit_id"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_CoercesColumns(t *testing.T) {
	ds := sample()
	ds.Facilities[0].ReferenceLevel = dataset.T("2")
	st := New(ds)

	assert.Equal(t, 3, st.Len(store.Facilities))
	assert.Equal(t, "memory", st.Backend())

	rows := st.lookup(store.Facilities, "reference_level", "2")
	require.Len(t, rows, 1)
	assert.Equal(t, "F1", rows[0]["facility_id"])
	assert.Empty(t, st.lookup(store.Facilities, "reference_level", nil))
}
