package patient

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigesalud/dashboard/internal/platform/ops"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/storetest"
)

func ids(rows []Patient) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.PatientID
	}
	return out
}

func TestList(t *testing.T) {
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st)
		ctx := context.Background()

		p := ListParams{}
		p.Defaults()
		page, err := svc.List(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		assert.Equal(t, []string{"P001", "P002", "P003", "P004"}, ids(page.Rows))

		ana := page.Rows[0]
		assert.Equal(t, int64(2), ana.VisitsCount)
		require.NotNil(t, ana.LastVisit)
		assert.Equal(t, "2025-03-10", *ana.LastVisit)
		assert.Equal(t, "Centro de Salud Ela Nguema", *ana.FacilityName)

		pedro := page.Rows[3]
		assert.Zero(t, pedro.VisitsCount)
		assert.Nil(t, pedro.LastVisit)
		assert.Nil(t, pedro.MunicipalityID)
	})
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
		total  int64
		want   []string
	}{
		{"search name", ListParams{Search: "nze"}, 1, []string{"P002"}},
		{"search id", ListParams{Search: "p00"}, 4, []string{"P001", "P002", "P003", "P004"}},
		{"sex", ListParams{Sex: "F"}, 2, []string{"P001", "P003"}},
		{"page", ListParams{Limit: 2, Offset: 1}, 4, []string{"P002", "P003"}},
		{"past the end", ListParams{Offset: 10}, 4, []string{}},
		{"clamped limit", ListParams{Limit: 1000, Sex: "M"}, 2, []string{"P002", "P004"}},
	}
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p := tt.params
				p.Defaults()
				page, err := svc.List(context.Background(), p)
				require.NoError(t, err)
				assert.Equal(t, tt.total, page.Total)
				assert.Equal(t, tt.want, ids(page.Rows))
			})
		}
	})
}

func TestListParams_Defaults(t *testing.T) {
	p := ListParams{Limit: 500, Offset: -3, Search: "  ana "}
	p.Defaults()
	assert.Equal(t, ListParams{Limit: 100, Offset: 0, Search: "ana"}, p)
}

func TestTimeline(t *testing.T) {
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st)
		ctx := context.Background()

		got, err := svc.Timeline(ctx, TimelineParams{PatientID: "P002", Limit: DefaultTimelineLimit})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "VIS_000020", got[0].VisitID)
		assert.Equal(t, "VIS_000028", got[1].VisitID)
		assert.Equal(t, "Hospital Regional de Bata", *got[0].FacilityName)

		got, err = svc.Timeline(ctx, TimelineParams{PatientID: "P002", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = svc.Timeline(ctx, TimelineParams{Limit: DefaultTimelineLimit})
		require.NoError(t, err)
		assert.Equal(t, []Visit{}, got)
	})
}

func TestOps(t *testing.T) {
	reg := ops.NewRegistry(zerolog.Nop())
	NewService(storetest.Backends(t, storetest.Dataset())[0].Store).RegisterOps(reg)
	ctx := context.Background()

	out, err := reg.Call(ctx, "patients.list", []byte(`{"sex":"F","limit":1}`))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"total":2`)
	assert.Contains(t, string(out), `"patient_id":"P001"`)
	assert.NotContains(t, string(out), `"patient_id":"P003"`)

	out, err = reg.Call(ctx, "patients.timeline", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))

	out, err = reg.Call(ctx, "patients.timeline", []byte(`{"patientId":"P001","limit":1000}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out), "invalid limits fall back to the default result")
}
