package lab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigesalud/dashboard/internal/platform/detrand"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/storetest"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		period string
		want   Summary
	}{
		// One day asked, one day present: no scaling.
		{"yesterday", Summary{"2025-03-10", 60, 53, 7.3, 3}},
		// Three of seven days present: sums scaled by 7/3, average untouched.
		{"7d", Summary{"2025-03-10", 233, 210, 6.8, 9}},
		// Four of thirty days present.
		{"30d", Summary{"2025-03-10", 1125, 1013, 7.2, 53}},
	}
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st, storetest.Clock)
		for _, tt := range tests {
			t.Run(tt.period, func(t *testing.T) {
				got, err := svc.Summary(context.Background(), PeriodParams{Period: tt.period})
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestVolume(t *testing.T) {
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st, storetest.Clock)

		got, err := svc.Volume(context.Background(), VolumeParams{Period: "7d", Level: "province"})
		require.NoError(t, err)
		assert.Equal(t, []Volume{
			{ScopeID: "LITORAL", ScopeName: "LITORAL", TestsOrdered: 187, TestsCompleted: 168},
			{ScopeID: "KIE_NTEM", ScopeName: "KIE_NTEM", TestsOrdered: 47, TestsCompleted: 42},
		}, got)

		got, err = svc.Volume(context.Background(), VolumeParams{Period: "yesterday", Level: "district"})
		require.NoError(t, err)
		assert.Equal(t, []Volume{
			{ScopeID: "BATA", ScopeName: "BATA", TestsOrdered: 40, TestsCompleted: 35},
			{ScopeID: "EBEBIYIN", ScopeName: "EBEBIYIN", TestsOrdered: 20, TestsCompleted: 18},
		}, got)
	})
}

func TestPositivity(t *testing.T) {
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st, storetest.Clock)

		got, err := svc.Positivity(context.Background(), PeriodParams{Period: "7d"})
		require.NoError(t, err)
		assert.Equal(t, []Positivity{
			{DiseaseID: "MALARIA", TestType: "RDT", TotalTested: 70, TotalPositive: 19},
			{DiseaseID: "HIV", TestType: "RAPID", TotalTested: 21, TotalPositive: 2},
			{DiseaseID: "TB", TestType: "GENEXPERT", TotalTested: 9, TotalPositive: 2},
		}, got)

		got, err = svc.Positivity(context.Background(), PeriodParams{Period: "yesterday"})
		require.NoError(t, err)
		assert.Equal(t, []Positivity{{DiseaseID: "MALARIA", TestType: "RDT", TotalTested: 30, TotalPositive: 9}}, got)
	})
}

func TestAlerts(t *testing.T) {
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st, storetest.Clock)

		got, err := svc.Alerts(context.Background(), AlertParams{Period: "30d", Limit: 6})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "LA2", got[0].AlertID)
		assert.Equal(t, "Hospital de Ebebiyin", *got[0].FacilityName)
		assert.Equal(t, "LA1", got[1].AlertID)

		got, err = svc.Alerts(context.Background(), AlertParams{Period: "yesterday", Limit: 6})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "MACHINE_DOWNTIME", *got[0].Type)

		got, err = svc.Alerts(context.Background(), AlertParams{Period: "7d", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestFallbacks(t *testing.T) {
	for _, b := range storetest.Backends(t, storetest.Empty()) {
		t.Run(b.Name, func(t *testing.T) {
			testFallbacks(t, NewService(b.Store, storetest.Clock))
		})
	}
}

func testFallbacks(t *testing.T, svc *Service) {
	ctx := context.Background()

	sum, err := svc.Summary(ctx, PeriodParams{Period: "7d"})
	require.NoError(t, err)
	assert.Equal(t, Summary{"2025-03-12", 420, 398, 9.1, 12}, sum)

	vol, err := svc.Volume(ctx, VolumeParams{Period: "7d", Level: "province"})
	require.NoError(t, err)
	require.Len(t, vol, 3)
	byScope := map[string]Volume{}
	for i, v := range vol {
		byScope[v.ScopeID] = v
		if i > 0 {
			assert.GreaterOrEqual(t, vol[i-1].TestsCompleted, v.TestsCompleted)
		}
	}
	assert.Equal(t, fallbackVolume("BIOKO_NORTE", 2), byScope["BIOKO_NORTE"])
	base := 120 + int64(detrand.StableHash("LITORAL")%80) + 6
	assert.Equal(t, base, byScope["LITORAL"].TestsCompleted)
	assert.Equal(t, base+10+int64(detrand.StableHash("LITORAL-o")%20), byScope["LITORAL"].TestsOrdered)

	pos, err := svc.Positivity(ctx, PeriodParams{Period: "yesterday"})
	require.NoError(t, err)
	require.Len(t, pos, 8)
	assert.Equal(t, "MALARIA", pos[0].DiseaseID)
	assert.Equal(t, "HEMOGLOBINA", pos[5].TestType)
	for _, p := range pos {
		assert.GreaterOrEqual(t, p.TotalPositive, int64(2))
		assert.GreaterOrEqual(t, p.TotalTested, int64(40))
		assert.Less(t, p.TotalTested, int64(100))
	}

	alerts, err := svc.Alerts(ctx, AlertParams{Period: "7d", Limit: 2})
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "LAB_FALLBACK_001", alerts[0].AlertID)
	assert.Equal(t, "2025-03-12", alerts[0].Date)
	assert.Nil(t, alerts[0].FacilityID)
}

func TestFallbackPositivity_UsesCatalogue(t *testing.T) {
	got := fallbackPositivity([]string{"HTA", "LEPRA", "MALARIA"})
	require.Len(t, got, 2, "diseases without a test type are skipped")
	assert.Equal(t, "BP", got[0].TestType)
	assert.Equal(t, "RDT", got[1].TestType)
}

func TestParamsDefaults(t *testing.T) {
	p := PeriodParams{Period: "Ayer"}
	p.Defaults()
	assert.Equal(t, "yesterday", p.Period)

	v := VolumeParams{}
	v.Defaults()
	assert.Equal(t, VolumeParams{Period: "yesterday", Level: "province"}, v)

	a := AlertParams{Period: "7d"}
	a.Defaults()
	assert.Equal(t, DefaultAlertLimit, a.Limit)
}
