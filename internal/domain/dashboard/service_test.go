package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigesalud/dashboard/internal/domain/report"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/memstore"
	"github.com/sigesalud/dashboard/internal/store/storetest"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name   string
		params SummaryParams
		want   Summary
	}{
		{
			name:   "today",
			params: SummaryParams{Period: "today"},
			want: Summary{
				Visits: 1, Suspected: 6, Alerts: 3, OccupancyRate: 1, Stockouts: 2,
				StartDate: "2025-03-10", EndDate: "2025-03-10",
			},
		},
		{
			name:   "seven days",
			params: SummaryParams{Period: "7d"},
			want: Summary{
				Visits: 3, Suspected: 6, Alerts: 3, OccupancyRate: 2, Stockouts: 2,
				StartDate: "2025-03-04", EndDate: "2025-03-10",
			},
		},
		{
			name:   "thirty days",
			params: SummaryParams{Period: "30d"},
			want: Summary{
				Visits: 5, Suspected: 73, Alerts: 3, OccupancyRate: 4, Stockouts: 2, MortalityRate: 20,
				StartDate: "2025-02-09", EndDate: "2025-03-10",
			},
		},
		{
			name:   "insular region",
			params: SummaryParams{Period: "30d", Filters: report.FacilityFilter{Region: "INSULAR"}},
			want: Summary{
				Visits: 2, Suspected: 27, Alerts: 2, OccupancyRate: 3, Stockouts: 1,
				StartDate: "2025-02-09", EndDate: "2025-03-10",
			},
		},
		{
			name:   "hospitals",
			params: SummaryParams{Period: "30d", Filters: report.FacilityFilter{Region: "todas", Type: "HOSPITAL"}},
			want: Summary{
				Visits: 3, Suspected: 73, Alerts: 1, OccupancyRate: 4, Stockouts: 1, MortalityRate: 33,
				StartDate: "2025-02-09", EndDate: "2025-03-10",
			},
		},
	}

	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st, storetest.Clock)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := svc.Summary(context.Background(), tt.params)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestSummary_NoVisits(t *testing.T) {
	svc := NewService(memstore.New(storetest.Empty()), storetest.Clock)

	got, err := svc.Summary(context.Background(), SummaryParams{Period: "7d"})
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Suspected: 6,
		StartDate: "2025-03-06",
		EndDate:   "2025-03-12",
	}, got)
}

func TestSummaryParams_Defaults(t *testing.T) {
	tests := map[string]string{"": "today", "hoy": "today", " 7D ": "7d", "30d": "30d"}
	for in, want := range tests {
		p := SummaryParams{Period: in}
		p.Defaults()
		if p.Period != want {
			t.Errorf("Defaults(%q) = %q, want %q", in, p.Period, want)
		}
	}
}

func TestEmpty(t *testing.T) {
	svc := NewService(nil, storetest.Clock)
	got := svc.Empty()
	if got.StartDate != "2025-03-12" || got.EndDate != "2025-03-12" || got.Visits != 0 {
		t.Errorf("Empty() = %+v", got)
	}
}
