package encounter

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigesalud/dashboard/internal/domain/clinical"
	"github.com/sigesalud/dashboard/internal/platform/ops"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/storetest"
)

func TestDetail(t *testing.T) {
	storetest.Each(t, func(t *testing.T, st store.Store) {
		got, err := NewService(st).Detail(context.Background(), DetailParams{EncounterID: "VIS_000028"})
		require.NoError(t, err)
		require.NotNil(t, got.Encounter)
		assert.Equal(t, "VIS_000028", got.Encounter.VisitID)
		assert.Equal(t, "Hospital Regional de Bata", *got.Encounter.FacilityName)

		cv := clinical.Visit{
			VisitID: "VIS_000028", PatientID: "P002", Date: "2025-03-05",
			Service: "MEDICINA_INTERNA", DiagnosisID: "TB", Outcome: "INGRESO",
		}
		assert.Equal(t, clinical.Notes(cv), got.Notes)
		assert.Equal(t, clinical.VitalsFor(cv), got.Vitals)
		for _, n := range got.Notes {
			assert.Equal(t, "Probable TB", n.Assessment)
		}
	})
}

func TestDetail_Missing(t *testing.T) {
	storetest.Each(t, func(t *testing.T, st store.Store) {
		svc := NewService(st)
		for _, id := range []string{"", "VIS_999999"} {
			got, err := svc.Detail(context.Background(), DetailParams{EncounterID: id})
			require.NoError(t, err)
			assert.Equal(t, empty(), got)
		}
	})
}

func TestOps_Deterministic(t *testing.T) {
	reg := ops.NewRegistry(zerolog.Nop())
	NewService(storetest.Backends(t, storetest.Dataset())[0].Store).RegisterOps(reg)
	ctx := context.Background()

	first, err := reg.Call(ctx, "encounters.detail", []byte(`{"encounterId":"VIS_000005"}`))
	require.NoError(t, err)
	second, err := reg.Call(ctx, "encounters.detail", []byte(`{"encounterId":"VIS_000005"}`))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	out, err := reg.Call(ctx, "encounters.detail", []byte(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"encounter":null,"notes":[],"vitals":null}`, string(out))
}
