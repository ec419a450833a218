package lab

import (
	"github.com/sigesalud/dashboard/internal/platform/detrand"
	"github.com/sigesalud/dashboard/internal/platform/scale"
)

// Demo figures shown before any laboratory data has been loaded.

var defaultDiseases = []string{"MALARIA", "ETI_IRA", "DIARREA", "TB", "HIV", "MATERNAL_RISK", "HTA", "DIABETES"}

var testTypes = map[string]string{
	"MALARIA":       "RDT",
	"HIV":           "RAPID",
	"TB":            "GENEXPERT",
	"ETI_IRA":       "RAPID",
	"DIARREA":       "STOOL",
	"DIABETES":      "GLUCOSE",
	"HTA":           "BP",
	"MATERNAL_RISK": "HEMOGLOBINA",
}

func fallbackSummary(today string) Summary {
	return Summary{
		Date:               today,
		TestsOrdered:       420,
		TestsCompleted:     398,
		AvgTurnaroundHours: 9.1,
		RejectedSamples:    12,
	}
}

func fallbackVolume(scope string, facilities int64) Volume {
	base := 120 + int64(detrand.StableHash(scope)%80) + facilities*6
	return Volume{
		ScopeID:        scope,
		ScopeName:      scope,
		TestsOrdered:   base + 10 + int64(detrand.StableHash(scope+"-o")%20),
		TestsCompleted: base,
	}
}

func fallbackPositivity(diseaseIDs []string) []Positivity {
	if len(diseaseIDs) == 0 {
		diseaseIDs = defaultDiseases
	}
	out := make([]Positivity, 0, len(diseaseIDs))
	for _, id := range diseaseIDs {
		test, ok := testTypes[id]
		if !ok {
			continue
		}
		base := int64(40 + detrand.StableHash(id)%60)
		rate := 0.12 + float64(detrand.StableHash(id+"-p")%8)/100
		out = append(out, Positivity{
			DiseaseID:     id,
			TestType:      test,
			TotalTested:   base,
			TotalPositive: max(2, scale.Round(float64(base)*rate)),
		})
	}
	return out
}

func fallbackAlerts(today string, limit int) []Alert {
	str := func(s string) *string { return &s }
	all := []Alert{
		{AlertID: "LAB_FALLBACK_001", Date: today, Type: str("RDT_STOCK_LOW"), Severity: str("ALTA"),
			Message: str("RDT malaria con stock bajo. Revisar reposicion.")},
		{AlertID: "LAB_FALLBACK_002", Date: today, Type: str("MACHINE_DOWNTIME"), Severity: str("MEDIA"),
			Message: str("Equipo de hematologia con mantenimiento programado.")},
		{AlertID: "LAB_FALLBACK_003", Date: today, Type: str("POSITIVITY_SPIKE"), Severity: str("ALTA"),
			Message: str("Aumento de positividad malaria en la ultima semana.")},
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}
