package clinical

import (
	"reflect"
	"testing"
)

// Bases of the visit ids used below: VIS_000005=0, VIS_000020=57,
// VIS_000028=65, VIS_000090=74, VIS_000001=96.

func noteTypes(notes []Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.NoteType
	}
	return out
}

func TestNotes_DecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		visit   Visit
		want    []string
		suffix0 string
	}{
		{"admission low bucket", Visit{VisitID: "VIS_000005", Outcome: OutcomeAdmission}, []string{NoteSOAP, NoteEvolution, NoteDischarge}, "Ingreso"},
		{"admission mid bucket", Visit{VisitID: "VIS_000020", Outcome: OutcomeAdmission}, []string{NoteSOAP, NoteEvolution}, "Ingreso"},
		{"admission high bucket", Visit{VisitID: "VIS_000001", Outcome: OutcomeAdmission}, []string{NoteSOAP}, "Ingreso"},
		{"emergency low bucket", Visit{VisitID: "VIS_000020", Service: ServiceEmergency}, []string{NoteEvolution}, "Urgencias"},
		{"emergency high bucket", Visit{VisitID: "VIS_000090", Service: ServiceEmergency}, []string{}, ""},
		{"admission wins over emergency", Visit{VisitID: "VIS_000001", Service: ServiceEmergency, Outcome: OutcomeAdmission}, []string{NoteSOAP}, "Ingreso"},
		{"ambulatory consult", Visit{VisitID: "VIS_000028", Service: "CONSULTA"}, []string{NoteSOAP}, "Consulta"},
		{"ambulatory follow-up", Visit{VisitID: "VIS_000090", Service: "CONSULTA"}, []string{NoteSOAP, NoteEvolution}, "Consulta"},
		{"ambulatory none", Visit{VisitID: "VIS_000001", Service: "CONSULTA"}, []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := Notes(tt.visit)
			if got := noteTypes(notes); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("note types = %v, want %v", got, tt.want)
			}
			if len(notes) > 0 {
				chief := notes[0].ChiefComplaint
				if want := chief + ". " + tt.suffix0 + "."; notes[0].Subjective != want {
					t.Errorf("subjective = %q, want %q", notes[0].Subjective, want)
				}
			}
		})
	}
}

func TestNotes_Fields(t *testing.T) {
	v := Visit{VisitID: "VIS_000005", PatientID: "P1", Date: "2025-03-04", Service: "HOSPITALIZACION", DiagnosisID: "MALARIA", Outcome: OutcomeAdmission}
	notes := Notes(v)
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
	n := notes[1]
	if n.NoteID != "NOTE_VIS_000005_2" || n.EncounterID != "VIS_000005" || n.PatientID != "P1" {
		t.Errorf("ids = %s/%s/%s", n.NoteID, n.EncounterID, n.PatientID)
	}
	if n.ChiefComplaint != "Fiebre y escalofrios" || n.Assessment != "Sospecha de malaria" {
		t.Errorf("template not applied: %+v", n)
	}
	if n.Objective != "TA normal, sin signos de alarma. Servicio: HOSPITALIZACION." {
		t.Errorf("objective = %q", n.Objective)
	}
	if n.CreatedAt != "2025-03-04T08:00:00Z" || n.CreatedBy != "system_synth" || !n.IsSigned {
		t.Errorf("audit fields = %s/%s/%v", n.CreatedAt, n.CreatedBy, n.IsSigned)
	}
}

func TestNotes_DefaultTemplate(t *testing.T) {
	notes := Notes(Visit{VisitID: "VIS_000028", DiagnosisID: "UNKNOWN"})
	if len(notes) != 1 || notes[0].Plan != "Indicaciones generales y control" {
		t.Fatalf("default template not used: %+v", notes)
	}
}

func TestVitals(t *testing.T) {
	v := VitalsFor(Visit{VisitID: "VIS_000005", PatientID: "P1", Date: "2025-03-04"})
	if v == nil {
		t.Fatal("expected vitals for base 0")
	}
	want := Vitals{
		VitalID: "VITAL_VIS_000005", EncounterID: "VIS_000005", PatientID: "P1",
		RecordedAt: "2025-03-04T08:00:00Z",
		BPSystolic: 120, BPDiastolic: 65, TempC: 37.3, HeartRate: 88, RespRate: 15,
		SpO2: 98, WeightKg: 50, HeightCm: 150,
	}
	if *v != want {
		t.Errorf("vitals = %+v, want %+v", *v, want)
	}
}

func TestVitals_Threshold(t *testing.T) {
	if v := VitalsFor(Visit{VisitID: "VIS_000028"}); v != nil {
		t.Errorf("base 65 must have no vitals, got %+v", v)
	}
	if v := VitalsFor(Visit{VisitID: "VIS_000020"}); v == nil {
		t.Error("base 57 must have vitals")
	}
}

func TestDeterministic(t *testing.T) {
	v := Visit{VisitID: "VIS_000020", PatientID: "P9", Date: "2025-06-01", Service: "CONSULTA", DiagnosisID: "TB"}
	if !reflect.DeepEqual(Notes(v), Notes(v)) {
		t.Error("notes differ between calls")
	}
	if !reflect.DeepEqual(VitalsFor(v), VitalsFor(v)) {
		t.Error("vitals differ between calls")
	}
}

func TestVitals_Ranges(t *testing.T) {
	for i := 0; i < 500; i++ {
		id := "V" + string(rune('A'+i%26)) + string(rune('a'+i/26%26)) + string(rune('0'+i%10))
		v := VitalsFor(Visit{VisitID: id})
		if v == nil {
			continue
		}
		if v.BPSystolic < 100 || v.BPSystolic >= 135 || v.BPDiastolic < 60 || v.BPDiastolic >= 80 {
			t.Errorf("%s bp %d/%d", id, v.BPSystolic, v.BPDiastolic)
		}
		if v.TempC < 36 || v.TempC > 38.9 {
			t.Errorf("%s temp %v", id, v.TempC)
		}
		if v.SpO2 < 92 || v.SpO2 > 98 {
			t.Errorf("%s spo2 %d", id, v.SpO2)
		}
	}
}
