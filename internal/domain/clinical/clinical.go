// Package clinical synthesises the notes and vitals shown for a visit. Nothing
// here is stored: every value is a function of the visit identity, so the same
// visit always renders the same record.
package clinical

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sigesalud/dashboard/internal/platform/detrand"
)

const (
	OutcomeAdmission = "INGRESO"
	ServiceEmergency = "URGENCIAS"

	createdBy = "system_synth"

	// Vitals exist for visits whose base bucket is below this value.
	vitalsThreshold = 65
)

// Note types.
const (
	NoteSOAP      = "SOAP"
	NoteEvolution = "EVOLUCION"
	NoteDischarge = "ALTA"
)

// Visit is the slice of a visit record the generator reads.
type Visit struct {
	VisitID     string
	PatientID   string
	Date        string
	Service     string
	DiagnosisID string
	Outcome     string
}

type Note struct {
	NoteID         string `json:"note_id"`
	EncounterID    string `json:"encounter_id"`
	PatientID      string `json:"patient_id"`
	NoteType       string `json:"note_type"`
	ChiefComplaint string `json:"chief_complaint"`
	Subjective     string `json:"subjective"`
	Objective      string `json:"objective"`
	Assessment     string `json:"assessment"`
	Plan           string `json:"plan"`
	CreatedAt      string `json:"created_at"`
	CreatedBy      string `json:"created_by"`
	IsSigned       bool   `json:"is_signed"`
}

type Vitals struct {
	VitalID     string  `json:"vital_id"`
	EncounterID string  `json:"encounter_id"`
	PatientID   string  `json:"patient_id"`
	RecordedAt  string  `json:"recorded_at"`
	BPSystolic  int     `json:"bp_sys"`
	BPDiastolic int     `json:"bp_dia"`
	TempC       float64 `json:"temp_c"`
	HeartRate   int     `json:"hr"`
	RespRate    int     `json:"rr"`
	SpO2        int     `json:"spo2"`
	WeightKg    float64 `json:"weight_kg"`
	HeightCm    float64 `json:"height_cm"`
}

// Base returns the 0..99 bucket that drives every decision for a visit.
func Base(visitID string) int {
	return detrand.StableHash(visitID) % 100
}

// Notes returns the notes for a visit, possibly none.
func Notes(v Visit) []Note {
	base := Base(v.VisitID)
	plan := notePlan(v.Outcome, v.Service, base)
	tpl := templateFor(v.DiagnosisID)
	createdAt := fmt.Sprintf("%sT%02d:00:00Z", v.Date, 8+base%4)

	notes := make([]Note, 0, len(plan))
	for i, step := range plan {
		notes = append(notes, Note{
			NoteID:         fmt.Sprintf("NOTE_%s_%d", v.VisitID, i+1),
			EncounterID:    v.VisitID,
			PatientID:      v.PatientID,
			NoteType:       step.Type,
			ChiefComplaint: tpl.Chief,
			Subjective:     fmt.Sprintf("%s. %s.", tpl.Chief, step.Suffix),
			Objective:      fmt.Sprintf("TA normal, sin signos de alarma. Servicio: %s.", v.Service),
			Assessment:     tpl.Assessment,
			Plan:           tpl.Plan,
			CreatedAt:      createdAt,
			CreatedBy:      createdBy,
			IsSigned:       true,
		})
	}
	return notes
}

// VitalsFor returns the vitals of a visit, or nil when none were taken.
func VitalsFor(v Visit) *Vitals {
	base := Base(v.VisitID)
	if base >= vitalsThreshold {
		return nil
	}
	h := func(suffix string) int {
		return detrand.StableHash(v.VisitID + suffix)
	}
	bp := h("_bp")
	temp, _ := decimal.New(int64(360+h("_temp")%30), -1).Float64()
	return &Vitals{
		VitalID:     "VITAL_" + v.VisitID,
		EncounterID: v.VisitID,
		PatientID:   v.PatientID,
		RecordedAt:  fmt.Sprintf("%sT%02d:00:00Z", v.Date, 8+base%4),
		BPSystolic:  100 + bp%35,
		BPDiastolic: 60 + bp%20,
		TempC:       temp,
		HeartRate:   60 + h("_hr")%45,
		RespRate:    12 + h("_rr")%8,
		SpO2:        92 + h("_spo2")%7,
		WeightKg:    float64(50 + h("_wt")%45),
		HeightCm:    float64(150 + h("_ht")%35),
	}
}
