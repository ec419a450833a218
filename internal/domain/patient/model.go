package patient

import (
	"strings"

	"github.com/sigesalud/dashboard/pkg/pagination"
)

const DefaultTimelineLimit = 25

// Patient is a list row: the patient, their home facility and visit totals.
type Patient struct {
	PatientID      string  `json:"patient_id"`
	FullName       *string `json:"full_name"`
	Sex            *string `json:"sex"`
	DOB            *string `json:"dob"`
	DistrictID     *string `json:"district_id"`
	MunicipalityID *string `json:"municipality_id"`
	FacilityID     *string `json:"facility_id"`
	FacilityName   *string `json:"facility_name"`
	VisitsCount    int64   `json:"visits_count"`
	LastVisit      *string `json:"last_visit"`
}

type Page struct {
	Total int64     `json:"total"`
	Rows  []Patient `json:"rows"`
}

// Visit is a visit record with the name of the facility it happened at.
type Visit struct {
	VisitID       string  `json:"visit_id"`
	PatientID     *string `json:"patient_id"`
	FacilityID    *string `json:"facility_id"`
	FacilityName  *string `json:"facility_name"`
	Date          *string `json:"date"`
	Service       *string `json:"service"`
	DiagnosisID   *string `json:"diagnosis_id"`
	DiagnosisCode *string `json:"diagnosis_code"`
	Outcome       *string `json:"outcome"`
}

type ListParams struct {
	Search string `json:"search"`
	Sex    string `json:"sex"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (p *ListParams) Defaults() {
	p.Search = strings.TrimSpace(p.Search)
	p.Sex = strings.TrimSpace(p.Sex)
	w := pagination.New(p.Limit, p.Offset)
	p.Limit, p.Offset = w.Limit, w.Offset
}

type TimelineParams struct {
	PatientID string `json:"patientId"`
	Limit     int    `json:"limit" validate:"min=1,max=500"`
}

func (p *TimelineParams) Defaults() {
	p.PatientID = strings.TrimSpace(p.PatientID)
	p.Limit = pagination.Limit(p.Limit, DefaultTimelineLimit)
}
