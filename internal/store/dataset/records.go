package dataset

import (
	"encoding/json"

	"github.com/sigesalud/dashboard/internal/domain/roster"
)

type Facility struct {
	FacilityID     Text            `json:"facility_id"`
	Name           Text            `json:"name"`
	Region         Text            `json:"region"`
	Province       Text            `json:"province"`
	District       Text            `json:"district"`
	City           Text            `json:"city"`
	FacilityType   Text            `json:"facility_type"`
	ReferenceLevel Text            `json:"reference_level"`
	Ownership      Text            `json:"ownership"`
	Services       json.RawMessage `json:"services,omitempty"`
	Contacts       json.RawMessage `json:"contacts,omitempty"`
	AddressNote    Text            `json:"address_note"`
	DataQuality    json.RawMessage `json:"data_quality,omitempty"`
	MapPos         json.RawMessage `json:"map_pos,omitempty"`
}

type Patient struct {
	PatientID      Text `json:"patient_id"`
	FullName       Text `json:"full_name"`
	Sex            Text `json:"sex"`
	DOB            Text `json:"dob"`
	DistrictID     Text `json:"district_id"`
	MunicipalityID Text `json:"municipality_id"`
	FacilityID     Text `json:"facility_id"`
}

type Visit struct {
	VisitID       Text `json:"visit_id"`
	PatientID     Text `json:"patient_id"`
	FacilityID    Text `json:"facility_id"`
	Date          Text `json:"date"`
	Service       Text `json:"service"`
	DiagnosisID   Text `json:"diagnosis_id"`
	DiagnosisCode Text `json:"diagnosis_code"`
	Outcome       Text `json:"outcome"`
}

type Alert struct {
	AlertID    Text `json:"alert_id"`
	Date       Text `json:"date"`
	Type       Text `json:"type"`
	Severity   Text `json:"severity"`
	Scope      Text `json:"scope"`
	ScopeID    Text `json:"scope_id"`
	ProvinceID Text `json:"province_id"`
	Region     Text `json:"region"`
	Message    Text `json:"message"`
}

type StockItem struct {
	ItemID   Text `json:"item_id"`
	Name     Text `json:"name"`
	Category Text `json:"category"`
	Unit     Text `json:"unit"`
}

type StockLevel struct {
	FacilityID    Text `json:"facility_id"`
	ItemID        Text `json:"item_id"`
	Month         Text `json:"month"`
	StockOnHand   Int  `json:"stock_on_hand"`
	MinLevel      Int  `json:"min_level"`
	ExpiryNearest Text `json:"expiry_nearest"`
}

type EpiRecord struct {
	DistrictID Text `json:"district_id"`
	ProvinceID Text `json:"province_id"`
	Region     Text `json:"region"`
	Week       Int  `json:"week"`
	WeekStart  Text `json:"week_start"`
	DiseaseID  Text `json:"disease_id"`
	Cases      Int  `json:"cases"`
}

type Region struct {
	RegionID Text `json:"region_id"`
	Name     Text `json:"name"`
}

type Province struct {
	ProvinceID Text `json:"province_id"`
	Name       Text `json:"name"`
	Region     Text `json:"region"`
}

type District struct {
	DistrictID Text `json:"district_id"`
	Name       Text `json:"name"`
	ProvinceID Text `json:"province_id"`
	Region     Text `json:"region"`
}

type Municipality struct {
	MunicipalityID Text `json:"municipality_id"`
	Name           Text `json:"name"`
	DistrictID     Text `json:"district_id"`
	ProvinceID     Text `json:"province_id"`
	Region         Text `json:"region"`
}

type Disease struct {
	DiseaseID Text `json:"disease_id"`
	Name      Text `json:"name"`
	ICDLike   Text `json:"icd_like"`
}

type LabSummary struct {
	FacilityID         Text            `json:"facility_id"`
	Date               Text            `json:"date"`
	TestsOrdered       Int             `json:"tests_ordered"`
	TestsCompleted     Int             `json:"tests_completed"`
	AvgTurnaroundHours Float           `json:"avg_turnaround_hours"`
	RejectedSamples    Int             `json:"rejected_samples"`
	TestsByCategory    json.RawMessage `json:"tests_by_category,omitempty"`
}

type LabIndicator struct {
	FacilityID    Text `json:"facility_id"`
	Date          Text `json:"date"`
	DiseaseID     Text `json:"disease_id"`
	TestType      Text `json:"test_type"`
	TotalTested   Int  `json:"total_tested"`
	TotalPositive Int  `json:"total_positive"`
}

type LabAlert struct {
	AlertID    Text `json:"alert_id"`
	Date       Text `json:"date"`
	Type       Text `json:"type"`
	Severity   Text `json:"severity"`
	FacilityID Text `json:"facility_id"`
	Message    Text `json:"message"`
}

// Dataset is every record collection the system reads. Staffing quotas and
// the HR streams use the roster generator's types.
type Dataset struct {
	Facilities     []Facility
	Patients       []Patient
	Visits         []Visit
	Alerts         []Alert
	StockCatalog   []StockItem
	StockLevels    []StockLevel
	Quotas         []roster.Quota
	Workers        []roster.Worker
	Assignments    []roster.Assignment
	History        []roster.HistoryEntry
	Credentials    []roster.Credential
	Epi            []EpiRecord
	Regions        []Region
	Provinces      []Province
	Districts      []District
	Municipalities []Municipality
	Diseases       []Disease
	LabSummary     []LabSummary
	LabIndicators  []LabIndicator
	LabAlerts      []LabAlert
}

// HasRoster reports whether any HR stream is present.
func (d *Dataset) HasRoster() bool {
	return len(d.Workers) > 0 || len(d.Assignments) > 0
}

// SetRoster replaces the HR streams.
func (d *Dataset) SetRoster(r roster.Roster) {
	d.Workers = r.Workers
	d.Assignments = r.Assignments
	d.History = r.History
	d.Credentials = r.Credentials
}

// FacilityIDs lists facility ids in file order.
func (d *Dataset) FacilityIDs() []string {
	out := make([]string, 0, len(d.Facilities))
	for _, f := range d.Facilities {
		if f.FacilityID.Valid {
			out = append(out, f.FacilityID.V)
		}
	}
	return out
}
