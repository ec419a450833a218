package hr

import (
	"strings"

	"github.com/sigesalud/dashboard/internal/domain/roster"
)

// Cadres counted against staffing quotas.
const (
	CadreDoctor     = roster.CadreDoctor
	CadreNurse      = roster.CadreNurse
	CadreTechnician = roster.CadreTechnician

	StatusActive = roster.StatusActive
)

const (
	DefaultStaffingLimit = 20
	maxAlerts            = 20
	maxCredentialAlerts  = 50
	alertStaffingLimit   = 200
	expiringWithinDays   = 90
	severeNurseDeficit   = 5
)

type Contact struct {
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// Worker is a health worker with their current assignment, if any.
type Worker struct {
	WorkerID           string   `json:"worker_id"`
	FullName           *string  `json:"full_name"`
	Sex                *string  `json:"sex"`
	DOB                *string  `json:"dob"`
	Nationality        *string  `json:"nationality"`
	Cadre              *string  `json:"cadre"`
	Specialty          *string  `json:"specialty"`
	LicenseNumber      *string  `json:"license_number"`
	EmploymentType     *string  `json:"employment_type"`
	CooperationProgram *string  `json:"cooperation_program"`
	Status             *string  `json:"status"`
	Phone              *string  `json:"phone"`
	Email              *string  `json:"email"`
	AssignmentID       *string  `json:"assignment_id"`
	FacilityID         *string  `json:"facility_id"`
	PositionTitle      *string  `json:"position_title"`
	Department         *string  `json:"department"`
	StartDate          *string  `json:"start_date"`
	EndDate            *string  `json:"end_date"`
	FTE                *float64 `json:"fte"`
	ShiftPattern       *string  `json:"shift_pattern"`
	FacilityName       *string  `json:"facility_name"`
	Province           *string  `json:"province"`
	District           *string  `json:"district"`
	Region             *string  `json:"region"`
	Contact            Contact  `json:"contact"`
}

type Assignment struct {
	AssignmentID  string   `json:"assignment_id"`
	WorkerID      *string  `json:"worker_id"`
	FacilityID    *string  `json:"facility_id"`
	PositionTitle *string  `json:"position_title"`
	Department    *string  `json:"department"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	FTE           *float64 `json:"fte"`
	ShiftPattern  *string  `json:"shift_pattern"`
}

type HistoryEntry struct {
	HistoryID  string  `json:"history_id"`
	WorkerID   *string `json:"worker_id"`
	FacilityID *string `json:"facility_id"`
	Role       *string `json:"role"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Notes      *string `json:"notes"`
}

type Credential struct {
	CredentialID string  `json:"credential_id"`
	WorkerID     *string `json:"worker_id"`
	Type         *string `json:"type"`
	Name         *string `json:"name"`
	Institution  *string `json:"institution"`
	Country      *string `json:"country"`
	DateAwarded  *string `json:"date_awarded"`
	ExpiresOn    *string `json:"expires_on"`
}

type StaffMember struct {
	WorkerID      string   `json:"worker_id"`
	FullName      *string  `json:"full_name"`
	Cadre         *string  `json:"cadre"`
	Specialty     *string  `json:"specialty"`
	Status        *string  `json:"status"`
	AssignmentID  string   `json:"assignment_id"`
	PositionTitle *string  `json:"position_title"`
	Department    *string  `json:"department"`
	StartDate     *string  `json:"start_date"`
	FTE           *float64 `json:"fte"`
}

type KPIs struct {
	Total   int64            `json:"total"`
	Active  int64            `json:"active"`
	ByCadre map[string]int64 `json:"by_cadre"`
	Scope   string           `json:"scope"`
	ScopeID *string          `json:"scope_id"`
}

// Staffing compares a facility's quota with the staff currently assigned.
type Staffing struct {
	FacilityID          string  `json:"facility_id"`
	FacilityName        *string `json:"facility_name"`
	Province            *string `json:"province"`
	District            *string `json:"district"`
	RequiredDoctors     int64   `json:"required_doctors"`
	RequiredNurses      int64   `json:"required_nurses"`
	RequiredTechnicians int64   `json:"required_technicians"`
	ActualDoctors       int64   `json:"actual_doctors"`
	ActualNurses        int64   `json:"actual_nurses"`
	ActualTechnicians   int64   `json:"actual_technicians"`
}

func (s Staffing) actual() int64 {
	return s.ActualDoctors + s.ActualNurses + s.ActualTechnicians
}

// Alert severities and types, as shown to users.
const (
	SeverityHigh   = "Alta"
	SeverityMedium = "Media"

	AlertNoDoctor     = "Centro sin medico"
	AlertNurseDeficit = "Deficit de enfermeria"
	AlertExpired      = "Certificacion vencida"
	AlertExpiring     = "Certificacion por vencer"
)

type Alert struct {
	Severity     string  `json:"severity"`
	Type         string  `json:"type"`
	Message      string  `json:"message"`
	FacilityID   *string `json:"facility_id"`
	FacilityName *string `json:"facility_name"`
}

// Scope selects national figures or those of one province or district. A
// level without an id is national.
type Scope struct {
	Level string `json:"level" validate:"omitempty,oneof=national province district"`
	ID    string `json:"id"`
}

func (s *Scope) Defaults() {
	s.Level = strings.ToLower(strings.TrimSpace(s.Level))
	s.ID = strings.TrimSpace(s.ID)
	if s.Level == "" {
		s.Level = "national"
	}
}

// field returns the facility column the scope filters on, or "" for national.
func (s Scope) field() string {
	if s.ID == "" {
		return ""
	}
	switch s.Level {
	case "province":
		return "province"
	case "district":
		return "district"
	}
	return ""
}

type WorkerFilters struct {
	Search         string `json:"search"`
	Cadre          string `json:"cadre"`
	Status         string `json:"status"`
	EmploymentType string `json:"employmentType"`
	FacilityID     string `json:"facilityId"`
	Province       string `json:"province"`
	District       string `json:"district"`
}

// WorkerParams carries a required worker id.
type WorkerParams struct {
	WorkerID string `json:"workerId" validate:"required"`
}

// OptionalWorker carries an optional worker id.
type OptionalWorker struct {
	WorkerID string `json:"workerId"`
}

type FacilityStaffParams struct {
	FacilityID string `json:"facilityId" validate:"required"`
	Department string `json:"department"`
}

type StaffingParams struct {
	Scope Scope `json:"scope"`
	Limit int   `json:"limit" validate:"min=1,max=500"`
}

func (p *StaffingParams) Defaults() {
	p.Scope.Defaults()
	if p.Limit == 0 {
		p.Limit = DefaultStaffingLimit
	}
}
