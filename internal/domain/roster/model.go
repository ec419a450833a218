package roster

// Cadre values.
const (
	CadreDoctor     = "MEDICO"
	CadreNurse      = "ENFERMERIA"
	CadreTechnician = "TECNICO"
	CadreSupport    = "APOYO"
)

// StatusActive marks a worker currently in service.
const StatusActive = "ACTIVO"

// Quota is the required headcount of one facility.
type Quota struct {
	FacilityID         string  `json:"facility_id"`
	Doctors            int     `json:"doctors"`
	Nurses             int     `json:"nurses"`
	Technicians        int     `json:"technicians"`
	SupportStaff       int     `json:"support_staff"`
	CooperationProgram *string `json:"cooperation_program,omitempty"`
}

type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Worker struct {
	WorkerID           string  `json:"worker_id"`
	FullName           string  `json:"full_name"`
	Sex                string  `json:"sex"`
	DOB                string  `json:"dob"`
	Nationality        string  `json:"nationality"`
	Cadre              string  `json:"cadre"`
	Specialty          string  `json:"specialty"`
	LicenseNumber      *string `json:"license_number"`
	EmploymentType     string  `json:"employment_type"`
	CooperationProgram *string `json:"cooperation_program,omitempty"`
	Status             string  `json:"status"`
	Contact            Contact `json:"contact"`
}

type Assignment struct {
	AssignmentID  string  `json:"assignment_id"`
	WorkerID      string  `json:"worker_id"`
	FacilityID    string  `json:"facility_id"`
	PositionTitle string  `json:"position_title"`
	Department    string  `json:"department"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date"`
	FTE           float64 `json:"fte"`
	ShiftPattern  *string `json:"shift_pattern,omitempty"`
}

// HistoryEntry is a past posting. FacilityID is nil only when the quota
// input offered no other facility to draw from.
type HistoryEntry struct {
	HistoryID  string  `json:"history_id"`
	WorkerID   string  `json:"worker_id"`
	FacilityID *string `json:"facility_id"`
	Role       string  `json:"role"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Notes      string  `json:"notes"`
}

type Credential struct {
	CredentialID string  `json:"credential_id"`
	WorkerID     string  `json:"worker_id"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Institution  string  `json:"institution"`
	Country      string  `json:"country"`
	DateAwarded  string  `json:"date_awarded"`
	ExpiresOn    *string `json:"expires_on"`
}

// Roster is the four generated streams.
type Roster struct {
	Workers     []Worker
	Assignments []Assignment
	History     []HistoryEntry
	Credentials []Credential
}
