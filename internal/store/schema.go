package store

// Entity names a stored collection. The string is the relational table name.
type Entity string

const (
	Facilities           Entity = "facilities"
	Patients             Entity = "patients"
	Visits               Entity = "visits"
	Alerts               Entity = "alerts"
	StockCatalog         Entity = "stock_catalog"
	StockLevels          Entity = "stock_levels_monthly"
	StaffingQuotas       Entity = "staff_assignments"
	Workers              Entity = "health_workers"
	Assignments          Entity = "worker_assignments"
	WorkHistory          Entity = "worker_history"
	Credentials          Entity = "worker_credentials"
	EpiWeekly            Entity = "epi_weekly"
	Regions              Entity = "regions"
	Provinces            Entity = "provinces"
	Districts            Entity = "districts"
	Municipalities       Entity = "municipalities"
	Diseases             Entity = "diseases_catalog"
	LabDailySummary      Entity = "lab_daily_summary"
	LabDiseaseIndicators Entity = "lab_disease_indicators"
	LabAlerts            Entity = "lab_alerts"
)

// Kind is a column storage class.
type Kind int

const (
	Text Kind = iota
	Integer
	Real
)

// ColumnDef describes one stored column.
type ColumnDef struct {
	Name string
	Kind Kind
}

// Table lists the columns of an entity in storage order.
type Table struct {
	Entity  Entity
	Columns []ColumnDef
}

// Kind returns the kind of a column and whether it exists.
func (t Table) Kind(column string) (Kind, bool) {
	for _, c := range t.Columns {
		if c.Name == column {
			return c.Kind, true
		}
	}
	return Text, false
}

// Names returns the column names in order.
func (t Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

func text(names ...string) []ColumnDef {
	out := make([]ColumnDef, len(names))
	for i, n := range names {
		out[i] = ColumnDef{Name: n, Kind: Text}
	}
	return out
}

func cols(groups ...[]ColumnDef) []ColumnDef {
	var out []ColumnDef
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func intCol(name string) []ColumnDef  { return []ColumnDef{{Name: name, Kind: Integer}} }
func realCol(name string) []ColumnDef { return []ColumnDef{{Name: name, Kind: Real}} }

// Schema is the catalogue shared by both backends. The relational migration
// declares the same tables and columns.
var Schema = map[Entity]Table{
	Facilities: {Facilities, text(
		"facility_id", "name", "region", "province", "district", "city", "facility_type",
		"reference_level", "ownership", "services_json", "contacts_json", "address_note",
		"data_quality_json", "map_pos_json",
	)},
	Patients: {Patients, text(
		"patient_id", "full_name", "sex", "dob", "district_id", "municipality_id", "facility_id",
	)},
	Visits: {Visits, text(
		"visit_id", "patient_id", "facility_id", "date", "service", "diagnosis_id",
		"diagnosis_code", "outcome",
	)},
	Alerts: {Alerts, text(
		"alert_id", "date", "type", "severity", "scope", "scope_id", "province_id", "region", "message",
	)},
	StockCatalog: {StockCatalog, text("item_id", "name", "category", "unit")},
	StockLevels: {StockLevels, cols(
		text("facility_id", "item_id", "month"),
		intCol("stock_on_hand"),
		intCol("min_level"),
		text("expiry_nearest"),
	)},
	StaffingQuotas: {StaffingQuotas, cols(
		text("facility_id"),
		intCol("doctors"),
		intCol("nurses"),
		intCol("technicians"),
		intCol("support_staff"),
		text("cooperation_program"),
	)},
	Workers: {Workers, text(
		"worker_id", "full_name", "sex", "dob", "nationality", "cadre", "specialty",
		"license_number", "employment_type", "cooperation_program", "status", "phone", "email",
	)},
	Assignments: {Assignments, cols(
		text("assignment_id", "worker_id", "facility_id", "position_title", "department",
			"start_date", "end_date"),
		realCol("fte"),
		text("shift_pattern"),
	)},
	WorkHistory: {WorkHistory, text(
		"history_id", "worker_id", "facility_id", "role", "start_date", "end_date", "notes",
	)},
	Credentials: {Credentials, text(
		"credential_id", "worker_id", "type", "name", "institution", "country",
		"date_awarded", "expires_on",
	)},
	EpiWeekly: {EpiWeekly, cols(
		text("district_id", "province_id", "region"),
		intCol("week"),
		text("week_start", "disease_id"),
		intCol("cases"),
	)},
	Regions:        {Regions, text("region_id", "name")},
	Provinces:      {Provinces, text("province_id", "name", "region")},
	Districts:      {Districts, text("district_id", "name", "province_id", "region")},
	Municipalities: {Municipalities, text("municipality_id", "name", "district_id", "province_id", "region")},
	Diseases:       {Diseases, text("disease_id", "name", "icd_like")},
	LabDailySummary: {LabDailySummary, cols(
		text("facility_id", "date"),
		intCol("tests_ordered"),
		intCol("tests_completed"),
		realCol("avg_turnaround_hours"),
		intCol("rejected_samples"),
		text("tests_by_category_json"),
	)},
	LabDiseaseIndicators: {LabDiseaseIndicators, cols(
		text("facility_id", "date", "disease_id", "test_type"),
		intCol("total_tested"),
		intCol("total_positive"),
	)},
	LabAlerts: {LabAlerts, text("alert_id", "date", "type", "severity", "facility_id", "message")},
}

// Entities returns every entity in load order: reference tables before the
// tables that point at them.
func Entities() []Entity {
	return []Entity{
		Regions, Provinces, Districts, Municipalities, Facilities, Diseases,
		Patients, Visits, Alerts, StockCatalog, StockLevels, StaffingQuotas,
		Workers, Assignments, WorkHistory, Credentials, EpiWeekly,
		LabDailySummary, LabDiseaseIndicators, LabAlerts,
	}
}
