package hr

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sigesalud/dashboard/internal/domain/report"
	"github.com/sigesalud/dashboard/internal/store"
)

type Service struct {
	st  store.Store
	now report.Clock
}

func NewService(st store.Store, now report.Clock) *Service {
	return &Service{st: st, now: report.OrNow(now)}
}

// openAssignment attaches the worker's current assignment as alias a.
func openAssignment(worker store.Field) store.Join {
	return store.Join{
		Entity: store.Assignments,
		Alias:  "a",
		On:     []store.On{{Left: "a.worker_id", Right: worker}},
		Where:  []store.Predicate{store.Blank{Field: "a.end_date"}},
	}
}

var facilityJoin = store.Join{
	Entity: store.Facilities,
	Alias:  "f",
	On:     []store.On{{Left: "f.facility_id", Right: "a.facility_id"}},
}

func (sc Scope) predicates() []store.Predicate {
	if col := sc.field(); col != "" {
		return []store.Predicate{store.Eq{Field: store.F("f", col), Value: sc.ID}}
	}
	return nil
}

var workerColumns = []store.Column{
	{Field: "w.worker_id"}, {Field: "w.full_name"}, {Field: "w.sex"}, {Field: "w.dob"},
	{Field: "w.nationality"}, {Field: "w.cadre"}, {Field: "w.specialty"}, {Field: "w.license_number"},
	{Field: "w.employment_type"}, {Field: "w.cooperation_program"}, {Field: "w.status"},
	{Field: "w.phone"}, {Field: "w.email"},
	{Field: "a.assignment_id"}, {Field: "a.facility_id"}, {Field: "a.position_title"},
	{Field: "a.department"}, {Field: "a.start_date"}, {Field: "a.end_date"}, {Field: "a.fte"},
	{Field: "a.shift_pattern"},
	{Field: "f.name", As: "facility_name"}, {Field: "f.province"}, {Field: "f.district"}, {Field: "f.region"},
}

func (s *Service) queryWorkers(ctx context.Context, where []store.Predicate, limit int) ([]Worker, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.Workers, Alias: "w"},
		Joins:   []store.Join{openAssignment("w.worker_id"), facilityJoin},
		Where:   where,
		Select:  workerColumns,
		OrderBy: []store.Order{store.Asc("w.full_name"), store.Asc("w.worker_id")},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Worker, 0, len(rows))
	for _, r := range rows {
		out = append(out, workerFrom(r))
	}
	return out, nil
}

// Workers lists workers matching every given filter.
func (s *Service) Workers(ctx context.Context, f WorkerFilters) ([]Worker, error) {
	var where []store.Predicate
	if term := strings.TrimSpace(f.Search); term != "" {
		where = append(where, store.Contains{
			Fields: []store.Field{"w.full_name", "w.worker_id", "w.license_number"},
			Term:   term,
		})
	}
	eq := func(field store.Field, v string) {
		if v = strings.TrimSpace(v); v != "" {
			where = append(where, store.Eq{Field: field, Value: v})
		}
	}
	eq("w.cadre", f.Cadre)
	eq("w.status", f.Status)
	eq("w.employment_type", f.EmploymentType)
	eq("a.facility_id", f.FacilityID)
	eq("f.province", f.Province)
	eq("f.district", f.District)

	out, err := s.queryWorkers(ctx, where, 0)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return out, nil
}

// Worker returns one worker, or nil when the id is unknown.
func (s *Service) Worker(ctx context.Context, p WorkerParams) (*Worker, error) {
	out, err := s.queryWorkers(ctx, []store.Predicate{store.Eq{Field: "w.worker_id", Value: p.WorkerID}}, 1)
	if err != nil {
		return nil, fmt.Errorf("get worker %s: %w", p.WorkerID, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// Timeline returns a worker's past postings, most recent first.
func (s *Service) Timeline(ctx context.Context, p WorkerParams) ([]HistoryEntry, error) {
	return s.History(ctx, OptionalWorker{WorkerID: p.WorkerID})
}

func byWorker(alias, workerID string) []store.Predicate {
	if workerID = strings.TrimSpace(workerID); workerID == "" {
		return nil
	}
	return []store.Predicate{store.Eq{Field: store.F(alias, "worker_id"), Value: workerID}}
}

func (s *Service) History(ctx context.Context, p OptionalWorker) ([]HistoryEntry, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.WorkHistory, Alias: "h"},
		Where: byWorker("h", p.WorkerID),
		Select: []store.Column{
			{Field: "h.history_id"}, {Field: "h.worker_id"}, {Field: "h.facility_id"}, {Field: "h.role"},
			{Field: "h.start_date"}, {Field: "h.end_date"}, {Field: "h.notes"},
		},
		OrderBy: []store.Order{store.Desc("h.start_date"), store.Asc("h.history_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	out := make([]HistoryEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, HistoryEntry{
			HistoryID:  r.Str("history_id"),
			WorkerID:   r.NullStr("worker_id"),
			FacilityID: r.NullStr("facility_id"),
			Role:       r.NullStr("role"),
			StartDate:  r.NullStr("start_date"),
			EndDate:    r.NullStr("end_date"),
			Notes:      r.NullStr("notes"),
		})
	}
	return out, nil
}

func (s *Service) Assignments(ctx context.Context, p OptionalWorker) ([]Assignment, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.Assignments, Alias: "a"},
		Where: byWorker("a", p.WorkerID),
		Select: []store.Column{
			{Field: "a.assignment_id"}, {Field: "a.worker_id"}, {Field: "a.facility_id"},
			{Field: "a.position_title"}, {Field: "a.department"}, {Field: "a.start_date"},
			{Field: "a.end_date"}, {Field: "a.fte"}, {Field: "a.shift_pattern"},
		},
		OrderBy: []store.Order{store.Desc("a.start_date"), store.Asc("a.assignment_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	out := make([]Assignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, Assignment{
			AssignmentID:  r.Str("assignment_id"),
			WorkerID:      r.NullStr("worker_id"),
			FacilityID:    r.NullStr("facility_id"),
			PositionTitle: r.NullStr("position_title"),
			Department:    r.NullStr("department"),
			StartDate:     r.NullStr("start_date"),
			EndDate:       r.NullStr("end_date"),
			FTE:           nullFloat(r, "fte"),
			ShiftPattern:  r.NullStr("shift_pattern"),
		})
	}
	return out, nil
}

func (s *Service) Credentials(ctx context.Context, p OptionalWorker) ([]Credential, error) {
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.Credentials, Alias: "c"},
		Where: byWorker("c", p.WorkerID),
		Select: []store.Column{
			{Field: "c.credential_id"}, {Field: "c.worker_id"}, {Field: "c.type"}, {Field: "c.name"},
			{Field: "c.institution"}, {Field: "c.country"}, {Field: "c.date_awarded"}, {Field: "c.expires_on"},
		},
		OrderBy: []store.Order{store.Desc("c.date_awarded"), store.Asc("c.credential_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	out := make([]Credential, 0, len(rows))
	for _, r := range rows {
		out = append(out, Credential{
			CredentialID: r.Str("credential_id"),
			WorkerID:     r.NullStr("worker_id"),
			Type:         r.NullStr("type"),
			Name:         r.NullStr("name"),
			Institution:  r.NullStr("institution"),
			Country:      r.NullStr("country"),
			DateAwarded:  r.NullStr("date_awarded"),
			ExpiresOn:    r.NullStr("expires_on"),
		})
	}
	return out, nil
}

// FacilityStaff lists the staff currently posted to a facility.
func (s *Service) FacilityStaff(ctx context.Context, p FacilityStaffParams) ([]StaffMember, error) {
	where := []store.Predicate{
		store.Eq{Field: "a.facility_id", Value: p.FacilityID},
		store.Blank{Field: "a.end_date"},
	}
	if d := strings.TrimSpace(p.Department); d != "" {
		where = append(where, store.Eq{Field: "a.department", Value: d})
	}
	rows, err := s.st.Query(ctx, store.Query{
		From: store.Source{Entity: store.Assignments, Alias: "a"},
		Joins: []store.Join{{
			Kind:   store.InnerJoin,
			Entity: store.Workers,
			Alias:  "w",
			On:     []store.On{{Left: "w.worker_id", Right: "a.worker_id"}},
		}},
		Where: where,
		Select: []store.Column{
			{Field: "w.worker_id"}, {Field: "w.full_name"}, {Field: "w.cadre"}, {Field: "w.specialty"},
			{Field: "w.status"}, {Field: "a.assignment_id"}, {Field: "a.position_title"},
			{Field: "a.department"}, {Field: "a.start_date"}, {Field: "a.fte"},
		},
		OrderBy: []store.Order{store.Asc("a.department"), store.Asc("w.full_name"), store.Asc("w.worker_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("facility staff %s: %w", p.FacilityID, err)
	}
	out := make([]StaffMember, 0, len(rows))
	for _, r := range rows {
		out = append(out, StaffMember{
			WorkerID:      r.Str("worker_id"),
			FullName:      r.NullStr("full_name"),
			Cadre:         r.NullStr("cadre"),
			Specialty:     r.NullStr("specialty"),
			Status:        r.NullStr("status"),
			AssignmentID:  r.Str("assignment_id"),
			PositionTitle: r.NullStr("position_title"),
			Department:    r.NullStr("department"),
			StartDate:     r.NullStr("start_date"),
			FTE:           nullFloat(r, "fte"),
		})
	}
	return out, nil
}

// KPIs counts workers by the facility of their current assignment.
func (s *Service) KPIs(ctx context.Context, sc Scope) (KPIs, error) {
	base := store.Query{
		From:  store.Source{Entity: store.Workers, Alias: "w"},
		Joins: []store.Join{openAssignment("w.worker_id"), facilityJoin},
		Where: sc.predicates(),
	}

	totals := base
	totals.Aggregates = []store.Aggregate{
		{Func: store.Count, As: "total"},
		{Func: store.Count, As: "active", When: []store.Predicate{store.Eq{Field: "w.status", Value: StatusActive}}},
	}
	rows, err := s.st.Query(ctx, totals)
	if err != nil {
		return KPIs{}, fmt.Errorf("count workers: %w", err)
	}
	out := emptyKPIs(sc)
	out.Total = store.First(rows).Int("total")
	out.Active = store.First(rows).Int("active")

	cadres := base
	cadres.Select = []store.Column{{Field: "w.cadre"}}
	cadres.GroupBy = []store.Field{"w.cadre"}
	cadres.Aggregates = []store.Aggregate{{Func: store.Count, As: "total"}}
	cadres.OrderBy = []store.Order{store.Asc("w.cadre")}
	rows, err = s.st.Query(ctx, cadres)
	if err != nil {
		return KPIs{}, fmt.Errorf("count workers by cadre: %w", err)
	}
	for _, r := range rows {
		if c := r.Str("cadre"); c != "" {
			out.ByCadre[c] = r.Int("total")
		}
	}
	return out, nil
}

func emptyKPIs(sc Scope) KPIs {
	out := KPIs{ByCadre: map[string]int64{}, Scope: sc.Level}
	if out.Scope == "" {
		out.Scope = "national"
	}
	if sc.ID != "" {
		id := sc.ID
		out.ScopeID = &id
	}
	return out
}

// Staffing compares quotas with current staff, best staffed first.
func (s *Service) Staffing(ctx context.Context, p StaffingParams) ([]Staffing, error) {
	counted := func(cadre string) []store.Predicate {
		return []store.Predicate{store.Eq{Field: "w.cadre", Value: cadre}}
	}
	rows, err := s.st.Query(ctx, store.Query{
		From: store.Source{Entity: store.StaffingQuotas, Alias: "sa"},
		Joins: []store.Join{
			{Entity: store.Facilities, Alias: "f", On: []store.On{{Left: "f.facility_id", Right: "sa.facility_id"}}},
			{
				Entity: store.Assignments, Alias: "a",
				On:    []store.On{{Left: "a.facility_id", Right: "sa.facility_id"}},
				Where: []store.Predicate{store.Blank{Field: "a.end_date"}},
			},
			{Entity: store.Workers, Alias: "w", On: []store.On{{Left: "w.worker_id", Right: "a.worker_id"}}},
		},
		Where: p.Scope.predicates(),
		Select: []store.Column{
			{Field: "sa.facility_id"},
			{Field: "f.name", As: "facility_name"},
			{Field: "f.province"},
			{Field: "f.district"},
			{Field: "sa.doctors", As: "required_doctors"},
			{Field: "sa.nurses", As: "required_nurses"},
			{Field: "sa.technicians", As: "required_technicians"},
		},
		GroupBy: []store.Field{"sa.facility_id", "f.name", "f.province", "f.district", "sa.doctors", "sa.nurses", "sa.technicians"},
		Aggregates: []store.Aggregate{
			{Func: store.Count, As: "actual_doctors", When: counted(CadreDoctor)},
			{Func: store.Count, As: "actual_nurses", When: counted(CadreNurse)},
			{Func: store.Count, As: "actual_technicians", When: counted(CadreTechnician)},
		},
		OrderBy: []store.Order{store.Asc("sa.facility_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("facility staffing: %w", err)
	}
	out := make([]Staffing, 0, len(rows))
	for _, r := range rows {
		out = append(out, Staffing{
			FacilityID:          r.Str("facility_id"),
			FacilityName:        r.NullStr("facility_name"),
			Province:            r.NullStr("province"),
			District:            r.NullStr("district"),
			RequiredDoctors:     r.Int("required_doctors"),
			RequiredNurses:      r.Int("required_nurses"),
			RequiredTechnicians: r.Int("required_technicians"),
			ActualDoctors:       r.Int("actual_doctors"),
			ActualNurses:        r.Int("actual_nurses"),
			ActualTechnicians:   r.Int("actual_technicians"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].actual() > out[j].actual()
	})
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

// Alerts derives staffing gaps and credential expiries for a scope.
func (s *Service) Alerts(ctx context.Context, sc Scope) ([]Alert, error) {
	staffing, err := s.Staffing(ctx, StaffingParams{Scope: sc, Limit: alertStaffingLimit})
	if err != nil {
		return nil, err
	}
	alerts := make([]Alert, 0, maxAlerts)
	for _, row := range staffing {
		alerts = append(alerts, staffingAlerts(row)...)
	}

	today := report.Today(s.now)
	soon := report.AddDays(today, expiringWithinDays)
	expired, err := s.expiries(ctx, sc, store.Compare{Field: "c.expires_on", Op: store.OpLte, Value: today})
	if err != nil {
		return nil, err
	}
	for _, r := range expired {
		alerts = append(alerts, credentialAlert(r, SeverityHigh, AlertExpired, "vencio"))
	}
	expiring, err := s.expiries(ctx, sc,
		store.Compare{Field: "c.expires_on", Op: store.OpGt, Value: today},
		store.Compare{Field: "c.expires_on", Op: store.OpLte, Value: soon},
	)
	if err != nil {
		return nil, err
	}
	for _, r := range expiring {
		alerts = append(alerts, credentialAlert(r, SeverityMedium, AlertExpiring, "vence"))
	}

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts, nil
}

func staffingAlerts(row Staffing) []Alert {
	var out []Alert
	if row.RequiredDoctors > 0 && row.ActualDoctors == 0 {
		out = append(out, Alert{
			Severity:     SeverityHigh,
			Type:         AlertNoDoctor,
			Message:      fmt.Sprintf("Sin medicos asignados. Requeridos: %d.", row.RequiredDoctors),
			FacilityID:   &row.FacilityID,
			FacilityName: row.FacilityName,
		})
	}
	if deficit := row.RequiredNurses - row.ActualNurses; deficit > 0 {
		severity := SeverityMedium
		if deficit >= severeNurseDeficit {
			severity = SeverityHigh
		}
		out = append(out, Alert{
			Severity:     severity,
			Type:         AlertNurseDeficit,
			Message:      fmt.Sprintf("Faltan %d enfermeras. Requeridas: %d.", deficit, row.RequiredNurses),
			FacilityID:   &row.FacilityID,
			FacilityName: row.FacilityName,
		})
	}
	return out
}

func (s *Service) expiries(ctx context.Context, sc Scope, window ...store.Predicate) ([]store.Row, error) {
	where := append([]store.Predicate{store.Present{Field: "c.expires_on"}}, window...)
	rows, err := s.st.Query(ctx, store.Query{
		From: store.Source{Entity: store.Credentials, Alias: "c"},
		Joins: []store.Join{
			{
				Kind:   store.InnerJoin,
				Entity: store.Workers,
				Alias:  "w",
				On:     []store.On{{Left: "w.worker_id", Right: "c.worker_id"}},
			},
			openAssignment("w.worker_id"),
			facilityJoin,
		},
		Where: append(where, sc.predicates()...),
		Select: []store.Column{
			{Field: "c.worker_id"}, {Field: "c.expires_on"}, {Field: "w.full_name"},
			{Field: "f.facility_id"}, {Field: "f.name", As: "facility_name"},
		},
		OrderBy: []store.Order{store.Asc("c.expires_on"), store.Asc("c.credential_id")},
		Limit:   maxCredentialAlerts,
	})
	if err != nil {
		return nil, fmt.Errorf("credential expiries: %w", err)
	}
	return rows, nil
}

func credentialAlert(r store.Row, severity, kind, verb string) Alert {
	return Alert{
		Severity:     severity,
		Type:         kind,
		Message:      fmt.Sprintf("%s (%s) %s %s.", r.Str("full_name"), r.Str("worker_id"), verb, r.Str("expires_on")),
		FacilityID:   r.NullStr("facility_id"),
		FacilityName: r.NullStr("facility_name"),
	}
}

func workerFrom(r store.Row) Worker {
	return Worker{
		WorkerID:           r.Str("worker_id"),
		FullName:           r.NullStr("full_name"),
		Sex:                r.NullStr("sex"),
		DOB:                r.NullStr("dob"),
		Nationality:        r.NullStr("nationality"),
		Cadre:              r.NullStr("cadre"),
		Specialty:          r.NullStr("specialty"),
		LicenseNumber:      r.NullStr("license_number"),
		EmploymentType:     r.NullStr("employment_type"),
		CooperationProgram: r.NullStr("cooperation_program"),
		Status:             r.NullStr("status"),
		Phone:              r.NullStr("phone"),
		Email:              r.NullStr("email"),
		AssignmentID:       r.NullStr("assignment_id"),
		FacilityID:         r.NullStr("facility_id"),
		PositionTitle:      r.NullStr("position_title"),
		Department:         r.NullStr("department"),
		StartDate:          r.NullStr("start_date"),
		EndDate:            r.NullStr("end_date"),
		FTE:                nullFloat(r, "fte"),
		ShiftPattern:       r.NullStr("shift_pattern"),
		FacilityName:       r.NullStr("facility_name"),
		Province:           r.NullStr("province"),
		District:           r.NullStr("district"),
		Region:             r.NullStr("region"),
		Contact:            Contact{Phone: r.NullStr("phone"), Email: r.NullStr("email")},
	}
}

func nullFloat(r store.Row, key string) *float64 {
	if r.Null(key) {
		return nil
	}
	v := r.Float(key)
	return &v
}
