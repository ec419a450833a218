package hr

import (
	"github.com/sigesalud/dashboard/internal/platform/ops"
)

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "hr.workers", func() []Worker { return []Worker{} }, s.Workers)
	ops.Register(r, "hr.get", func() *Worker { return nil }, s.Worker)
	ops.Register(r, "hr.timeline", func() []HistoryEntry { return []HistoryEntry{} }, s.Timeline)
	ops.Register(r, "hr.history", func() []HistoryEntry { return []HistoryEntry{} }, s.History)
	ops.Register(r, "hr.assignments", func() []Assignment { return []Assignment{} }, s.Assignments)
	ops.Register(r, "hr.credentials", func() []Credential { return []Credential{} }, s.Credentials)
	ops.Register(r, "hr.facilityStaff", func() []StaffMember { return []StaffMember{} }, s.FacilityStaff)
	ops.Register(r, "hr.kpis", func() KPIs { return emptyKPIs(Scope{}) }, s.KPIs)
	ops.Register(r, "hr.staffing", func() []Staffing { return []Staffing{} }, s.Staffing)
	ops.Register(r, "hr.alerts", func() []Alert { return []Alert{} }, s.Alerts)
}
