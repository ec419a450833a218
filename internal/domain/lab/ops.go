package lab

import "github.com/sigesalud/dashboard/internal/platform/ops"

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "lab.summary", func() Summary { return Summary{Date: s.today()} }, s.Summary)
	ops.Register(r, "lab.volume", func() []Volume { return []Volume{} }, s.Volume)
	ops.Register(r, "lab.positivity", func() []Positivity { return []Positivity{} }, s.Positivity)
	ops.Register(r, "lab.alerts", func() []Alert { return []Alert{} }, s.Alerts)
}
