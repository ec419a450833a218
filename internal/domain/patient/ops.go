package patient

import "github.com/sigesalud/dashboard/internal/platform/ops"

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "patients.list", func() Page { return Page{Rows: []Patient{}} }, s.List)
	ops.Register(r, "patients.timeline", func() []Visit { return []Visit{} }, s.Timeline)
}
