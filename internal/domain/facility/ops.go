package facility

import "github.com/sigesalud/dashboard/internal/platform/ops"

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "facilities.list", func() []Facility { return []Facility{} }, s.List)
}
