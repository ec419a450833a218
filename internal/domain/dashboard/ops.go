package dashboard

import "github.com/sigesalud/dashboard/internal/platform/ops"

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "dashboard.summary", s.Empty, s.Summary)
}
