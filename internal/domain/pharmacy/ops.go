package pharmacy

import (
	"context"

	"github.com/sigesalud/dashboard/internal/platform/ops"
)

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "pharmacy.summary", func() Summary { return Summary{} },
		func(ctx context.Context, _ ops.None) (Summary, error) { return s.Summary(ctx) })
	ops.Register(r, "pharmacy.critical", func() []CriticalItem { return []CriticalItem{} }, s.Critical)
}
