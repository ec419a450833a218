package epi

import (
	"context"

	"github.com/sigesalud/dashboard/internal/platform/ops"
)

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "epi.diseases", func() []Disease { return []Disease{} },
		func(ctx context.Context, _ ops.None) ([]Disease, error) { return s.Diseases(ctx) })
	ops.Register(r, "epi.trend", func() []WeekPoint { return []WeekPoint{} }, s.Trend)
	ops.Register(r, "epi.ranking", func() []DistrictCases { return []DistrictCases{} }, s.Ranking)
}
