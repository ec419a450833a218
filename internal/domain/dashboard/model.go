package dashboard

import "github.com/sigesalud/dashboard/internal/domain/report"

// Summary is the headline panel of the dashboard.
type Summary struct {
	Visits        int64  `json:"visits"`
	Suspected     int64  `json:"suspected"`
	Alerts        int64  `json:"alerts"`
	OccupancyRate int64  `json:"occupancyRate"`
	Stockouts     int64  `json:"stockouts"`
	MortalityRate int64  `json:"mortalityRate"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
}

type SummaryParams struct {
	Period  string                `json:"period" validate:"oneof=today 7d 30d"`
	Filters report.FacilityFilter `json:"filters"`
}

func (p *SummaryParams) Defaults() {
	p.Period = normalisePeriod(p.Period)
}
