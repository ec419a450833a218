package lab

import "strings"

const DefaultAlertLimit = 6

type Summary struct {
	Date               string  `json:"date"`
	TestsOrdered       int64   `json:"tests_ordered"`
	TestsCompleted     int64   `json:"tests_completed"`
	AvgTurnaroundHours float64 `json:"avg_turnaround_hours"`
	RejectedSamples    int64   `json:"rejected_samples"`
}

type Volume struct {
	ScopeID        string `json:"scope_id"`
	ScopeName      string `json:"scope_name"`
	TestsOrdered   int64  `json:"tests_ordered"`
	TestsCompleted int64  `json:"tests_completed"`
}

type Positivity struct {
	DiseaseID     string `json:"disease_id"`
	TestType      string `json:"test_type"`
	TotalTested   int64  `json:"total_tested"`
	TotalPositive int64  `json:"total_positive"`
}

type Alert struct {
	AlertID      string  `json:"alert_id"`
	Date         string  `json:"date"`
	Type         *string `json:"type"`
	Severity     *string `json:"severity"`
	FacilityID   *string `json:"facility_id"`
	FacilityName *string `json:"facility_name"`
	Message      *string `json:"message"`
}

type PeriodParams struct {
	Period string `json:"period" validate:"oneof=yesterday 7d 30d"`
}

func (p *PeriodParams) Defaults() {
	p.Period = normalisePeriod(p.Period)
}

type VolumeParams struct {
	Period string `json:"period" validate:"oneof=yesterday 7d 30d"`
	Level  string `json:"level" validate:"oneof=province district"`
}

func (p *VolumeParams) Defaults() {
	p.Period = normalisePeriod(p.Period)
	p.Level = strings.ToLower(strings.TrimSpace(p.Level))
	if p.Level == "" {
		p.Level = "province"
	}
}

type AlertParams struct {
	Period string `json:"period" validate:"oneof=yesterday 7d 30d"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

func (p *AlertParams) Defaults() {
	p.Period = normalisePeriod(p.Period)
	if p.Limit == 0 {
		p.Limit = DefaultAlertLimit
	}
}

func normalisePeriod(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" || p == "ayer" {
		return "yesterday"
	}
	return p
}
