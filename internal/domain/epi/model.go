package epi

import "strings"

const (
	DefaultDisease = "MALARIA"
	DefaultWeeks   = 8
	DefaultLimit   = 8
)

type Disease struct {
	DiseaseID string `json:"disease_id"`
	Name      string `json:"name"`
}

type WeekPoint struct {
	WeekStart string `json:"week_start"`
	Cases     int64  `json:"cases"`
}

type DistrictCases struct {
	DistrictID string  `json:"district_id"`
	ProvinceID *string `json:"province_id"`
	Region     *string `json:"region"`
	Cases      int64   `json:"cases"`
}

type TrendParams struct {
	DiseaseID string `json:"diseaseId"`
	Weeks     int    `json:"weeks" validate:"min=1,max=104"`
}

func (p *TrendParams) Defaults() {
	p.DiseaseID = diseaseOr(p.DiseaseID)
	if p.Weeks == 0 {
		p.Weeks = DefaultWeeks
	}
}

type RankingParams struct {
	DiseaseID string `json:"diseaseId"`
	Limit     int    `json:"limit" validate:"min=1,max=500"`
}

func (p *RankingParams) Defaults() {
	p.DiseaseID = diseaseOr(p.DiseaseID)
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
}

func diseaseOr(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return DefaultDisease
}
