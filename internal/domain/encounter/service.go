// Package encounter renders the detail view of a single visit.
package encounter

import (
	"context"
	"fmt"
	"strings"

	"github.com/sigesalud/dashboard/internal/domain/clinical"
	"github.com/sigesalud/dashboard/internal/domain/patient"
	"github.com/sigesalud/dashboard/internal/platform/ops"
	"github.com/sigesalud/dashboard/internal/store"
)

type Detail struct {
	Encounter *patient.Visit   `json:"encounter"`
	Notes     []clinical.Note  `json:"notes"`
	Vitals    *clinical.Vitals `json:"vitals"`
}

func empty() Detail {
	return Detail{Notes: []clinical.Note{}}
}

type DetailParams struct {
	EncounterID string `json:"encounterId"`
}

func (p *DetailParams) Defaults() {
	p.EncounterID = strings.TrimSpace(p.EncounterID)
}

type Service struct {
	st store.Store
}

func NewService(st store.Store) *Service {
	return &Service{st: st}
}

// Detail returns the visit with its generated notes and vitals.
func (s *Service) Detail(ctx context.Context, p DetailParams) (Detail, error) {
	if p.EncounterID == "" {
		return empty(), nil
	}
	visits, err := patient.Visits(ctx, s.st, []store.Predicate{store.Eq{Field: "v.visit_id", Value: p.EncounterID}}, 1)
	if err != nil {
		return Detail{}, fmt.Errorf("encounter %s: %w", p.EncounterID, err)
	}
	if len(visits) == 0 {
		return empty(), nil
	}
	v := visits[0]
	cv := clinical.Visit{
		VisitID:     v.VisitID,
		PatientID:   deref(v.PatientID),
		Date:        deref(v.Date),
		Service:     deref(v.Service),
		DiagnosisID: deref(v.DiagnosisID),
		Outcome:     deref(v.Outcome),
	}
	return Detail{Encounter: &v, Notes: clinical.Notes(cv), Vitals: clinical.VitalsFor(cv)}, nil
}

func (s *Service) RegisterOps(r *ops.Registry) {
	ops.Register(r, "encounters.detail", empty, s.Detail)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
