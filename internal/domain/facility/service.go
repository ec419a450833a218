package facility

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/dataset"
)

// PositionLookup returns map positions by facility id.
type PositionLookup func() (map[string]MapPos, error)

type Service struct {
	st        store.Store
	positions PositionLookup
}

// NewService returns the directory service. positions may be nil.
func NewService(st store.Store, positions PositionLookup) *Service {
	return &Service{st: st, positions: positions}
}

// LoaderPositions reads the static facility file once, on first use, and
// keeps the positions it declares.
func LoaderPositions(l *dataset.Loader) PositionLookup {
	return sync.OnceValues(func() (map[string]MapPos, error) {
		facilities, err := l.Facilities()
		if err != nil {
			return nil, err
		}
		out := make(map[string]MapPos, len(facilities))
		for _, f := range facilities {
			if pos, ok := parsePos(f.MapPos); ok && f.FacilityID.Valid {
				out[f.FacilityID.V] = pos
			}
		}
		return out, nil
	})
}

var columns = []string{
	"facility_id", "name", "region", "province", "district", "city", "facility_type",
	"reference_level", "ownership", "services_json", "contacts_json", "address_note",
	"data_quality_json", "map_pos_json",
}

// List returns the facilities passing the filter ordered by name.
func (s *Service) List(ctx context.Context, p ListParams) ([]Facility, error) {
	sel := make([]store.Column, len(columns))
	for i, c := range columns {
		sel[i] = store.Column{Field: store.F("f", c)}
	}
	rows, err := s.st.Query(ctx, store.Query{
		From:    store.Source{Entity: store.Facilities, Alias: "f"},
		Where:   p.Predicates("f"),
		Select:  sel,
		OrderBy: []store.Order{store.Asc("f.name"), store.Asc("f.facility_id")},
	})
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}

	var side map[string]MapPos
	out := make([]Facility, 0, len(rows))
	for _, r := range rows {
		f := Facility{
			FacilityID:     r.Str("facility_id"),
			Name:           r.NullStr("name"),
			Region:         r.NullStr("region"),
			Province:       r.NullStr("province"),
			District:       r.NullStr("district"),
			City:           r.NullStr("city"),
			FacilityType:   r.NullStr("facility_type"),
			ReferenceLevel: r.NullStr("reference_level"),
			Ownership:      r.NullStr("ownership"),
			Services:       jsonOr(r.Str("services_json"), "[]"),
			Contacts:       jsonOr(r.Str("contacts_json"), "{}"),
			AddressNote:    r.NullStr("address_note"),
			DataQuality:    jsonOr(r.Str("data_quality_json"), "{}"),
		}
		if pos, ok := parsePos(json.RawMessage(r.Str("map_pos_json"))); ok {
			f.MapPos = &pos
		} else if s.positions != nil {
			if side == nil {
				// A failed side lookup leaves positions empty.
				side, _ = s.positions()
				if side == nil {
					side = map[string]MapPos{}
				}
			}
			if pos, ok := side[f.FacilityID]; ok {
				f.MapPos = &pos
			}
		}
		out = append(out, f)
	}
	return out, nil
}

func jsonOr(text, def string) json.RawMessage {
	if text == "" || !json.Valid([]byte(text)) {
		return json.RawMessage(def)
	}
	return json.RawMessage(text)
}

func parsePos(raw json.RawMessage) (MapPos, bool) {
	if len(raw) == 0 {
		return MapPos{}, false
	}
	var probe struct {
		Zone *string  `json:"zone"`
		X    *float64 `json:"x"`
		Y    *float64 `json:"y"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.X == nil || probe.Y == nil {
		return MapPos{}, false
	}
	pos := MapPos{X: *probe.X, Y: *probe.Y}
	if probe.Zone != nil {
		pos.Zone = *probe.Zone
	}
	return pos, true
}
