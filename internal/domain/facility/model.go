package facility

import (
	"encoding/json"

	"github.com/sigesalud/dashboard/internal/domain/report"
)

// MapPos places a facility on the schematic country map.
type MapPos struct {
	Zone string  `json:"zone"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type Facility struct {
	FacilityID     string          `json:"facility_id"`
	Name           *string         `json:"name"`
	Region         *string         `json:"region"`
	Province       *string         `json:"province"`
	District       *string         `json:"district"`
	City           *string         `json:"city"`
	FacilityType   *string         `json:"facility_type"`
	ReferenceLevel *string         `json:"reference_level"`
	Ownership      *string         `json:"ownership"`
	Services       json.RawMessage `json:"services"`
	Contacts       json.RawMessage `json:"contacts"`
	AddressNote    *string         `json:"address_note"`
	DataQuality    json.RawMessage `json:"data_quality"`
	MapPos         *MapPos         `json:"map_pos"`
}

type ListParams struct {
	report.FacilityFilter
}
