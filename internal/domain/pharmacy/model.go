package pharmacy

const DefaultCriticalLimit = 30

type Summary struct {
	LatestMonth        *string `json:"latest_month"`
	FacilitiesCritical int64   `json:"facilities_critical"`
	ItemsCritical      int64   `json:"items_critical"`
}

// CriticalItem is one facility/item pair at or below its minimum level.
type CriticalItem struct {
	FacilityID    string  `json:"facility_id"`
	FacilityName  *string `json:"facility_name"`
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	StockOnHand   *int64  `json:"stock_on_hand"`
	MinLevel      *int64  `json:"min_level"`
	ExpiryNearest *string `json:"expiry_nearest"`
}

type CriticalParams struct {
	Limit int `json:"limit" validate:"min=1,max=500"`
}

func (p *CriticalParams) Defaults() {
	if p.Limit == 0 {
		p.Limit = DefaultCriticalLimit
	}
}
