package pharmacy

import (
	"context"
	"fmt"

	"github.com/sigesalud/dashboard/internal/domain/report"
	"github.com/sigesalud/dashboard/internal/store"
)

type Service struct {
	st store.Store
}

func NewService(st store.Store) *Service {
	return &Service{st: st}
}

func critical(month string) []store.Predicate {
	return []store.Predicate{
		store.Eq{Field: "s.month", Value: month},
		store.CompareFields{Left: "s.stock_on_hand", Op: store.OpLte, Right: "s.min_level"},
	}
}

// Summary counts critical stock in the most recent month on record.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	month, err := report.MaxDate(ctx, s.st, store.StockLevels, "month")
	if err != nil {
		return Summary{}, fmt.Errorf("latest stock month: %w", err)
	}
	if month == "" {
		return Summary{}, nil
	}
	rows, err := s.st.Query(ctx, store.Query{
		From:  store.Source{Entity: store.StockLevels, Alias: "s"},
		Where: critical(month),
		Aggregates: []store.Aggregate{
			{Func: store.CountDistinct, Field: "s.facility_id", As: "facilities"},
			{Func: store.Count, As: "items"},
		},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("count critical stock: %w", err)
	}
	r := store.First(rows)
	return Summary{
		LatestMonth:        &month,
		FacilitiesCritical: r.Int("facilities"),
		ItemsCritical:      r.Int("items"),
	}, nil
}

// Critical lists the critical items of the latest month, emptiest first.
func (s *Service) Critical(ctx context.Context, p CriticalParams) ([]CriticalItem, error) {
	month, err := report.MaxDate(ctx, s.st, store.StockLevels, "month")
	if err != nil {
		return nil, fmt.Errorf("latest stock month: %w", err)
	}
	if month == "" {
		return []CriticalItem{}, nil
	}
	rows, err := s.st.Query(ctx, store.Query{
		From: store.Source{Entity: store.StockLevels, Alias: "s"},
		Joins: []store.Join{
			{Entity: store.Facilities, Alias: "f", On: []store.On{{Left: "f.facility_id", Right: "s.facility_id"}}},
			{Entity: store.StockCatalog, Alias: "c", On: []store.On{{Left: "c.item_id", Right: "s.item_id"}}},
		},
		Where: critical(month),
		Select: []store.Column{
			{Field: "s.facility_id"},
			{Field: "f.name", As: "facility_name"},
			{Field: "s.item_id"},
			{Field: "c.name", As: "item_name"},
			{Field: "s.stock_on_hand"},
			{Field: "s.min_level"},
			{Field: "s.expiry_nearest"},
		},
		OrderBy: []store.Order{store.Asc("s.stock_on_hand"), store.Asc("s.facility_id"), store.Asc("s.item_id")},
		Limit:   p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list critical stock: %w", err)
	}
	out := make([]CriticalItem, 0, len(rows))
	for _, r := range rows {
		item := CriticalItem{
			FacilityID:    r.Str("facility_id"),
			FacilityName:  r.NullStr("facility_name"),
			ItemID:        r.Str("item_id"),
			ItemName:      r.Str("item_name"),
			StockOnHand:   nullInt(r, "stock_on_hand"),
			MinLevel:      nullInt(r, "min_level"),
			ExpiryNearest: r.NullStr("expiry_nearest"),
		}
		if r.Null("item_name") {
			item.ItemName = item.ItemID
		}
		out = append(out, item)
	}
	return out, nil
}

func nullInt(r store.Row, key string) *int64 {
	if r.Null(key) {
		return nil
	}
	v := r.Int(key)
	return &v
}
