// Package memstore answers store queries from record sets held in memory.
// Rows come from the static dataset files; join lookups go through hash
// indexes built per column on first use.
package memstore

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sigesalud/dashboard/internal/domain/roster"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/dataset"
)

var _ store.Store = (*Store)(nil)

type indexKey struct {
	entity store.Entity
	column string
}

// Store is the in-memory backend. It is safe for concurrent use.
type Store struct {
	tables map[store.Entity][]store.Row

	mu      sync.Mutex
	indexes map[indexKey]map[any][]int
}

// New builds a store over a dataset. Values are converted to the storage
// class of their column so comparisons behave as in the relational backend.
func New(ds *dataset.Dataset) *Store {
	s := &Store{
		tables:  make(map[store.Entity][]store.Row, len(store.Schema)),
		indexes: make(map[indexKey]map[any][]int),
	}
	for _, e := range store.Entities() {
		table := store.Schema[e]
		rows := ds.Rows(e)
		for _, r := range rows {
			for _, c := range table.Columns {
				r[c.Name] = store.Coerce(c.Kind, r[c.Name])
			}
		}
		s.tables[e] = rows
	}
	return s
}

// Open returns an opener that loads the dataset and builds the store. When the
// HR files are absent and staffing quotas exist, the roster is generated from
// seed so HR operations have data.
func Open(loader *dataset.Loader, seed int64, logger zerolog.Logger) store.Opener {
	return func(ctx context.Context) (store.Store, error) {
		ds, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		if !ds.HasRoster() && len(ds.Quotas) > 0 {
			ds.SetRoster(roster.Generate(ds.Quotas, ds.FacilityIDs(), seed))
			logger.Info().Int64("seed", seed).Int("workers", len(ds.Workers)).Msg("roster generated in memory")
		}
		return New(ds), nil
	}
}

// Backend implements store.Describer.
func (s *Store) Backend() string { return "memory" }

// Len returns the number of rows held for an entity.
func (s *Store) Len(e store.Entity) int { return len(s.tables[e]) }

// index returns the hash index of one column, building it on first use. Null
// values are not indexed since they never match.
func (s *Store) index(e store.Entity, column string) map[any][]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := indexKey{entity: e, column: column}
	if idx, ok := s.indexes[k]; ok {
		return idx
	}
	idx := make(map[any][]int)
	for i, r := range s.tables[e] {
		v := r[column]
		if v == nil {
			continue
		}
		key := hashKey(v)
		idx[key] = append(idx[key], i)
	}
	s.indexes[k] = idx
	return idx
}

// lookup returns the rows of e whose column equals v.
func (s *Store) lookup(e store.Entity, column string, v any) []store.Row {
	if v == nil {
		return nil
	}
	ids := s.index(e, column)[hashKey(v)]
	rows := s.tables[e]
	out := make([]store.Row, len(ids))
	for i, id := range ids {
		out[i] = rows[id]
	}
	return out
}

// hashKey folds integral floats onto int64 so 3 and 3.0 share a bucket.
func hashKey(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}
