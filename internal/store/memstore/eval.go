package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/sigesalud/dashboard/internal/store"
)

// tuple holds one row per alias slot; a nil slot is an unmatched left join.
type tuple []store.Row

// result is an output row plus the tuple that produced it, kept for ordering
// by qualified fields.
type result struct {
	row store.Row
	tup tuple
}

type plan struct {
	q       store.Query
	aliases map[string]store.Entity
	slots   map[string]int
}

func newPlan(q store.Query) *plan {
	p := &plan{q: q, aliases: q.Aliases(), slots: map[string]int{q.From.Alias: 0}}
	for i, j := range q.Joins {
		p.slots[j.Alias] = i + 1
	}
	return p
}

func (p *plan) kind(f store.Field) store.Kind {
	return store.KindOf(p.aliases, f)
}

func (p *plan) value(t tuple, f store.Field) any {
	alias, col := f.Split()
	slot, ok := p.slots[alias]
	if !ok || slot >= len(t) || t[slot] == nil {
		return nil
	}
	return t[slot][col]
}

// Query implements store.Store.
func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Row, error) {
	if err := store.Validate(q); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := newPlan(q)
	tuples := s.scan(p)
	for i, j := range q.Joins {
		tuples = s.join(p, tuples, i+1, j)
	}
	tuples = p.filter(tuples, q.Where)

	var results []result
	if q.Grouped() {
		results = p.aggregate(tuples)
	} else {
		results = p.project(tuples)
	}
	p.sort(results)
	results = window(results, q.Offset, q.Limit)

	out := make([]store.Row, len(results))
	for i, r := range results {
		out[i] = r.row
	}
	return out, nil
}

// scan produces the base tuples. A top-level equality on the base alias is
// answered from the column index instead of a full pass.
func (s *Store) scan(p *plan) []tuple {
	width := len(p.q.Joins) + 1
	rows := s.tables[p.q.From.Entity]
	for _, pred := range p.q.Where {
		eq, ok := pred.(store.Eq)
		if !ok {
			continue
		}
		alias, col := eq.Field.Split()
		if alias != p.q.From.Alias {
			continue
		}
		rows = s.lookup(p.q.From.Entity, col, store.Coerce(p.kind(eq.Field), eq.Value))
		break
	}
	out := make([]tuple, len(rows))
	for i, r := range rows {
		t := make(tuple, width)
		t[0] = r
		out[i] = t
	}
	return out
}

func (s *Store) join(p *plan, in []tuple, slot int, j store.Join) []tuple {
	// Drive the match from the first pair that ties the joined alias to a bound one.
	probe, bound := "", store.Field("")
	for _, on := range j.On {
		la, lc := on.Left.Split()
		ra, rc := on.Right.Split()
		switch {
		case ra == j.Alias && la != j.Alias:
			probe, bound = rc, on.Left
		case la == j.Alias && ra != j.Alias:
			probe, bound = lc, on.Right
		default:
			continue
		}
		break
	}

	var out []tuple
	for _, t := range in {
		var candidates []store.Row
		if probe != "" {
			candidates = s.lookup(j.Entity, probe, p.value(t, bound))
		} else {
			candidates = s.tables[j.Entity]
		}
		matched := false
		for _, r := range candidates {
			next := make(tuple, len(t))
			copy(next, t)
			next[slot] = r
			if !p.joinMatch(next, j) {
				continue
			}
			out = append(out, next)
			matched = true
		}
		if !matched && j.Kind == store.LeftJoin {
			next := make(tuple, len(t))
			copy(next, t)
			out = append(out, next)
		}
	}
	return out
}

func (p *plan) joinMatch(t tuple, j store.Join) bool {
	for _, on := range j.On {
		if !equal(p.value(t, on.Left), p.value(t, on.Right)) {
			return false
		}
	}
	return p.match(t, j.Where)
}

func (p *plan) filter(in []tuple, preds []store.Predicate) []tuple {
	if len(preds) == 0 {
		return in
	}
	out := in[:0]
	for _, t := range in {
		if p.match(t, preds) {
			out = append(out, t)
		}
	}
	return out
}

// match reports whether every predicate holds.
func (p *plan) match(t tuple, preds []store.Predicate) bool {
	for _, pred := range preds {
		if !p.test(t, pred) {
			return false
		}
	}
	return true
}

func (p *plan) test(t tuple, pred store.Predicate) bool {
	switch x := pred.(type) {
	case store.Eq:
		return equal(p.value(t, x.Field), store.Coerce(p.kind(x.Field), x.Value))
	case store.In:
		v := p.value(t, x.Field)
		k := p.kind(x.Field)
		for _, want := range x.Values {
			if equal(v, store.Coerce(k, want)) {
				return true
			}
		}
		return false
	case store.Contains:
		term := lowerASCII(x.Term)
		for _, f := range x.Fields {
			v := p.value(t, f)
			if v == nil {
				continue
			}
			if strings.Contains(lowerASCII(textOf(v)), term) {
				return true
			}
		}
		return false
	case store.Between:
		v := p.value(t, x.Field)
		if v == nil {
			return false
		}
		return compare(v, store.Coerce(p.kind(x.Field), x.Lo)) >= 0 &&
			compare(v, store.Coerce(p.kind(x.Field), x.Hi)) <= 0
	case store.Compare:
		return holds(p.value(t, x.Field), x.Op, store.Coerce(p.kind(x.Field), x.Value))
	case store.CompareFields:
		return holds(p.value(t, x.Left), x.Op, p.value(t, x.Right))
	case store.Blank:
		return blank(p.value(t, x.Field))
	case store.Present:
		return !blank(p.value(t, x.Field))
	case store.Or:
		for _, sub := range x.Any {
			if p.test(t, sub) {
				return true
			}
		}
		return false
	}
	return false
}

func (p *plan) project(in []tuple) []result {
	out := make([]result, len(in))
	for i, t := range in {
		row := make(store.Row, len(p.q.Select))
		for _, c := range p.q.Select {
			row[c.Name()] = store.Coerce(p.kind(c.Field), p.value(t, c.Field))
		}
		out[i] = result{row: row, tup: t}
	}
	return out
}

// sort orders results by the query keys. Nulls come first ascending and last
// descending; the sort is stable so callers must give a total order to get a
// deterministic one.
func (p *plan) sort(results []result) {
	if len(p.q.OrderBy) == 0 {
		return
	}
	sort.SliceStable(results, func(i, j int) bool {
		for _, o := range p.q.OrderBy {
			a, b := p.orderValue(results[i], o), p.orderValue(results[j], o)
			c := compare(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func (p *plan) orderValue(r result, o store.Order) any {
	if o.IsField() {
		f := store.Field(o.Key)
		return store.Coerce(p.kind(f), p.value(r.tup, f))
	}
	return r.row[o.Key]
}

func window(in []result, offset, limit int) []result {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
