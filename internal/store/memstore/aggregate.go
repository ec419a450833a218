package memstore

import (
	"math"
	"strconv"
	"strings"

	"github.com/sigesalud/dashboard/internal/store"
)

type group struct {
	first   tuple
	members []tuple
}

// aggregate reduces tuples by the group-by fields. Null group values form one
// group. Without group-by fields exactly one row is produced, even for empty
// input.
func (p *plan) aggregate(in []tuple) []result {
	var groups []*group
	if len(p.q.GroupBy) == 0 {
		g := &group{members: in}
		if len(in) > 0 {
			g.first = in[0]
		}
		groups = append(groups, g)
	} else {
		byKey := make(map[string]*group)
		var sb strings.Builder
		for _, t := range in {
			sb.Reset()
			for _, f := range p.q.GroupBy {
				writeKey(&sb, hashKey(store.Coerce(p.kind(f), p.value(t, f))))
			}
			k := sb.String()
			g, ok := byKey[k]
			if !ok {
				g = &group{first: t}
				byKey[k] = g
				groups = append(groups, g)
			}
			g.members = append(g.members, t)
		}
	}

	out := make([]result, len(groups))
	for i, g := range groups {
		row := make(store.Row, len(p.q.Select)+len(p.q.Aggregates))
		for _, c := range p.q.Select {
			var v any
			if g.first != nil {
				v = store.Coerce(p.kind(c.Field), p.value(g.first, c.Field))
			}
			row[c.Name()] = v
		}
		for _, a := range p.q.Aggregates {
			row[a.As] = p.reduce(a, g.members)
		}
		out[i] = result{row: row, tup: g.first}
	}
	return out
}

func writeKey(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("n")
	case int64:
		sb.WriteString("i")
		sb.WriteString(strconv.FormatInt(x, 10))
	case float64:
		sb.WriteString("f")
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case string:
		sb.WriteString("s")
		sb.WriteString(strconv.Itoa(len(x)))
		sb.WriteString(":")
		sb.WriteString(x)
	default:
		sb.WriteString("?")
	}
	sb.WriteByte(0x1f)
}

func (p *plan) reduce(a store.Aggregate, members []tuple) any {
	kind := store.OutputKind(p.aliases, a)
	switch a.Func {
	case store.Count:
		var n int64
		for _, t := range members {
			if p.match(t, a.When) {
				n++
			}
		}
		return n
	case store.CountOf:
		var n int64
		for _, t := range members {
			if p.match(t, a.When) && p.value(t, a.Field) != nil {
				n++
			}
		}
		return n
	case store.CountDistinct:
		seen := make(map[any]struct{})
		for _, t := range members {
			if !p.match(t, a.When) {
				continue
			}
			if v := p.value(t, a.Field); v != nil {
				seen[hashKey(v)] = struct{}{}
			}
		}
		return int64(len(seen))
	case store.Sum:
		var (
			isum   int64
			fsum   neumaier
			seen   bool
			floats bool
		)
		for _, t := range members {
			if !p.match(t, a.When) {
				continue
			}
			switch x := p.value(t, a.Field).(type) {
			case int64:
				isum += x
				fsum.add(float64(x))
				seen = true
			case float64:
				fsum.add(x)
				floats = true
				seen = true
			case string:
				if f, err := strconv.ParseFloat(x, 64); err == nil {
					fsum.add(f)
					floats = true
					seen = true
				}
			}
		}
		if !seen {
			return nil
		}
		if floats || kind == store.Real {
			return fsum.value()
		}
		return isum
	case store.Max:
		var best any
		for _, t := range members {
			if !p.match(t, a.When) {
				continue
			}
			v := p.value(t, a.Field)
			if v == nil {
				continue
			}
			if best == nil || compare(v, best) > 0 {
				best = v
			}
		}
		return store.Coerce(kind, best)
	}
	return nil
}

// neumaier is compensated float summation, the algorithm the embedded SQL
// engine uses for SUM over real columns.
type neumaier struct {
	sum, c float64
}

func (n *neumaier) add(x float64) {
	t := n.sum + x
	if math.Abs(n.sum) >= math.Abs(x) {
		n.c += (n.sum - t) + x
	} else {
		n.c += (x - t) + n.sum
	}
	n.sum = t
}

func (n *neumaier) value() float64 { return n.sum + n.c }

// rank orders storage classes: null, numbers, text.
func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int64, float64:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

// compare orders two normalised values. Strings compare bytewise.
func compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case nil:
		return 0
	case int64:
		if y, ok := b.(int64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
		return compareFloat(float64(x), b.(float64))
	case float64:
		switch y := b.(type) {
		case int64:
			return compareFloat(x, float64(y))
		case float64:
			return compareFloat(x, y)
		}
	case string:
		return strings.Compare(x, b.(string))
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// equal is SQL equality: null equals nothing.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return rank(a) == rank(b) && compare(a, b) == 0
}

func holds(a any, op store.Op, b any) bool {
	if a == nil || b == nil || rank(a) != rank(b) {
		return false
	}
	c := compare(a, b)
	switch op {
	case store.OpLt:
		return c < 0
	case store.OpLte:
		return c <= 0
	case store.OpGt:
		return c > 0
	case store.OpGte:
		return c >= 0
	}
	return false
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

// lowerASCII folds A-Z only, matching LOWER in the embedded SQL engine.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
