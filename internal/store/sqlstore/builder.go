package sqlstore

import (
	"fmt"
	"strings"

	"github.com/sigesalud/dashboard/internal/store"
)

// builder renders a store.Query as one SELECT statement. Placeholders are
// numbered in text order, so fragments must be written left to right.
type builder struct {
	d       Dialect
	aliases map[string]store.Entity
	args    []any
	idx     int
}

// Build returns the SQL text and arguments for q.
func Build(d Dialect, q store.Query) (string, []any, error) {
	if err := store.Validate(q); err != nil {
		return "", nil, err
	}
	b := &builder{d: d, aliases: q.Aliases(), idx: 1}
	var sb strings.Builder

	sb.WriteString("SELECT ")
	var items []string
	for _, c := range q.Select {
		items = append(items, b.col(c.Field)+" AS "+quote(c.Name()))
	}
	for _, a := range q.Aggregates {
		items = append(items, b.aggregate(a)+" AS "+quote(a.As))
	}
	sb.WriteString(strings.Join(items, ", "))

	fmt.Fprintf(&sb, " FROM %s %s", quote(string(q.From.Entity)), quote(q.From.Alias))
	for _, j := range q.Joins {
		kw := "LEFT JOIN"
		if j.Kind == store.InnerJoin {
			kw = "JOIN"
		}
		var conds []string
		for _, on := range j.On {
			conds = append(conds, b.col(on.Left)+" = "+b.col(on.Right))
		}
		for _, p := range j.Where {
			conds = append(conds, b.pred(p))
		}
		if len(conds) == 0 {
			conds = append(conds, "1=1")
		}
		fmt.Fprintf(&sb, " %s %s %s ON %s", kw, quote(string(j.Entity)), quote(j.Alias), strings.Join(conds, " AND "))
	}

	if len(q.Where) > 0 {
		conds := make([]string, len(q.Where))
		for i, p := range q.Where {
			conds[i] = b.pred(p)
		}
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	if len(q.GroupBy) > 0 {
		keys := make([]string, len(q.GroupBy))
		for i, f := range q.GroupBy {
			keys[i] = b.col(f)
		}
		sb.WriteString(" GROUP BY " + strings.Join(keys, ", "))
	}

	if len(q.OrderBy) > 0 {
		keys := make([]string, len(q.OrderBy))
		for i, o := range q.OrderBy {
			keys[i] = b.order(o)
		}
		sb.WriteString(" ORDER BY " + strings.Join(keys, ", "))
	}
	sb.WriteString(b.d.window(q.Limit, q.Offset))

	return sb.String(), b.args, nil
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	p := placeholder(b.idx)
	b.idx++
	return p
}

func (b *builder) kind(f store.Field) store.Kind {
	return store.KindOf(b.aliases, f)
}

func (b *builder) col(f store.Field) string {
	alias, column := f.Split()
	return quote(alias) + "." + quote(column)
}

// ordered is a column usable in a range comparison or sort.
func (b *builder) ordered(f store.Field) string {
	return b.col(f) + b.d.collate(b.kind(f))
}

func (b *builder) aggregate(a store.Aggregate) string {
	var cond string
	if len(a.When) > 0 {
		parts := make([]string, len(a.When))
		for i, p := range a.When {
			parts[i] = b.pred(p)
		}
		cond = strings.Join(parts, " AND ")
	}
	operand := func(expr string) string {
		if cond == "" {
			return expr
		}
		return "CASE WHEN " + cond + " THEN " + expr + " END"
	}

	switch a.Func {
	case store.Count:
		if cond == "" {
			return "COUNT(*)"
		}
		return "COUNT(" + operand("1") + ")"
	case store.CountOf:
		return "COUNT(" + operand(b.col(a.Field)) + ")"
	case store.CountDistinct:
		return "COUNT(DISTINCT " + operand(b.col(a.Field)) + ")"
	case store.Sum:
		return "SUM(" + operand(b.col(a.Field)) + ")"
	case store.Max:
		return "MAX(" + operand(b.ordered(a.Field)) + ")"
	}
	return "NULL"
}

func (b *builder) pred(p store.Predicate) string {
	switch x := p.(type) {
	case store.Eq:
		if x.Value == nil {
			return "1=0"
		}
		return b.col(x.Field) + " = " + b.arg(store.Coerce(b.kind(x.Field), x.Value))
	case store.In:
		if len(x.Values) == 0 {
			return "1=0"
		}
		k := b.kind(x.Field)
		ph := make([]string, len(x.Values))
		for i, v := range x.Values {
			ph[i] = b.arg(store.Coerce(k, v))
		}
		return b.col(x.Field) + " IN (" + strings.Join(ph, ", ") + ")"
	case store.Contains:
		if len(x.Fields) == 0 {
			return "1=0"
		}
		term := "%" + escapeLike(lowerASCII(x.Term)) + "%"
		parts := make([]string, len(x.Fields))
		for i, f := range x.Fields {
			expr := b.col(f)
			if b.kind(f) != store.Text {
				expr = "CAST(" + expr + " AS TEXT)"
			}
			parts[i] = "LOWER(" + expr + ") LIKE " + b.arg(term) + ` ESCAPE '\'`
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	case store.Between:
		k := b.kind(x.Field)
		lo := b.arg(store.Coerce(k, x.Lo))
		hi := b.arg(store.Coerce(k, x.Hi))
		return b.ordered(x.Field) + " BETWEEN " + lo + " AND " + hi
	case store.Compare:
		if x.Value == nil {
			return "1=0"
		}
		return b.ordered(x.Field) + " " + string(x.Op) + " " + b.arg(store.Coerce(b.kind(x.Field), x.Value))
	case store.CompareFields:
		return b.ordered(x.Left) + " " + string(x.Op) + " " + b.ordered(x.Right)
	case store.Blank:
		if b.kind(x.Field) == store.Text {
			return "(" + b.col(x.Field) + " IS NULL OR " + b.col(x.Field) + " = '')"
		}
		return b.col(x.Field) + " IS NULL"
	case store.Present:
		if b.kind(x.Field) == store.Text {
			return "(" + b.col(x.Field) + " IS NOT NULL AND " + b.col(x.Field) + " <> '')"
		}
		return b.col(x.Field) + " IS NOT NULL"
	case store.Or:
		if len(x.Any) == 0 {
			return "1=0"
		}
		parts := make([]string, len(x.Any))
		for i, sub := range x.Any {
			parts[i] = b.pred(sub)
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	}
	return "1=0"
}

// order renders one sort key with explicit null placement. Output aliases
// take no collation clause; Postgres only accepts them bare.
func (b *builder) order(o store.Order) string {
	expr := quote(o.Key)
	if o.IsField() {
		expr = b.ordered(store.Field(o.Key))
	}
	if o.Desc {
		return expr + " DESC NULLS LAST"
	}
	return expr + " ASC NULLS FIRST"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
