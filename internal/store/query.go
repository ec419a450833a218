package store

import "strings"

// Field is a qualified column reference, "alias.column".
type Field string

// F builds a Field from an alias and a column name.
func F(alias, column string) Field {
	return Field(alias + "." + column)
}

// Split returns the alias and column parts.
func (f Field) Split() (alias, column string) {
	s := string(f)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

// Source names the entity a query reads from.
type Source struct {
	Entity Entity
	Alias  string
}

// JoinKind selects join semantics.
type JoinKind int

const (
	// LeftJoin keeps unmatched left rows; right-side fields read as null.
	LeftJoin JoinKind = iota
	// InnerJoin drops left rows without a match.
	InnerJoin
)

// On is one equality pair of a join condition.
type On struct {
	Left  Field
	Right Field
}

// Join attaches another entity. Where holds extra conditions on the joined
// side that belong to the join condition, not to the query filter.
type Join struct {
	Kind   JoinKind
	Entity Entity
	Alias  string
	On     []On
	Where  []Predicate
}

// Column projects a field into the output row under As.
type Column struct {
	Field Field
	As    string
}

// Name returns the output key.
func (c Column) Name() string {
	if c.As != "" {
		return c.As
	}
	_, col := c.Field.Split()
	return col
}

// AggFunc is a reducer.
type AggFunc int

const (
	// Count counts rows.
	Count AggFunc = iota
	// CountOf counts non-null values of Field.
	CountOf
	// CountDistinct counts distinct non-null values of Field.
	CountDistinct
	// Sum adds non-null values of Field; null when there are none.
	Sum
	// Max returns the greatest non-null value of Field; null when there are none.
	Max
)

// Aggregate is one reducer column. When restricts the rows that contribute.
type Aggregate struct {
	Func  AggFunc
	Field Field
	As    string
	When  []Predicate
}

// Order is one sort key. Key is either a qualified Field or the name of an
// output column (a Select alias or an Aggregate alias).
type Order struct {
	Key  string
	Desc bool
}

// Asc orders ascending.
func Asc(key string) Order { return Order{Key: key} }

// Desc orders descending.
func Desc(key string) Order { return Order{Key: key, Desc: true} }

// IsField reports whether the key names a qualified field.
func (o Order) IsField() bool {
	return strings.Contains(o.Key, ".")
}

// Query is one logical read. Where predicates are AND-ed. Without GroupBy,
// a query with Aggregates yields exactly one row. Limit zero means no limit.
type Query struct {
	From       Source
	Joins      []Join
	Where      []Predicate
	Select     []Column
	GroupBy    []Field
	Aggregates []Aggregate
	OrderBy    []Order
	Limit      int
	Offset     int
}

// Aliases returns every alias in the query mapped to its entity.
func (q Query) Aliases() map[string]Entity {
	out := map[string]Entity{q.From.Alias: q.From.Entity}
	for _, j := range q.Joins {
		out[j.Alias] = j.Entity
	}
	return out
}

// Op is a comparison operator.
type Op string

const (
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// Predicate is a row condition. The concrete types below are the complete set
// a backend must understand.
type Predicate interface {
	predicate()
}

// Eq matches field == value. Null never matches.
type Eq struct {
	Field Field
	Value any
}

// In matches field against any of Values.
type In struct {
	Field  Field
	Values []any
}

// Contains matches when any of Fields contains Term, ignoring case.
type Contains struct {
	Fields []Field
	Term   string
}

// Between matches Lo <= field <= Hi on ISO date strings.
type Between struct {
	Field Field
	Lo    string
	Hi    string
}

// Compare matches field <op> value.
type Compare struct {
	Field Field
	Op    Op
	Value any
}

// CompareFields matches left <op> right.
type CompareFields struct {
	Left  Field
	Op    Op
	Right Field
}

// Blank matches null or empty string.
type Blank struct {
	Field Field
}

// Present matches values that are neither null nor empty string.
type Present struct {
	Field Field
}

// Or matches when any member matches.
type Or struct {
	Any []Predicate
}

func (Eq) predicate()            {}
func (In) predicate()            {}
func (Contains) predicate()      {}
func (Between) predicate()       {}
func (Compare) predicate()       {}
func (CompareFields) predicate() {}
func (Blank) predicate()         {}
func (Present) predicate()       {}
func (Or) predicate()            {}

// Output is one result column with its storage class.
type Output struct {
	Name string
	Kind Kind
}

// Outputs lists the result columns in order: projections, then aggregates.
func (q Query) Outputs() []Output {
	aliases := q.Aliases()
	out := make([]Output, 0, len(q.Select)+len(q.Aggregates))
	for _, c := range q.Select {
		out = append(out, Output{Name: c.Name(), Kind: KindOf(aliases, c.Field)})
	}
	for _, a := range q.Aggregates {
		out = append(out, Output{Name: a.As, Kind: OutputKind(aliases, a)})
	}
	return out
}

// Grouped reports whether the query reduces rows.
func (q Query) Grouped() bool {
	return len(q.GroupBy) > 0 || len(q.Aggregates) > 0
}
