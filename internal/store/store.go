// Package store defines the read contract every backend satisfies. Services
// express their data needs as Query values; the relational and in-memory
// backends must return the same rows in the same order for the same Query.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

var (
	// ErrUnknownEntity is returned for a query against an entity not in Schema.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnknownField is returned for a field whose alias or column does not resolve.
	ErrUnknownField = errors.New("unknown field")
	// ErrEmptyProjection is returned for a query with no output columns.
	ErrEmptyProjection = errors.New("query selects no columns")
)

// Store answers logical queries.
type Store interface {
	Query(ctx context.Context, q Query) ([]Row, error)
}

// Describer labels a backend for health reporting.
type Describer interface {
	Backend() string
}

// CountRows returns the number of rows stored for an entity.
func CountRows(ctx context.Context, st Store, e Entity) (int64, error) {
	rows, err := st.Query(ctx, Query{
		From:       Source{Entity: e, Alias: "t"},
		Aggregates: []Aggregate{{Func: Count, As: "n"}},
	})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int("n"), nil
}

// First returns the first row or nil.
func First(rows []Row) Row {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// Validate checks that every field of q resolves against Schema.
func Validate(q Query) error {
	if len(q.Select) == 0 && len(q.Aggregates) == 0 {
		return ErrEmptyProjection
	}
	aliases := q.Aliases()
	for alias, e := range aliases {
		if _, ok := Schema[e]; !ok {
			return fmt.Errorf("%w: %s (alias %s)", ErrUnknownEntity, e, alias)
		}
	}
	check := func(f Field) error {
		alias, col := f.Split()
		e, ok := aliases[alias]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
		if _, ok := Schema[e].Kind(col); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
		return nil
	}
	var checkPreds func(ps []Predicate) error
	checkPreds = func(ps []Predicate) error {
		for _, p := range ps {
			for _, f := range PredicateFields(p) {
				if err := check(f); err != nil {
					return err
				}
			}
			if or, ok := p.(Or); ok {
				if err := checkPreds(or.Any); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, j := range q.Joins {
		for _, on := range j.On {
			if err := check(on.Left); err != nil {
				return err
			}
			if err := check(on.Right); err != nil {
				return err
			}
		}
		if err := checkPreds(j.Where); err != nil {
			return err
		}
	}
	if err := checkPreds(q.Where); err != nil {
		return err
	}
	for _, c := range q.Select {
		if err := check(c.Field); err != nil {
			return err
		}
	}
	for _, g := range q.GroupBy {
		if err := check(g); err != nil {
			return err
		}
	}
	for _, a := range q.Aggregates {
		if a.Func != Count {
			if err := check(a.Field); err != nil {
				return err
			}
		}
		if err := checkPreds(a.When); err != nil {
			return err
		}
	}
	for _, o := range q.OrderBy {
		if o.IsField() {
			if err := check(Field(o.Key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// PredicateFields lists the fields a predicate reads directly.
func PredicateFields(p Predicate) []Field {
	switch x := p.(type) {
	case Eq:
		return []Field{x.Field}
	case In:
		return []Field{x.Field}
	case Contains:
		return x.Fields
	case Between:
		return []Field{x.Field}
	case Compare:
		return []Field{x.Field}
	case CompareFields:
		return []Field{x.Left, x.Right}
	case Blank:
		return []Field{x.Field}
	case Present:
		return []Field{x.Field}
	default:
		return nil
	}
}

// ---------------------------------------------------------------------------
// Lazy initialisation
// ---------------------------------------------------------------------------

// Opener builds a backend.
type Opener func(ctx context.Context) (Store, error)

// Lazy opens its backend on first use and shares it afterwards. Concurrent
// first callers wait on the same initialisation; a failure is remembered.
type Lazy struct {
	open Opener
	once sync.Once
	done atomic.Bool
	st   Store
	err  error
}

// NewLazy wraps an opener.
func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

// Get returns the backend, opening it if needed.
func (l *Lazy) Get(ctx context.Context) (Store, error) {
	l.once.Do(func() {
		l.st, l.err = l.open(ctx)
		if l.err != nil {
			l.err = fmt.Errorf("initialize store: %w", l.err)
		}
		l.done.Store(true)
	})
	return l.st, l.err
}

// Query implements Store.
func (l *Lazy) Query(ctx context.Context, q Query) ([]Row, error) {
	st, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	return st.Query(ctx, q)
}

// Backend reports the wrapped backend once opened.
func (l *Lazy) Backend() string {
	if !l.done.Load() || l.st == nil {
		return "uninitialized"
	}
	if d, ok := l.st.(Describer); ok {
		return d.Backend()
	}
	return "unknown"
}

// Opened returns the backend if initialisation has completed successfully.
func (l *Lazy) Opened() (Store, bool) {
	if !l.done.Load() || l.err != nil {
		return nil, false
	}
	return l.st, true
}

// Close closes the wrapped backend if it was opened and is closable.
func (l *Lazy) Close() error {
	if !l.done.Load() {
		return nil
	}
	if c, ok := l.st.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
