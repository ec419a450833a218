package ops

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

type echoPayload struct {
	Name  string `json:"name" validate:"required"`
	Limit int    `json:"limit" validate:"min=1,max=10"`
}

func (p *echoPayload) Defaults() {
	if p.Limit == 0 {
		p.Limit = 3
	}
}

type echoResult struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

func newTestRegistry(t *testing.T, calls *atomic.Int32, opts ...Option) (*Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := NewRegistry(zerolog.New(&buf), opts...)
	Register(r, "test.echo", func() echoResult { return echoResult{} },
		func(ctx context.Context, p echoPayload) (echoResult, error) {
			calls.Add(1)
			switch p.Name {
			case "fail":
				return echoResult{}, errors.New("backend unavailable")
			case "panic":
				panic("index out of range")
			}
			return echoResult{Name: p.Name, Limit: p.Limit}, nil
		})
	Register(r, "test.list", func() []string { return []string{} },
		func(ctx context.Context, _ None) ([]string, error) {
			return nil, errors.New("no rows")
		})
	return r, &buf
}

func call(t *testing.T, r *Registry, name, payload string) string {
	t.Helper()
	out, err := r.Call(context.Background(), name, []byte(payload))
	if err != nil {
		t.Fatalf("Call(%s) error: %v", name, err)
	}
	return string(out)
}

func TestRegistry_Call(t *testing.T) {
	var calls atomic.Int32
	r, _ := newTestRegistry(t, &calls)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"defaults applied", `{"name":"bata"}`, `{"name":"bata","limit":3}`},
		{"explicit limit", `{"name":"bata","limit":7}`, `{"name":"bata","limit":7}`},
		{"missing required field", `{}`, `{"name":"","limit":0}`},
		{"empty body", ``, `{"name":"","limit":0}`},
		{"out of range", `{"name":"bata","limit":50}`, `{"name":"","limit":0}`},
		{"malformed json", `{"name":`, `{"name":"","limit":0}`},
		{"service error", `{"name":"fail"}`, `{"name":"","limit":0}`},
		{"service panic", `{"name":"panic"}`, `{"name":"","limit":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := call(t, r, "test.echo", tt.payload); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRegistry_InvalidPayloadRunsNothing(t *testing.T) {
	var calls atomic.Int32
	r, _ := newTestRegistry(t, &calls)

	call(t, r, "test.echo", `{}`)
	call(t, r, "test.echo", `{"name":"x","limit":99}`)
	if calls.Load() != 0 {
		t.Errorf("expected no service calls, got %d", calls.Load())
	}
}

func TestRegistry_DefaultSliceEncodesEmptyArray(t *testing.T) {
	var calls atomic.Int32
	r, _ := newTestRegistry(t, &calls)
	if got := call(t, r, "test.list", ``); got != `[]` {
		t.Errorf("got %s, want []", got)
	}
}

func TestRegistry_LogsFailures(t *testing.T) {
	var calls atomic.Int32
	r, buf := newTestRegistry(t, &calls)

	call(t, r, "test.echo", `{"name":"fail"}`)
	logged := buf.String()
	if !strings.Contains(logged, `"op":"test.echo"`) || !strings.Contains(logged, `"error":"backend unavailable"`) {
		t.Errorf("expected op and error fields, got %s", logged)
	}

	buf.Reset()
	call(t, r, "test.echo", `{"name":"panic"}`)
	logged = buf.String()
	if !strings.Contains(logged, `"stack":`) || !strings.Contains(logged, "index out of range") {
		t.Errorf("expected recovered panic with stack, got %s", logged)
	}
}

func TestRegistry_UnknownOperation(t *testing.T) {
	var calls atomic.Int32
	r, _ := newTestRegistry(t, &calls)
	_, err := r.Call(context.Background(), "nope", nil)
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("expected ErrUnknownOperation, got %v", err)
	}
	if r.Has("nope") {
		t.Error("Has(nope) should be false")
	}
}

func TestRegistry_Names(t *testing.T) {
	var calls atomic.Int32
	r, _ := newTestRegistry(t, &calls)
	names := r.Names()
	if len(names) != 2 || names[0] != "test.echo" || names[1] != "test.list" {
		t.Errorf("Names() = %v", names)
	}
}

type mapCache struct {
	entries map[string][]byte
	keys    []string
}

func (c *mapCache) Fetch(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	c.keys = append(c.keys, key)
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.entries[key] = v
	return v, nil
}

func TestRegistry_Cache(t *testing.T) {
	var calls atomic.Int32
	cache := &mapCache{entries: map[string][]byte{}}
	r, _ := newTestRegistry(t, &calls, WithCache(cache))

	first := call(t, r, "test.echo", `{"name":"bata"}`)
	second := call(t, r, "test.echo", `{"limit":3,"name":"bata"}`)
	if first != second {
		t.Errorf("cached result differs: %s vs %s", first, second)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one service call, got %d", calls.Load())
	}
	if cache.keys[0] != `ops:test.echo:{"name":"bata","limit":3}` {
		t.Errorf("unexpected cache key %s", cache.keys[0])
	}

	call(t, r, "test.echo", `{"name":"fail"}`)
	if _, ok := cache.entries[`ops:test.echo:{"name":"fail","limit":3}`]; ok {
		t.Error("failed results must not be cached")
	}
}
