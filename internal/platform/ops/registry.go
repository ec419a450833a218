// Package ops is the request/response boundary of the dashboard. Every
// reporting operation is registered under a dotted name with a typed payload
// and a safe default; callers only ever see JSON.
//
// Failures stop here: a payload that does not decode or validate, an error
// returned by the service or a panic inside it all yield the operation's
// default result, logged but never returned.
package ops

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ErrUnknownOperation is returned by Call for a name nothing registered.
var ErrUnknownOperation = errors.New("unknown operation")

// Defaulter is implemented by payloads that fill omitted fields before
// validation.
type Defaulter interface {
	Defaults()
}

// Cache memoises encoded results. Fetch returns the cached bytes for key or
// stores and returns the result of load.
type Cache interface {
	Fetch(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

// None is the payload of operations that take no parameters.
type None struct{}

// PanicError carries a value recovered from a service.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

type handler func(ctx context.Context, payload []byte) []byte

// Registry maps operation names to handlers.
type Registry struct {
	logger   zerolog.Logger
	validate *validator.Validate
	cache    Cache

	mu  sync.RWMutex
	ops map[string]handler
}

// Option configures a Registry.
type Option func(*Registry)

// WithCache routes successful results through c.
func WithCache(c Cache) Option {
	return func(r *Registry) { r.cache = c }
}

// NewRegistry returns an empty registry.
func NewRegistry(logger zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		ops:      make(map[string]handler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an operation. fallback builds the result returned whenever
// the operation cannot produce one; it must not fail.
func Register[P, R any](r *Registry, name string, fallback func() R, fn func(ctx context.Context, p P) (R, error)) {
	h := func(ctx context.Context, payload []byte) []byte {
		log := r.logger.With().Str("op", name).Logger()

		var p P
		if err := decode(payload, &p); err != nil {
			log.Warn().Err(err).Msg("payload rejected")
			return r.encode(log, fallback())
		}
		if d, ok := any(&p).(Defaulter); ok {
			d.Defaults()
		}
		if err := r.validate.StructCtx(ctx, p); err != nil {
			log.Debug().Err(err).Msg("payload failed validation")
			return r.encode(log, fallback())
		}

		load := func(ctx context.Context) ([]byte, error) {
			res, err := guard(ctx, p, fn)
			if err != nil {
				return nil, err
			}
			return json.Marshal(res)
		}

		var (
			out []byte
			err error
		)
		if r.cache != nil {
			key, kerr := json.Marshal(p)
			if kerr != nil {
				out, err = load(ctx)
			} else {
				out, err = r.cache.Fetch(ctx, "ops:"+name+":"+string(key), load)
			}
		} else {
			out, err = load(ctx)
		}
		if err != nil {
			var pe *PanicError
			if errors.As(err, &pe) {
				log.Error().Err(err).Str("stack", string(pe.Stack)).Msg("operation panicked")
			} else {
				log.Error().Err(err).Msg("operation failed")
			}
			return r.encode(log, fallback())
		}
		return out
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[name] = h
}

// Call runs an operation with a raw JSON payload, which may be empty.
func (r *Registry) Call(ctx context.Context, name string, payload []byte) ([]byte, error) {
	r.mu.RLock()
	h, ok := r.ops[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return h(ctx, payload), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ops[name]
	return ok
}

// Names returns the registered operation names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *Registry) encode(log zerolog.Logger, v any) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encode default")
		return []byte("null")
	}
	return out
}

func guard[P, R any](ctx context.Context, p P, fn func(context.Context, P) (R, error)) (res R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return fn(ctx, p)
}

func decode(payload []byte, dst any) error {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}
	return json.Unmarshal(payload, dst)
}
