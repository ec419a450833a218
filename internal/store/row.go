package store

import (
	"strconv"
)

// Row is one result record keyed by output column name. Values are one of
// nil, int64, float64 or string once normalised.
type Row map[string]any

// Normalize converts driver values to the canonical set.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int8:
		return int64(x)
	case uint32:
		return int64(x)
	case uint16:
		return int64(x)
	case uint8:
		return int64(x)
	case float64:
		return x
	case float32:
		return float64(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	default:
		return x
	}
}

// Str returns the value as a string, "" for null.
func (r Row) Str(key string) string {
	switch x := r[key].(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// NullStr returns nil for null, otherwise a pointer to the string value.
func (r Row) NullStr(key string) *string {
	if r[key] == nil {
		return nil
	}
	s := r.Str(key)
	return &s
}

// Int returns the value as an integer, 0 for null or unparsable text.
func (r Row) Int(key string) int64 {
	switch x := r[key].(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(x, 64)
			if ferr != nil {
				return 0
			}
			return int64(f)
		}
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(x), 10, 64)
		return n
	default:
		return 0
	}
}

// Float returns the value as a float, 0 for null.
func (r Row) Float(key string) float64 {
	switch x := r[key].(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(x), 64)
		return f
	default:
		return 0
	}
}

// Null reports whether the value is null or absent.
func (r Row) Null(key string) bool {
	return r[key] == nil
}

// Coerce converts a normalised value to the storage class of a column, the
// way a relational engine applies column affinity on insert and comparison.
// Values that cannot be converted are returned unchanged.
func Coerce(k Kind, v any) any {
	v = Normalize(v)
	switch k {
	case Text:
		switch x := v.(type) {
		case int64:
			return strconv.FormatInt(x, 10)
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
	case Integer:
		switch x := v.(type) {
		case float64:
			if x == float64(int64(x)) {
				return int64(x)
			}
		case string:
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				return n
			}
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				if f == float64(int64(f)) {
					return int64(f)
				}
				return f
			}
		}
	case Real:
		switch x := v.(type) {
		case int64:
			return float64(x)
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return f
			}
		}
	}
	return v
}

// KindOf resolves the storage class of a qualified field against the aliases
// of a query. Unknown fields report Text.
func KindOf(aliases map[string]Entity, f Field) Kind {
	alias, col := f.Split()
	k, _ := Schema[aliases[alias]].Kind(col)
	return k
}

// OutputKind returns the storage class an aggregate produces.
func OutputKind(aliases map[string]Entity, a Aggregate) Kind {
	switch a.Func {
	case Count, CountOf, CountDistinct:
		return Integer
	default:
		return KindOf(aliases, a.Field)
	}
}
