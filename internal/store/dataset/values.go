package dataset

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a nullable string that also accepts JSON numbers and booleans, which
// appear in hand-maintained reference files.
type Text struct {
	V     string
	Valid bool
}

// T returns a valid Text.
func T(s string) Text { return Text{V: s, Valid: true} }

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = Text{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = T(s)
		return nil
	}
	*t = T(string(b))
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.V)
}

// Value returns nil or the string.
func (t Text) Value() any {
	if !t.Valid {
		return nil
	}
	return t.V
}

// Int is a nullable integer that also accepts numeric strings.
type Int struct {
	V     int64
	Valid bool
}

// I returns a valid Int.
func I(n int64) Int { return Int{V: n, Valid: true} }

func (n *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Int{}
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = Int{}
			return nil
		}
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = I(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = I(int64(f))
	return nil
}

func (n Int) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.V, 10)), nil
}

// Value returns nil or the integer.
func (n Int) Value() any {
	if !n.Valid {
		return nil
	}
	return n.V
}

// Float is a nullable float that also accepts numeric strings.
type Float struct {
	V     float64
	Valid bool
}

// N returns a valid Float.
func N(f float64) Float { return Float{V: f, Valid: true} }

func (f *Float) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = Float{}
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = Float{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = N(v)
	return nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.V)
}

// Value returns nil or the float.
func (f Float) Value() any {
	if !f.Valid {
		return nil
	}
	return f.V
}

// jsonText renders a nested JSON value as compact text, substituting def when
// the value is absent or null.
func jsonText(raw json.RawMessage, def string) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if def == "" {
			return nil
		}
		return def
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

func ptr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
