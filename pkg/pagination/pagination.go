package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the normalised page window of a list operation.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// New normalises a requested window: a non-positive limit becomes
// DefaultLimit, limits above MaxLimit are clamped and negative offsets are 0.
func New(limit, offset int) Params {
	return Window(limit, offset, DefaultLimit, MaxLimit)
}

// Window is New with caller-chosen default and maximum.
func Window(limit, offset, def, max int) Params {
	if limit <= 0 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Limit returns n, or def when n is not positive.
func Limit(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}
