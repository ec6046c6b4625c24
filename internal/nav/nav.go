package nav

import "strings"

// Mode selects how a navigation affects history: Push appends a new entry,
// Replace rewrites the current one (used for normalization, not user moves).
type Mode int

const (
	Push Mode = iota
	Replace
)

// Location is a path plus raw query string, the shareable address of a view
// ("/admin/products?page=2&status=active").
type Location struct {
	Path     string
	RawQuery string
}

// ParseLocation splits "path?query" into a Location. A missing query is fine.
func ParseLocation(s string) Location {
	s = strings.TrimSpace(s)
	path, raw, _ := strings.Cut(s, "?")
	if path == "" {
		path = "/"
	}
	return Location{Path: path, RawQuery: raw}
}

func (l Location) String() string {
	if strings.TrimSpace(l.RawQuery) == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// Navigator is the navigation capability the list controller consumes. The
// controller never touches history directly; it only asks for the current
// location and requests moves.
type Navigator interface {
	Current() Location
	Navigate(loc Location, mode Mode)
}

// History is an in-memory navigator with back/forward, the console's stand-in
// for a browser history stack.
type History struct {
	entries []Location
	pos     int
}

// NewHistory starts a history at the given location.
func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

func (h *History) Current() Location {
	return h.entries[h.pos]
}

// Navigate pushes or replaces. A push drops any forward entries, matching
// browser semantics. Navigating to the current location is a no-op so double
// key presses don't pollute the stack.
func (h *History) Navigate(loc Location, mode Mode) {
	if mode == Replace {
		h.entries[h.pos] = loc
		return
	}
	if loc == h.entries[h.pos] {
		return
	}
	h.entries = append(h.entries[:h.pos+1], loc)
	h.pos = len(h.entries) - 1
}

// Back moves one entry back and reports whether it moved.
func (h *History) Back() bool {
	if h.pos == 0 {
		return false
	}
	h.pos--
	return true
}

// Forward moves one entry forward and reports whether it moved.
func (h *History) Forward() bool {
	if h.pos >= len(h.entries)-1 {
		return false
	}
	h.pos++
	return true
}

// Len reports the number of entries currently on the stack.
func (h *History) Len() int { return len(h.entries) }
