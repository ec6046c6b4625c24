package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Filter is a single opaque filter pair. Filters keep the order they were
// first written in so encoded locations stay stable and shareable.
type Filter struct {
	Key   string
	Value string
}

// Query is the structured form of a list location's query string: which
// page/filter/sort view of a collection is active. The canonical form is the
// encoded query string; Decode and Encode convert between the two.
type Query struct {
	Page    int
	Limit   int
	Filters []Filter
	// Sort is "field" for ascending or "field:desc" for descending.
	Sort string
}

// New returns the default view: first page, default page size, no filters.
func New() Query {
	return Query{Page: DefaultPage, Limit: DefaultLimit}
}

// reserved keys are interpreted by the codec; everything else passes through
// as an opaque filter.
func isReservedKey(k string) bool {
	switch k {
	case "page", "limit", "per_page", "sort", "sort_by", "sort_order":
		return true
	}
	return false
}

// Decode parses a raw query string ("page=2&status=active") into a Query.
//
// Malformed numeric values are dropped rather than defaulted to garbage: a
// hand-edited "page=abc" degrades to page 1. page/limit are floored at 1.
// "per_page" aliases "limit"; a "sort_by"+"sort_order" pair is folded into
// Sort. A leading "?" is tolerated.
func Decode(rawQuery string) Query {
	q := New()
	rawQuery = strings.TrimPrefix(strings.TrimSpace(rawQuery), "?")
	if rawQuery == "" {
		return q
	}

	var sortBy, sortOrder string
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || strings.TrimSpace(key) == "" {
			continue
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			continue
		}
		switch key {
		case "page":
			if n, ok := parseIntStrict(val); ok {
				q.Page = floorOne(n)
			}
		case "limit", "per_page":
			if n, ok := parseIntStrict(val); ok {
				q.Limit = floorOne(n)
			}
		case "sort":
			q.Sort = strings.TrimSpace(val)
		case "sort_by":
			sortBy = strings.TrimSpace(val)
		case "sort_order":
			sortOrder = strings.TrimSpace(val)
		default:
			q = q.withFilter(key, val)
		}
	}

	if sortBy != "" {
		q.Sort = sortBy
		if strings.EqualFold(sortOrder, "desc") {
			q.Sort += ":desc"
		}
	}
	return q
}

// Encode renders the canonical query string. Defaults are omitted to keep
// shared locations clean: page when 1, limit when the default page size, and
// filters whose value is empty. Decode(q.Encode()) == q for any normalized q.
func (q Query) Encode() string {
	var b strings.Builder
	add := func(k, v string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	if q.Page > 1 {
		add("page", strconv.Itoa(q.Page))
	}
	if q.Limit >= 1 && q.Limit != DefaultLimit {
		add("limit", strconv.Itoa(q.Limit))
	}
	if s := strings.TrimSpace(q.Sort); s != "" {
		add("sort", s)
	}
	for _, f := range q.Filters {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		add(f.Key, f.Value)
	}
	return b.String()
}

// Values serializes the query as request parameters for the collection
// endpoint. Unlike Encode, defaults are written out explicitly so the server
// sees the effective page/limit.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(floorOne(q.Page)))
	v.Set("limit", strconv.Itoa(floorOne(q.Limit)))
	if s := strings.TrimSpace(q.Sort); s != "" {
		v.Set("sort", s)
	}
	for _, f := range q.Filters {
		if strings.TrimSpace(f.Value) != "" {
			v.Set(f.Key, f.Value)
		}
	}
	return v
}

// Filter returns the value of a filter key, if set.
func (q Query) Filter(key string) (string, bool) {
	for _, f := range q.Filters {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// WithPage returns a copy pointing at page n (floored at 1).
func (q Query) WithPage(n int) Query {
	q = q.clone()
	q.Page = floorOne(n)
	return q
}

// WithFilters merges the given filters in order and resets Page to 1: a
// different filter set invalidates the old page number, so every filter
// change starts the view over from the first page. An empty value removes
// the key.
func (q Query) WithFilters(filters ...Filter) Query {
	q = q.clone()
	for _, f := range filters {
		if strings.TrimSpace(f.Value) == "" {
			q = q.withoutFilter(f.Key)
			continue
		}
		q = q.withFilter(f.Key, f.Value)
	}
	q.Page = DefaultPage
	return q
}

// WithSort returns a copy sorted by field in the given direction ("desc" for
// descending, anything else ascending). Page resets to 1 under the same
// contract as WithFilters. An empty field clears the sort.
func (q Query) WithSort(field, direction string) Query {
	q = q.clone()
	field = strings.TrimSpace(field)
	switch {
	case field == "":
		q.Sort = ""
	case strings.EqualFold(strings.TrimSpace(direction), "desc"):
		q.Sort = field + ":desc"
	default:
		q.Sort = field
	}
	q.Page = DefaultPage
	return q
}

// ResetFilters drops every filter and returns to page 1. Sort and page size
// survive a reset.
func (q Query) ResetFilters() Query {
	q = q.clone()
	q.Filters = nil
	q.Page = DefaultPage
	return q
}

// SortField splits Sort into its field and direction parts.
func (q Query) SortField() (field, direction string) {
	s := strings.TrimSpace(q.Sort)
	if s == "" {
		return "", ""
	}
	field, dir, ok := strings.Cut(s, ":")
	if ok && strings.EqualFold(dir, "desc") {
		return field, "desc"
	}
	return field, "asc"
}

func (q Query) clone() Query {
	out := q
	out.Filters = append([]Filter(nil), q.Filters...)
	return out
}

func (q Query) withFilter(key, val string) Query {
	for i, f := range q.Filters {
		if f.Key == key {
			// Keep the original position so re-filtering doesn't reshuffle the URL.
			q.Filters[i].Value = val
			return q
		}
	}
	q.Filters = append(q.Filters, Filter{Key: key, Value: val})
	return q
}

func (q Query) withoutFilter(key string) Query {
	out := q.Filters[:0:0]
	for _, f := range q.Filters {
		if f.Key != key {
			out = append(out, f)
		}
	}
	q.Filters = out
	return q
}

// parseIntStrict accepts only plain base-10 integers. url.Values-style loose
// inputs ("12abc", "1.5", "") all fail.
func parseIntStrict(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func floorOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
