package api

import (
	"fmt"
	"sort"
	"strconv"
)

// Record is one item of a collection as the backend returned it. The admin
// console treats entity shapes as opaque; only the stable "id" field is
// load-bearing (it keys update/delete/show endpoints).
type Record map[string]any

// ID returns the record's id as a string, or "" when absent. Numeric ids are
// rendered without a decimal part (JSON numbers decode as float64).
func (r Record) ID() string {
	v, ok := r["id"]
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	default:
		return fmt.Sprintf("%v", id)
	}
}

// Str returns a field rendered as a string ("" when absent). Used by table
// cells and form prefills, which never need the raw type.
func (r Record) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Clone returns a shallow copy. Enough for form prefills, where only
// top-level fields are edited.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Keys returns the record's field names sorted for stable display.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
