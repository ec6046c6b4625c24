package api

import (
	"encoding/json"
	"strconv"
)

// Meta is the server's pagination metadata, taken verbatim from the response
// so server-enforced page-size caps cannot desynchronize the display.
type Meta struct {
	Page       int
	Limit      int
	TotalItems int
	TotalPages int
}

// NormalizeList maps a collection response body to a typed (items, meta)
// pair. The backend inconsistently wraps collections as a bare array,
// {data:[...]}, {data:{data:[...]}} or {success,data:[...]}; metadata hides
// under "meta" or "pagination" (or inline next to a nested data array) with
// snake_case and camelCase key variants. An envelope matching none of the
// accepted shapes normalizes to an empty list and zero meta — a misbehaving
// endpoint degrades to "no data", it never crashes the page.
//
// hasMeta reports whether any pagination metadata was actually present, so
// the caller can fall back to query-derived values for meta-less endpoints.
func NormalizeList(body []byte) (items []Record, meta Meta, hasMeta bool) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, Meta{}, false
	}

	switch v := payload.(type) {
	case []any:
		return recordsOf(v), Meta{}, false
	case map[string]any:
		items, container := unwrapListData(v)
		if m, ok := metaFrom(v); ok {
			return items, m, true
		}
		if container != nil {
			if m, ok := metaFrom(container); ok {
				return items, m, true
			}
		}
		return items, Meta{}, false
	}
	return nil, Meta{}, false
}

// NormalizeItem maps a single-item response body ({data:{...}}, {success,
// data} or a bare object) to a Record. Unrecognized shapes yield nil.
func NormalizeItem(body []byte) Record {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := obj["data"].(map[string]any); ok {
		// One more level for backends that double-wrap single items too.
		if deep, ok := inner["data"].(map[string]any); ok {
			return Record(deep)
		}
		return Record(inner)
	}
	if _, hasData := obj["data"]; hasData {
		// {data: null} and friends: nothing usable.
		return nil
	}
	return Record(obj)
}

// unwrapListData finds the item array under v and, for the nested
// {data:{data:[...]}} shape, also returns the inner container that may carry
// inline pagination keys.
func unwrapListData(v map[string]any) ([]Record, map[string]any) {
	switch data := v["data"].(type) {
	case []any:
		return recordsOf(data), nil
	case map[string]any:
		if inner, ok := data["data"].([]any); ok {
			return recordsOf(inner), data
		}
	}
	return nil, nil
}

func recordsOf(raw []any) []Record {
	items := make([]Record, 0, len(raw))
	for _, el := range raw {
		if obj, ok := el.(map[string]any); ok {
			items = append(items, Record(obj))
			continue
		}
		// Scalar collections (rare, but the normalizer must not choke):
		// wrap the value so callers still see one row per element.
		items = append(items, Record{"value": el})
	}
	return items
}

// metaFrom reads pagination metadata from a container: an explicit "meta" or
// "pagination" object wins, otherwise alias keys inline on the container
// itself (the Laravel paginator style) are accepted.
func metaFrom(v map[string]any) (Meta, bool) {
	if m, ok := v["meta"].(map[string]any); ok {
		return metaFromKeys(m)
	}
	if m, ok := v["pagination"].(map[string]any); ok {
		return metaFromKeys(m)
	}
	return metaFromKeys(v)
}

var (
	pageKeys       = []string{"page", "current_page", "currentPage"}
	limitKeys      = []string{"limit", "per_page", "perPage"}
	totalItemKeys  = []string{"totalItems", "total_items", "total"}
	totalPagesKeys = []string{"totalPages", "total_pages", "lastPage", "last_page"}
)

func metaFromKeys(m map[string]any) (Meta, bool) {
	var meta Meta
	found := false
	if n, ok := firstInt(m, pageKeys); ok {
		meta.Page = n
		found = true
	}
	if n, ok := firstInt(m, limitKeys); ok {
		meta.Limit = n
		found = true
	}
	if n, ok := firstInt(m, totalItemKeys); ok {
		meta.TotalItems = n
		found = true
	}
	if n, ok := firstInt(m, totalPagesKeys); ok {
		meta.TotalPages = n
		found = true
	}
	return meta, found
}

func firstInt(m map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if n, ok := intOf(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func intOf(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
