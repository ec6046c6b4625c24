package api

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func itemIDs(items []Record) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID())
	}
	return ids
}

func TestNormalizeList_AcceptedShapes(t *testing.T) {
	cases := map[string]string{
		"bare array":    `[{"id":"a"},{"id":"b"},{"id":"c"}]`,
		"data wrapper":  `{"data":[{"id":"a"},{"id":"b"},{"id":"c"}]}`,
		"nested data":   `{"data":{"data":[{"id":"a"},{"id":"b"},{"id":"c"}]}}`,
		"success +data": `{"success":true,"data":[{"id":"a"},{"id":"b"},{"id":"c"}]}`,
	}
	want := []string{"a", "b", "c"}
	for name, body := range cases {
		items, _, _ := NormalizeList([]byte(body))
		if diff := cmp.Diff(want, itemIDs(items)); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", name, diff)
		}
	}
}

func TestNormalizeList_MetaAliases(t *testing.T) {
	cases := map[string]string{
		"meta key":        `{"data":[],"meta":{"page":2,"limit":10,"totalItems":37,"totalPages":4}}`,
		"pagination key":  `{"data":[],"pagination":{"current_page":2,"per_page":10,"total":37,"last_page":4}}`,
		"laravel inline":  `{"data":{"data":[],"current_page":2,"per_page":10,"total":37,"last_page":4}}`,
		"string numerics": `{"data":[],"meta":{"page":"2","limit":"10","total":"37","lastPage":"4"}}`,
	}
	want := Meta{Page: 2, Limit: 10, TotalItems: 37, TotalPages: 4}
	for name, body := range cases {
		_, meta, hasMeta := NormalizeList([]byte(body))
		if !hasMeta {
			t.Fatalf("%s: meta not detected", name)
		}
		if diff := cmp.Diff(want, meta); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", name, diff)
		}
	}
}

func TestNormalizeList_UnrecognizedIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"null":        `null`,
		"scalar":      `42`,
		"data null":   `{"data":null}`,
		"data scalar": `{"data":"nope"}`,
		"not json":    `<html>gateway error</html>`,
	} {
		items, meta, hasMeta := NormalizeList([]byte(body))
		if len(items) != 0 || hasMeta || meta != (Meta{}) {
			t.Fatalf("%s: expected empty normalization, got %d items meta=%+v", name, len(items), meta)
		}
	}
}

func TestNormalizeItem(t *testing.T) {
	for name, body := range map[string]string{
		"bare object":  `{"id":"p1","name":"Dune"}`,
		"data wrapper": `{"data":{"id":"p1","name":"Dune"}}`,
		"double wrap":  `{"data":{"data":{"id":"p1","name":"Dune"}}}`,
	} {
		rec := NormalizeItem([]byte(body))
		if rec.ID() != "p1" || rec.Str("name") != "Dune" {
			t.Fatalf("%s: got %v", name, rec)
		}
	}

	if rec := NormalizeItem([]byte(`{"data":null}`)); rec != nil {
		t.Fatalf("null data should normalize to nil, got %v", rec)
	}
	if rec := NormalizeItem([]byte(`[1,2]`)); rec != nil {
		t.Fatalf("array should normalize to nil, got %v", rec)
	}
}

func TestRecordID_NumericIDs(t *testing.T) {
	items, _, _ := NormalizeList([]byte(`[{"id":12},{"id":"s-9"}]`))
	if got := itemIDs(items); got[0] != "12" || got[1] != "s-9" {
		t.Fatalf("ids = %v", got)
	}
}
