package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode_Defaults(t *testing.T) {
	got := Decode("")
	want := Query{Page: 1, Limit: 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode empty (-want +got):\n%s", diff)
	}
}

func TestDecode_PageFloor(t *testing.T) {
	for _, raw := range []string{"page=0", "page=-3", "page=abc", "page=", "page=1.5"} {
		if got := Decode(raw).Page; got != 1 {
			t.Fatalf("Decode(%q).Page = %d, want 1", raw, got)
		}
	}
}

func TestDecode_Aliases(t *testing.T) {
	q := Decode("per_page=25&sort_by=title&sort_order=desc")
	if q.Limit != 25 {
		t.Fatalf("per_page alias: limit = %d, want 25", q.Limit)
	}
	if q.Sort != "title:desc" {
		t.Fatalf("sort pair: sort = %q, want %q", q.Sort, "title:desc")
	}

	// A sort_by pair without an explicit order is ascending.
	if q := Decode("sort_by=price"); q.Sort != "price" {
		t.Fatalf("sort_by alone: sort = %q, want %q", q.Sort, "price")
	}
}

func TestDecode_FiltersKeepOrder(t *testing.T) {
	q := Decode("status=active&category=books&page=3")
	want := []Filter{{"status", "active"}, {"category", "books"}}
	if diff := cmp.Diff(want, q.Filters); diff != "" {
		t.Fatalf("filters (-want +got):\n%s", diff)
	}
	if q.Page != 3 {
		t.Fatalf("page = %d, want 3", q.Page)
	}
}

func TestDecode_MalformedEscapesDropped(t *testing.T) {
	q := Decode("status=%zz&category=books")
	if _, ok := q.Filter("status"); ok {
		t.Fatalf("malformed value should be dropped, got filters %v", q.Filters)
	}
	if v, _ := q.Filter("category"); v != "books" {
		t.Fatalf("category = %q, want %q", v, "books")
	}
}

func TestEncode_OmitsDefaults(t *testing.T) {
	q := New()
	if got := q.Encode(); got != "" {
		t.Fatalf("default query encodes to %q, want empty", got)
	}

	q = q.WithPage(2)
	if got := q.Encode(); got != "page=2" {
		t.Fatalf("page 2 encodes to %q, want %q", got, "page=2")
	}
}

func TestEncode_OmitsEmptyFilters(t *testing.T) {
	q := Query{Page: 1, Limit: 10, Filters: []Filter{{"status", ""}, {"category", "books"}}}
	if got := q.Encode(); got != "category=books" {
		t.Fatalf("encode = %q, want %q", got, "category=books")
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []Query{
		{Page: 1, Limit: 10},
		{Page: 5, Limit: 10},
		{Page: 2, Limit: 25, Sort: "title:desc"},
		{Page: 1, Limit: 10, Filters: []Filter{{"status", "active"}, {"q", "dune messiah"}}},
		{Page: 3, Limit: 50, Sort: "created_at", Filters: []Filter{{"category", "sci-fi"}}},
	}
	for _, want := range cases {
		got := Decode(want.Encode())
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round trip of %+v (-want +got):\n%s", want, diff)
		}
	}
}

func TestWithFilters_ResetsPage(t *testing.T) {
	q := Query{Page: 5, Limit: 10}
	q = q.WithFilters(Filter{"status", "active"})
	if q.Page != 1 {
		t.Fatalf("filter change kept page %d, want 1", q.Page)
	}
	if v, _ := q.Filter("status"); v != "active" {
		t.Fatalf("status filter = %q, want %q", v, "active")
	}
}

func TestWithFilters_EmptyValueRemoves(t *testing.T) {
	q := New().WithFilters(Filter{"status", "active"}, Filter{"category", "books"})
	q = q.WithFilters(Filter{"status", ""})
	if _, ok := q.Filter("status"); ok {
		t.Fatalf("empty value should remove the filter, got %v", q.Filters)
	}
	if len(q.Filters) != 1 {
		t.Fatalf("filters = %v, want only category", q.Filters)
	}
}

func TestWithFilters_UpdateKeepsPosition(t *testing.T) {
	q := New().WithFilters(Filter{"status", "active"}, Filter{"category", "books"})
	q = q.WithFilters(Filter{"status", "archived"})
	want := []Filter{{"status", "archived"}, {"category", "books"}}
	if diff := cmp.Diff(want, q.Filters); diff != "" {
		t.Fatalf("filters (-want +got):\n%s", diff)
	}
}

func TestWithSort_ResetsPage(t *testing.T) {
	q := Query{Page: 4, Limit: 10}
	q = q.WithSort("price", "desc")
	if q.Page != 1 || q.Sort != "price:desc" {
		t.Fatalf("got page=%d sort=%q, want page=1 sort=price:desc", q.Page, q.Sort)
	}

	field, dir := q.SortField()
	if field != "price" || dir != "desc" {
		t.Fatalf("SortField() = %q,%q", field, dir)
	}
}

func TestResetFilters_KeepsSortAndLimit(t *testing.T) {
	q := Query{Page: 7, Limit: 25, Sort: "title", Filters: []Filter{{"status", "active"}}}
	q = q.ResetFilters()
	if len(q.Filters) != 0 || q.Page != 1 {
		t.Fatalf("reset left page=%d filters=%v", q.Page, q.Filters)
	}
	if q.Sort != "title" || q.Limit != 25 {
		t.Fatalf("reset clobbered sort=%q limit=%d", q.Sort, q.Limit)
	}
}

func TestValues_WritesEffectiveDefaults(t *testing.T) {
	v := New().WithFilters(Filter{"status", "active"}).Values()
	if v.Get("page") != "1" || v.Get("limit") != "10" {
		t.Fatalf("values = %v, want explicit page/limit", v)
	}
	if v.Get("status") != "active" {
		t.Fatalf("values missing filter: %v", v)
	}
}
