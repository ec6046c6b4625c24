package nav

import "testing"

func TestParseLocation(t *testing.T) {
	loc := ParseLocation("/admin/products?page=2")
	if loc.Path != "/admin/products" || loc.RawQuery != "page=2" {
		t.Fatalf("got %+v", loc)
	}
	if loc.String() != "/admin/products?page=2" {
		t.Fatalf("String() = %q", loc.String())
	}

	loc = ParseLocation("/admin/posts")
	if loc.RawQuery != "" || loc.String() != "/admin/posts" {
		t.Fatalf("got %+v -> %q", loc, loc.String())
	}

	if got := ParseLocation("").Path; got != "/" {
		t.Fatalf("empty input path = %q, want /", got)
	}
}

func TestHistory_PushDropsForward(t *testing.T) {
	h := NewHistory(ParseLocation("/admin/products"))
	h.Navigate(ParseLocation("/admin/products?page=2"), Push)
	h.Navigate(ParseLocation("/admin/products?page=3"), Push)

	if !h.Back() {
		t.Fatalf("expected back to succeed")
	}
	if got := h.Current().String(); got != "/admin/products?page=2" {
		t.Fatalf("after back: %q", got)
	}

	// Pushing here truncates the forward entry (page=3).
	h.Navigate(ParseLocation("/admin/products?status=active"), Push)
	if h.Forward() {
		t.Fatalf("forward should be empty after a push")
	}
	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}
}

func TestHistory_ReplaceKeepsDepth(t *testing.T) {
	h := NewHistory(ParseLocation("/admin/orders"))
	h.Navigate(ParseLocation("/admin/orders?page=2"), Replace)
	if h.Len() != 1 {
		t.Fatalf("replace grew the stack: len = %d", h.Len())
	}
	if h.Back() {
		t.Fatalf("back should fail at the root")
	}
	if got := h.Current().String(); got != "/admin/orders?page=2" {
		t.Fatalf("current = %q", got)
	}
}

func TestHistory_DuplicatePushIgnored(t *testing.T) {
	h := NewHistory(ParseLocation("/admin/comics"))
	h.Navigate(ParseLocation("/admin/comics"), Push)
	if h.Len() != 1 {
		t.Fatalf("duplicate push grew the stack: len = %d", h.Len())
	}
}
