package resource

import (
	"testing"

	"storekeep-cli/internal/api"
)

func TestCatalog_PathsAndLookup(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Catalog() {
		if r.Name == "" || r.Singular == "" || r.Title == "" {
			t.Fatalf("incomplete resource: %+v", r)
		}
		if seen[r.Name] {
			t.Fatalf("duplicate resource name %q", r.Name)
		}
		seen[r.Name] = true

		got, ok := Lookup(r.Name)
		if !ok || got.Name != r.Name {
			t.Fatalf("Lookup(%q) failed", r.Name)
		}
		byPath, ok := ByPath(r.Path())
		if !ok || byPath.Name != r.Name {
			t.Fatalf("ByPath(%q) failed", r.Path())
		}
	}
	if len(seen) != 6 {
		t.Fatalf("catalog has %d resources, want 6", len(seen))
	}

	if _, ok := Lookup("unicorns"); ok {
		t.Fatalf("unknown resource should not resolve")
	}
}

func TestEndpoints_ReadOnlyCapabilities(t *testing.T) {
	orders, _ := Lookup("orders")
	e := orders.Endpoints()
	if e.CanCreate() || e.CanUpdate() || e.CanDelete() {
		t.Fatalf("orders must be read-only, got %+v", e)
	}
	if !e.CanShow() || e.List == "" {
		t.Fatalf("orders still need list+show")
	}

	products, _ := Lookup("products")
	pe := products.Endpoints()
	if !pe.CanCreate() || !pe.CanUpdate() || !pe.CanDelete() || !pe.CanShow() {
		t.Fatalf("products should support full CRUD, got %+v", pe)
	}
	if got := pe.Update("p1"); got != "/admin/products/p1" {
		t.Fatalf("update path = %q", got)
	}
}

func TestBannerTransform(t *testing.T) {
	banners, _ := Lookup("banners")
	rec := banners.Transform(api.Record{"id": "b1", "active": true})
	if rec.Str("active_label") != "yes" {
		t.Fatalf("active_label = %q", rec.Str("active_label"))
	}
	// The original record is not mutated.
	orig := api.Record{"id": "b2", "active": false}
	_ = banners.Transform(orig)
	if _, ok := orig["active_label"]; ok {
		t.Fatalf("transform mutated its input")
	}
}

func TestMessages_EntitySpecific(t *testing.T) {
	comics, _ := Lookup("comics")
	m := comics.Messages()
	if m.Created != "Comic created" || m.DeleteFailed != "Could not delete comic" {
		t.Fatalf("messages = %+v", m)
	}
}
