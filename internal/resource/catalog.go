package resource

import (
	"strings"

	"storekeep-cli/internal/api"
)

// Catalog returns the admin collections in display order. This is the single
// place where per-entity shape lives; everything downstream (TUI pages, CLI
// subcommands) is generated from it.
func Catalog() []Resource {
	return []Resource{
		{
			Name:     "products",
			Singular: "product",
			Title:    "Products",
			Columns: []Column{
				{Key: "name", Title: "Name"},
				{Key: "sku", Title: "SKU", Width: 14},
				{Key: "price", Title: "Price", Width: 10},
				{Key: "status", Title: "Status", Width: 10},
			},
			Fields: []Field{
				{Key: "name", Label: "Name", Required: true},
				{Key: "sku", Label: "SKU", Required: true},
				{Key: "price", Label: "Price", Placeholder: "0.00", Required: true},
				{Key: "status", Label: "Status", Placeholder: "active|draft|archived"},
			},
			SortKeys:              []string{"name", "price", "created_at"},
			FilterKeys:            []string{"status", "q"},
			FetchDetailBeforeEdit: true,
		},
		{
			Name:     "posts",
			Singular: "post",
			Title:    "Posts",
			Columns: []Column{
				{Key: "title", Title: "Title"},
				{Key: "author", Title: "Author", Width: 16},
				{Key: "status", Title: "Status", Width: 10},
				{Key: "published_at", Title: "Published", Width: 12},
			},
			Fields: []Field{
				{Key: "title", Label: "Title", Required: true},
				{Key: "author", Label: "Author"},
				{Key: "body", Label: "Body"},
				{Key: "status", Label: "Status", Placeholder: "draft|published"},
			},
			SortKeys:              []string{"title", "published_at"},
			FilterKeys:            []string{"status", "author", "q"},
			FetchDetailBeforeEdit: true,
		},
		{
			Name:     "comics",
			Singular: "comic",
			Title:    "Comics",
			Columns: []Column{
				{Key: "title", Title: "Title"},
				{Key: "issue", Title: "Issue", Width: 8},
				{Key: "series", Title: "Series", Width: 18},
				{Key: "status", Title: "Status", Width: 10},
			},
			Fields: []Field{
				{Key: "title", Label: "Title", Required: true},
				{Key: "issue", Label: "Issue", Placeholder: "1"},
				{Key: "series", Label: "Series"},
				{Key: "status", Label: "Status", Placeholder: "ongoing|finished"},
			},
			SortKeys:   []string{"title", "issue"},
			FilterKeys: []string{"series", "status", "q"},
		},
		{
			Name:     "banners",
			Singular: "banner",
			Title:    "Banners",
			Columns: []Column{
				{Key: "label", Title: "Label"},
				{Key: "placement", Title: "Placement", Width: 14},
				{Key: "active_label", Title: "Active", Width: 8},
			},
			Fields: []Field{
				{Key: "label", Label: "Label", Required: true},
				{Key: "placement", Label: "Placement", Placeholder: "home|sidebar|checkout"},
				{Key: "image_url", Label: "Image URL"},
				{Key: "active", Label: "Active", Placeholder: "true|false"},
			},
			SortKeys:   []string{"label"},
			FilterKeys: []string{"placement", "active"},
			// Rows render a friendly flag instead of a bare boolean.
			Transform: bannerTransform,
		},
		{
			Name:     "orders",
			Singular: "order",
			Title:    "Orders",
			Columns: []Column{
				{Key: "number", Title: "Number", Width: 14},
				{Key: "customer", Title: "Customer"},
				{Key: "total", Title: "Total", Width: 10},
				{Key: "status", Title: "Status", Width: 12},
			},
			// Orders are created by the storefront, not the console.
			ReadOnly:     true,
			CustomModals: []string{"detail"},
			SortKeys:     []string{"number", "total", "created_at"},
			FilterKeys:   []string{"status", "customer"},
		},
		{
			Name:     "discounts",
			Singular: "discount",
			Title:    "Discounts",
			Columns: []Column{
				{Key: "code", Title: "Code", Width: 14},
				{Key: "kind", Title: "Kind", Width: 10},
				{Key: "amount", Title: "Amount", Width: 10},
				{Key: "active_label", Title: "Active", Width: 8},
			},
			Fields: []Field{
				{Key: "code", Label: "Code", Required: true},
				{Key: "kind", Label: "Kind", Placeholder: "percent|fixed"},
				{Key: "amount", Label: "Amount", Required: true},
				{Key: "active", Label: "Active", Placeholder: "true|false"},
			},
			CustomModals: []string{"toggle"},
			SortKeys:     []string{"code", "amount"},
			FilterKeys:   []string{"kind", "active"},
			Transform:    bannerTransform,
		},
	}
}

// Lookup finds a resource by its plural name ("products"). Matching is
// case-insensitive so pasted locations just work.
func Lookup(name string) (Resource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Catalog() {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// ByPath resolves a location path like "/admin/orders" to its resource.
func ByPath(path string) (Resource, bool) {
	path = strings.TrimSuffix(strings.TrimSpace(path), "/")
	for _, r := range Catalog() {
		if r.Path() == path {
			return r, true
		}
	}
	return Resource{}, false
}

// bannerTransform derives display fields shared by the toggleable resources.
func bannerTransform(rec api.Record) api.Record {
	out := rec.Clone()
	switch rec.Str("active") {
	case "true":
		out["active_label"] = "yes"
	case "false":
		out["active_label"] = "no"
	default:
		out["active_label"] = rec.Str("active")
	}
	return out
}
