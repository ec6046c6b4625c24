package resource

import (
	"strings"

	"storekeep-cli/internal/api"
	"storekeep-cli/internal/listpage"
	"storekeep-cli/internal/nav"
)

// Column describes one table column on a list page.
type Column struct {
	// Key is the record field rendered in this column.
	Key   string
	Title string
	// Width is the preferred width in cells; 0 means flexible.
	Width int
}

// Field describes one input of the create/edit form.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Required    bool
}

// Resource is the static description of one admin collection: what it is
// called, where it lives, how rows and forms look, and which operations its
// endpoints support. The controller core is entity-agnostic; this is the
// per-entity parameterization.
type Resource struct {
	// Name is the plural route segment ("products").
	Name     string
	Singular string
	Title    string
	Columns  []Column
	Fields   []Field
	// SortKeys are the fields the sort cycle steps through.
	SortKeys []string
	// FilterKeys are the filters offered by the filter editor.
	FilterKeys []string
	// CustomModals beyond create/edit/delete ("detail", "toggle").
	CustomModals []string
	// ReadOnly drops the create/update/delete endpoints entirely.
	ReadOnly bool
	// FetchDetailBeforeEdit loads the full record before opening the edit
	// form (for resources whose list rows are truncated summaries).
	FetchDetailBeforeEdit bool
	// Transform reshapes fetched items for display.
	Transform func(api.Record) api.Record
}

// Path is the resource's canonical location path.
func (r Resource) Path() string { return "/admin/" + r.Name }

// Endpoints builds the capability set for the controller. Read-only
// resources only get the list and show endpoints.
func (r Resource) Endpoints() listpage.Endpoints {
	base := r.Path()
	e := listpage.Endpoints{
		List: base,
		Show: func(id string) string { return base + "/" + id },
	}
	if r.ReadOnly {
		return e
	}
	e.Create = base
	e.Update = func(id string) string { return base + "/" + id }
	e.Delete = func(id string) string { return base + "/" + id }
	return e
}

// Messages are the per-entity notification texts.
func (r Resource) Messages() listpage.Messages {
	title := strings.ToUpper(r.Singular[:1]) + r.Singular[1:]
	return listpage.Messages{
		Created:      title + " created",
		Updated:      title + " updated",
		Deleted:      title + " deleted",
		CreateFailed: "Could not create " + r.Singular,
		UpdateFailed: "Could not update " + r.Singular,
		DeleteFailed: "Could not delete " + r.Singular,
		DetailFailed: "Could not load " + r.Singular + " details; editing the summary",
	}
}

// Deps are the environment collaborators a page controller needs.
type Deps struct {
	Client   api.Client
	Nav      nav.Navigator
	Notifier listpage.Notifier
}

// Controller builds the list page controller for this resource.
func (r Resource) Controller(deps Deps) *listpage.Controller {
	return listpage.New(listpage.Config{
		Client:                deps.Client,
		Nav:                   deps.Nav,
		Notifier:              deps.Notifier,
		Path:                  r.Path(),
		Endpoints:             r.Endpoints(),
		Transform:             r.Transform,
		FetchDetailBeforeEdit: r.FetchDetailBeforeEdit,
		CustomModals:          r.CustomModals,
		Messages:              r.Messages(),
	})
}
