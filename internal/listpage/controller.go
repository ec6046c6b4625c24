package listpage

import (
	"context"

	"storekeep-cli/internal/api"
	"storekeep-cli/internal/nav"
	"storekeep-cli/internal/query"
)

// Config wires one list page.
type Config struct {
	Client   api.Client
	Nav      nav.Navigator
	Notifier Notifier
	// Path is the page's canonical location path, e.g. "/admin/products".
	Path      string
	Endpoints Endpoints
	// Transform, when set, reshapes every fetched item before display.
	Transform func(api.Record) api.Record
	// FetchDetailBeforeEdit makes OpenEdit load the full record through the
	// show endpoint first, so the edit form never opens on a truncated
	// summary row.
	FetchDetailBeforeEdit bool
	CustomModals          []string
	Messages              Messages
}

// Controller is the façade every list page depends on: it composes the
// Store, Gateway and Modals with notifications into one object, and is the
// only piece pages talk to.
//
// The location is the single source of truth: the four view mutators
// (ChangePage, UpdateFilters, UpdateSort, ResetFilters) only emit
// navigations; the resulting navigation event is what feeds HandleLocation
// and triggers the fetch.
type Controller struct {
	cfg     Config
	store   *Store
	gateway *Gateway
	modals  *Modals
}

func New(cfg Config) *Controller {
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	cfg.Messages = cfg.Messages.withDefaults()

	listPath := cfg.Endpoints.List
	if listPath == "" {
		listPath = cfg.Path
	}

	c := &Controller{
		cfg:     cfg,
		store:   NewStore(StoreConfig{Client: cfg.Client, Path: listPath, Transform: cfg.Transform}),
		gateway: NewGateway(cfg.Client, cfg.Endpoints, cfg.Transform),
		modals:  NewModals(cfg.CustomModals...),
	}
	c.modals.SetTransitionHook(c.gateway.ClearFieldErrors)

	// Derive the initial query from wherever the navigator already points.
	if cur := cfg.Nav.Current(); cur.Path == cfg.Path {
		c.store.SetQuery(query.Decode(cur.RawQuery))
	}
	return c
}

// --- read surface ---

func (c *Controller) Path() string                   { return c.cfg.Path }
func (c *Controller) Query() query.Query             { return c.store.Query() }
func (c *Controller) State() ListState               { return c.store.State() }
func (c *Controller) Items() []api.Record            { return c.store.State().Items }
func (c *Controller) Loading() bool                  { return c.store.State().Loading }
func (c *Controller) Err() error                     { return c.store.State().Err }
func (c *Controller) Pagination() Pagination         { return c.store.State().Page }
func (c *Controller) Filters() []query.Filter        { return c.store.Query().Filters }
func (c *Controller) InFlight() bool                 { return c.gateway.State().InFlight }
func (c *Controller) FieldErrors() map[string]string { return c.gateway.State().FieldErrors }
func (c *Controller) Modals() *Modals                { return c.modals }
func (c *Controller) Selected() api.Record           { return c.modals.Selected() }
func (c *Controller) Endpoints() Endpoints           { return c.cfg.Endpoints }

func (c *Controller) HasData() bool { return len(c.store.State().Items) > 0 }

// Location is the page's current shareable address.
func (c *Controller) Location() nav.Location {
	return nav.Location{Path: c.cfg.Path, RawQuery: c.store.Query().Encode()}
}

// SerialNumber converts a 0-based row index into the row's global ordinal,
// using the server-reported pagination when available and the requested
// query before the first fetch lands.
func (c *Controller) SerialNumber(rowIndex int) int {
	p := c.store.State().Page
	if p.Limit < 1 {
		q := c.store.Query()
		return SerialNumber(q.Page, q.Limit, rowIndex)
	}
	return SerialNumber(p.Page, p.Limit, rowIndex)
}

// --- navigation-driven view mutators ---

func (c *Controller) ChangePage(n int) {
	c.navigate(c.store.Query().WithPage(n))
}

func (c *Controller) UpdateFilters(filters ...query.Filter) {
	c.navigate(c.store.Query().WithFilters(filters...))
}

func (c *Controller) UpdateSort(field, direction string) {
	c.navigate(c.store.Query().WithSort(field, direction))
}

func (c *Controller) ResetFilters() {
	c.navigate(c.store.Query().ResetFilters())
}

func (c *Controller) navigate(q query.Query) {
	c.cfg.Nav.Navigate(nav.Location{Path: c.cfg.Path, RawQuery: q.Encode()}, nav.Push)
}

// HandleLocation reacts to an external navigation event. If the location
// addresses this page, the query is re-derived from it and a fetch is
// started; otherwise nil is returned and the page is untouched.
func (c *Controller) HandleLocation(loc nav.Location) *Fetch {
	if loc.Path != c.cfg.Path {
		return nil
	}
	c.store.SetQuery(query.Decode(loc.RawQuery))
	return c.store.StartFetch()
}

// Refresh re-issues the fetch for the current query without changing the
// location. Used after successful mutations and by the manual refresh key.
func (c *Controller) Refresh() *Fetch { return c.store.StartFetch() }

// Apply folds a completed fetch into the page (see Store.Apply).
func (c *Controller) Apply(res FetchResult) bool { return c.store.Apply(res) }

// Load blocks through one fetch of the current query (scripted callers).
func (c *Controller) Load(ctx context.Context) error { return c.store.Load(ctx) }

// --- modals ---

func (c *Controller) OpenCreate() { c.modals.Open(ModalCreate, nil) }

// CloseCreate keeps the selected item: create never set it, and a
// simultaneously open per-item modal may still be using it.
func (c *Controller) CloseCreate() { c.modals.Close(ModalCreate, false) }

func (c *Controller) OpenDelete(item api.Record)                  { c.modals.Open(ModalDelete, item) }
func (c *Controller) OpenModal(name string, item api.Record) bool { return c.modals.Open(name, item) }
func (c *Controller) CloseModal(name string)                      { c.modals.Close(name, true) }
func (c *Controller) CloseAllModals()                             { c.modals.CloseAll() }

// DetailFetch is the optional pre-edit "load the full record" step.
type DetailFetch struct {
	gateway *Gateway
	summary api.Record
}

// DetailResult carries the detailed record, or the summary to fall back to.
type DetailResult struct {
	Summary api.Record
	Detail  api.Record
	Err     error
}

// StartOpenEdit begins the edit flow for an item. Without the detail step
// (or without a show endpoint) the modal opens immediately and nil is
// returned; otherwise the returned DetailFetch must be run and applied.
func (c *Controller) StartOpenEdit(item api.Record) *DetailFetch {
	if !c.cfg.FetchDetailBeforeEdit || !c.cfg.Endpoints.CanShow() {
		c.modals.Open(ModalEdit, item)
		return nil
	}
	return &DetailFetch{gateway: c.gateway, summary: item}
}

func (d *DetailFetch) Do(ctx context.Context) DetailResult {
	detail, err := d.gateway.FetchDetail(ctx, d.summary.ID())
	return DetailResult{Summary: d.summary, Detail: detail, Err: err}
}

// ApplyDetail opens the edit modal with the detailed record, falling back to
// the already-known summary row when the detail call failed. The edit modal
// always opens; it just never opens empty.
func (c *Controller) ApplyDetail(res DetailResult) {
	if res.Err != nil || res.Detail == nil {
		c.cfg.Notifier.Error(c.cfg.Messages.DetailFailed)
		c.modals.Open(ModalEdit, res.Summary)
		return
	}
	c.modals.Open(ModalEdit, res.Detail)
}

// FetchDetail loads one full record through the show endpoint.
func (c *Controller) FetchDetail(ctx context.Context, id string) (api.Record, error) {
	return c.gateway.FetchDetail(ctx, id)
}

// OpenEdit is the blocking edit flow for scripted callers.
func (c *Controller) OpenEdit(ctx context.Context, item api.Record) {
	d := c.StartOpenEdit(item)
	if d == nil {
		return
	}
	c.ApplyDetail(d.Do(ctx))
}

// --- mutations ---

// StartCreate, StartUpdate and StartDelete prepare a mutation (flipping the
// in-flight flag and clearing stale field errors); the returned Mutation's
// Do runs off-loop and FinishMutation folds the outcome back in.
func (c *Controller) StartCreate(data map[string]any) (*Mutation, error) {
	return c.gateway.StartCreate(data)
}

func (c *Controller) StartUpdate(id string, data map[string]any) (*Mutation, error) {
	return c.gateway.StartUpdate(id, data)
}

func (c *Controller) StartDelete(id string) (*Mutation, error) {
	return c.gateway.StartDelete(id)
}

// MutationOutcome is what FinishMutation hands back to the event loop.
type MutationOutcome struct {
	Item api.Record
	Err  error
	// Refresh is the post-success list fetch (nil on failure). It targets
	// the query active right now, not a locally patched item list, so the
	// refreshed page reflects exactly what the server returns for that
	// query.
	Refresh *Fetch
}

// FinishMutation applies a completed mutation: on failure it records field
// errors, fires the error notification and leaves the initiating modal open;
// on success it closes that modal, notifies, and starts the list refresh.
func (c *Controller) FinishMutation(res MutationResult) MutationOutcome {
	item, err := c.gateway.Apply(res)
	if err != nil {
		c.cfg.Notifier.Error(c.failureMessage(res.Op, err))
		return MutationOutcome{Err: err}
	}

	switch res.Op {
	case OpCreate:
		c.CloseCreate()
		c.cfg.Notifier.Success(c.cfg.Messages.Created)
	case OpUpdate:
		c.modals.Close(ModalEdit, true)
		c.cfg.Notifier.Success(c.cfg.Messages.Updated)
	case OpDelete:
		c.modals.Close(ModalDelete, true)
		c.cfg.Notifier.Success(c.cfg.Messages.Deleted)
	}
	return MutationOutcome{Item: item, Refresh: c.store.StartFetch()}
}

// failureMessage prefers the server's own message over the page default.
func (c *Controller) failureMessage(op MutationOp, err error) string {
	if msg := api.ErrorMessage(err); msg != "" {
		return msg
	}
	switch op {
	case OpCreate:
		return c.cfg.Messages.CreateFailed
	case OpUpdate:
		return c.cfg.Messages.UpdateFailed
	}
	return c.cfg.Messages.DeleteFailed
}

// CreateItem, UpdateItem and DeleteItem are the blocking flows used by the
// CLI and tests. They return the normalized item so callers can chain
// follow-ups keyed by the new id (e.g. an upload).
func (c *Controller) CreateItem(ctx context.Context, data map[string]any) (api.Record, error) {
	m, err := c.gateway.StartCreate(data)
	if err != nil {
		return nil, err
	}
	return c.finishBlocking(ctx, m)
}

func (c *Controller) UpdateItem(ctx context.Context, id string, data map[string]any) (api.Record, error) {
	m, err := c.gateway.StartUpdate(id, data)
	if err != nil {
		return nil, err
	}
	return c.finishBlocking(ctx, m)
}

func (c *Controller) DeleteItem(ctx context.Context, id string) error {
	m, err := c.gateway.StartDelete(id)
	if err != nil {
		return err
	}
	_, err = c.finishBlocking(ctx, m)
	return err
}

func (c *Controller) finishBlocking(ctx context.Context, m *Mutation) (api.Record, error) {
	out := c.FinishMutation(m.Do(ctx))
	if out.Err != nil {
		return nil, out.Err
	}
	c.store.Apply(out.Refresh.Do(ctx))
	return out.Item, nil
}
