package listpage

import (
	"context"
	"errors"
	"fmt"

	"storekeep-cli/internal/api"
)

// ErrNotSupported is returned for operations the resource has no endpoint
// for. A missing endpoint is a missing capability, not a broken page.
var ErrNotSupported = errors.New("operation not configured for this resource")

// Endpoints declares which operations a resource supports. Only List is
// mandatory; any nil/empty member simply removes the capability.
type Endpoints struct {
	List   string
	Create string
	Update func(id string) string
	Delete func(id string) string
	Show   func(id string) string
}

func (e Endpoints) CanCreate() bool { return e.Create != "" }
func (e Endpoints) CanUpdate() bool { return e.Update != nil }
func (e Endpoints) CanDelete() bool { return e.Delete != nil }
func (e Endpoints) CanShow() bool   { return e.Show != nil }

// MutationState tracks the write side of a page: whether a mutation is in
// flight and the field-keyed validation errors of the last failed one.
// InFlight is a plain boolean; overlapping mutations are indistinguishable,
// which is fine because the UI disables the triggering control while true.
type MutationState struct {
	InFlight    bool
	FieldErrors map[string]string
}

// MutationOp identifies which write a Mutation performs.
type MutationOp int

const (
	OpCreate MutationOp = iota
	OpUpdate
	OpDelete
)

func (op MutationOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Gateway wraps the create/update/delete endpoints of one resource. Like the
// Store, its lifecycle is split: Start* flips state and returns the call,
// Do runs it off-loop, Apply folds the outcome back in. Field errors are
// cleared at the start of every mutation so stale validation messages never
// leak into the next attempt.
type Gateway struct {
	client    api.Client
	endpoints Endpoints
	transform func(api.Record) api.Record
	state     MutationState
}

func NewGateway(client api.Client, endpoints Endpoints, transform func(api.Record) api.Record) *Gateway {
	return &Gateway{client: client, endpoints: endpoints, transform: transform}
}

func (g *Gateway) State() MutationState { return g.state }

// ClearFieldErrors drops recorded validation errors. Called on every modal
// open/close transition.
func (g *Gateway) ClearFieldErrors() { g.state.FieldErrors = nil }

// Mutation is one prepared write call.
type Mutation struct {
	client api.Client
	op     MutationOp
	method string
	path   string
	body   any
	id     string
}

// MutationResult is a completed write, ready for Apply.
type MutationResult struct {
	Op   MutationOp
	ID   string
	Item api.Record
	Err  error
}

func (g *Gateway) StartCreate(data map[string]any) (*Mutation, error) {
	if !g.endpoints.CanCreate() {
		return nil, ErrNotSupported
	}
	g.begin()
	return &Mutation{client: g.client, op: OpCreate, method: "POST", path: g.endpoints.Create, body: data}, nil
}

func (g *Gateway) StartUpdate(id string, data map[string]any) (*Mutation, error) {
	if !g.endpoints.CanUpdate() {
		return nil, ErrNotSupported
	}
	g.begin()
	return &Mutation{client: g.client, op: OpUpdate, method: "PUT", path: g.endpoints.Update(id), body: data, id: id}, nil
}

func (g *Gateway) StartDelete(id string) (*Mutation, error) {
	if !g.endpoints.CanDelete() {
		return nil, ErrNotSupported
	}
	g.begin()
	return &Mutation{client: g.client, op: OpDelete, method: "DELETE", path: g.endpoints.Delete(id), id: id}, nil
}

func (g *Gateway) begin() {
	g.state.InFlight = true
	g.state.FieldErrors = nil
}

// Do performs the blocking HTTP call. Touches no gateway state.
func (m *Mutation) Do(ctx context.Context) MutationResult {
	res := MutationResult{Op: m.op, ID: m.id}

	var (
		resp *api.Response
		err  error
	)
	switch m.method {
	case "POST":
		resp, err = m.client.Post(ctx, m.path, m.body)
	case "PUT":
		resp, err = m.client.Put(ctx, m.path, m.body)
	case "DELETE":
		resp, err = m.client.Delete(ctx, m.path)
	default:
		err = fmt.Errorf("unsupported method %q", m.method)
	}
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", m.op, err)
		return res
	}
	if m.op != OpDelete {
		res.Item = api.NormalizeItem(resp.Body)
	}
	return res
}

// Apply folds a completed mutation into the gateway and returns the
// normalized item. InFlight clears on every path; on failure the server's
// field errors are recorded and the error returned so the caller's UI can
// keep the initiating modal open.
func (g *Gateway) Apply(res MutationResult) (api.Record, error) {
	g.state.InFlight = false
	if res.Err != nil {
		g.state.FieldErrors = api.FieldErrors(res.Err)
		return nil, res.Err
	}
	item := res.Item
	if g.transform != nil && item != nil {
		item = g.transform(item)
	}
	return item, nil
}

// FetchDetail loads the full record behind a summary row via the show
// endpoint. Used by the pre-edit detail step; not tracked as in-flight.
func (g *Gateway) FetchDetail(ctx context.Context, id string) (api.Record, error) {
	if !g.endpoints.CanShow() {
		return nil, ErrNotSupported
	}
	resp, err := g.client.Get(ctx, g.endpoints.Show(id), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch detail: %w", err)
	}
	item := api.NormalizeItem(resp.Body)
	if g.transform != nil && item != nil {
		item = g.transform(item)
	}
	return item, nil
}
