package listpage

import (
	"context"

	"storekeep-cli/internal/api"
	"storekeep-cli/internal/query"
)

// Pagination is the display pagination for a list page. Totals come verbatim
// from the server's response metadata, never recomputed locally, so a
// server-enforced page-size cap cannot desynchronize the footer.
type Pagination struct {
	Page       int
	Limit      int
	TotalItems int
	TotalPages int
}

// ListState is everything a list page renders: the current rows, whether a
// fetch is running, the last transport error, and pagination.
type ListState struct {
	Items   []api.Record
	Loading bool
	Err     error
	Page    Pagination
}

// StoreConfig configures a Store.
type StoreConfig struct {
	Client api.Client
	// Path is the collection endpoint, e.g. "/admin/products".
	Path string
	// Transform, when set, is applied to every fetched item.
	Transform func(api.Record) api.Record
}

// Store owns one list page's query and fetch lifecycle. Items are replaced
// wholesale on every applied fetch; on failure the previous items and
// pagination stay put (a stale table beats a blank one).
//
// The fetch lifecycle is split into StartFetch / Do / Apply so an event loop
// can run the blocking call off-loop while all state writes stay on it.
// Every fetch carries a sequence number; Apply discards any result that is
// not the most recently started fetch, so with overlapping fetches the
// displayed list always corresponds to the newest requested query, by
// request order rather than response arrival order.
type Store struct {
	cfg   StoreConfig
	q     query.Query
	state ListState
	seq   int
}

func NewStore(cfg StoreConfig) *Store {
	return &Store{cfg: cfg, q: query.New()}
}

func (s *Store) Query() query.Query { return s.q }
func (s *Store) State() ListState   { return s.state }

// SetQuery replaces the current query without fetching. The caller (the
// navigation event handler) is responsible for starting the next fetch, which
// keeps the location the single source of truth.
func (s *Store) SetQuery(q query.Query) { s.q = q }

// Fetch is one in-flight list request, bound to the query and sequence
// number captured at start time.
type Fetch struct {
	cfg StoreConfig
	seq int
	q   query.Query
}

// FetchResult is the outcome of a Fetch, ready to be applied on the owning
// loop.
type FetchResult struct {
	seq   int
	q     query.Query
	items []api.Record
	page  Pagination
	err   error
}

// Err exposes the transport error, if any, for callers that inspect results
// before applying them.
func (r FetchResult) Err() error { return r.err }

// StartFetch marks the store loading and returns the request to execute.
func (s *Store) StartFetch() *Fetch {
	s.seq++
	s.state.Loading = true
	return &Fetch{cfg: s.cfg, seq: s.seq, q: s.q}
}

// Do performs the blocking HTTP call and normalization. Safe to run off the
// owning loop; it touches no store state.
func (f *Fetch) Do(ctx context.Context) FetchResult {
	res := FetchResult{seq: f.seq, q: f.q}

	resp, err := f.cfg.Client.Get(ctx, f.cfg.Path, f.q.Values())
	if err != nil {
		res.err = err
		return res
	}

	items, meta, hasMeta := api.NormalizeList(resp.Body)
	if f.cfg.Transform != nil {
		for i, it := range items {
			items[i] = f.cfg.Transform(it)
		}
	}
	res.items = items
	res.page = paginationFrom(meta, hasMeta, f.q)
	return res
}

// Apply folds a completed fetch into the store and reports whether it was
// accepted. Results from superseded fetches are dropped without touching
// state (the newer fetch is still loading).
func (s *Store) Apply(res FetchResult) bool {
	if res.seq != s.seq {
		return false
	}
	s.state.Loading = false
	if res.err != nil {
		s.state.Err = res.err
		return true
	}
	s.state.Err = nil
	s.state.Items = res.items
	s.state.Page = res.page
	return true
}

// Load is the blocking composition of StartFetch/Do/Apply, used by the CLI,
// by post-mutation refreshes, and by tests. It returns the transport error
// (also recorded in state) so scripted callers can fail loudly.
func (s *Store) Load(ctx context.Context) error {
	f := s.StartFetch()
	res := f.Do(ctx)
	s.Apply(res)
	return res.err
}

// paginationFrom adopts server metadata verbatim. Totals are never invented
// locally: a meta-less endpoint (bare array) yields zero totals, and only the
// page and limit are carried over from the requested query so the footer can
// still say where it is.
func paginationFrom(meta api.Meta, hasMeta bool, q query.Query) Pagination {
	if !hasMeta {
		return Pagination{Page: q.Page, Limit: q.Limit}
	}
	p := Pagination{Page: meta.Page, Limit: meta.Limit, TotalItems: meta.TotalItems, TotalPages: meta.TotalPages}
	if p.Page == 0 {
		p.Page = q.Page
	}
	if p.Limit == 0 {
		p.Limit = q.Limit
	}
	return p
}
