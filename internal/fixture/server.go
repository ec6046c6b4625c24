package fixture

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the demo backend: six admin collections served with deliberately
// inconsistent response envelopes, the way a grown-over-time storefront API
// would. Each collection answers in a different accepted shape so the console
// normalizer gets exercised end to end.
type Server struct {
	store  *Store
	token  string
	logger *slog.Logger
}

type collectionSpec struct {
	// envelope selects the list/show response shape; see writeList.
	envelope string
	// required fields for create/update validation.
	required []string
	// readOnly collections reject mutations with 405.
	readOnly bool
}

var collections = map[string]collectionSpec{
	"products":  {envelope: "meta", required: []string{"name", "sku", "price"}},
	"posts":     {envelope: "laravel", required: []string{"title"}},
	"comics":    {envelope: "success", required: []string{"title"}},
	"banners":   {envelope: "bare"},
	"orders":    {envelope: "meta-snake", readOnly: true},
	"discounts": {envelope: "pagination", required: []string{"code", "amount"}},
}

// NewServer wires the fixture routes. token is optional; when set, requests
// must carry it as a bearer Authorization header.
func NewServer(store *Store, token string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{store: store, token: token, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.authenticate)

	r.Route("/admin/{collection}", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleShow)
			r.Put("/", s.handleUpdate)
			r.Patch("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"dur", time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) spec(w http.ResponseWriter, r *http.Request) (string, collectionSpec, bool) {
	name := chi.URLParam(r, "collection")
	spec, ok := collections[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "unknown collection " + name})
		return "", collectionSpec{}, false
	}
	return name, spec, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := s.spec(w, r)
	if !ok {
		return
	}
	q := listQueryFrom(r)
	items, total, err := s.store.List(name, q)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeList(w, spec.envelope, items, q, total)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := s.spec(w, r)
	if !ok {
		return
	}
	doc, found, err := s.store.Get(name, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": strings.TrimSuffix(name, "s") + " not found"})
		return
	}
	writeItem(w, http.StatusOK, spec.envelope, doc)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := s.spec(w, r)
	if !ok {
		return
	}
	if spec.readOnly {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": name + " are read-only"})
		return
	}
	doc, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	if errs := validate(doc, spec.required); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "validation failed",
			"errors":  errs,
		})
		return
	}
	created, err := s.store.Insert(name, doc)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeItem(w, http.StatusCreated, spec.envelope, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := s.spec(w, r)
	if !ok {
		return
	}
	if spec.readOnly {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": name + " are read-only"})
		return
	}
	doc, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	// Only fields present in the body are validated; updates are merges.
	var present []string
	for _, f := range spec.required {
		if _, ok := doc[f]; ok {
			present = append(present, f)
		}
	}
	if errs := validate(doc, present); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "validation failed",
			"errors":  errs,
		})
		return
	}
	updated, found, err := s.store.Update(name, chi.URLParam(r, "id"), doc)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": strings.TrimSuffix(name, "s") + " not found"})
		return
	}
	writeItem(w, http.StatusOK, spec.envelope, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name, spec, ok := s.spec(w, r)
	if !ok {
		return
	}
	if spec.readOnly {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": name + " are read-only"})
		return
	}
	found, err := s.store.Delete(name, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": strings.TrimSuffix(name, "s") + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid JSON body"})
		return nil, false
	}
	return doc, true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("fixture store error", "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error"})
}

func validate(doc map[string]any, required []string) map[string][]string {
	errs := map[string][]string{}
	for _, f := range required {
		v, ok := doc[f]
		if !ok || strings.TrimSpace(fieldString(v)) == "" {
			errs[f] = append(errs[f], "The "+f+" field is required.")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func listQueryFrom(r *http.Request) ListQuery {
	vals := r.URL.Query()
	q := ListQuery{Page: 1, Limit: 10, Filters: map[string]string{}}
	if n, err := strconv.Atoi(vals.Get("page")); err == nil && n >= 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(vals.Get("limit")); err == nil && n >= 1 {
		q.Limit = n
	}
	q.Sort = vals.Get("sort")
	for key := range vals {
		switch key {
		case "page", "limit", "sort":
		default:
			q.Filters[key] = vals.Get(key)
		}
	}
	return q
}

// writeList renders one of the envelope dialects. The variety is the point:
// every shape here is one the console normalizer must accept.
func writeList(w http.ResponseWriter, envelope string, items []map[string]any, q ListQuery, total int) {
	if items == nil {
		items = []map[string]any{}
	}
	totalPages := (total + q.Limit - 1) / q.Limit
	if totalPages < 1 {
		totalPages = 1
	}
	switch envelope {
	case "bare":
		writeJSON(w, http.StatusOK, items)
	case "laravel":
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"data":         items,
				"current_page": q.Page,
				"per_page":     q.Limit,
				"total":        total,
				"last_page":    totalPages,
			},
		})
	case "success":
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    items,
			"pagination": map[string]any{
				"current_page": q.Page,
				"per_page":     q.Limit,
				"total":        total,
				"last_page":    totalPages,
			},
		})
	case "meta-snake":
		writeJSON(w, http.StatusOK, map[string]any{
			"data": items,
			"meta": map[string]any{
				"current_page": q.Page,
				"per_page":     q.Limit,
				"total":        total,
				"lastPage":     totalPages,
			},
		})
	case "pagination":
		writeJSON(w, http.StatusOK, map[string]any{
			"data": items,
			"pagination": map[string]any{
				"page":       q.Page,
				"limit":      q.Limit,
				"totalItems": total,
				"totalPages": totalPages,
			},
		})
	default: // "meta"
		writeJSON(w, http.StatusOK, map[string]any{
			"data": items,
			"meta": map[string]any{
				"page":       q.Page,
				"limit":      q.Limit,
				"totalItems": total,
				"totalPages": totalPages,
			},
		})
	}
}

func writeItem(w http.ResponseWriter, status int, envelope string, doc map[string]any) {
	switch envelope {
	case "bare":
		writeJSON(w, status, doc)
	case "laravel":
		writeJSON(w, status, map[string]any{"data": map[string]any{"data": doc}})
	case "success":
		writeJSON(w, status, map[string]any{"success": true, "data": doc})
	default:
		writeJSON(w, status, map[string]any{"data": doc})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure here means the client
	// went away, so there is nothing useful left to report.
	_ = json.NewEncoder(w).Encode(body)
}
