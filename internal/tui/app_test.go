package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"storekeep-cli/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeCall struct {
	Method string
	Path   string
	Params url.Values
	Body   any
}

type fakeClient struct {
	calls   []fakeCall
	respond func(c fakeCall) (*api.Response, error)
}

func (f *fakeClient) do(c fakeCall) (*api.Response, error) {
	f.calls = append(f.calls, c)
	if f.respond == nil {
		return &api.Response{Status: 200, Body: []byte(`[]`)}, nil
	}
	return f.respond(c)
}

func (f *fakeClient) Get(_ context.Context, path string, params url.Values) (*api.Response, error) {
	return f.do(fakeCall{Method: "GET", Path: path, Params: params})
}

func (f *fakeClient) Post(_ context.Context, path string, body any) (*api.Response, error) {
	return f.do(fakeCall{Method: "POST", Path: path, Body: body})
}

func (f *fakeClient) Put(_ context.Context, path string, body any) (*api.Response, error) {
	return f.do(fakeCall{Method: "PUT", Path: path, Body: body})
}

func (f *fakeClient) Patch(_ context.Context, path string, body any) (*api.Response, error) {
	return f.do(fakeCall{Method: "PATCH", Path: path, Body: body})
}

func (f *fakeClient) Delete(_ context.Context, path string) (*api.Response, error) {
	return f.do(fakeCall{Method: "DELETE", Path: path})
}

func (f *fakeClient) listCalls(path string) int {
	n := 0
	for _, c := range f.calls {
		if c.Method == "GET" && c.Path == path {
			n++
		}
	}
	return n
}

// productsBody fakes a products page in the meta envelope.
func productsBody(page, limit, total int) []byte {
	totalPages := (total + limit - 1) / limit
	n := limit
	if page == totalPages {
		n = total - (page-1)*limit
	}
	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		id := (page-1)*limit + i + 1
		items = append(items, map[string]any{
			"id":     fmt.Sprintf("p%d", id),
			"name":   fmt.Sprintf("Product %02d", id),
			"sku":    fmt.Sprintf("SKU-%04d", id),
			"status": "active",
		})
	}
	b, _ := json.Marshal(map[string]any{
		"data": items,
		"meta": map[string]any{
			"page": page, "limit": limit, "totalItems": total, "totalPages": totalPages,
		},
	})
	return b
}

func pagedProducts(total int) func(c fakeCall) (*api.Response, error) {
	return func(c fakeCall) (*api.Response, error) {
		page, _ := strconv.Atoi(c.Params.Get("page"))
		limit, _ := strconv.Atoi(c.Params.Get("limit"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		return &api.Response{Status: 200, Body: productsBody(page, limit, total)}, nil
	}
}

func newTestModel(t *testing.T, respond func(c fakeCall) (*api.Response, error)) (appModel, *fakeClient) {
	t.Helper()
	fc := &fakeClient{respond: respond}
	m := newAppModel(modelOptions{client: fc})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mm.(appModel), fc
}

// press feeds a key and returns the updated model plus any command.
func press(t *testing.T, m appModel, key string) (appModel, tea.Cmd) {
	t.Helper()
	var k tea.KeyMsg
	switch key {
	case "enter":
		k = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		k = tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		k = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		k = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		k = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	mm, cmd := m.Update(k)
	return mm.(appModel), cmd
}

// runCmd executes a command tree, returning the prompt messages and dropping
// timers (toast expiry and the like) that would stall the test.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// settle applies every message a command produced back into the model,
// following chained commands until none remain.
func settle(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		mm, next := m.Update(msg)
		m = mm.(appModel)
		m = settle(t, m, next)
	}
	return m
}

func TestOpenResource_FetchesAndTracksLocation(t *testing.T) {
	m, fc := newTestModel(t, pagedProducts(37))

	m, cmd := press(t, m, "1")
	if m.view != viewList || m.active != "products" {
		t.Fatalf("view=%v active=%q", m.view, m.active)
	}
	if got := m.history.Current().Path; got != "/admin/products" {
		t.Fatalf("location path = %q", got)
	}

	m = settle(t, m, cmd)
	ctrl := m.controller("products")
	if len(ctrl.Items()) != 10 {
		t.Fatalf("items = %d, want 10", len(ctrl.Items()))
	}
	if p := ctrl.Pagination(); p.TotalItems != 37 || p.TotalPages != 4 {
		t.Fatalf("pagination = %+v", p)
	}
	if fc.listCalls("/admin/products") != 1 {
		t.Fatalf("list calls = %d, want 1", fc.listCalls("/admin/products"))
	}
	if got := ctrl.SerialNumber(0); got != 1 {
		t.Fatalf("serial(0) = %d", got)
	}
}

func TestPaging_UpdatesLocationAndSerials(t *testing.T) {
	m, _ := newTestModel(t, pagedProducts(37))
	m, cmd := press(t, m, "1")
	m = settle(t, m, cmd)

	m, cmd = press(t, m, "]")
	if got := m.history.Current().String(); got != "/admin/products?page=2" {
		t.Fatalf("location = %q", got)
	}
	m = settle(t, m, cmd)

	ctrl := m.controller("products")
	if got := ctrl.SerialNumber(0); got != 11 {
		t.Fatalf("serial(0) on page 2 = %d", got)
	}

	// Page floor: going back below 1 stays put, no extra fetch.
	m, cmd = press(t, m, "[")
	m = settle(t, m, cmd)
	m, cmd = press(t, m, "[")
	if cmd != nil {
		t.Fatalf("page 1 -> 0 should not navigate")
	}
}

func TestGotoPageMinibuffer(t *testing.T) {
	m, _ := newTestModel(t, pagedProducts(37))
	m, cmd := press(t, m, "1")
	m = settle(t, m, cmd)

	m, _ = press(t, m, "g")
	if m.minibuffer != minibufferGotoPage {
		t.Fatalf("minibuffer mode = %v", m.minibuffer)
	}
	m, _ = press(t, m, "3")
	m, cmd = press(t, m, "enter")
	if got := m.history.Current().String(); got != "/admin/products?page=3" {
		t.Fatalf("location = %q", got)
	}
	m = settle(t, m, cmd)
	if got := m.controller("products").SerialNumber(0); got != 21 {
		t.Fatalf("serial(0) on page 3 = %d", got)
	}
}

func TestFilterResetsPageThroughLocation(t *testing.T) {
	m, _ := newTestModel(t, pagedProducts(37))
	m, cmd := press(t, m, "1")
	m = settle(t, m, cmd)
	m, cmd = press(t, m, "]")
	m = settle(t, m, cmd)

	m, _ = press(t, m, "f")
	for _, r := range "status=active" {
		m, _ = press(t, m, string(r))
	}
	m, cmd = press(t, m, "enter")
	if got := m.history.Current().String(); got != "/admin/products?status=active" {
		t.Fatalf("location = %q (page must reset, filter must encode)", got)
	}
	m = settle(t, m, cmd)
}

func TestCreateForm_FieldErrorsStayInModal(t *testing.T) {
	m, fc := newTestModel(t, pagedProducts(3))
	m, cmd := press(t, m, "1")
	m = settle(t, m, cmd)

	fc.respond = func(c fakeCall) (*api.Response, error) {
		if c.Method == "POST" {
			return nil, api.NewRequestError(422, []byte(`{"message":"validation failed","errors":{"name":["The name field is required."]}}`))
		}
		return &api.Response{Status: 200, Body: productsBody(1, 10, 3)}, nil
	}

	m, _ = press(t, m, "n")
	if m.form == nil || m.form.mode != formCreate {
		t.Fatalf("create form should be open")
	}

	m, cmd = press(t, m, "ctrl+s")
	m = settle(t, m, cmd)

	if m.form == nil {
		t.Fatalf("form must stay open after a validation failure")
	}
	ctrl := m.controller("products")
	if got := ctrl.FieldErrors()["name"]; got != "The name field is required." {
		t.Fatalf("field error = %q", got)
	}
	if m.toastText == "" || !m.toastErr {
		t.Fatalf("expected an error toast, got %q", m.toastText)
	}
	// Failure must not refetch the list.
	if fc.listCalls("/admin/products") != 1 {
		t.Fatalf("list calls = %d, want 1", fc.listCalls("/admin/products"))
	}
}

func TestCreateForm_SuccessClosesAndRefreshes(t *testing.T) {
	m, fc := newTestModel(t, pagedProducts(3))
	m, cmd := press(t, m, "1")
	m = settle(t, m, cmd)

	fc.respond = func(c fakeCall) (*api.Response, error) {
		if c.Method == "POST" {
			return &api.Response{Status: 201, Body: []byte(`{"data":{"id":"p-new","name":"Widget"}}`)}, nil
		}
		return &api.Response{Status: 200, Body: productsBody(1, 10, 4)}, nil
	}

	m, _ = press(t, m, "n")
	for _, r := range "Widget" {
		m, _ = press(t, m, string(r))
	}
	m, cmd = press(t, m, "ctrl+s")
	m = settle(t, m, cmd)

	if m.form != nil {
		t.Fatalf("form should close on success")
	}
	if m.toastText != "Product created" || m.toastErr {
		t.Fatalf("toast = %q err=%v", m.toastText, m.toastErr)
	}
	// One initial list call plus exactly one refresh.
	if fc.listCalls("/admin/products") != 2 {
		t.Fatalf("list calls = %d, want 2", fc.listCalls("/admin/products"))
	}
	if p := m.controller("products").Pagination(); p.TotalItems != 4 {
		t.Fatalf("refreshed totalItems = %d, want 4", p.TotalItems)
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	m, fc := newTestModel(t, pagedProducts(3))
	m, cmd := press(t, m, "1")
	m = settle(t, m, cmd)

	fc.respond = func(c fakeCall) (*api.Response, error) {
		if c.Method == "DELETE" {
			return &api.Response{Status: 200, Body: []byte(`{"success":true}`)}, nil
		}
		return &api.Response{Status: 200, Body: productsBody(1, 10, 2)}, nil
	}

	m, _ = press(t, m, "d")
	if m.confirmItem == nil {
		t.Fatalf("confirm modal should be open")
	}
	// Esc cancels without a request.
	m, _ = press(t, m, "esc")
	if m.confirmItem != nil {
		t.Fatalf("esc should dismiss the confirm")
	}
	if len(fc.calls) != 1 {
		t.Fatalf("cancel must not hit the network: %d calls", len(fc.calls))
	}

	m, _ = press(t, m, "d")
	m, cmd = press(t, m, "y")
	m = settle(t, m, cmd)
	if m.confirmItem != nil {
		t.Fatalf("confirm should close after a successful delete")
	}
	if m.toastText != "Product deleted" {
		t.Fatalf("toast = %q", m.toastText)
	}
	if fc.listCalls("/admin/products") != 2 {
		t.Fatalf("list calls = %d, want 2", fc.listCalls("/admin/products"))
	}
}

func TestHistoryBackRefetches(t *testing.T) {
	m, _ := newTestModel(t, pagedProducts(37))
	m, cmd := press(t, m, "1")
	m = settle(t, m, cmd)
	m, cmd = press(t, m, "]")
	m = settle(t, m, cmd)

	m, cmd = press(t, m, "H")
	if got := m.history.Current().String(); got != "/admin/products" {
		t.Fatalf("after back, location = %q", got)
	}
	m = settle(t, m, cmd)
	if got := m.controller("products").SerialNumber(0); got != 1 {
		t.Fatalf("after back, serial(0) = %d", got)
	}

	m, cmd = press(t, m, "L")
	if got := m.history.Current().String(); got != "/admin/products?page=2" {
		t.Fatalf("after forward, location = %q", got)
	}
	m = settle(t, m, cmd)
}

func TestReadOnlyResourceRejectsMutationKeys(t *testing.T) {
	m, fc := newTestModel(t, func(c fakeCall) (*api.Response, error) {
		return &api.Response{Status: 200, Body: []byte(`{"data":[{"id":"o1","number":"ORD-01001","status":"paid"}],"meta":{"current_page":1,"per_page":10,"total":1,"lastPage":1}}`)}, nil
	})
	m, cmd := press(t, m, "5") // orders
	m = settle(t, m, cmd)
	if m.active != "orders" {
		t.Fatalf("active = %q", m.active)
	}

	before := len(fc.calls)
	m, _ = press(t, m, "n")
	m, _ = press(t, m, "d")
	if m.form != nil || m.confirmItem != nil {
		t.Fatalf("read-only resource opened a mutation modal")
	}
	if len(fc.calls) != before {
		t.Fatalf("read-only keys must not hit the network")
	}

	// The order detail modal still works.
	m, _ = press(t, m, "enter")
	if m.detailItem == nil {
		t.Fatalf("order detail modal should open")
	}
}

func TestStartAtLocation(t *testing.T) {
	fc := &fakeClient{respond: pagedProducts(37)}
	m := newAppModel(modelOptions{client: fc, at: "/admin/products?page=2"})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = mm.(appModel)

	if m.view != viewList || m.active != "products" {
		t.Fatalf("should start on the products list")
	}
	m = settle(t, m, m.Init())
	if got := m.controller("products").SerialNumber(0); got != 11 {
		t.Fatalf("serial(0) = %d, want 11", got)
	}
}
