package listpage

import (
	"context"
	"fmt"
	"net/url"

	"storekeep-cli/internal/api"
)

// fakeCall records one request seen by the fake client.
type fakeCall struct {
	Method string
	Path   string
	Params url.Values
	Body   any
}

// fakeClient scripts backend responses and logs every call.
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

// listCalls counts GETs against the collection endpoint.
func (f *fakeClient) listCalls(path string) int {
	n := 0
	for _, c := range f.calls {
		if c.Method == "GET" && c.Path == path {
			n++
		}
	}
	return n
}

// listBody builds a {data, meta} collection response with n sequential items
// offset for the given page.
func listBody(page, limit, total, totalPages, n int) []byte {
	body := `{"data":[`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"id":"it-%d","name":"Item %d"}`, (page-1)*limit+i+1, (page-1)*limit+i+1)
	}
	body += fmt.Sprintf(`],"meta":{"page":%d,"limit":%d,"totalItems":%d,"totalPages":%d}}`, page, limit, total, totalPages)
	return []byte(body)
}

// fakeNotifier records toast texts.
type fakeNotifier struct {
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(msg string) { f.successes = append(f.successes, msg) }
func (f *fakeNotifier) Error(msg string)   { f.errors = append(f.errors, msg) }
