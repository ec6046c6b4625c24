package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"storekeep-cli/internal/api"
	"storekeep-cli/internal/listpage"
	"storekeep-cli/internal/nav"
	"storekeep-cli/internal/resource"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	client   api.Client
	history  *nav.History
	catalog  []resource.Resource
	sink     *toastSink
	pageSize int

	// controllers are built lazily, one per resource, and share the history.
	controllers map[string]*listpage.Controller

	width  int
	height int
	// We treat the very first WindowSizeMsg as initial sizing rather than a
	// user-driven resize.
	seenWindowSize bool

	view view
	// homeIdx is the cursor on the resource index.
	homeIdx int
	// active is the resource whose list page is showing (viewList only).
	active string
	// cursor is the selected row on the list page.
	cursor int
	// sortIdx tracks position in the resource's sort cycle; -1 means unsorted.
	sortIdx  int
	sortDesc bool

	// form is non-nil while the create/edit modal is open.
	form *formState
	// confirm is set while the delete confirmation is open.
	confirmItem  api.Record
	confirmFocus confirmFocus

	// detailItem is shown in the read-only detail modal (orders).
	detailItem api.Record
	// toggleItem is shown in the activate/deactivate modal (discounts).
	toggleItem api.Record

	minibuffer     minibufferMode
	minibufferIn   textinput.Model
	minibufferHint string

	toastText string
	toastErr  bool
	toastSeq  int

	showHelp bool

	debugLogPath string
}

type modelOptions struct {
	client   api.Client
	pageSize int
	// at is the initial location ("/admin/posts?page=2"); empty starts at home.
	at string
}

func newAppModel(opts modelOptions) appModel {
	m := appModel{
		client:      opts.client,
		history:     nav.NewHistory(nav.Location{Path: "/"}),
		catalog:     resource.Catalog(),
		sink:        &toastSink{},
		pageSize:    opts.pageSize,
		controllers: map[string]*listpage.Controller{},
		view:        viewHome,
		sortIdx:     -1,
	}
	m.debugLogPath = strings.TrimSpace(os.Getenv("STOREKEEP_DEBUG_LOG"))

	m.minibufferIn = textinput.New()
	m.minibufferIn.CharLimit = 120

	if at := strings.TrimSpace(opts.at); at != "" {
		loc := nav.ParseLocation(at)
		if r, ok := resource.ByPath(loc.Path); ok {
			m.history.Navigate(loc, nav.Push)
			m.enterList(r.Name)
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.view == viewList {
		if ctrl := m.controllers[m.active]; ctrl != nil {
			return fetchCmd(m.active, ctrl.Refresh())
		}
	}
	return nil
}

// controller returns (building if needed) the page controller for a resource.
func (m *appModel) controller(name string) *listpage.Controller {
	if c, ok := m.controllers[name]; ok {
		return c
	}
	r, ok := resource.Lookup(name)
	if !ok {
		return nil
	}
	c := r.Controller(resource.Deps{
		Client:   m.client,
		Nav:      m.history,
		Notifier: m.sink,
	})
	m.controllers[name] = c
	return c
}

// enterList switches to a resource's list page without fetching; the caller
// dispatches the fetch command.
func (m *appModel) enterList(name string) {
	m.view = viewList
	m.active = name
	m.cursor = 0
	m.sortIdx = -1
	m.sortDesc = false
	_ = m.controller(name)
	if r, ok := resource.Lookup(name); ok {
		// Rehydrate the sort cycle position from the current location.
		ctrl := m.controllers[name]
		if field, dir := ctrl.Query().SortField(); field != "" {
			for i, k := range r.SortKeys {
				if k == field {
					m.sortIdx = i
					m.sortDesc = dir == "desc"
				}
			}
		}
	}
}

func (m *appModel) showToast(text string, isErr bool) tea.Cmd {
	m.toastText = text
	m.toastErr = isErr
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg { return toastDoneMsg{seq: seq} })
}

// drainToasts moves controller notifications into the status bar. Only the
// newest one is displayed; they are short-lived confirmations, not a log.
func (m *appModel) drainToasts() tea.Cmd {
	var cmd tea.Cmd
	for _, t := range m.sink.drain() {
		cmd = m.showToast(t.text, t.isErr)
	}
	return cmd
}

func (m *appModel) activeResource() (resource.Resource, bool) {
	return resource.Lookup(m.active)
}

func (m *appModel) debugLogf(format string, args ...any) {
	if m.debugLogPath == "" {
		return
	}
	f, err := os.OpenFile(m.debugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, time.Now().Format("15:04:05.000")+" "+format+"\n", args...)
}

// fetchCmd runs the list request off the update loop and reports back. All
// state writes stay in Update; the command only does I/O.
func fetchCmd(name string, f *listpage.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return fetchDoneMsg{resource: name, res: f.Do(context.Background())}
	}
}

func detailCmd(name string, d *listpage.DetailFetch) tea.Cmd {
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		return detailDoneMsg{resource: name, res: d.Do(context.Background())}
	}
}

func mutationCmd(name string, mu *listpage.Mutation) tea.Cmd {
	if mu == nil {
		return nil
	}
	return func() tea.Msg {
		return mutationDoneMsg{resource: name, res: mu.Do(context.Background())}
	}
}
