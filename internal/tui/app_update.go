package tui

import (
	"strconv"
	"strings"

	"storekeep-cli/internal/api"
	"storekeep-cli/internal/listpage"
	"storekeep-cli/internal/nav"
	"storekeep-cli/internal/query"
	"storekeep-cli/internal/resource"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		return m, nil

	case toastDoneMsg:
		if msg.seq == m.toastSeq {
			m.toastText = ""
		}
		return m, nil

	case fetchDoneMsg:
		ctrl := m.controller(msg.resource)
		if ctrl == nil {
			return m, nil
		}
		applied := ctrl.Apply(msg.res)
		m.debugLogf("fetch done resource=%s applied=%v err=%v", msg.resource, applied, msg.res.Err())
		if applied && msg.resource == m.active {
			m.clampCursor()
		}
		return m, nil

	case detailDoneMsg:
		ctrl := m.controller(msg.resource)
		if ctrl == nil {
			return m, nil
		}
		ctrl.ApplyDetail(msg.res)
		cmd := m.drainToasts()
		// The edit modal is open now (with detail or summary); build the form.
		if msg.resource == m.active {
			m.openEditForm(ctrl.Selected())
		}
		return m, cmd

	case mutationDoneMsg:
		ctrl := m.controller(msg.resource)
		if ctrl == nil {
			return m, nil
		}
		out := ctrl.FinishMutation(msg.res)
		cmds := []tea.Cmd{m.drainToasts()}
		if out.Err == nil {
			// Success closed the modal; drop the matching local state.
			m.form = nil
			m.confirmItem = nil
			m.toggleItem = nil
			cmds = append(cmds, fetchCmd(msg.resource, out.Refresh))
		}
		m.debugLogf("mutation done resource=%s err=%v", msg.resource, out.Err)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.debugLogf("key view=%s str=%q", viewToString(m.view), k.String())

	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch k.String() {
		case "?", "esc", "q", "enter":
			m.showHelp = false
		}
		return m, nil
	}

	if m.minibuffer != minibufferNone {
		return m.handleMinibufferKey(k)
	}
	if m.form != nil {
		return m.handleFormKey(k)
	}
	if m.confirmItem != nil {
		return m.handleConfirmKey(k)
	}
	if m.detailItem != nil {
		switch k.String() {
		case "esc", "q", "enter":
			if ctrl := m.controller(m.active); ctrl != nil {
				ctrl.CloseModal("detail")
			}
			m.detailItem = nil
		}
		return m, nil
	}
	if m.toggleItem != nil {
		return m.handleToggleKey(k)
	}

	switch m.view {
	case viewHome:
		return m.handleHomeKey(k)
	case viewList:
		return m.handleListKey(k)
	}
	return m, nil
}

func (m appModel) handleHomeKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q", "esc":
		return m, tea.Quit
	case "j", "down", "ctrl+n":
		if m.homeIdx < len(m.catalog)-1 {
			m.homeIdx++
		}
	case "k", "up", "ctrl+p":
		if m.homeIdx > 0 {
			m.homeIdx--
		}
	case "enter", "l", "right":
		r := m.catalog[m.homeIdx]
		return m.openResource(r, "")
	case "?":
		m.showHelp = true
	default:
		// 1..6 jump straight to a collection.
		if n, err := strconv.Atoi(k.String()); err == nil && n >= 1 && n <= len(m.catalog) {
			return m.openResource(m.catalog[n-1], "")
		}
	}
	return m, nil
}

// openResource navigates to a resource's list page and starts its fetch.
func (m appModel) openResource(r resource.Resource, rawQuery string) (tea.Model, tea.Cmd) {
	m.enterList(r.Name)
	ctrl := m.controller(r.Name)
	loc := ctrl.Location()
	if rawQuery != "" {
		loc.RawQuery = rawQuery
	} else if loc.RawQuery == "" && m.pageSize > 0 && m.pageSize != query.DefaultLimit {
		loc.RawQuery = "limit=" + strconv.Itoa(m.pageSize)
	}
	m.history.Navigate(loc, nav.Push)
	f := ctrl.HandleLocation(m.history.Current())
	return m, fetchCmd(r.Name, f)
}

func (m appModel) handleListKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	r, ok := m.activeResource()
	if ctrl == nil || !ok {
		m.view = viewHome
		return m, nil
	}

	switch k.String() {
	case "q", "esc":
		m.view = viewHome
		return m, nil

	case "j", "down", "ctrl+n":
		if m.cursor < len(ctrl.Items())-1 {
			m.cursor++
		}
	case "k", "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}

	case "]", "right":
		return m.changePage(ctrl.Query().Page + 1)
	case "[", "left":
		return m.changePage(ctrl.Query().Page - 1)

	case "g":
		m.minibuffer = minibufferGotoPage
		m.minibufferHint = "page number"
		m.minibufferIn.SetValue("")
		m.minibufferIn.Focus()
		return m, nil

	case "f":
		m.minibuffer = minibufferFilter
		m.minibufferHint = "filter key=value (" + strings.Join(r.FilterKeys, ", ") + "); empty value clears"
		m.minibufferIn.SetValue("")
		m.minibufferIn.Focus()
		return m, nil

	case "F":
		ctrl.ResetFilters()
		return m.afterNavigate()

	case "s":
		return m.cycleSort(r)

	case "r":
		return m, fetchCmd(m.active, ctrl.Refresh())

	case "y":
		loc := ctrl.Location()
		if err := copyToClipboard(loc.String()); err != nil {
			return m, m.showToast("Copy failed: "+err.Error(), true)
		}
		return m, m.showToast("Copied "+loc.String(), false)

	case "H":
		if m.history.Back() {
			return m.routeLocation()
		}
	case "L":
		if m.history.Forward() {
			return m.routeLocation()
		}

	case "n":
		if !ctrl.Endpoints().CanCreate() {
			return m, m.showToast(r.Title+" cannot be created here", true)
		}
		ctrl.OpenCreate()
		m.openCreateForm(r)
		return m, nil

	case "e":
		item := m.selectedRow(ctrl)
		if item == nil {
			return m, nil
		}
		if !ctrl.Endpoints().CanUpdate() {
			return m, m.showToast(r.Title+" are read-only", true)
		}
		d := ctrl.StartOpenEdit(item)
		if d == nil {
			m.openEditForm(ctrl.Selected())
			return m, nil
		}
		return m, detailCmd(m.active, d)

	case "d":
		item := m.selectedRow(ctrl)
		if item == nil {
			return m, nil
		}
		if !ctrl.Endpoints().CanDelete() {
			return m, m.showToast(r.Title+" are read-only", true)
		}
		ctrl.OpenDelete(item)
		m.confirmItem = item
		m.confirmFocus = confirmFocusCancel
		return m, nil

	case "enter":
		item := m.selectedRow(ctrl)
		if item == nil {
			return m, nil
		}
		if ctrl.OpenModal("detail", item) {
			m.detailItem = item
		}
		return m, nil

	case "t":
		item := m.selectedRow(ctrl)
		if item == nil {
			return m, nil
		}
		if ctrl.OpenModal("toggle", item) {
			m.toggleItem = item
		}
		return m, nil

	case "?":
		m.showHelp = true
	}
	return m, nil
}

// changePage floors at 1 and caps at the last known page.
func (m appModel) changePage(n int) (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	if n < 1 {
		n = 1
	}
	if tp := ctrl.Pagination().TotalPages; tp > 0 && n > tp {
		n = tp
	}
	if n == ctrl.Query().Page {
		return m, nil
	}
	ctrl.ChangePage(n)
	return m.afterNavigate()
}

// afterNavigate reacts to a location change made by a view mutator: the
// active page re-derives its query from the new location and refetches.
func (m appModel) afterNavigate() (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	f := ctrl.HandleLocation(m.history.Current())
	m.cursor = 0
	return m, fetchCmd(m.active, f)
}

// routeLocation follows history back/forward to whatever page the restored
// location addresses.
func (m appModel) routeLocation() (tea.Model, tea.Cmd) {
	loc := m.history.Current()
	r, ok := resource.ByPath(loc.Path)
	if !ok {
		m.view = viewHome
		return m, nil
	}
	if m.active != r.Name || m.view != viewList {
		m.enterList(r.Name)
	}
	ctrl := m.controller(r.Name)
	m.cursor = 0
	return m, fetchCmd(r.Name, ctrl.HandleLocation(loc))
}

// cycleSort steps none -> key1 asc -> key1 desc -> key2 asc -> ... -> none.
func (m appModel) cycleSort(r resource.Resource) (tea.Model, tea.Cmd) {
	if len(r.SortKeys) == 0 {
		return m, nil
	}
	ctrl := m.controller(m.active)
	switch {
	case m.sortIdx < 0:
		m.sortIdx = 0
		m.sortDesc = false
	case !m.sortDesc:
		m.sortDesc = true
	case m.sortIdx+1 < len(r.SortKeys):
		m.sortIdx++
		m.sortDesc = false
	default:
		m.sortIdx = -1
		m.sortDesc = false
	}
	if m.sortIdx < 0 {
		ctrl.UpdateSort("", "")
	} else {
		dir := "asc"
		if m.sortDesc {
			dir = "desc"
		}
		ctrl.UpdateSort(r.SortKeys[m.sortIdx], dir)
	}
	return m.afterNavigate()
}

// selectedRow is the record under the cursor, nil on an empty page.
func (m *appModel) selectedRow(ctrl *listpage.Controller) api.Record {
	items := ctrl.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil
	}
	return items[m.cursor]
}

func (m *appModel) clampCursor() {
	ctrl := m.controller(m.active)
	if ctrl == nil {
		return
	}
	if n := len(ctrl.Items()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) handleMinibufferKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "ctrl+g":
		m.minibuffer = minibufferNone
		m.minibufferIn.Blur()
		return m, nil
	case "enter":
		val := strings.TrimSpace(m.minibufferIn.Value())
		mode := m.minibuffer
		m.minibuffer = minibufferNone
		m.minibufferIn.Blur()
		return m.applyMinibuffer(mode, val)
	}
	var cmd tea.Cmd
	m.minibufferIn, cmd = m.minibufferIn.Update(k)
	return m, cmd
}

func (m appModel) applyMinibuffer(mode minibufferMode, val string) (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	if ctrl == nil || val == "" {
		return m, nil
	}
	switch mode {
	case minibufferGotoPage:
		n, err := strconv.Atoi(val)
		if err != nil {
			return m, m.showToast("Not a page number: "+val, true)
		}
		return m.changePage(n)
	case minibufferFilter:
		key, value, found := strings.Cut(val, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return m, m.showToast("Filters are key=value", true)
		}
		ctrl.UpdateFilters(query.Filter{Key: key, Value: strings.TrimSpace(value)})
		return m.afterNavigate()
	}
	return m, nil
}

func (m appModel) handleConfirmKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	dismiss := func() {
		ctrl.CloseModal(listpage.ModalDelete)
		m.confirmItem = nil
	}
	switch k.String() {
	case "esc", "ctrl+g", "n":
		dismiss()
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.startDelete()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.startDelete()
		}
		dismiss()
		return m, nil
	}
	return m, nil
}

func (m appModel) startDelete() (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	if ctrl.InFlight() || m.confirmItem == nil {
		return m, nil
	}
	mu, err := ctrl.StartDelete(m.confirmItem.ID())
	if err != nil {
		return m, m.showToast(err.Error(), true)
	}
	return m, mutationCmd(m.active, mu)
}

func (m appModel) handleToggleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	switch k.String() {
	case "esc", "ctrl+g", "n", "q":
		ctrl.CloseModal("toggle")
		m.toggleItem = nil
		return m, nil
	case "enter", "y", "t":
		if ctrl.InFlight() {
			return m, nil
		}
		next := "true"
		if m.toggleItem.Str("active") == "true" {
			next = "false"
		}
		mu, err := ctrl.StartUpdate(m.toggleItem.ID(), map[string]any{"active": next == "true"})
		if err != nil {
			return m, m.showToast(err.Error(), true)
		}
		return m, mutationCmd(m.active, mu)
	}
	return m, nil
}
