package tui

import (
	"fmt"
	"strconv"
	"strings"

	"storekeep-cli/internal/resource"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "Loading…"
	}

	var body string
	switch m.view {
	case viewHome:
		body = m.viewHomePage()
	case viewList:
		body = m.viewListPage()
	}

	if m.showHelp {
		return m.placeCentered(renderModalBox(m.width, "Help",
			renderMarkdown(helpMarkdown, modalBodyWidth(m.width))))
	}
	if m.form != nil {
		return m.placeCentered(m.renderFormModal())
	}
	if m.confirmItem != nil {
		r, _ := m.activeResource()
		title := "Delete " + r.Singular
		label := m.confirmItem.Str("name")
		if label == "" {
			label = m.confirmItem.Str("title")
		}
		if label == "" {
			label = m.confirmItem.ID()
		}
		return m.placeCentered(renderConfirmModal(m.width, title,
			"Delete "+label+"? This cannot be undone.",
			"Delete", "Cancel", m.confirmFocus))
	}
	if m.detailItem != nil {
		return m.placeCentered(m.renderDetailModal())
	}
	if m.toggleItem != nil {
		return m.placeCentered(m.renderToggleModal())
	}

	footer := m.renderFooter()
	return body + "\n" + footer
}

func (m appModel) viewHomePage() string {
	title := lipgloss.NewStyle().Bold(true).Render("storekeep")
	sub := styleMuted().Render("admin console")

	var rows []string
	for i, r := range m.catalog {
		line := fmt.Sprintf("%d. %s", i+1, r.Title)
		if r.ReadOnly {
			line += styleMuted().Render("  (read-only)")
		}
		if i == m.homeIdx {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Bold(true).
				Render(" " + line + " ")
		} else {
			line = " " + line
		}
		rows = append(rows, line)
	}

	help := styleMuted().Render("j/k: move   enter: open   1-6: jump   ?: help   q: quit")
	return strings.Join([]string{
		"",
		"  " + title + "  " + sub,
		"",
		strings.Join(rows, "\n"),
		"",
		help,
	}, "\n")
}

func (m appModel) viewListPage() string {
	ctrl := m.controller(m.active)
	r, _ := m.activeResource()
	if ctrl == nil {
		return ""
	}

	header := m.renderHeader(r)
	table := m.renderTable(r)
	pager := m.renderPager()

	return strings.Join([]string{header, table, pager}, "\n")
}

// renderHeader shows the title and the shareable location, which stays in
// sync with the page's query at all times.
func (m appModel) renderHeader(r resource.Resource) string {
	ctrl := m.controller(m.active)
	title := lipgloss.NewStyle().Bold(true).Render(r.Title)

	loc := ctrl.Location().String()
	locLine := styleMuted().Render(loc)

	var state string
	switch {
	case ctrl.Loading() && !ctrl.HasData():
		state = styleMuted().Render("loading…")
	case ctrl.Loading():
		state = styleMuted().Render("refreshing…")
	case ctrl.Err() != nil:
		state = lipgloss.NewStyle().Foreground(colorError).Render("error: " + ctrl.Err().Error())
	}

	line := " " + title + "   " + locLine
	if state != "" {
		line += "   " + state
	}
	return "\n" + truncateLine(line, m.width) + "\n"
}

func (m appModel) renderTable(r resource.Resource) string {
	ctrl := m.controller(m.active)
	items := ctrl.Items()

	if len(items) == 0 {
		if ctrl.Loading() {
			return styleMuted().Render("  …")
		}
		if ctrl.Err() != nil {
			return styleMuted().Render("  Nothing to show. r retries.")
		}
		return styleMuted().Render("  No " + r.Name + " match this view.")
	}

	widths := m.columnWidths(r)

	headStyle := faintIfDark(lipgloss.NewStyle().Foreground(colorHeaderFg).Bold(true))
	head := " " + padCell("#", serialColWidth)
	for i, c := range r.Columns {
		head += "  " + padCell(c.Title, widths[i])
	}
	rows := []string{headStyle.Render(truncateLine(head, m.width))}

	for i, item := range items {
		line := " " + padCell(strconv.Itoa(ctrl.SerialNumber(i)), serialColWidth)
		for ci, c := range r.Columns {
			line += "  " + padCell(item.Str(c.Key), widths[ci])
		}
		line = truncateLine(line, m.width)
		if i == m.cursor {
			line = lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Render(line)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

const serialColWidth = 4

// columnWidths honors fixed widths and splits the rest evenly among flexible
// columns.
func (m appModel) columnWidths(r resource.Resource) []int {
	avail := m.width - serialColWidth - 3 // leading space + serial gap
	flexible := 0
	for _, c := range r.Columns {
		if c.Width > 0 {
			avail -= c.Width + 2
		} else {
			flexible++
			avail -= 2
		}
	}
	flexW := 16
	if flexible > 0 && avail/flexible > flexW {
		flexW = avail / flexible
	}
	widths := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		if c.Width > 0 {
			widths[i] = c.Width
		} else {
			widths[i] = flexW
		}
	}
	return widths
}

func (m appModel) renderPager() string {
	ctrl := m.controller(m.active)
	p := ctrl.Pagination()
	if p.Limit < 1 {
		q := ctrl.Query()
		p.Page, p.Limit = q.Page, q.Limit
	}
	line := fmt.Sprintf(" page %d", p.Page)
	if p.TotalPages > 0 {
		line = fmt.Sprintf(" page %d/%d · %d total", p.Page, p.TotalPages, p.TotalItems)
	}
	if s := ctrl.Query().Sort; s != "" {
		line += " · sort " + s
	}
	for _, f := range ctrl.Filters() {
		line += " · " + f.Key + "=" + f.Value
	}
	return "\n" + styleMuted().Render(truncateLine(line, m.width))
}

func (m appModel) renderFooter() string {
	if m.minibuffer != minibufferNone {
		prompt := "goto"
		if m.minibuffer == minibufferFilter {
			prompt = "filter"
		}
		line := " " + prompt + ": " + m.minibufferIn.View()
		hint := styleMuted().Render("  (" + m.minibufferHint + ")")
		return truncateLine(line+hint, m.width)
	}

	if m.toastText != "" {
		st := lipgloss.NewStyle().Foreground(colorSuccess)
		if m.toastErr {
			st = lipgloss.NewStyle().Foreground(colorError)
		}
		return truncateLine(" "+st.Render(m.toastText), m.width)
	}

	var keys string
	switch m.view {
	case viewHome:
		keys = " q: quit   ?: help"
	case viewList:
		keys = " [/]: page   g: goto   f: filter   s: sort   n: new   e: edit   d: delete   y: copy url   ?: help"
	}
	return styleMuted().Render(truncateLine(keys, m.width))
}

func (m appModel) renderFormModal() string {
	r, _ := m.activeResource()
	ctrl := m.controller(m.active)
	f := m.form

	title := "New " + r.Singular
	if f.mode == formEdit {
		title = "Edit " + r.Singular
	}

	bodyW := modalBodyWidth(m.width)
	fieldErrs := ctrl.FieldErrors()

	var parts []string
	labelStyle := lipgloss.NewStyle().Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(colorError)
	for i, fld := range f.fields {
		label := fld.label
		if fld.required {
			label += " *"
		}
		parts = append(parts, labelStyle.Render(label))
		parts = append(parts, renderInputLine(bodyW, fld.input.View()))
		if msg, ok := fieldErrs[fld.key]; ok {
			parts = append(parts, errStyle.Render("  "+msg))
		}
		if i < len(f.fields)-1 {
			parts = append(parts, "")
		}
	}

	help := "tab: next field   ctrl+s: save   esc/ctrl+g: cancel"
	if ctrl.InFlight() {
		help = "saving…"
	}
	parts = append(parts, "", styleMuted().Width(bodyW).Render(help))
	return renderModalBox(m.width, title, strings.Join(parts, "\n"))
}

func (m appModel) renderDetailModal() string {
	r, _ := m.activeResource()
	item := m.detailItem

	var parts []string
	keyStyle := faintIfDark(lipgloss.NewStyle().Foreground(colorHeaderFg))
	for _, k := range item.Keys() {
		parts = append(parts, keyStyle.Render(k+": ")+item.Str(k))
	}
	parts = append(parts, "", styleMuted().Render("esc: close"))
	title := strings.ToUpper(r.Singular[:1]) + r.Singular[1:] + " " + item.Str("number")
	return renderModalBox(m.width, strings.TrimSpace(title), strings.Join(parts, "\n"))
}

func (m appModel) renderToggleModal() string {
	item := m.toggleItem
	verb := "Activate"
	if item.Str("active") == "true" {
		verb = "Deactivate"
	}
	body := verb + " " + item.Str("code") + "?" +
		"\n\n" + styleMuted().Render("enter/y: confirm   esc: cancel")
	return renderModalBox(m.width, verb+" discount", body)
}

const helpMarkdown = `## Navigation

- ` + "`j/k`" + ` move cursor
- ` + "`[ ]`" + ` previous / next page
- ` + "`g`" + ` go to page
- ` + "`H/L`" + ` history back / forward
- ` + "`esc`" + ` back to collections

## View

- ` + "`f`" + ` set a filter (key=value; empty value clears it)
- ` + "`F`" + ` clear all filters
- ` + "`s`" + ` cycle sort
- ` + "`r`" + ` refresh
- ` + "`y`" + ` copy the page URL

## Records

- ` + "`n`" + ` new record
- ` + "`e`" + ` edit selected
- ` + "`d`" + ` delete selected
- ` + "`enter`" + ` order detail
- ` + "`t`" + ` toggle discount

` + "`ctrl+c`" + ` quits.`

// truncateLine clamps a styled line to width columns, ANSI-aware.
func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

func padCell(s string, width int) string {
	if width < 1 {
		width = 1
	}
	w := xansi.StringWidth(s)
	if w > width {
		return truncateLine(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}
