package listpage

import "storekeep-cli/internal/api"

// Built-in modal names. Every page gets these three; resources may declare
// additional custom names (an order detail view, a discount toggle, ...).
const (
	ModalCreate = "create"
	ModalEdit   = "edit"
	ModalDelete = "delete"
)

// Modals is the finite-state machine over a page's named modal set plus the
// single shared selected-item slot. Modals are not mutually exclusive: a
// detail modal may open a nested edit modal, and both agree on which record
// is in focus through the shared slot rather than through nesting.
type Modals struct {
	declared []string
	open     map[string]bool
	selected api.Record

	// onTransition runs after every open/close so the owner can clear
	// validation errors; stale messages must never leak across interactions.
	onTransition func()
}

// NewModals declares a page's modal set: the built-ins plus any custom
// names. Undeclared names are rejected by Open/Close.
func NewModals(custom ...string) *Modals {
	declared := append([]string{ModalCreate, ModalEdit, ModalDelete}, custom...)
	return &Modals{declared: declared, open: map[string]bool{}}
}

// SetTransitionHook installs the open/close side effect (field error
// clearing). Pass nil to remove it.
func (m *Modals) SetTransitionHook(fn func()) { m.onTransition = fn }

func (m *Modals) isDeclared(name string) bool {
	for _, d := range m.declared {
		if d == name {
			return true
		}
	}
	return false
}

// Open opens a named modal. A non-nil item becomes the selected item; the
// create modal has no subject and passes nil. Returns false for undeclared
// names.
func (m *Modals) Open(name string, item api.Record) bool {
	if !m.isDeclared(name) {
		return false
	}
	m.open[name] = true
	if item != nil {
		m.selected = item
	}
	m.transition()
	return true
}

// Close closes a named modal. clearItem controls whether the shared selected
// item is dropped: closing the create modal must keep it, since create never
// set it and another open modal may still be using it.
func (m *Modals) Close(name string, clearItem bool) bool {
	if !m.isDeclared(name) {
		return false
	}
	delete(m.open, name)
	if clearItem {
		m.selected = nil
	}
	m.transition()
	return true
}

// CloseAll returns the page to its all-closed, no-selection state.
func (m *Modals) CloseAll() {
	m.open = map[string]bool{}
	m.selected = nil
	m.transition()
}

func (m *Modals) transition() {
	if m.onTransition != nil {
		m.onTransition()
	}
}

func (m *Modals) IsOpen(name string) bool { return m.open[name] }

// AnyOpen reports whether any modal is currently open.
func (m *Modals) AnyOpen() bool { return len(m.open) > 0 }

// OpenNames lists open modals in declaration order (stable for rendering
// stacked overlays).
func (m *Modals) OpenNames() []string {
	var names []string
	for _, d := range m.declared {
		if m.open[d] {
			names = append(names, d)
		}
	}
	return names
}

// Selected returns the record currently in focus, or nil.
func (m *Modals) Selected() api.Record { return m.selected }
