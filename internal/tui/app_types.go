package tui

import (
	"storekeep-cli/internal/api"
	"storekeep-cli/internal/listpage"

	"github.com/charmbracelet/bubbles/textinput"
)

type view int

const (
	viewHome view = iota
	viewList
)

func viewToString(v view) string {
	switch v {
	case viewHome:
		return "home"
	case viewList:
		return "list"
	}
	return "?"
}

// minibufferMode is what the single-line prompt at the bottom is collecting.
type minibufferMode int

const (
	minibufferNone minibufferMode = iota
	minibufferGotoPage
	minibufferFilter
)

// formMode distinguishes the create and edit uses of the record form modal.
type formMode int

const (
	formCreate formMode = iota
	formEdit
)

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

// fetchDoneMsg carries a finished list request back to the update loop. The
// controller's own seq guard decides whether the result still applies; the
// resource name routes it when the user has already navigated elsewhere.
type fetchDoneMsg struct {
	resource string
	res      listpage.FetchResult
}

// detailDoneMsg is the detail prefetch finishing ahead of an edit form.
type detailDoneMsg struct {
	resource string
	res      listpage.DetailResult
}

// mutationDoneMsg is a create/update/delete round trip finishing.
type mutationDoneMsg struct {
	resource string
	res      listpage.MutationResult
}

// toastDoneMsg expires the status-bar toast. seq guards against an old timer
// clearing a newer toast.
type toastDoneMsg struct{ seq int }

type toast struct {
	text  string
	isErr bool
}

// toastSink implements listpage.Notifier. The controller notifies
// synchronously inside Update, so the model drains pending after each call.
type toastSink struct {
	pending []toast
}

func (t *toastSink) Success(msg string) { t.pending = append(t.pending, toast{text: msg}) }
func (t *toastSink) Error(msg string)   { t.pending = append(t.pending, toast{text: msg, isErr: true}) }

func (t *toastSink) drain() []toast {
	out := t.pending
	t.pending = nil
	return out
}

// formState is the record form modal (create and edit share it).
type formState struct {
	mode   formMode
	fields []formField
	focus  int
	// itemID is set in edit mode.
	itemID string
}

type formField struct {
	key      string
	label    string
	required bool
	input    textinput.Model
}

// values collects the form into a mutation payload. Numeric-looking values
// stay strings; the backend coerces.
func (f *formState) values() api.Record {
	rec := api.Record{}
	for _, fld := range f.fields {
		rec[fld.key] = fld.input.Value()
	}
	return rec
}
