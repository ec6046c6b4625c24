package tui

import (
	"storekeep-cli/internal/api"
	"storekeep-cli/internal/listpage"
	"storekeep-cli/internal/resource"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// openCreateForm builds an empty record form. The controller modal is already
// open; this is the local input state for it.
func (m *appModel) openCreateForm(r resource.Resource) {
	m.form = newFormState(r, formCreate, nil)
}

// openEditForm seeds the form from the (possibly detail-fetched) record.
func (m *appModel) openEditForm(item api.Record) {
	r, ok := m.activeResource()
	if !ok || item == nil {
		return
	}
	m.form = newFormState(r, formEdit, item)
}

func newFormState(r resource.Resource, mode formMode, item api.Record) *formState {
	f := &formState{mode: mode}
	if item != nil {
		f.itemID = item.ID()
	}
	for i, fld := range r.Fields {
		in := textinput.New()
		in.Placeholder = fld.Placeholder
		in.CharLimit = 240
		if item != nil {
			in.SetValue(item.Str(fld.Key))
		}
		if i == 0 {
			in.Focus()
		}
		f.fields = append(f.fields, formField{
			key:      fld.Key,
			label:    fld.Label,
			required: fld.Required,
			input:    in,
		})
	}
	return f
}

func (f *formState) focusField(idx int) {
	for i := range f.fields {
		if i == idx {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	f.focus = idx
}

func (m appModel) handleFormKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	f := m.form

	switch k.String() {
	case "esc", "ctrl+g":
		if f.mode == formCreate {
			ctrl.CloseCreate()
		} else {
			ctrl.CloseModal(listpage.ModalEdit)
		}
		m.form = nil
		return m, nil

	case "tab", "down":
		f.focusField((f.focus + 1) % len(f.fields))
		return m, nil
	case "shift+tab", "up":
		f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
		return m, nil

	case "ctrl+s", "enter":
		if k.String() == "enter" && f.focus < len(f.fields)-1 {
			// Enter advances until the last field; ctrl+s submits from anywhere.
			f.focusField(f.focus + 1)
			return m, nil
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(k)
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	ctrl := m.controller(m.active)
	if ctrl.InFlight() {
		return m, nil
	}
	f := m.form
	var (
		mu  *listpage.Mutation
		err error
	)
	if f.mode == formCreate {
		mu, err = ctrl.StartCreate(f.values())
	} else {
		mu, err = ctrl.StartUpdate(f.itemID, f.values())
	}
	if err != nil {
		return m, m.showToast(err.Error(), true)
	}
	return m, mutationCmd(m.active, mu)
}
