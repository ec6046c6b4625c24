package listpage

import (
	"testing"

	"storekeep-cli/internal/api"
)

func TestModals_CreateHasNoSubject(t *testing.T) {
	m := NewModals()
	m.Open(ModalCreate, nil)
	if !m.IsOpen(ModalCreate) {
		t.Fatalf("create should be open")
	}
	if m.Selected() != nil {
		t.Fatalf("create must not set the selected item")
	}
}

func TestModals_CloseCreateKeepsSelection(t *testing.T) {
	m := NewModals()
	item := api.Record{"id": "p1"}
	m.Open(ModalEdit, item)
	m.Open(ModalCreate, nil)

	// Closing create must not clobber the selection edit still relies on.
	m.Close(ModalCreate, false)
	if !m.IsOpen(ModalEdit) {
		t.Fatalf("edit should still be open")
	}
	if got := m.Selected(); got == nil || got.ID() != "p1" {
		t.Fatalf("selected = %v, want p1", got)
	}

	m.Close(ModalEdit, true)
	if m.Selected() != nil {
		t.Fatalf("closing edit should clear the selection")
	}
}

func TestModals_CloseAll(t *testing.T) {
	m := NewModals("detail")
	m.Open(ModalDelete, api.Record{"id": "x"})
	m.Open("detail", nil)
	m.CloseAll()
	if m.AnyOpen() || m.Selected() != nil {
		t.Fatalf("close all should reach the all-closed, no-selection state")
	}
}

func TestModals_UndeclaredNamesRejected(t *testing.T) {
	m := NewModals("detail")
	if m.Open("surprise", nil) {
		t.Fatalf("undeclared modal opened")
	}
	if !m.Open("detail", api.Record{"id": "o1"}) {
		t.Fatalf("declared custom modal should open")
	}
	if got := m.OpenNames(); len(got) != 1 || got[0] != "detail" {
		t.Fatalf("open names = %v", got)
	}
}

func TestModals_TransitionHookFiresOnOpenAndClose(t *testing.T) {
	m := NewModals()
	fired := 0
	m.SetTransitionHook(func() { fired++ })
	m.Open(ModalEdit, api.Record{"id": "a"})
	m.Close(ModalEdit, true)
	m.CloseAll()
	if fired != 3 {
		t.Fatalf("hook fired %d times, want 3", fired)
	}
}
