package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewRequestError_ErrorsMap(t *testing.T) {
	e := NewRequestError(422, []byte(`{"message":"validation failed","errors":{"name":["required","too short"],"price":"must be positive"}}`))
	if e.Message != "validation failed" {
		t.Fatalf("message = %q", e.Message)
	}
	if e.Fields["name"] != "required" {
		t.Fatalf("array-valued field should take its first element, got %q", e.Fields["name"])
	}
	if e.Fields["price"] != "must be positive" {
		t.Fatalf("fields = %v", e.Fields)
	}
}

func TestNewRequestError_FlatBody(t *testing.T) {
	e := NewRequestError(400, []byte(`{"title":["required"]}`))
	if e.Fields["title"] != "required" {
		t.Fatalf("fields = %v", e.Fields)
	}
}

func TestNewRequestError_OpaqueBody(t *testing.T) {
	e := NewRequestError(502, []byte(`upstream timed out`))
	if e.Fields != nil {
		t.Fatalf("opaque body should carry no fields, got %v", e.Fields)
	}
	if e.Error() != "502: Bad Gateway" {
		t.Fatalf("Error() = %q", e.Error())
	}
}

func TestFieldErrors_Unwraps(t *testing.T) {
	base := NewRequestError(422, []byte(`{"errors":{"slug":["taken"]}}`))
	wrapped := fmt.Errorf("update post: %w", base)
	if got := FieldErrors(wrapped)["slug"]; got != "taken" {
		t.Fatalf("FieldErrors through wrap = %v", FieldErrors(wrapped))
	}
	if FieldErrors(errors.New("plain")) != nil {
		t.Fatalf("plain errors should yield nil fields")
	}
	if ErrorMessage(wrapped) != "" {
		t.Fatalf("no message expected, got %q", ErrorMessage(wrapped))
	}
}
