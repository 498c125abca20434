package editor

import (
	"testing"

	"github.com/fattern/fattern-backend/internal/template"
)

func docNamed(name string) *template.Document {
	return &template.Document{
		SchemaVersion: 1,
		Meta:          template.Meta{ID: "tpl_history", Name: name, Version: "1.0.0"},
		Page:          template.Page{Size: template.PageA4},
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	h := NewHistory()
	if got := h.Undo(); got != nil {
		t.Errorf("undo on empty history = %v, want nil", got)
	}
	if got := h.Redo(); got != nil {
		t.Errorf("redo on empty history = %v, want nil", got)
	}
}

func TestUndoCountMatchesPushes(t *testing.T) {
	h := NewHistory()
	const n = 5
	for i := 0; i < n; i++ {
		h.Push(docNamed(string(rune('a' + i))))
	}

	// n pushes allow exactly n-1 undos.
	for i := 0; i < n-1; i++ {
		if got := h.Undo(); got == nil {
			t.Fatalf("undo %d returned nil", i+1)
		}
	}
	if got := h.Undo(); got != nil {
		t.Errorf("undo past the first snapshot = %v, want nil", got)
	}
}

func TestUndoRedoSequence(t *testing.T) {
	h := NewHistory()
	h.Push(docNamed("one"))
	h.Push(docNamed("two"))
	h.Push(docNamed("three"))

	if got := h.Undo(); got == nil || got.Meta.Name != "two" {
		t.Fatalf("first undo = %v", got)
	}
	if got := h.Undo(); got == nil || got.Meta.Name != "one" {
		t.Fatalf("second undo = %v", got)
	}
	if got := h.Redo(); got == nil || got.Meta.Name != "two" {
		t.Fatalf("redo = %v", got)
	}
	if got := h.Redo(); got == nil || got.Meta.Name != "three" {
		t.Fatalf("second redo = %v", got)
	}
	if got := h.Redo(); got != nil {
		t.Errorf("redo past the newest snapshot = %v, want nil", got)
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(docNamed("one"))
	h.Push(docNamed("two"))

	if got := h.Undo(); got == nil || got.Meta.Name != "one" {
		t.Fatalf("undo = %v", got)
	}
	if !h.CanRedo() {
		t.Fatal("expected a redo state after undo")
	}

	h.Push(docNamed("fork"))
	if h.CanRedo() {
		t.Error("push must discard all redo states")
	}
	if got := h.Redo(); got != nil {
		t.Errorf("redo after push = %v, want nil", got)
	}
	if got := h.Undo(); got == nil || got.Meta.Name != "one" {
		t.Errorf("undo after fork = %v, want the pre-fork snapshot", got)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	h := NewHistory()
	doc := docNamed("original")
	h.Push(doc)

	// Mutating the pushed document must not reach the stored snapshot.
	doc.Meta.Name = "mutated"
	if got := h.Present(); got.Meta.Name != "original" {
		t.Errorf("snapshot shares state with the caller: %q", got.Meta.Name)
	}

	// Mutating a returned snapshot must not reach the stack either.
	h.Push(docNamed("second"))
	back := h.Undo()
	back.Meta.Name = "tampered"
	if got := h.Present(); got.Meta.Name != "original" {
		t.Errorf("returned snapshot shares state with the stack: %q", got.Meta.Name)
	}
}
