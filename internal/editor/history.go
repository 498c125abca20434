package editor

import (
	"github.com/fattern/fattern-backend/internal/template"
)

// History is a linear undo/redo stack over whole-document snapshots.
// Snapshots are full clones, not diffs; the documents stay small enough that
// correctness wins over memory here. One push corresponds to one completed
// user gesture.
type History struct {
	past    []*template.Document
	present *template.Document
	future  []*template.Document
}

func NewHistory() *History {
	return &History{}
}

// Push installs a new present state. Any redo states are discarded.
func (h *History) Push(doc *template.Document) {
	if h.present != nil {
		h.past = append(h.past, h.present)
	}
	h.present = doc.Clone()
	h.future = nil
}

// Undo steps back one snapshot, or returns nil when there is nothing to
// undo.
func (h *History) Undo() *template.Document {
	if len(h.past) == 0 {
		return nil
	}
	if h.present != nil {
		h.future = append(h.future, h.present)
	}
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return h.present.Clone()
}

// Redo steps forward one snapshot, or returns nil when there is nothing to
// redo.
func (h *History) Redo() *template.Document {
	if len(h.future) == 0 {
		return nil
	}
	if h.present != nil {
		h.past = append(h.past, h.present)
	}
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return h.present.Clone()
}

// Present returns a copy of the current snapshot, or nil before the first
// push.
func (h *History) Present() *template.Document {
	return h.present.Clone()
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }
