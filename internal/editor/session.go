package editor

import (
	"fmt"

	"github.com/fattern/fattern-backend/internal/template"

	"github.com/google/uuid"
)

// Session is a single-editor editing session over one document. Every
// mutation replaces the whole document and lands as exactly one history
// push per completed gesture; nothing mutates the committed document in
// place.
type Session struct {
	doc       *template.Document
	history   *History
	viewport  Viewport
	selection string
}

func NewSession(doc *template.Document) *Session {
	s := &Session{
		doc:      doc.Clone(),
		history:  NewHistory(),
		viewport: NewViewport(),
	}
	s.history.Push(s.doc)
	return s
}

// Document returns a copy of the current document.
func (s *Session) Document() *template.Document {
	return s.doc.Clone()
}

func (s *Session) Viewport() Viewport { return s.viewport }

func (s *Session) SetViewport(v Viewport) { s.viewport = v }

func (s *Session) Selection() string { return s.selection }

func (s *Session) Select(id string) { s.selection = id }

func (s *Session) Deselect() { s.selection = "" }

func (s *Session) History() *History { return s.history }

// commit installs a mutated copy of the document as the new state and pushes
// one history snapshot.
func (s *Session) commit(mutate func(doc *template.Document)) {
	next := s.doc.Clone()
	mutate(next)
	s.doc = next
	s.history.Push(next)
}

// NewElementID returns a fresh globally unique element id.
func NewElementID() string {
	return "el_" + uuid.New().String()
}

// AddElement appends an element, assigning a fresh id when none is set, and
// selects it.
func (s *Session) AddElement(el template.Element) string {
	el = template.CloneElement(el)
	base := el.Base()
	if base.ID == "" {
		base.ID = NewElementID()
	}
	if base.ZIndex == 0 && el.Kind() != template.KindShape {
		base.ZIndex = 1
	}
	id := base.ID
	s.commit(func(doc *template.Document) {
		doc.Elements = append(doc.Elements, el)
	})
	s.selection = id
	return id
}

// MoveElement commits a completed drag: one history entry per drag release.
func (s *Session) MoveElement(id string, pos Point) error {
	if s.doc.ElementByID(id) == nil {
		return fmt.Errorf("element %s not found", id)
	}
	s.commit(func(doc *template.Document) {
		base := doc.ElementByID(id).Base()
		base.X = pos.X
		base.Y = pos.Y
	})
	return nil
}

// ResizeElement commits a completed resize.
func (s *Session) ResizeElement(id string, rect Rect) error {
	if s.doc.ElementByID(id) == nil {
		return fmt.Errorf("element %s not found", id)
	}
	s.commit(func(doc *template.Document) {
		base := doc.ElementByID(id).Base()
		base.X = rect.X
		base.Y = rect.Y
		base.Width = rect.Width
		base.Height = rect.Height
	})
	return nil
}

// NudgeSelected moves the selected element by the keyboard step. Callers must
// suppress this while focus is inside a text input.
func (s *Session) NudgeSelected(dx, dy float64, shift bool) {
	if s.selection == "" || s.doc.ElementByID(s.selection) == nil {
		return
	}
	step := NudgeStep(shift)
	id := s.selection
	s.commit(func(doc *template.Document) {
		base := doc.ElementByID(id).Base()
		base.X += dx * step
		base.Y += dy * step
		if base.X < 0 {
			base.X = 0
		}
		if base.Y < 0 {
			base.Y = 0
		}
	})
}

// DeleteSelected removes the selected element and clears the selection.
func (s *Session) DeleteSelected() {
	if s.selection == "" {
		return
	}
	id := s.selection
	if s.doc.ElementByID(id) == nil {
		s.selection = ""
		return
	}
	s.commit(func(doc *template.Document) {
		out := doc.Elements[:0]
		for _, el := range doc.Elements {
			if el.Base().ID != id {
				out = append(out, el)
			}
		}
		doc.Elements = out
	})
	s.selection = ""
}

// UpdateElement commits a property edit applied by the callback.
func (s *Session) UpdateElement(id string, apply func(template.Element)) error {
	if s.doc.ElementByID(id) == nil {
		return fmt.Errorf("element %s not found", id)
	}
	s.commit(func(doc *template.Document) {
		apply(doc.ElementByID(id))
	})
	return nil
}

// Undo restores the previous snapshot, if any, and clears a selection that
// no longer resolves.
func (s *Session) Undo() bool {
	doc := s.history.Undo()
	if doc == nil {
		return false
	}
	s.doc = doc
	s.pruneSelection()
	return true
}

// Redo restores the next snapshot, if any.
func (s *Session) Redo() bool {
	doc := s.history.Redo()
	if doc == nil {
		return false
	}
	s.doc = doc
	s.pruneSelection()
	return true
}

func (s *Session) pruneSelection() {
	if s.selection != "" && s.doc.ElementByID(s.selection) == nil {
		s.selection = ""
	}
}

// HandlePointerDown dispatches a pointer-down: selects the topmost element
// under the point, starts a pan, or deselects.
func (s *Session) HandlePointerDown(ev PointerDown) Action {
	hit := HitTest(s.doc, ev.X, ev.Y)
	ev.OnBackground = hit == nil
	action := ClassifyPointerDown(ev, s.selection != "")
	switch action {
	case ActionSelect:
		s.selection = hit.Base().ID
	case ActionDeselect:
		s.selection = ""
	}
	return action
}
