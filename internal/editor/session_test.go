package editor

import (
	"testing"

	"github.com/fattern/fattern-backend/internal/template"
)

func sessionDoc() *template.Document {
	return &template.Document{
		SchemaVersion: 1,
		Meta:          template.Meta{ID: "tpl_session", Name: "Session", Version: "1.0.0"},
		Page:          template.Page{Size: template.PageA4},
		Elements: template.ElementList{
			&template.TextElement{
				ElementBase: template.ElementBase{ID: "el_1", X: 20, Y: 30, Width: 100, Height: 40, ZIndex: 1},
				Content:     "hello",
			},
		},
	}
}

func TestSessionMoveIsOneGesture(t *testing.T) {
	s := NewSession(sessionDoc())

	if err := s.MoveElement("el_1", Point{X: 50, Y: 70}); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if base := s.Document().ElementByID("el_1").Base(); base.X != 50 || base.Y != 70 {
		t.Errorf("element at %v,%v after move", base.X, base.Y)
	}

	// One drag release, one history entry: a single undo restores the start.
	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if base := s.Document().ElementByID("el_1").Base(); base.X != 20 || base.Y != 30 {
		t.Errorf("undo did not restore position, at %v,%v", base.X, base.Y)
	}
	if s.Undo() {
		t.Error("nothing further to undo")
	}
}

func TestSessionAddAssignsUniqueIDs(t *testing.T) {
	s := NewSession(sessionDoc())

	first := s.AddElement(&template.ShapeElement{
		ElementBase: template.ElementBase{X: 0, Y: 0, Width: 100, Height: 10},
		ShapeType:   template.ShapeLine,
	})
	second := s.AddElement(&template.TextElement{
		ElementBase: template.ElementBase{X: 0, Y: 0, Width: 100, Height: 10},
		Content:     "x",
	})

	if first == "" || second == "" || first == second {
		t.Errorf("expected distinct generated ids, got %q and %q", first, second)
	}
	if s.Selection() != second {
		t.Errorf("newly added element should be selected, got %q", s.Selection())
	}

	doc := s.Document()
	// Shapes default to zIndex 0, everything else to 1.
	if doc.ElementByID(first).Base().ZIndex != 0 {
		t.Error("shape should keep zIndex 0")
	}
	if doc.ElementByID(second).Base().ZIndex != 1 {
		t.Error("text should default to zIndex 1")
	}
}

func TestSessionDeleteClearsSelection(t *testing.T) {
	s := NewSession(sessionDoc())
	s.Select("el_1")
	s.DeleteSelected()

	if s.Selection() != "" {
		t.Error("delete must clear the selection")
	}
	if s.Document().ElementByID("el_1") != nil {
		t.Error("element still present after delete")
	}

	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if s.Document().ElementByID("el_1") == nil {
		t.Error("undo should restore the deleted element")
	}
}

func TestSessionNudge(t *testing.T) {
	s := NewSession(sessionDoc())
	s.Select("el_1")

	s.NudgeSelected(1, 0, false)
	if base := s.Document().ElementByID("el_1").Base(); base.X != 21 {
		t.Errorf("nudge moved to x=%v, want 21", base.X)
	}

	s.NudgeSelected(0, -1, true)
	if base := s.Document().ElementByID("el_1").Base(); base.Y != 20 {
		t.Errorf("shift nudge moved to y=%v, want 20", base.Y)
	}

	// Nudging never goes below the canvas origin.
	for i := 0; i < 10; i++ {
		s.NudgeSelected(-1, 0, true)
	}
	if base := s.Document().ElementByID("el_1").Base(); base.X != 0 {
		t.Errorf("nudge clamped at %v, want 0", base.X)
	}
}

func TestSessionRedoDiscardedByNewEdit(t *testing.T) {
	s := NewSession(sessionDoc())

	s.MoveElement("el_1", Point{X: 50, Y: 30})
	s.Undo()
	s.MoveElement("el_1", Point{X: 90, Y: 30})

	if s.Redo() {
		t.Error("a new edit after undo must discard redo states")
	}
}

func TestSessionPointerDownSelection(t *testing.T) {
	s := NewSession(sessionDoc())

	if action := s.HandlePointerDown(PointerDown{X: 50, Y: 50, Button: ButtonPrimary}); action != ActionSelect {
		t.Fatalf("press on element = %v, want select", action)
	}
	if s.Selection() != "el_1" {
		t.Errorf("selection = %q", s.Selection())
	}

	// Press on empty canvas while something is selected deselects.
	if action := s.HandlePointerDown(PointerDown{X: 700, Y: 900, Button: ButtonPrimary}); action != ActionDeselect {
		t.Fatalf("press on background = %v, want deselect", action)
	}
	if s.Selection() != "" {
		t.Error("selection should be cleared")
	}

	// Same press with nothing selected starts a pan instead.
	if action := s.HandlePointerDown(PointerDown{X: 700, Y: 900, Button: ButtonPrimary}); action != ActionPan {
		t.Errorf("background press without selection = %v, want pan", action)
	}
}

func TestSessionUpdateElement(t *testing.T) {
	s := NewSession(sessionDoc())

	err := s.UpdateElement("el_1", func(el template.Element) {
		el.(*template.TextElement).Content = "changed"
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := s.Document().ElementByID("el_1").(*template.TextElement).Content; got != "changed" {
		t.Errorf("content = %q", got)
	}

	if err := s.UpdateElement("missing", func(template.Element) {}); err == nil {
		t.Error("updating a missing element should fail")
	}
}
