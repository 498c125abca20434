package editor

import (
	"testing"

	"github.com/fattern/fattern-backend/internal/template"
)

func TestSnapToGrid(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{3, 0},
		{5, 10},
		{14, 10},
		{15, 20},
		{23, 20},
		{-4, 0},
	}
	for _, tc := range cases {
		if got := SnapToGrid(tc.in); got != tc.want {
			t.Errorf("SnapToGrid(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDragSubGridDeltaDoesNotMove(t *testing.T) {
	base := &template.ElementBase{ID: "el", X: 20, Y: 30}
	drag := StartDrag(100, 100, base)

	// 3 units at zoom 100% stays on the last grid-aligned value.
	pos := drag.Moved(103, 100, 1.0)
	if pos.X != 20 || pos.Y != 30 {
		t.Errorf("sub-grid drag moved element to %v", pos)
	}

	// One full grid unit moves exactly one grid unit.
	pos = drag.Moved(110, 100, 1.0)
	if pos.X != 30 || pos.Y != 30 {
		t.Errorf("full-grid drag = %v, want {30 30}", pos)
	}
}

func TestDragCompensatesZoom(t *testing.T) {
	base := &template.ElementBase{ID: "el", X: 0, Y: 0}
	drag := StartDrag(0, 0, base)

	// 20 screen pixels at 200% zoom is 10 document units.
	pos := drag.Moved(20, 0, 2.0)
	if pos.X != 10 {
		t.Errorf("zoom-compensated drag = %v, want x=10", pos)
	}
}

func TestDragClampsToOrigin(t *testing.T) {
	base := &template.ElementBase{ID: "el", X: 10, Y: 10}
	drag := StartDrag(0, 0, base)

	pos := drag.Moved(-100, -100, 1.0)
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("drag should clamp at 0,0, got %v", pos)
	}
}

func TestResizeFloors(t *testing.T) {
	base := &template.ElementBase{ID: "el", X: 100, Y: 100, Width: 200, Height: 100}
	resize := StartResize(HandleSE, 0, 0, base)

	rect := resize.Moved(-500, -500, 1.0)
	if rect.Width != MinWidth || rect.Height != MinHeight {
		t.Errorf("resize floor = %vx%v, want %vx%v", rect.Width, rect.Height, MinWidth, MinHeight)
	}
	if rect.X != 100 || rect.Y != 100 {
		t.Errorf("south-east resize must not move the origin, got %v,%v", rect.X, rect.Y)
	}
}

func TestResizeHandles(t *testing.T) {
	base := &template.ElementBase{ID: "el", X: 100, Y: 100, Width: 200, Height: 100}

	rect := StartResize(HandleE, 0, 0, base).Moved(50, 0, 1.0)
	if rect.Width != 250 || rect.X != 100 {
		t.Errorf("east resize = %+v", rect)
	}

	rect = StartResize(HandleW, 0, 0, base).Moved(50, 0, 1.0)
	if rect.Width != 150 || rect.X != 150 {
		t.Errorf("west resize = %+v", rect)
	}

	rect = StartResize(HandleN, 0, 0, base).Moved(0, -20, 1.0)
	if rect.Height != 120 || rect.Y != 80 {
		t.Errorf("north resize = %+v", rect)
	}

	rect = StartResize(HandleNW, 0, 0, base).Moved(20, 20, 1.0)
	if rect.Width != 180 || rect.Height != 80 || rect.X != 120 || rect.Y != 120 {
		t.Errorf("north-west resize = %+v", rect)
	}

	// A west-handle shrink past the floor keeps the right edge in place.
	rect = StartResize(HandleW, 0, 0, base).Moved(400, 0, 1.0)
	if rect.Width != MinWidth || rect.X != 100+200-MinWidth {
		t.Errorf("west floor = %+v", rect)
	}

	// Resize is zoom-compensated like dragging.
	rect = StartResize(HandleE, 0, 0, base).Moved(100, 0, 2.0)
	if rect.Width != 250 {
		t.Errorf("zoomed east resize = %+v", rect)
	}
}

func TestViewportZoomClamp(t *testing.T) {
	v := NewViewport()
	if v.Zoom != 100 {
		t.Fatalf("default zoom = %d", v.Zoom)
	}
	if got := v.WithZoom(10).Zoom; got != ZoomMin {
		t.Errorf("zoom below minimum = %d, want %d", got, ZoomMin)
	}
	if got := v.WithZoom(500).Zoom; got != ZoomMax {
		t.Errorf("zoom above maximum = %d, want %d", got, ZoomMax)
	}
	if got := v.WithZoom(150).Zoom; got != 150 {
		t.Errorf("in-range zoom = %d", got)
	}
}

func TestViewportPanSnapsToScaledGrid(t *testing.T) {
	v := NewViewport().WithZoom(200) // step = 10 * 2.0 = 20
	panned := v.WithPan(Point{X: 47, Y: -33})
	if panned.Pan.X != 40 || panned.Pan.Y != -40 {
		t.Errorf("pan = %+v, want {40 -40}", panned.Pan)
	}
}

func TestViewportAlignmentOffset(t *testing.T) {
	v := NewViewport() // zoom 100%, step 10
	off := v.AlignmentOffset(794, 1123)
	// 794/2 = 397 -> 397 mod 10 = 7; 1123/2 = 561.5 -> 1.5
	if off.X != 7 || off.Y != 1.5 {
		t.Errorf("alignment offset = %+v", off)
	}
}

func TestNudgeStep(t *testing.T) {
	if NudgeStep(false) != 1 || NudgeStep(true) != 10 {
		t.Error("nudge steps must be 1 and 10")
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	doc := &template.Document{
		Elements: template.ElementList{
			&template.TextElement{ElementBase: template.ElementBase{ID: "below", X: 0, Y: 0, Width: 100, Height: 100, ZIndex: 1}},
			&template.TextElement{ElementBase: template.ElementBase{ID: "above", X: 50, Y: 50, Width: 100, Height: 100, ZIndex: 2}},
		},
	}

	if el := HitTest(doc, 75, 75); el == nil || el.Base().ID != "above" {
		t.Errorf("overlap should hit the topmost element, got %v", el)
	}
	if el := HitTest(doc, 10, 10); el == nil || el.Base().ID != "below" {
		t.Errorf("non-overlapping area should hit the lower element, got %v", el)
	}
	if el := HitTest(doc, 500, 500); el != nil {
		t.Errorf("empty canvas should hit nothing, got %v", el)
	}
}

func TestHitTestTieBreaksByListOrder(t *testing.T) {
	doc := &template.Document{
		Elements: template.ElementList{
			&template.TextElement{ElementBase: template.ElementBase{ID: "first", X: 0, Y: 0, Width: 100, Height: 100, ZIndex: 1}},
			&template.TextElement{ElementBase: template.ElementBase{ID: "second", X: 0, Y: 0, Width: 100, Height: 100, ZIndex: 1}},
		},
	}
	if el := HitTest(doc, 50, 50); el == nil || el.Base().ID != "second" {
		t.Errorf("equal zIndex should resolve last-drawn-wins, got %v", el)
	}
}

func TestClassifyPointerDown(t *testing.T) {
	cases := []struct {
		name         string
		ev           PointerDown
		hasSelection bool
		want         Action
	}{
		{"middle button pans", PointerDown{Button: ButtonMiddle}, false, ActionPan},
		{"secondary button pans", PointerDown{Button: ButtonSecondary}, true, ActionPan},
		{"space modifier pans", PointerDown{Button: ButtonPrimary, SpaceHeld: true}, true, ActionPan},
		{"shift modifier pans", PointerDown{Button: ButtonPrimary, ShiftHeld: true}, false, ActionPan},
		{"background with no selection pans", PointerDown{Button: ButtonPrimary, OnBackground: true}, false, ActionPan},
		{"background with selection deselects", PointerDown{Button: ButtonPrimary, OnBackground: true}, true, ActionDeselect},
		{"element press selects", PointerDown{Button: ButtonPrimary}, false, ActionSelect},
	}
	for _, tc := range cases {
		if got := ClassifyPointerDown(tc.ev, tc.hasSelection); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
