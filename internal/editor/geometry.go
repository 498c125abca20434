package editor

import (
	"math"

	"github.com/fattern/fattern-backend/internal/template"
)

// Interactive editing constants. The minimum size exists only here; the
// document model itself accepts any non-negative geometry.
const (
	GridUnit  = 10.0
	MinWidth  = 50.0
	MinHeight = 20.0
	ZoomMin   = 50
	ZoomMax   = 200
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the canvas view state: zoom as a percentage and pan as the
// pixel offset of the canvas center from the viewport center.
type Viewport struct {
	Zoom int   `json:"zoom"`
	Pan  Point `json:"pan"`
}

func NewViewport() Viewport {
	return Viewport{Zoom: 100}
}

// Factor is the zoom as a scale factor.
func (v Viewport) Factor() float64 {
	return float64(v.Zoom) / 100
}

// WithZoom clamps the zoom into the supported range.
func (v Viewport) WithZoom(zoom int) Viewport {
	if zoom < ZoomMin {
		zoom = ZoomMin
	}
	if zoom > ZoomMax {
		zoom = ZoomMax
	}
	v.Zoom = zoom
	return v
}

// WithPan snaps the pan per-axis to the grid unit scaled by the zoom factor,
// so the rendered grid lines stay visually stable while panning.
func (v Viewport) WithPan(pan Point) Viewport {
	step := GridUnit * v.Factor()
	v.Pan = Point{
		X: math.Round(pan.X/step) * step,
		Y: math.Round(pan.Y/step) * step,
	}
	return v
}

// AlignmentOffset returns the per-axis offset that makes the canvas edges
// land on grid lines regardless of the canvas pixel size.
func (v Viewport) AlignmentOffset(canvasWidth, canvasHeight float64) Point {
	step := GridUnit * v.Factor()
	return Point{
		X: math.Mod(canvasWidth*v.Factor()/2, step),
		Y: math.Mod(canvasHeight*v.Factor()/2, step),
	}
}

// SnapToGrid snaps a document-space coordinate to the nearest grid multiple.
func SnapToGrid(value float64) float64 {
	return math.Round(value/GridUnit) * GridUnit
}

// Handle identifies one of the eight resize handles.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Drag tracks an element drag from pointer-down. All pointer coordinates are
// viewport pixels; Moved converts them to document space via the zoom factor
// and snaps the result to the grid.
type Drag struct {
	StartX, StartY float64 // pointer position at pointer-down
	OriginX        float64 // element position at pointer-down
	OriginY        float64
}

func StartDrag(pointerX, pointerY float64, base *template.ElementBase) Drag {
	return Drag{StartX: pointerX, StartY: pointerY, OriginX: base.X, OriginY: base.Y}
}

// Moved returns the grid-snapped element position for the current pointer
// position.
func (d Drag) Moved(pointerX, pointerY, zoomFactor float64) Point {
	dx := (pointerX - d.StartX) / zoomFactor
	dy := (pointerY - d.StartY) / zoomFactor
	x := SnapToGrid(d.OriginX + dx)
	y := SnapToGrid(d.OriginY + dy)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Point{X: x, Y: y}
}

// Resize tracks a handle drag. Width and height are floored at MinWidth and
// MinHeight while resizing.
type Resize struct {
	Handle         Handle
	StartX, StartY float64
	OriginX        float64
	OriginY        float64
	OriginW        float64
	OriginH        float64
}

func StartResize(handle Handle, pointerX, pointerY float64, base *template.ElementBase) Resize {
	return Resize{
		Handle: handle,
		StartX: pointerX, StartY: pointerY,
		OriginX: base.X, OriginY: base.Y,
		OriginW: base.Width, OriginH: base.Height,
	}
}

// Rect is the resized element geometry.
type Rect struct {
	X, Y, Width, Height float64
}

// Moved computes the element rectangle for the current pointer position.
func (r Resize) Moved(pointerX, pointerY, zoomFactor float64) Rect {
	dx := (pointerX - r.StartX) / zoomFactor
	dy := (pointerY - r.StartY) / zoomFactor

	out := Rect{X: r.OriginX, Y: r.OriginY, Width: r.OriginW, Height: r.OriginH}

	switch r.Handle {
	case HandleE, HandleNE, HandleSE:
		out.Width = r.OriginW + dx
	case HandleW, HandleNW, HandleSW:
		out.Width = r.OriginW - dx
		out.X = r.OriginX + dx
	}
	switch r.Handle {
	case HandleS, HandleSE, HandleSW:
		out.Height = r.OriginH + dy
	case HandleN, HandleNE, HandleNW:
		out.Height = r.OriginH - dy
		out.Y = r.OriginY + dy
	}

	if out.Width < MinWidth {
		if out.X != r.OriginX {
			out.X = r.OriginX + r.OriginW - MinWidth
		}
		out.Width = MinWidth
	}
	if out.Height < MinHeight {
		if out.Y != r.OriginY {
			out.Y = r.OriginY + r.OriginH - MinHeight
		}
		out.Height = MinHeight
	}
	if out.X < 0 {
		out.X = 0
	}
	if out.Y < 0 {
		out.Y = 0
	}
	return out
}

// NudgeStep returns the keyboard-nudge distance: 1 unit, or 10 with shift.
// Nudges apply directly, without grid snapping.
func NudgeStep(shift bool) float64 {
	if shift {
		return 10
	}
	return 1
}

// HitTest returns the topmost element under a document-space point, or nil.
// Overlaps resolve last-drawn-wins, matching the paint order.
func HitTest(doc *template.Document, x, y float64) template.Element {
	order := doc.PaintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].Base().Contains(x, y) {
			return order[i]
		}
	}
	return nil
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PointerDown describes a pointer-down independent of any UI toolkit.
type PointerDown struct {
	X, Y         float64 // document-space position
	Button       Button
	SpaceHeld    bool
	ShiftHeld    bool
	OnBackground bool // true when the press did not land on an element or handle
}

// Action classifies what a pointer-down begins.
type Action int

const (
	ActionNone Action = iota
	ActionPan
	ActionDeselect
	ActionSelect
)

// ClassifyPointerDown decides between panning, deselecting and selecting.
// Middle or secondary button always pans, as does primary with a modifier.
// Primary on empty background pans when nothing is selected and deselects
// otherwise.
func ClassifyPointerDown(ev PointerDown, hasSelection bool) Action {
	if ev.Button == ButtonMiddle || ev.Button == ButtonSecondary {
		return ActionPan
	}
	if ev.SpaceHeld || ev.ShiftHeld {
		return ActionPan
	}
	if ev.OnBackground {
		if hasSelection {
			return ActionDeselect
		}
		return ActionPan
	}
	return ActionSelect
}
