package template

import (
	"encoding/json"
	"fmt"
)

// SupportedSchemaVersion is the newest document schema this build understands.
// Documents declaring a higher version are rejected by the validator.
const SupportedSchemaVersion = 1

// DefaultTemplateID is the built-in template that can never be deleted.
const DefaultTemplateID = "default_invoice"

type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
)

// Pixel dimensions of the page canvas at 96 DPI-equivalent units.
var pageDimensions = map[PageSize][2]int{
	PageA4:     {794, 1123},
	PageLetter: {816, 1056},
}

// Dimensions returns the canvas width and height in pixels, or false for an
// unsupported size.
func (p PageSize) Dimensions() (width, height int, ok bool) {
	d, ok := pageDimensions[p]
	return d[0], d[1], ok
}

type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type Page struct {
	Size   PageSize `json:"size"`
	Margin Margin   `json:"margin"`
}

type Meta struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Author        string   `json:"author,omitempty"`
	AuthorURL     string   `json:"authorUrl,omitempty"`
	Version       string   `json:"version"`
	MinAppVersion string   `json:"minAppVersion,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	License       string   `json:"license,omitempty"`
	Premium       bool     `json:"premium,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

type Document struct {
	SchemaVersion int         `json:"schemaVersion"`
	Meta          Meta        `json:"meta"`
	Page          Page        `json:"page"`
	Elements      ElementList `json:"elements"`
}

// Clone returns a deep copy. Edits always go through whole-document
// replacement, so snapshots must not share element state.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Meta.Tags != nil {
		out.Meta.Tags = append([]string(nil), d.Meta.Tags...)
	}
	out.Elements = make(ElementList, len(d.Elements))
	for i, el := range d.Elements {
		out.Elements[i] = el.clone()
	}
	return &out
}

// CloneElement returns a deep copy of an element.
func CloneElement(el Element) Element {
	return el.clone()
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) Element {
	for _, el := range d.Elements {
		if el.Base().ID == id {
			return el
		}
	}
	return nil
}

// PaintOrder returns the elements sorted by ascending zIndex, ties broken by
// list position. Later entries paint over earlier ones.
func (d *Document) PaintOrder() []Element {
	out := make([]Element, len(d.Elements))
	copy(out, d.Elements)
	// Insertion sort keeps the tie order stable without pulling in sort.SliceStable
	// closures over two keys.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Base().ZIndex < out[j-1].Base().ZIndex; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

type ElementKind string

const (
	KindText  ElementKind = "text"
	KindField ElementKind = "field"
	KindImage ElementKind = "image"
	KindTable ElementKind = "table"
	KindShape ElementKind = "shape"
)

// KnownKinds lists every element kind the engine understands.
var KnownKinds = []ElementKind{KindText, KindField, KindImage, KindTable, KindShape}

// Element is the closed set of things a template can place on the page.
// Concrete types are TextElement, FieldElement, ImageElement, TableElement
// and ShapeElement; the renderer and validator switch exhaustively on them.
type Element interface {
	Kind() ElementKind
	Base() *ElementBase
	clone() Element
}

// ElementBase carries position, stacking and the shared style fields.
type ElementBase struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ZIndex int     `json:"zIndex"`

	BackgroundColor string   `json:"backgroundColor,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	BorderWidth     float64  `json:"borderWidth,omitempty"`
	BorderColor     string   `json:"borderColor,omitempty"`
	BorderStyle     string   `json:"borderStyle,omitempty"`
	BorderRadius    float64  `json:"borderRadius,omitempty"`
	PaddingTop      float64  `json:"paddingTop,omitempty"`
	PaddingRight    float64  `json:"paddingRight,omitempty"`
	PaddingBottom   float64  `json:"paddingBottom,omitempty"`
	PaddingLeft     float64  `json:"paddingLeft,omitempty"`
	BoxShadowX      float64  `json:"boxShadowX,omitempty"`
	BoxShadowY      float64  `json:"boxShadowY,omitempty"`
	BoxShadowBlur   float64  `json:"boxShadowBlur,omitempty"`
	BoxShadowColor  string   `json:"boxShadowColor,omitempty"`
}

func (b *ElementBase) Base() *ElementBase { return b }

func (b ElementBase) cloneBase() ElementBase {
	if b.Opacity != nil {
		v := *b.Opacity
		b.Opacity = &v
	}
	return b
}

// Contains reports whether a document-space point falls inside the element.
func (b *ElementBase) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// Typography groups the text styling shared by text and field elements.
type Typography struct {
	FontFamily     string  `json:"fontFamily,omitempty"`
	FontSize       float64 `json:"fontSize,omitempty"`
	FontWeight     string  `json:"fontWeight,omitempty"`
	Color          string  `json:"color,omitempty"`
	Align          string  `json:"align,omitempty"`
	LineHeight     float64 `json:"lineHeight,omitempty"`
	LetterSpacing  float64 `json:"letterSpacing,omitempty"`
	FontStyle      string  `json:"fontStyle,omitempty"`
	TextDecoration string  `json:"textDecoration,omitempty"`
	TextTransform  string  `json:"textTransform,omitempty"`
}

type TextElement struct {
	ElementBase
	Typography
	Content string `json:"content"`
}

func (e *TextElement) Kind() ElementKind { return KindText }
func (e *TextElement) clone() Element {
	c := *e
	c.ElementBase = e.ElementBase.cloneBase()
	return &c
}

type FieldElement struct {
	ElementBase
	Typography
	Binding string `json:"binding"`
}

func (e *FieldElement) Kind() ElementKind { return KindField }
func (e *FieldElement) clone() Element {
	c := *e
	c.ElementBase = e.ElementBase.cloneBase()
	return &c
}

type ImageElement struct {
	ElementBase
	Src                 string `json:"src"`
	PreserveAspectRatio bool   `json:"preserveAspectRatio"`
}

func (e *ImageElement) Kind() ElementKind { return KindImage }
func (e *ImageElement) clone() Element {
	c := *e
	c.ElementBase = e.ElementBase.cloneBase()
	return &c
}

type TableColumn struct {
	Header string  `json:"header"`
	Field  string  `json:"field"`
	Width  float64 `json:"width,omitempty"`
	Align  string  `json:"align,omitempty"`
}

type TableElement struct {
	ElementBase
	Binding string        `json:"binding"`
	Columns []TableColumn `json:"columns"`
	// Rows past MaxRows are dropped; the renderer does not continue a table
	// onto another page.
	MaxRows         int     `json:"maxRows,omitempty"`
	RowHeight       float64 `json:"rowHeight,omitempty"`
	HeaderBgColor   string  `json:"headerBgColor,omitempty"`
	HeaderTextColor string  `json:"headerTextColor,omitempty"`
	RowBgColor      string  `json:"rowBgColor,omitempty"`
	RowTextColor    string  `json:"rowTextColor,omitempty"`
}

func (e *TableElement) Kind() ElementKind { return KindTable }
func (e *TableElement) clone() Element {
	c := *e
	c.ElementBase = e.ElementBase.cloneBase()
	c.Columns = append([]TableColumn(nil), e.Columns...)
	return &c
}

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeLine      ShapeKind = "line"
	ShapeCircle    ShapeKind = "circle"
)

type ShapeElement struct {
	ElementBase
	ShapeType ShapeKind `json:"shapeType"`
}

func (e *ShapeElement) Kind() ElementKind { return KindShape }
func (e *ShapeElement) clone() Element {
	c := *e
	c.ElementBase = e.ElementBase.cloneBase()
	return &c
}

// ElementList marshals each element with its "type" tag and decodes the tag
// back into the matching concrete type.
type ElementList []Element

func (l ElementList) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, len(l))
	for i, el := range l {
		body, err := json.Marshal(el)
		if err != nil {
			return nil, err
		}
		// Splice the type tag into the element's own object.
		tagged := make(map[string]json.RawMessage)
		if err := json.Unmarshal(body, &tagged); err != nil {
			return nil, err
		}
		tagged["type"], _ = json.Marshal(el.Kind())
		raws[i], err = json.Marshal(tagged)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(raws)
}

func (l *ElementList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(ElementList, 0, len(raws))
	for i, raw := range raws {
		el, err := decodeElement(raw)
		if err != nil {
			return fmt.Errorf("elements[%d]: %w", i, err)
		}
		out = append(out, el)
	}
	*l = out
	return nil
}

func decodeElement(raw json.RawMessage) (Element, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	var kind ElementKind
	if tag, ok := fields["type"]; ok {
		if err := json.Unmarshal(tag, &kind); err != nil {
			return nil, err
		}
	}
	var el Element
	switch kind {
	case KindText:
		el = &TextElement{}
	case KindField:
		el = &FieldElement{}
	case KindImage:
		el = &ImageElement{}
	case KindTable:
		el = &TableElement{}
	case KindShape:
		el = &ShapeElement{}
	default:
		return nil, fmt.Errorf("unknown element type %q", kind)
	}
	if err := json.Unmarshal(raw, el); err != nil {
		return nil, err
	}
	// An omitted zIndex defaults to 1 so content paints above shapes, which
	// default to 0. An explicit zIndex, including 0, is kept as written.
	if _, ok := fields["zIndex"]; !ok && kind != KindShape {
		el.Base().ZIndex = 1
	}
	return el, nil
}

// ParseDocument decodes a template document strictly into the typed model.
// Run Validate on the raw JSON first; this rejects anything the sum type
// cannot represent.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template document: %w", err)
	}
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = 1
	}
	return &doc, nil
}

// MarshalDocument serializes a document with stable formatting, suitable for
// template.json inside a package.
func MarshalDocument(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template document: %w", err)
	}
	return data, nil
}
