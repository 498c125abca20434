package template

import (
	"reflect"
	"testing"
)

func fullDocument() *Document {
	opacity := 0.8
	return &Document{
		SchemaVersion: 1,
		Meta: Meta{
			ID:      "tpl_roundtrip",
			Name:    "Roundtrip",
			Version: "1.2.3",
			Author:  "Tester",
			Tags:    []string{"invoice", "test"},
		},
		Page: Page{
			Size:   PageA4,
			Margin: Margin{Top: 40, Right: 40, Bottom: 40, Left: 40},
		},
		Elements: ElementList{
			&TextElement{
				ElementBase: ElementBase{ID: "el_text", X: 10, Y: 20, Width: 100, Height: 30, ZIndex: 2, Opacity: &opacity},
				Typography:  Typography{FontSize: 14, FontWeight: "bold", Align: "center"},
				Content:     "Hello",
			},
			&FieldElement{
				ElementBase: ElementBase{ID: "el_field", X: 10, Y: 60, Width: 100, Height: 30, ZIndex: 1},
				Binding:     "invoice.number",
			},
			&ImageElement{
				ElementBase:         ElementBase{ID: "el_image", X: 10, Y: 100, Width: 80, Height: 80, ZIndex: 1},
				Src:                 "assets/logo.png",
				PreserveAspectRatio: true,
			},
			&TableElement{
				ElementBase: ElementBase{ID: "el_table", X: 10, Y: 200, Width: 400, Height: 200, ZIndex: 1},
				Binding:     "invoice.items",
				Columns:     []TableColumn{{Header: "Description", Field: "description", Width: 200, Align: "left"}},
				MaxRows:     5,
				RowHeight:   24,
			},
			&ShapeElement{
				ElementBase: ElementBase{ID: "el_shape", X: 0, Y: 0, Width: 794, Height: 4, BackgroundColor: "#123456"},
				ShapeType:   ShapeRectangle,
			},
		},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := fullDocument()

	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	parsed, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if !reflect.DeepEqual(doc, parsed) {
		t.Errorf("round trip changed the document:\nbefore: %+v\nafter:  %+v", doc, parsed)
	}
}

func TestParseDocumentDefaultsSchemaVersion(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"meta":{"id":"x","name":"X","version":"1.0.0"},"page":{"size":"A4","margin":{"top":0,"right":0,"bottom":0,"left":0}},"elements":[]}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.SchemaVersion != 1 {
		t.Errorf("missing schemaVersion should default to 1, got %d", doc.SchemaVersion)
	}
}

func TestParseDocumentDefaultsZIndex(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"schemaVersion": 1,
		"meta": {"id": "x", "name": "X", "version": "1.0.0"},
		"page": {"size": "A4", "margin": {"top": 0, "right": 0, "bottom": 0, "left": 0}},
		"elements": [
			{"id": "el_text", "type": "text", "x": 0, "y": 0, "width": 100, "height": 30, "content": "hi"},
			{"id": "el_rect", "type": "shape", "x": 0, "y": 0, "width": 100, "height": 30, "shapeType": "rectangle"},
			{"id": "el_zero", "type": "field", "x": 0, "y": 0, "width": 100, "height": 30, "zIndex": 0, "binding": "a.b"}
		]
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := doc.ElementByID("el_text").Base().ZIndex; got != 1 {
		t.Errorf("omitted zIndex on a text element = %d, want default 1", got)
	}
	if got := doc.ElementByID("el_rect").Base().ZIndex; got != 0 {
		t.Errorf("omitted zIndex on a shape = %d, want default 0", got)
	}
	if got := doc.ElementByID("el_zero").Base().ZIndex; got != 0 {
		t.Errorf("explicit zIndex 0 = %d, must be kept as written", got)
	}

	// The default decides the paint order: content above shapes.
	order := doc.PaintOrder()
	if order[0].Base().ID != "el_rect" || order[len(order)-1].Base().ID != "el_text" {
		var got []string
		for _, el := range order {
			got = append(got, el.Base().ID)
		}
		t.Errorf("paint order = %v, want the shape first and the text last", got)
	}
}

func TestParseDocumentRejectsUnknownElementType(t *testing.T) {
	_, err := ParseDocument([]byte(`{"schemaVersion":1,"meta":{"id":"x","name":"X","version":"1.0.0"},"page":{"size":"A4","margin":{"top":0,"right":0,"bottom":0,"left":0}},"elements":[{"id":"el_1","type":"video","x":0,"y":0,"width":10,"height":10}]}`))
	if err == nil {
		t.Fatal("expected an error for an unknown element type")
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := fullDocument()
	clone := doc.Clone()

	if !reflect.DeepEqual(doc, clone) {
		t.Fatal("clone should equal the original")
	}

	clone.Elements[0].Base().X = 999
	clone.Meta.Tags[0] = "changed"
	*clone.Elements[0].Base().Opacity = 0.1

	if doc.Elements[0].Base().X == 999 {
		t.Error("element geometry is shared between clone and original")
	}
	if doc.Meta.Tags[0] == "changed" {
		t.Error("tags are shared between clone and original")
	}
	if *doc.Elements[0].Base().Opacity == 0.1 {
		t.Error("opacity pointer is shared between clone and original")
	}
}

func TestPaintOrder(t *testing.T) {
	doc := &Document{
		Elements: ElementList{
			&TextElement{ElementBase: ElementBase{ID: "a", ZIndex: 3}},
			&TextElement{ElementBase: ElementBase{ID: "b", ZIndex: 1}},
			&TextElement{ElementBase: ElementBase{ID: "c", ZIndex: 1}},
			&TextElement{ElementBase: ElementBase{ID: "d", ZIndex: 2}},
		},
	}

	var got []string
	for _, el := range doc.PaintOrder() {
		got = append(got, el.Base().ID)
	}
	want := []string{"b", "c", "d", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paint order = %v, want %v", got, want)
	}

	// The document's own element order is untouched.
	if doc.Elements[0].Base().ID != "a" {
		t.Error("PaintOrder must not reorder the document")
	}
}

func TestElementByID(t *testing.T) {
	doc := fullDocument()
	if el := doc.ElementByID("el_table"); el == nil || el.Kind() != KindTable {
		t.Errorf("ElementByID(el_table) = %v", el)
	}
	if el := doc.ElementByID("nope"); el != nil {
		t.Errorf("unknown id should return nil, got %v", el)
	}
}
