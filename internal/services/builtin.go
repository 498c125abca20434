package services

import (
	"fmt"

	"github.com/fattern/fattern-backend/internal/template"
)

// CreateDefault seeds the built-in default invoice template. Seeding is
// idempotent: an existing document with the same id is left untouched.
func (s *TemplateService) CreateDefault() error {
	return s.seed(defaultInvoice())
}

// CreatePresets seeds the bundled preset templates.
func (s *TemplateService) CreatePresets() error {
	return s.seed(minimalInvoice(), modernInvoice())
}

// CreatePremium seeds the premium template set.
func (s *TemplateService) CreatePremium() error {
	return s.seed(premiumInvoice())
}

func (s *TemplateService) seed(docs ...*template.Document) error {
	for _, doc := range docs {
		existing, err := s.Load(doc.Meta.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.Save(doc); err != nil {
			return fmt.Errorf("failed to seed template %s: %w", doc.Meta.ID, err)
		}
	}
	return nil
}

func defaultInvoice() *template.Document {
	return &template.Document{
		SchemaVersion: template.SupportedSchemaVersion,
		Meta: template.Meta{
			ID:      template.DefaultTemplateID,
			Name:    "Standard Invoice",
			Version: "1.0.0",
			Author:  "Fattern",
			Tags:    []string{"invoice", "default"},
		},
		Page: template.Page{
			Size:   template.PageA4,
			Margin: template.Margin{Top: 40, Right: 40, Bottom: 40, Left: 40},
		},
		Elements: template.ElementList{
			&template.TextElement{
				ElementBase: template.ElementBase{ID: "el_title", X: 40, Y: 40, Width: 300, Height: 40, ZIndex: 1},
				Typography:  template.Typography{FontSize: 28, FontWeight: "bold", Color: "#2c3e50"},
				Content:     "Invoice",
			},
			&template.FieldElement{
				ElementBase: template.ElementBase{ID: "el_company", X: 500, Y: 40, Width: 250, Height: 20, ZIndex: 1},
				Typography:  template.Typography{FontSize: 12, Align: "right"},
				Binding:     "company.name",
			},
			&template.FieldElement{
				ElementBase: template.ElementBase{ID: "el_number", X: 40, Y: 100, Width: 200, Height: 20, ZIndex: 1},
				Typography:  template.Typography{FontSize: 12},
				Binding:     "invoice.number",
			},
			&template.FieldElement{
				ElementBase: template.ElementBase{ID: "el_date", X: 40, Y: 130, Width: 200, Height: 20, ZIndex: 1},
				Typography:  template.Typography{FontSize: 12},
				Binding:     "invoice.date",
			},
			&template.FieldElement{
				ElementBase: template.ElementBase{ID: "el_customer", X: 40, Y: 180, Width: 300, Height: 20, ZIndex: 1},
				Typography:  template.Typography{FontSize: 12, FontWeight: "bold"},
				Binding:     "customer.name",
			},
			&template.ShapeElement{
				ElementBase: template.ElementBase{ID: "el_rule", X: 40, Y: 220, Width: 714, Height: 2, BackgroundColor: "#2c3e50"},
				ShapeType:   template.ShapeLine,
			},
			&template.TableElement{
				ElementBase: template.ElementBase{ID: "el_items", X: 40, Y: 240, Width: 714, Height: 400, ZIndex: 1},
				Binding:     "invoice.items",
				Columns: []template.TableColumn{
					{Header: "Description", Field: "description", Align: "left"},
					{Header: "Qty", Field: "quantity", Width: 60, Align: "right"},
					{Header: "Price", Field: "price", Width: 100, Align: "right"},
					{Header: "Amount", Field: "amount", Width: 100, Align: "right"},
				},
				MaxRows:   15,
				RowHeight: 24,
			},
			&template.FieldElement{
				ElementBase: template.ElementBase{ID: "el_total", X: 554, Y: 660, Width: 200, Height: 24, ZIndex: 1},
				Typography:  template.Typography{FontSize: 14, FontWeight: "bold", Align: "right"},
				Binding:     "invoice.total",
			},
		},
	}
}

func minimalInvoice() *template.Document {
	doc := defaultInvoice()
	doc.Meta.ID = "minimal_invoice"
	doc.Meta.Name = "Minimal Invoice"
	doc.Meta.Tags = []string{"invoice", "preset"}
	// Same layout without the divider rule.
	out := doc.Elements[:0]
	for _, el := range doc.Elements {
		if el.Kind() != template.KindShape {
			out = append(out, el)
		}
	}
	doc.Elements = out
	return doc
}

func modernInvoice() *template.Document {
	doc := defaultInvoice()
	doc.Meta.ID = "modern_invoice"
	doc.Meta.Name = "Modern Invoice"
	doc.Meta.Tags = []string{"invoice", "preset"}
	for _, el := range doc.Elements {
		if t, ok := el.(*template.TableElement); ok {
			t.HeaderBgColor = "#1abc9c"
			t.HeaderTextColor = "#ffffff"
		}
	}
	return doc
}

func premiumInvoice() *template.Document {
	doc := defaultInvoice()
	doc.Meta.ID = "premium_invoice"
	doc.Meta.Name = "Premium Invoice"
	doc.Meta.Premium = true
	doc.Meta.Tags = []string{"invoice", "premium"}
	doc.Elements = append(doc.Elements, &template.ShapeElement{
		ElementBase: template.ElementBase{
			ID: "el_accent", X: 0, Y: 0, Width: 794, Height: 12,
			BackgroundColor: "#8e44ad",
		},
		ShapeType: template.ShapeRectangle,
	})
	return doc
}
