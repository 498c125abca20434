package template

import (
	"fmt"
	"html/template"
	"strings"
)

// AssetResolver converts an image element's src into something the print
// layer can display (data URL or absolute URL). Injected so the renderer
// stays a pure function over its inputs.
type AssetResolver interface {
	Resolve(templateID, src string) (string, error)
}

// AssetResolverFunc adapts a function to the AssetResolver interface.
type AssetResolverFunc func(templateID, src string) (string, error)

func (f AssetResolverFunc) Resolve(templateID, src string) (string, error) {
	return f(templateID, src)
}

type Renderer struct {
	formatter *Formatter
	assets    AssetResolver
}

func NewRenderer(formatter *Formatter, assets AssetResolver) *Renderer {
	return &Renderer{formatter: formatter, assets: assets}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
@page { margin: 0; size: {{.PageSize}}; }
body { margin: 0; padding: 0; font-family: Helvetica, Arial, sans-serif; }
.page { position: relative; width: {{.Width}}px; height: {{.Height}}px; overflow: hidden; }
.el { position: absolute; box-sizing: border-box; }
table.el-table { border-collapse: collapse; width: 100%; table-layout: fixed; }
table.el-table td, table.el-table th { overflow: hidden; white-space: nowrap; text-overflow: ellipsis; }
</style>
</head>
<body>
<div class="page">
{{- range .Elements}}
{{.}}
{{- end}}
</div>
</body>
</html>
`))

// Render produces the print HTML for a document against a data context.
// It is deterministic: identical inputs yield byte-identical output, which
// the preview cache and the package round-trip rely on. A failing asset
// resolution degrades to an empty image source instead of failing the page.
func (r *Renderer) Render(doc *Document, ctx map[string]any) (string, error) {
	width, height, ok := doc.Page.Size.Dimensions()
	if !ok {
		return "", fmt.Errorf("unsupported page size %q", doc.Page.Size)
	}

	rendered := make([]template.HTML, 0, len(doc.Elements))
	for _, el := range doc.PaintOrder() {
		rendered = append(rendered, template.HTML(r.renderElement(doc, el, ctx)))
	}

	var buf strings.Builder
	err := pageTemplate.Execute(&buf, struct {
		PageSize string
		Width    int
		Height   int
		Elements []template.HTML
	}{
		PageSize: string(doc.Page.Size),
		Width:    width,
		Height:   height,
		Elements: rendered,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) renderElement(doc *Document, el Element, ctx map[string]any) string {
	switch e := el.(type) {
	case *TextElement:
		return renderTextBox(e.ElementBase, e.Typography, e.Content)
	case *FieldElement:
		value := r.formatter.FormatByPath(e.Binding, Resolve(e.Binding, ctx))
		return renderTextBox(e.ElementBase, e.Typography, value)
	case *ImageElement:
		return r.renderImage(doc, e)
	case *TableElement:
		return r.renderTable(e, ctx)
	case *ShapeElement:
		return renderShape(e)
	}
	return ""
}

func renderTextBox(base ElementBase, typo Typography, content string) string {
	style := baseStyle(base) + typographyStyle(typo)
	return fmt.Sprintf(`<div class="el" style="%s">%s</div>`,
		style, template.HTMLEscapeString(content))
}

func (r *Renderer) renderImage(doc *Document, e *ImageElement) string {
	src := e.Src
	if !strings.HasPrefix(src, "data:") && !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		resolved, err := r.assets.Resolve(doc.Meta.ID, src)
		if err != nil {
			src = ""
		} else {
			src = resolved
		}
	}
	fit := "fill"
	if e.PreserveAspectRatio {
		fit = "contain"
	}
	return fmt.Sprintf(`<div class="el" style="%s"><img src="%s" style="width: 100%%; height: 100%%; object-fit: %s;"></div>`,
		baseStyle(e.ElementBase), template.HTMLEscapeString(src), fit)
}

func renderShape(e *ShapeElement) string {
	base := e.ElementBase
	switch e.ShapeType {
	case ShapeLine:
		// Orientation follows the aspect ratio: wider than tall means horizontal.
		thickness := base.BorderWidth
		if thickness <= 0 {
			thickness = 1
		}
		if base.Width >= base.Height {
			base.Height = thickness
		} else {
			base.Width = thickness
		}
		color := e.BackgroundColor
		if color == "" {
			color = e.BorderColor
		}
		if color == "" {
			color = "#000000"
		}
		return fmt.Sprintf(`<div class="el" style="%sbackground-color: %s;"></div>`,
			positionStyle(base), template.HTMLEscapeString(color))
	case ShapeCircle:
		base.BorderRadius = 0
		return fmt.Sprintf(`<div class="el" style="%sborder-radius: 50%%;"></div>`, baseStyle(base))
	default:
		return fmt.Sprintf(`<div class="el" style="%s"></div>`, baseStyle(e.ElementBase))
	}
}

func (r *Renderer) renderTable(e *TableElement, ctx map[string]any) string {
	rows := ResolveList(e.Binding, ctx)
	if e.MaxRows > 0 && len(rows) > e.MaxRows {
		rows = rows[:e.MaxRows]
	}

	headerBg := e.HeaderBgColor
	if headerBg == "" {
		headerBg = "#2c3e50"
	}
	headerText := e.HeaderTextColor
	if headerText == "" {
		headerText = "#ffffff"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="el" style="%s">`, baseStyle(e.ElementBase))
	b.WriteString(`<table class="el-table">`)

	b.WriteString("<tr>")
	for _, col := range e.Columns {
		fmt.Fprintf(&b, `<th style="%sbackground-color: %s; color: %s; text-align: %s;">%s</th>`,
			cellStyle(e, col), headerBg, headerText, columnAlign(col),
			template.HTMLEscapeString(col.Header))
	}
	b.WriteString("</tr>")

	for i, rawRow := range rows {
		row, _ := rawRow.(map[string]any)
		bg := e.RowBgColor
		if bg == "" {
			// Alternating tint unless the template fixes a row color.
			if i%2 == 1 {
				bg = "#f5f6f7"
			} else {
				bg = "#ffffff"
			}
		}
		b.WriteString("<tr>")
		for _, col := range e.Columns {
			value := r.formatter.FormatByPath(col.Field, Resolve(col.Field, row))
			fmt.Fprintf(&b, `<td style="%sbackground-color: %s;%s text-align: %s;">%s</td>`,
				cellStyle(e, col), bg, rowTextStyle(e), columnAlign(col),
				template.HTMLEscapeString(value))
		}
		b.WriteString("</tr>")
	}

	b.WriteString("</table></div>")
	return b.String()
}

func cellStyle(e *TableElement, col TableColumn) string {
	var b strings.Builder
	if col.Width > 0 {
		fmt.Fprintf(&b, "width: %spx; ", num(col.Width))
	}
	if e.RowHeight > 0 {
		fmt.Fprintf(&b, "height: %spx; ", num(e.RowHeight))
	}
	return b.String()
}

func rowTextStyle(e *TableElement) string {
	if e.RowTextColor == "" {
		return ""
	}
	return fmt.Sprintf(" color: %s;", e.RowTextColor)
}

func columnAlign(col TableColumn) string {
	if col.Align == "" {
		return "left"
	}
	return col.Align
}

func positionStyle(base ElementBase) string {
	return fmt.Sprintf("left: %spx; top: %spx; width: %spx; height: %spx; z-index: %d; ",
		num(base.X), num(base.Y), num(base.Width), num(base.Height), base.ZIndex)
}

func baseStyle(base ElementBase) string {
	var b strings.Builder
	b.WriteString(positionStyle(base))
	if base.BackgroundColor != "" {
		fmt.Fprintf(&b, "background-color: %s; ", base.BackgroundColor)
	}
	if base.Opacity != nil {
		fmt.Fprintf(&b, "opacity: %s; ", num(*base.Opacity))
	}
	if base.BorderWidth > 0 {
		style := base.BorderStyle
		if style == "" {
			style = "solid"
		}
		color := base.BorderColor
		if color == "" {
			color = "#000000"
		}
		fmt.Fprintf(&b, "border: %spx %s %s; ", num(base.BorderWidth), style, color)
	}
	if base.BorderRadius > 0 {
		fmt.Fprintf(&b, "border-radius: %spx; ", num(base.BorderRadius))
	}
	if base.PaddingTop > 0 || base.PaddingRight > 0 || base.PaddingBottom > 0 || base.PaddingLeft > 0 {
		fmt.Fprintf(&b, "padding: %spx %spx %spx %spx; ",
			num(base.PaddingTop), num(base.PaddingRight), num(base.PaddingBottom), num(base.PaddingLeft))
	}
	if base.BoxShadowColor != "" {
		fmt.Fprintf(&b, "box-shadow: %spx %spx %spx %s; ",
			num(base.BoxShadowX), num(base.BoxShadowY), num(base.BoxShadowBlur), base.BoxShadowColor)
	}
	return b.String()
}

func typographyStyle(t Typography) string {
	var b strings.Builder
	if t.FontFamily != "" {
		fmt.Fprintf(&b, "font-family: %s; ", t.FontFamily)
	}
	if t.FontSize > 0 {
		fmt.Fprintf(&b, "font-size: %spx; ", num(t.FontSize))
	}
	if t.FontWeight != "" {
		fmt.Fprintf(&b, "font-weight: %s; ", t.FontWeight)
	}
	if t.Color != "" {
		fmt.Fprintf(&b, "color: %s; ", t.Color)
	}
	if t.Align != "" {
		fmt.Fprintf(&b, "text-align: %s; ", t.Align)
	}
	if t.LineHeight > 0 {
		fmt.Fprintf(&b, "line-height: %s; ", num(t.LineHeight))
	}
	if t.LetterSpacing != 0 {
		fmt.Fprintf(&b, "letter-spacing: %spx; ", num(t.LetterSpacing))
	}
	if t.FontStyle != "" {
		fmt.Fprintf(&b, "font-style: %s; ", t.FontStyle)
	}
	if t.TextDecoration != "" {
		fmt.Fprintf(&b, "text-decoration: %s; ", t.TextDecoration)
	}
	if t.TextTransform != "" {
		fmt.Fprintf(&b, "text-transform: %s; ", t.TextTransform)
	}
	return b.String()
}

func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
