package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fattern/fattern-backend/internal/services"
	"github.com/fattern/fattern-backend/internal/template"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/gin-gonic/gin"
)

// Paper dimensions in inches for chromedp's PrintToPDF.
var paperSizes = map[template.PageSize][2]float64{
	template.PageA4:     {8.27, 11.69},
	template.PageLetter: {8.5, 11},
}

type RenderHandler struct {
	templateService *services.TemplateService
	renderer        *template.Renderer
}

func NewRenderHandler(templateService *services.TemplateService, renderer *template.Renderer) *RenderHandler {
	return &RenderHandler{
		templateService: templateService,
		renderer:        renderer,
	}
}

type RenderRequest struct {
	Data map[string]any `json:"data" binding:"required"`
}

// Render returns the print HTML for a template against an inline data
// context.
func (h *RenderHandler) Render(c *gin.Context) {
	_, html, ok := h.renderHTML(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// RenderPDF rasterizes the rendered HTML through headless Chrome.
func (h *RenderHandler) RenderPDF(c *gin.Context) {
	doc, html, ok := h.renderHTML(c)
	if !ok {
		return
	}

	pdfBytes, err := htmlToPDF(html, doc.Page.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", doc.Meta.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *RenderHandler) renderHTML(c *gin.Context) (*template.Document, string, bool) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, "", false
	}

	doc, err := h.templateService.Load(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch template"})
		return nil, "", false
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return nil, "", false
	}

	html, err := h.renderer.Render(doc, req.Data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, "", false
	}
	return doc, html, true
}

func htmlToPDF(htmlContent string, size template.PageSize) ([]byte, error) {
	paper, ok := paperSizes[size]
	if !ok {
		paper = paperSizes[template.PageA4]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	chromeCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var pdfBytes []byte

	err := chromedp.Run(chromeCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBytes, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paper[0]).
				WithPaperHeight(paper[1]).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBytes, nil
}
