package handlers

import (
	"net/http"

	"github.com/fattern/fattern-backend/internal/config"
	"github.com/fattern/fattern-backend/internal/services"
	"github.com/fattern/fattern-backend/internal/template"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

func (h *TemplateHandler) GetAll(c *gin.Context) {
	metas, err := h.templateService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, metas)
}

func (h *TemplateHandler) GetByID(c *gin.Context) {
	doc, err := h.templateService.Load(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch template"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *TemplateHandler) Create(c *gin.Context) {
	doc, issues, ok := h.bindDocument(c)
	if !ok {
		return
	}
	if doc.Meta.ID == "" {
		doc.Meta.ID = uuid.New().String()
	}

	existing, err := h.templateService.Load(doc.Meta.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A template with this id already exists"})
		return
	}

	if err := h.templateService.Save(doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": doc, "warnings": template.Warnings(issues)})
}

func (h *TemplateHandler) Update(c *gin.Context) {
	doc, issues, ok := h.bindDocument(c)
	if !ok {
		return
	}
	doc.Meta.ID = c.Param("id")

	if err := h.templateService.Save(doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": doc, "warnings": template.Warnings(issues)})
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == template.DefaultTemplateID {
		c.JSON(http.StatusForbidden, gin.H{"error": "The default template cannot be deleted"})
		return
	}
	if err := h.templateService.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

type DuplicateRequest struct {
	NewID   string `json:"newId"`
	NewName string `json:"newName"`
}

func (h *TemplateHandler) Duplicate(c *gin.Context) {
	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	doc, err := h.templateService.Duplicate(c.Param("id"), req.NewID, req.NewName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to duplicate template"})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Seed installs the built-in template set named by the route parameter
// (default, presets or premium). Existing templates are never overwritten.
func (h *TemplateHandler) Seed(c *gin.Context) {
	var err error
	switch c.Param("set") {
	case "default":
		err = h.templateService.CreateDefault()
	case "presets":
		err = h.templateService.CreatePresets()
	case "premium":
		err = h.templateService.CreatePremium()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown template set"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Templates seeded"})
}

// bindDocument reads the request body as a template document, runs the
// schema validator and parses the typed model. Error-level issues reject the
// request; warnings are passed back to the caller.
func (h *TemplateHandler) bindDocument(c *gin.Context) (*template.Document, []template.Issue, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, nil, false
	}

	issues := template.ValidateJSON(body, config.AppVersion)
	if template.HasErrors(issues) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  template.ErrorMessage(issues),
			"issues": issues,
		})
		return nil, nil, false
	}

	doc, err := template.ParseDocument(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template document", "details": err.Error()})
		return nil, nil, false
	}
	return doc, issues, true
}
