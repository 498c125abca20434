package handlers

import (
	"net/http"

	"github.com/fattern/fattern-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	assetService    *services.AssetService
	templateService *services.TemplateService
}

func NewAssetHandler(assetService *services.AssetService, templateService *services.TemplateService) *AssetHandler {
	return &AssetHandler{
		assetService:    assetService,
		templateService: templateService,
	}
}

// Upload stores an image asset for a template and returns the relative src
// to bind to an image element.
func (h *AssetHandler) Upload(c *gin.Context) {
	templateID := c.Param("id")

	doc, err := h.templateService.Load(templateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch template"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}
	defer file.Close()

	src, err := h.assetService.SaveAsset(templateID, file, header)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store asset"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"src": src})
}

// List returns the template's asset paths.
func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.assetService.ListAssets(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list assets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

// Read returns one asset as a data URL, the same form the renderer embeds.
func (h *AssetHandler) Read(c *gin.Context) {
	dataURL, err := h.templateService.ReadImage(c.Param("id"), c.Query("path"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataUrl": dataURL})
}

// Delete removes one asset.
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.assetService.DeleteAsset(c.Param("id"), c.Query("path")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}
