package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fattern/fattern-backend/internal/config"
	"github.com/fattern/fattern-backend/internal/pack"
	"github.com/fattern/fattern-backend/internal/services"
	"github.com/fattern/fattern-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type PackHandler struct {
	templateService *services.TemplateService
	gcsClient       *storage.GCSClient
}

// NewPackHandler wires the package codec to HTTP. gcsClient may be nil; the
// share endpoint then reports the feature as unavailable.
func NewPackHandler(templateService *services.TemplateService, gcsClient *storage.GCSClient) *PackHandler {
	return &PackHandler{
		templateService: templateService,
		gcsClient:       gcsClient,
	}
}

// Export streams the template's package archive.
func (h *PackHandler) Export(c *gin.Context) {
	id := c.Param("id")

	var buf bytes.Buffer
	if err := pack.Export(h.templateService, id, &buf); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-template.zip", id))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// Import accepts a multipart package upload and installs it under a
// collision-free id.
func (h *PackHandler) Import(c *gin.Context) {
	archivePath, cleanup, ok := h.receivePackage(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := pack.Import(h.templateService, archivePath, config.AppVersion)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Validate inspects a package without persisting anything.
func (h *PackHandler) Validate(c *gin.Context) {
	archivePath, cleanup, ok := h.receivePackage(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := pack.Validate(archivePath, config.AppVersion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Share exports a template, uploads the archive to the configured bucket and
// returns a signed download URL another installation can import from.
func (h *PackHandler) Share(c *gin.Context) {
	if h.gcsClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Package sharing is not configured"})
		return
	}
	id := c.Param("id")

	var buf bytes.Buffer
	if err := pack.Export(h.templateService, id, &buf); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	objectName, err := h.gcsClient.UploadPackage(c.Request.Context(), &buf, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload package"})
		return
	}

	url, err := h.gcsClient.GetSignedURL(objectName, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": "24h"})
}

// receivePackage saves the uploaded archive to a scratch file. The returned
// cleanup must run on every exit path.
func (h *PackHandler) receivePackage(c *gin.Context) (string, func(), bool) {
	file, err := c.FormFile("package")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing package file"})
		return "", nil, false
	}

	tmp, err := os.CreateTemp("", "fattern-upload-*.zip")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to receive package"})
		return "", nil, false
	}
	tmp.Close()

	if err := c.SaveUploadedFile(file, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to receive package"})
		return "", nil, false
	}

	return tmp.Name(), func() { os.Remove(tmp.Name()) }, true
}
