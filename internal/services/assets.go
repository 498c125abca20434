package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// AssetService manages the image assets of a template. Assets live under
// <assetsRoot>/templates/<id>/assets/, the same tree the package codec copies
// verbatim on export and import.
type AssetService struct {
	templates *TemplateService
}

func NewAssetService(templates *TemplateService) *AssetService {
	return &AssetService{templates: templates}
}

var assetNameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SaveAsset stores an uploaded image in the template's assets directory and
// returns the relative src to use in image elements.
func (s *AssetService) SaveAsset(templateID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	name := assetNameRe.ReplaceAllString(filepath.Base(header.Filename), "_")
	if name == "" || name == "." {
		return "", fmt.Errorf("invalid asset filename %q", header.Filename)
	}

	dir := filepath.Join(s.templates.AssetDir(templateID), "assets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}

	return "assets/" + name, nil
}

// ListAssets returns the relative src paths of every asset the template has.
func (s *AssetService) ListAssets(templateID string) ([]string, error) {
	dir := filepath.Join(s.templates.AssetDir(templateID), "assets")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, "assets/"+e.Name())
		}
	}
	return out, nil
}

// DeleteAsset removes one asset by its relative src path.
func (s *AssetService) DeleteAsset(templateID, relPath string) error {
	if !strings.HasPrefix(relPath, "assets/") || strings.Contains(relPath, "..") {
		return fmt.Errorf("invalid asset path %q", relPath)
	}
	path := filepath.Join(s.templates.AssetDir(templateID), filepath.FromSlash(relPath))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}
