// Package pack implements the portable template package format: a zip
// archive holding template.json, an optional preview.png and an optional
// assets/ directory.
package pack

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fattern/fattern-backend/internal/template"
)

// Store is the template persistence this codec imports into and exports
// from. Load returns nil without error when the id is unknown.
type Store interface {
	Load(id string) (*template.Document, error)
	Save(doc *template.Document) error
	List() ([]template.Meta, error)
	// AssetDir is the local directory holding the template's preview.png and
	// assets/ subtree.
	AssetDir(id string) string
}

type ImportResult struct {
	Meta     template.Meta `json:"meta"`
	FinalID  string        `json:"finalId"`
	Warnings []string      `json:"warnings"`
}

type ValidationResult struct {
	Meta   template.Meta    `json:"meta"`
	Issues []template.Issue `json:"issues"`
}

// Export writes the template's package archive. The document is serialized
// fresh from the store so the archive reflects the latest metadata, never a
// stale on-disk copy.
func Export(store Store, templateID string, w io.Writer) error {
	doc, err := store.Load(templateID)
	if err != nil {
		return fmt.Errorf("failed to load template %s: %w", templateID, err)
	}
	if doc == nil {
		return fmt.Errorf("template %s not found", templateID)
	}
	if doc.Meta.ID == "" || doc.Meta.Name == "" {
		return fmt.Errorf("template %s is missing required metadata", templateID)
	}

	data, err := template.MarshalDocument(doc)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	entry, err := zw.Create("template.json")
	if err != nil {
		return fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("failed to write template.json: %w", err)
	}

	assetDir := store.AssetDir(templateID)
	if err := addFileIfPresent(zw, filepath.Join(assetDir, "preview.png"), "preview.png"); err != nil {
		return err
	}
	if err := addDirIfPresent(zw, filepath.Join(assetDir, "assets"), "assets"); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// Import extracts an archive, validates its document and persists it under a
// collision-free id. It never overwrites an existing template: a colliding
// meta.id is suffixed -imported-1, -imported-2, ... and the rename is
// reported as a warning. The scratch directory is removed on every exit
// path.
func Import(store Store, archivePath, appVersion string) (*ImportResult, error) {
	scratch, cleanup, err := extractToScratch(archivePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	data, issues, err := validateExtracted(scratch, appVersion)
	if err != nil {
		return nil, err
	}
	if template.HasErrors(issues) {
		return nil, fmt.Errorf("template validation failed: %s", template.ErrorMessage(issues))
	}
	warnings := template.Warnings(issues)

	doc, err := template.ParseDocument(data)
	if err != nil {
		return nil, err
	}

	finalID, renamed, err := resolveIDConflict(store, doc.Meta.ID)
	if err != nil {
		return nil, err
	}
	if renamed {
		warnings = append(warnings, fmt.Sprintf("a template with id %q already exists; imported as %q", doc.Meta.ID, finalID))
		doc.Meta.ID = finalID
	}

	// Assets land before the document record so a failure at any point leaves
	// nothing persisted.
	assetDir := store.AssetDir(finalID)
	undoAssets := func() {
		os.Remove(filepath.Join(assetDir, "preview.png"))
		os.RemoveAll(filepath.Join(assetDir, "assets"))
	}
	if err := copyFileIfPresent(filepath.Join(scratch, "preview.png"), filepath.Join(assetDir, "preview.png")); err != nil {
		undoAssets()
		return nil, err
	}
	if err := copyDirIfPresent(filepath.Join(scratch, "assets"), filepath.Join(assetDir, "assets")); err != nil {
		undoAssets()
		return nil, err
	}

	if err := store.Save(doc); err != nil {
		undoAssets()
		return nil, fmt.Errorf("failed to persist imported template: %w", err)
	}

	return &ImportResult{Meta: doc.Meta, FinalID: finalID, Warnings: warnings}, nil
}

// Validate runs the same extraction and validation as Import without
// persisting anything, so an import can be previewed before the user
// confirms it.
func Validate(archivePath, appVersion string) (*ValidationResult, error) {
	scratch, cleanup, err := extractToScratch(archivePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	data, issues, err := validateExtracted(scratch, appVersion)
	if err != nil {
		return nil, err
	}

	// Meta is best-effort here: a structurally broken document still gets its
	// issues reported.
	var partial struct {
		Meta template.Meta `json:"meta"`
	}
	_ = json.Unmarshal(data, &partial)

	return &ValidationResult{Meta: partial.Meta, Issues: issues}, nil
}

func extractToScratch(archivePath string) (string, func(), error) {
	scratch, err := os.MkdirTemp("", "fattern-import-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(scratch) }

	if err := extractZip(archivePath, scratch); err != nil {
		cleanup()
		return "", nil, err
	}
	return scratch, cleanup, nil
}

func validateExtracted(scratch, appVersion string) ([]byte, []template.Issue, error) {
	data, err := os.ReadFile(filepath.Join(scratch, "template.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("package does not contain template.json: %w", err)
	}
	return data, template.ValidateJSON(data, appVersion), nil
}

func resolveIDConflict(store Store, id string) (string, bool, error) {
	existing, err := store.List()
	if err != nil {
		return "", false, fmt.Errorf("failed to list templates: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, meta := range existing {
		taken[meta.ID] = true
	}
	if !taken[id] {
		return id, false, nil
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-imported-%d", id, n)
		if !taken[candidate] {
			return candidate, true, nil
		}
	}
}

func extractZip(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open package archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		// Reject entries escaping the scratch directory.
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q has an illegal path", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to extract %s: %w", f.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		if err := extractZipFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}

func addFileIfPresent(zw *zip.Writer, path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}

func addDirIfPresent(zw *zip.Writer, dir, prefix string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return addFileIfPresent(zw, path, prefix+"/"+filepath.ToSlash(rel))
	})
}

func copyFileIfPresent(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func copyDirIfPresent(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil
	}
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return copyFileIfPresent(path, filepath.Join(dst, rel))
	})
}
