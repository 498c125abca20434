package services

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fattern/fattern-backend/internal"
	gormmodels "github.com/fattern/fattern-backend/internal/models/gorm"
	"github.com/fattern/fattern-backend/internal/template"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateService is the persisted template store. It implements the store
// contract the package codec imports into and exports from.
type TemplateService struct {
	assetsRoot string
}

func NewTemplateService(assetsRoot string) *TemplateService {
	return &TemplateService{assetsRoot: assetsRoot}
}

// Load returns the document for an id, or nil when it does not exist.
func (s *TemplateService) Load(id string) (*template.Document, error) {
	var record gormmodels.TemplateRecord
	err := internal.DB.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}
	return record.Document, nil
}

// Save upserts a document under its meta.id.
func (s *TemplateService) Save(doc *template.Document) error {
	if doc == nil || doc.Meta.ID == "" {
		return fmt.Errorf("cannot save template without an id")
	}
	record := &gormmodels.TemplateRecord{
		ID:       doc.Meta.ID,
		Name:     doc.Meta.Name,
		Premium:  doc.Meta.Premium,
		Document: doc,
	}

	err := internal.DB.Transaction(func(tx *gorm.DB) error {
		var existing gormmodels.TemplateRecord
		err := tx.Where("id = ?", record.ID).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			return tx.Create(record).Error
		case err != nil:
			return err
		default:
			return tx.Model(&existing).Updates(map[string]any{
				"name":     record.Name,
				"premium":  record.Premium,
				"document": record.Document,
			}).Error
		}
	})
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

// List returns the metadata of every installed template.
func (s *TemplateService) List() ([]template.Meta, error) {
	var records []gormmodels.TemplateRecord
	err := internal.DB.Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %w", err)
	}

	metas := make([]template.Meta, 0, len(records))
	for _, r := range records {
		if r.Document != nil {
			metas = append(metas, r.Document.Meta)
		}
	}
	return metas, nil
}

// Documents returns every stored document; used by maintenance tooling.
func (s *TemplateService) Documents() ([]*template.Document, error) {
	var records []gormmodels.TemplateRecord
	err := internal.DB.Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %w", err)
	}
	docs := make([]*template.Document, 0, len(records))
	for _, r := range records {
		if r.Document != nil {
			docs = append(docs, r.Document)
		}
	}
	return docs, nil
}

// Duplicate copies a template under a new id and name, assets included.
func (s *TemplateService) Duplicate(srcID, newID, newName string) (*template.Document, error) {
	src, err := s.Load(srcID)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("template %s not found", srcID)
	}

	doc := src.Clone()
	if newID == "" {
		newID = uuid.New().String()
	}
	doc.Meta.ID = newID
	if newName != "" {
		doc.Meta.Name = newName
	} else {
		doc.Meta.Name = src.Meta.Name + " (copy)"
	}
	doc.Meta.Premium = false

	if err := s.Save(doc); err != nil {
		return nil, err
	}
	if err := copyTree(s.AssetDir(srcID), s.AssetDir(newID)); err != nil {
		return nil, fmt.Errorf("failed to copy template assets: %w", err)
	}
	return doc, nil
}

// Delete removes a template and its asset directory. The built-in default
// template is exempt.
func (s *TemplateService) Delete(id string) error {
	if id == template.DefaultTemplateID {
		return fmt.Errorf("the default template cannot be deleted")
	}
	err := internal.DB.Where("id = ?", id).Delete(&gormmodels.TemplateRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if err := os.RemoveAll(s.AssetDir(id)); err != nil {
		return fmt.Errorf("failed to remove template assets: %w", err)
	}
	return nil
}

// AssetDir is the local directory holding a template's preview.png and
// assets/ subtree.
func (s *TemplateService) AssetDir(id string) string {
	return filepath.Join(s.assetsRoot, "templates", id)
}

// ReadImage loads an image asset relative to the template's asset directory
// and returns it as a data URL for embedding into rendered HTML.
func (s *TemplateService) ReadImage(templateID, relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid asset path %q", relPath)
	}

	data, err := os.ReadFile(filepath.Join(s.AssetDir(templateID), clean))
	if err != nil {
		return "", fmt.Errorf("failed to read asset %s: %w", relPath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(clean))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

func copyTree(src, dst string) error {
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
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
