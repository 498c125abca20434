package utils

import (
	"fmt"
	"path"
	"strings"

	gormmodels "github.com/fattern/fattern-backend/internal/models/gorm"
	"github.com/fattern/fattern-backend/internal/template"

	"gorm.io/gorm"
)

// CleanupAssetPaths rewrites legacy image sources in stored documents to the
// relative assets/ form the validator expects. Early installations stored
// absolute file paths or localhost URLs; those fail validation on export.
func CleanupAssetPaths(db *gorm.DB) error {
	return cleanupAssetPaths(db, false)
}

// CleanupAssetPathsDryRun reports what would change without writing.
func CleanupAssetPathsDryRun(db *gorm.DB) error {
	return cleanupAssetPaths(db, true)
}

func cleanupAssetPaths(db *gorm.DB, dryRun bool) error {
	var records []gormmodels.TemplateRecord
	if err := db.Find(&records).Error; err != nil {
		return fmt.Errorf("failed to fetch templates: %w", err)
	}

	updatedCount := 0
	for _, record := range records {
		if record.Document == nil {
			continue
		}
		changed := false
		for _, el := range record.Document.Elements {
			img, ok := el.(*template.ImageElement)
			if !ok {
				continue
			}
			if fixed, ok := normalizeAssetPath(img.Src); ok {
				fmt.Printf("Template %s: %s -> %s\n", record.ID, img.Src, fixed)
				img.Src = fixed
				changed = true
			}
		}
		if !changed || dryRun {
			continue
		}
		if err := db.Save(&record).Error; err != nil {
			fmt.Printf("Warning: Failed to update template %s: %v\n", record.ID, err)
			continue
		}
		updatedCount++
	}

	if dryRun {
		fmt.Println("Dry run complete, no changes written")
	} else {
		fmt.Printf("Updated %d templates\n", updatedCount)
	}
	return nil
}

// normalizeAssetPath maps a legacy src to assets/<filename>. Data URLs and
// remote URLs other than localhost are left alone.
func normalizeAssetPath(src string) (string, bool) {
	switch {
	case src == "" || strings.HasPrefix(src, "data:"):
		return "", false
	case strings.HasPrefix(src, "assets/"):
		return "", false
	case strings.HasPrefix(src, "http://localhost"), strings.HasPrefix(src, "https://localhost"):
		return "assets/" + path.Base(src), true
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return "", false
	case strings.HasPrefix(src, "/"):
		return "assets/" + path.Base(src), true
	default:
		return "assets/" + path.Base(src), true
	}
}
