package gorm

import (
	"time"

	"github.com/fattern/fattern-backend/internal/template"
)

// TemplateRecord persists one template document. The document itself is a
// JSON column; name and premium are denormalized for listing without
// deserializing every document.
type TemplateRecord struct {
	ID        string             `gorm:"primaryKey" json:"id"`
	Name      string             `gorm:"not null" json:"name"`
	Premium   bool               `json:"premium"`
	Document  *template.Document `gorm:"serializer:json" json:"document"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (TemplateRecord) TableName() string {
	return "templates"
}
