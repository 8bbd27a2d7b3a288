package models

import (
	"path"
	"time"

	"github.com/diewo77/go-backoffice/validation"
	"gorm.io/gorm"
)

// Attachment references a file stored under the media root (design files, contracts).
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"index;not null" json:"project_id"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	File        string    `gorm:"size:255;not null" json:"file"`
	Description string    `gorm:"size:200" json:"description,omitempty"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (a *Attachment) Label() string {
	return "File for " + projectTitle(a.Project)
}

// URL joins the stored file path onto the media URL prefix.
func (a *Attachment) URL(mediaURL string) string {
	if a.File == "" {
		return ""
	}
	return path.Join(mediaURL, a.File)
}

func (a *Attachment) Validate() validation.Violations {
	v := make(validation.Violations)
	if a.ProjectID == 0 {
		v["project_id"] = "required"
	}
	validation.Required("file", a.File, v)
	validation.MaxLen("file", a.File, 255, v)
	validation.MaxLen("description", a.Description, 200, v)
	return v
}

func (a *Attachment) BeforeSave(tx *gorm.DB) error {
	return check(a.Validate())
}
