package models

import (
	"time"
	"unicode/utf8"

	"github.com/diewo77/go-backoffice/validation"
	"gorm.io/gorm"
)

const snippetLen = 50

type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Note) Label() string {
	return "Note for " + projectTitle(n.Project)
}

// Snippet shortens the content to 50 characters followed by "...".
func (n *Note) Snippet() string {
	if utf8.RuneCountInString(n.Content) <= snippetLen {
		return n.Content
	}
	return string([]rune(n.Content)[:snippetLen]) + "..."
}

func (n *Note) Validate() validation.Violations {
	v := make(validation.Violations)
	if n.ProjectID == 0 {
		v["project_id"] = "required"
	}
	validation.Required("content", n.Content, v)
	return v
}

func (n *Note) BeforeSave(tx *gorm.DB) error {
	return check(n.Validate())
}

func projectTitle(p *Project) string {
	if p == nil {
		return ""
	}
	return p.Title
}
