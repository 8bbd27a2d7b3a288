package models

import (
	"time"

	"github.com/diewo77/go-backoffice/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectPending   ProjectStatus = "Pending"
	ProjectOngoing   ProjectStatus = "Ongoing"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCancelled ProjectStatus = "Cancelled"
)

var ProjectStatuses = []ProjectStatus{ProjectPending, ProjectOngoing, ProjectCompleted, ProjectOnHold, ProjectCancelled}

// Project belongs to a client and owns tasks, invoices, expenses, notes and attachments.
type Project struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	ClientID    uint                `gorm:"index;not null" json:"client_id"`
	Client      *Client             `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Title       string              `gorm:"size:200;not null" json:"title"`
	Description string              `gorm:"type:text" json:"description,omitempty"`
	StartDate   Date                `gorm:"not null" json:"start_date"`
	DueDate     Date                `json:"due_date"`
	Status      ProjectStatus       `gorm:"size:50;not null;default:'Pending'" json:"status"`
	Budget      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"budget"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Project) Label() string {
	if p.Client == nil {
		return p.Title
	}
	return p.Title + " - " + p.Client.Name
}

func (p *Project) applyDefaults() {
	if p.Status == "" {
		p.Status = ProjectPending
	}
	if !p.StartDate.Valid() {
		p.StartDate = Today()
	}
}

func (p *Project) Validate() validation.Violations {
	v := make(validation.Violations)
	if p.ClientID == 0 {
		v["client_id"] = "required"
	}
	validation.Required("title", p.Title, v)
	validation.MaxLen("title", p.Title, 200, v)
	validation.OneOf("status", p.Status, ProjectStatuses, v)
	if p.Budget.Valid {
		validation.Digits("budget", p.Budget.Decimal, 10, 2, v)
	}
	return v
}

func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.applyDefaults()
	return check(p.Validate())
}
