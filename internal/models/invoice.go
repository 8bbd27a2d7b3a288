package models

import (
	"fmt"

	"github.com/diewo77/go-backoffice/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus represents the status of an invoice.
// No transition rules apply: any status may be set directly, and Overdue is never derived.
type InvoiceStatus string

const (
	InvoiceUnpaid        InvoiceStatus = "Unpaid"
	InvoicePartiallyPaid InvoiceStatus = "Partially Paid"
	InvoicePaid          InvoiceStatus = "Paid"
	InvoiceOverdue       InvoiceStatus = "Overdue"
)

var InvoiceStatuses = []InvoiceStatus{InvoiceUnpaid, InvoicePartiallyPaid, InvoicePaid, InvoiceOverdue}

// Invoice bills a project; payments settle it.
type Invoice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProjectID uint            `gorm:"index;not null" json:"project_id"`
	Project   *Project        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	IssueDate Date            `gorm:"not null" json:"issue_date"`
	DueDate   Date            `json:"due_date"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    InvoiceStatus   `gorm:"size:20;not null;default:'Unpaid'" json:"status"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
}

func (i *Invoice) Label() string {
	title := ""
	if i.Project != nil {
		title = i.Project.Title
	}
	return fmt.Sprintf("Invoice #%d for %s", i.ID, title)
}

func (i *Invoice) Validate() validation.Violations {
	v := make(validation.Violations)
	if i.ProjectID == 0 {
		v["project_id"] = "required"
	}
	validation.Digits("amount", i.Amount, 10, 2, v)
	validation.OneOf("status", i.Status, InvoiceStatuses, v)
	return v
}

func (i *Invoice) BeforeSave(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = InvoiceUnpaid
	}
	if !i.IssueDate.Valid() {
		i.IssueDate = Today()
	}
	return check(i.Validate())
}
