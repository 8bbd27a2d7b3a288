package models

import (
	"fmt"
	"time"

	"github.com/diewo77/go-backoffice/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultPaymentMethod = "Bank Transfer"

// Payment settles (part of) an invoice.
type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	InvoiceID uint            `gorm:"index;not null" json:"invoice_id"`
	Invoice   *Invoice        `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"invoice,omitempty"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method    string          `gorm:"size:50;not null;default:'Bank Transfer'" json:"method"`
	Reference string          `gorm:"size:100" json:"reference,omitempty"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
}

func (p *Payment) Label() string {
	inv := fmt.Sprintf("Invoice #%d", p.InvoiceID)
	if p.Invoice != nil {
		inv = p.Invoice.Label()
	}
	return fmt.Sprintf("Payment of %s for %s", p.Amount.StringFixed(2), inv)
}

func (p *Payment) Validate() validation.Violations {
	v := make(validation.Violations)
	if p.InvoiceID == 0 {
		v["invoice_id"] = "required"
	}
	validation.Digits("amount", p.Amount, 10, 2, v)
	validation.Required("method", p.Method, v)
	validation.MaxLen("method", p.Method, 50, v)
	validation.MaxLen("reference", p.Reference, 100, v)
	return v
}

func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.Method == "" {
		p.Method = DefaultPaymentMethod
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	return check(p.Validate())
}
