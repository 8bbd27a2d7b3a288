package models

import (
	"github.com/diewo77/go-backoffice/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseCategory string

const (
	ExpenseSoftware  ExpenseCategory = "Software"
	ExpenseMarketing ExpenseCategory = "Marketing"
	ExpenseTravel    ExpenseCategory = "Travel"
	ExpenseSupplies  ExpenseCategory = "Supplies"
	ExpenseOther     ExpenseCategory = "Other"
)

var ExpenseCategories = []ExpenseCategory{ExpenseSoftware, ExpenseMarketing, ExpenseTravel, ExpenseSupplies, ExpenseOther}

// Expense may be attached to a project; it outlives the project it was attached to.
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProjectID   *uint           `gorm:"index" json:"project_id"`
	Project     *Project        `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	Title       string          `gorm:"size:150;not null" json:"title"`
	Category    ExpenseCategory `gorm:"size:50;not null;default:'Other'" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date        Date            `gorm:"not null" json:"date"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
}

func (e *Expense) Label() string {
	return e.Title + " - " + e.Amount.StringFixed(2)
}

// ProjectTitle is "N/A" for expenses without a project.
func (e *Expense) ProjectTitle() string {
	if e.Project == nil {
		return "N/A"
	}
	return e.Project.Title
}

func (e *Expense) Validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("title", e.Title, v)
	validation.MaxLen("title", e.Title, 150, v)
	validation.OneOf("category", e.Category, ExpenseCategories, v)
	validation.Digits("amount", e.Amount, 10, 2, v)
	return v
}

func (e *Expense) BeforeSave(tx *gorm.DB) error {
	if e.Category == "" {
		e.Category = ExpenseOther
	}
	if !e.Date.Valid() {
		e.Date = Today()
	}
	if e.ProjectID != nil && *e.ProjectID == 0 {
		e.ProjectID = nil
	}
	return check(e.Validate())
}
