package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-backoffice/validation"
	"gorm.io/gorm"
)

// IndividualLabel stands in for the company of a client billed in person.
const IndividualLabel = "Individual"

// Client is a customer; it owns projects.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	Company   string    `gorm:"size:150" json:"company,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	DateAdded time.Time `gorm:"autoCreateTime" json:"date_added"`
}

// CompanyOrIndividual returns the company name, or "Individual" when there is none.
func (c *Client) CompanyOrIndividual() string {
	if strings.TrimSpace(c.Company) == "" {
		return IndividualLabel
	}
	return c.Company
}

func (c *Client) Label() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.CompanyOrIndividual())
}

func (c *Client) Validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", c.Name, v)
	validation.MaxLen("name", c.Name, 150, v)
	validation.Required("email", c.Email, v)
	validation.Email("email", c.Email, v)
	validation.MaxLen("email", c.Email, 254, v)
	validation.MaxLen("phone", c.Phone, 20, v)
	validation.MaxLen("company", c.Company, 150, v)
	return v
}

func (c *Client) BeforeSave(tx *gorm.DB) error {
	c.Email = strings.TrimSpace(c.Email)
	return check(c.Validate())
}
