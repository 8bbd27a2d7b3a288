// Package invoicedoc turns one invoice, with its project and client, into a printable PDF.
package invoicedoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrSelection is returned when an export is asked for anything but exactly one invoice.
	ErrSelection = errors.New("select exactly one invoice")
	// ErrMissingReference is returned when the invoice's project or client is gone.
	ErrMissingReference = errors.New("invoice references a missing record")
)

const (
	CompanyName    = "Your Company Name"
	CompanyAddress = "123 Business Lane, City"
	CompanyContact = "contact@yourcompany.com"

	DefaultDescription = "Project service fee."
	DefaultNotes       = "Thank you for your business!"
	missingDate        = "N/A"
)

// Sheet is the fully resolved content of an invoice document.
type Sheet struct {
	Filename string

	CompanyName    string
	CompanyAddress string
	CompanyContact string

	Number    string
	IssueDate string
	DueDate   string

	ClientName    string
	ClientCompany string
	ClientEmail   string
	ProjectTitle  string
	Status        string

	Items []Item
	Total string

	Notes string
}

// Item is one row of the line-item table.
type Item struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// Select returns the single invoice of a selection.
func Select(selected []models.Invoice) (*models.Invoice, error) {
	if len(selected) != 1 {
		return nil, fmt.Errorf("%w: %d selected", ErrSelection, len(selected))
	}
	return &selected[0], nil
}

// Filename is invoice_{id}_{project title with spaces as underscores}.pdf.
func Filename(inv *models.Invoice) string {
	title := ""
	if inv.Project != nil {
		title = inv.Project.Title
	}
	return fmt.Sprintf("invoice_%d_%s.pdf", inv.ID, strings.ReplaceAll(title, " ", "_"))
}

// Layout resolves every piece of text the document shows. inv.Project and
// inv.Project.Client must be loaded.
func Layout(inv *models.Invoice) (Sheet, error) {
	if inv == nil {
		return Sheet{}, fmt.Errorf("%w: no invoice", ErrMissingReference)
	}
	if inv.Project == nil {
		return Sheet{}, fmt.Errorf("%w: project of invoice #%d", ErrMissingReference, inv.ID)
	}
	if inv.Project.Client == nil {
		return Sheet{}, fmt.Errorf("%w: client of project %q", ErrMissingReference, inv.Project.Title)
	}
	project, client := inv.Project, inv.Project.Client

	description := project.Description
	if strings.TrimSpace(description) == "" {
		description = DefaultDescription
	}
	notes := inv.Notes
	if strings.TrimSpace(notes) == "" {
		notes = DefaultNotes
	}
	amount := Money(inv.Amount)

	return Sheet{
		Filename:       Filename(inv),
		CompanyName:    CompanyName,
		CompanyAddress: CompanyAddress,
		CompanyContact: CompanyContact,
		Number:         fmt.Sprintf("# %d", inv.ID),
		IssueDate:      dateText(inv.IssueDate),
		DueDate:        dateText(inv.DueDate),
		ClientName:     client.Name,
		ClientCompany:  client.CompanyOrIndividual(),
		ClientEmail:    client.Email,
		ProjectTitle:   project.Title,
		Status:         string(inv.Status),
		Items: []Item{{
			Description: description,
			Quantity:    "1",
			UnitPrice:   amount,
			Amount:      amount,
		}},
		Total: amount,
		Notes: notes,
	}, nil
}

// Money prints an amount the way the document shows it: "$1000.00".
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func dateText(d models.Date) string {
	if !d.Valid() {
		return missingDate
	}
	return d.String()
}
