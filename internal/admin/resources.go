package admin

import (
	"context"
	"fmt"

	"github.com/diewo77/go-backoffice/internal/billing"
	"github.com/diewo77/go-backoffice/internal/models"
)

// buildRegistry registers every entity with its list columns, search, filters,
// inlines and actions.
func (h *Handler) buildRegistry() *Registry {
	return newRegistry(
		register[models.Client](Meta{
			Name:   "client",
			Plural: "clients",
			Columns: []Column{
				field("name", "Name", func(c *models.Client) any { return c.Name }),
				field("email", "Email", func(c *models.Client) any { return c.Email }),
				field("phone", "Phone", func(c *models.Client) any { return c.Phone }),
				field("company", "Company", func(c *models.Client) any { return c.Company }),
				computed("project_count", "Projects", func(ctx context.Context, c *models.Client) (any, error) {
					return h.agg.ProjectCount(ctx, c.ID)
				}),
				computed("total_invoiced", "Total Invoiced", func(ctx context.Context, c *models.Client) (any, error) {
					total, err := h.agg.TotalInvoiced(ctx, c.ID)
					if err != nil {
						return nil, err
					}
					return billing.FormatMoney(total), nil
				}),
				field("date_added", "Date added", func(c *models.Client) any { return c.DateAdded }),
			},
			SearchFields: []string{"name", "email", "company"},
			Ordering:     []string{"name"},
			Inlines: []Inline{
				{Resource: "project", ForeignKey: "client_id", Fields: []string{"title", "status", "start_date", "due_date"}},
			},
		}),

		register[models.Project](Meta{
			Name:   "project",
			Plural: "projects",
			Columns: []Column{
				field("title", "Title", func(p *models.Project) any { return p.Title }),
				field("client", "Client", func(p *models.Project) any { return clientLabel(p.Client) }),
				field("start_date", "Start date", func(p *models.Project) any { return p.StartDate }),
				field("due_date", "Due date", func(p *models.Project) any { return p.DueDate }),
				field("status", "Status", func(p *models.Project) any { return p.Status }),
				field("budget", "Budget", func(p *models.Project) any { return p.Budget }),
				computed("outstanding", "Outstanding", func(ctx context.Context, p *models.Project) (any, error) {
					r, err := h.agg.ProjectRollup(ctx, p.ID)
					if err != nil {
						return nil, err
					}
					return billing.FormatMoney(r.Outstanding), nil
				}),
			},
			SearchFields: []string{"title", "client__name"},
			Filters:      map[string]string{"status": "status", "client": "client_id"},
			Ordering:     []string{"-created_at"},
			Preload:      []string{"Client"},
			Inlines: []Inline{
				{Resource: "task", ForeignKey: "project_id", Fields: []string{"title", "status", "due_date"}, Ordering: []string{"-due_date"}},
				{Resource: "invoice", ForeignKey: "project_id", Fields: []string{"amount", "status", "issue_date", "due_date"}, ReadOnly: []string{"status"}},
				{Resource: "expense", ForeignKey: "project_id", Fields: []string{"title", "category", "amount", "date"}},
				{Resource: "note", ForeignKey: "project_id", Fields: []string{"content"}},
				{Resource: "attachment", ForeignKey: "project_id", Fields: []string{"file", "description", "uploaded_at"}, ReadOnly: []string{"uploaded_at"}},
			},
		}),

		register[models.Task](Meta{
			Name:   "task",
			Plural: "tasks",
			Columns: []Column{
				field("title", "Title", func(t *models.Task) any { return t.Title }),
				field("project", "Project", func(t *models.Task) any { return projectLabel(t.Project) }),
				field("status", "Status", func(t *models.Task) any { return t.Status }),
				field("due_date", "Due date", func(t *models.Task) any { return t.DueDate }),
				field("is_overdue", "Overdue", func(t *models.Task) any { return t.IsOverdue(models.DateOf(h.now())) }),
				field("completed_at", "Completed at", func(t *models.Task) any { return t.CompletedAt }),
			},
			SearchFields: []string{"title", "project__title"},
			Filters:      map[string]string{"status": "status", "project": "project_id"},
			Preload:      []string{"Project.Client"},
		}),

		register[models.Invoice](Meta{
			Name:   "invoice",
			Plural: "invoices",
			Columns: []Column{
				field("id", "ID", func(i *models.Invoice) any { return i.ID }),
				field("project", "Project", func(i *models.Invoice) any { return projectLabel(i.Project) }),
				field("amount", "Amount", func(i *models.Invoice) any { return i.Amount }),
				field("status", "Status", func(i *models.Invoice) any { return i.Status }),
				field("issue_date", "Issue date", func(i *models.Invoice) any { return i.IssueDate }),
				field("due_date", "Due date", func(i *models.Invoice) any { return i.DueDate }),
				field("print_invoice_link", "Actions", func(i *models.Invoice) any { return printURL(i.ID) }),
			},
			SearchFields: []string{"project__title", "id"},
			Filters:      map[string]string{"status": "status", "project": "project_id"},
			Ordering:     []string{"-issue_date", "-id"},
			Required:     []string{"amount"},
			Preload:      []string{"Project.Client"},
			Inlines: []Inline{
				{Resource: "payment", ForeignKey: "invoice_id", Fields: []string{"date", "amount", "method", "reference"}, ReadOnly: []string{"amount"}},
			},
			Actions: []Action{
				{Name: "export_as_pdf", Description: "Print Selected Invoice as PDF", run: h.exportInvoicePDF},
			},
		}),

		register[models.Payment](Meta{
			Name:   "payment",
			Plural: "payments",
			Columns: []Column{
				field("invoice", "Invoice", func(p *models.Payment) any { return invoiceLabel(p.Invoice, p.InvoiceID) }),
				field("amount", "Amount", func(p *models.Payment) any { return p.Amount }),
				field("date", "Date", func(p *models.Payment) any { return p.Date }),
				field("method", "Method", func(p *models.Payment) any { return p.Method }),
				field("reference", "Reference", func(p *models.Payment) any { return p.Reference }),
			},
			SearchFields: []string{"invoice__project__title", "reference", "invoice_id"},
			Filters:      map[string]string{"method": "method", "client": "invoice__project__client_id"},
			Ordering:     []string{"-date"},
			Preload:      []string{"Invoice.Project"},
			Required:     []string{"amount"},
		}),

		register[models.Expense](Meta{
			Name:   "expense",
			Plural: "expenses",
			Columns: []Column{
				field("title", "Title", func(e *models.Expense) any { return e.Title }),
				field("project_link", "Project", func(e *models.Expense) any { return e.ProjectTitle() }),
				field("category", "Category", func(e *models.Expense) any { return e.Category }),
				field("amount", "Amount", func(e *models.Expense) any { return e.Amount }),
				field("date", "Date", func(e *models.Expense) any { return e.Date }),
			},
			SearchFields: []string{"title", "description"},
			Filters:      map[string]string{"category": "category", "project": "project_id"},
			Ordering:     []string{"-date"},
			Preload:      []string{"Project"},
			Required:     []string{"amount"},
		}),

		register[models.Note](Meta{
			Name:   "note",
			Plural: "notes",
			Columns: []Column{
				field("project", "Project", func(n *models.Note) any { return projectLabel(n.Project) }),
				field("content_snippet", "Note Snippet", func(n *models.Note) any { return n.Snippet() }),
				field("created_at", "Created at", func(n *models.Note) any { return n.CreatedAt }),
			},
			SearchFields: []string{"project__title", "content"},
			Ordering:     []string{"-created_at"},
			Preload:      []string{"Project.Client"},
		}),

		register[models.Attachment](Meta{
			Name:   "attachment",
			Plural: "attachments",
			Columns: []Column{
				field("project", "Project", func(a *models.Attachment) any { return projectLabel(a.Project) }),
				field("description", "Description", func(a *models.Attachment) any { return a.Description }),
				field("file_link", "File", func(a *models.Attachment) any {
					if a.File == "" {
						return "No file"
					}
					return a.URL(h.mediaURL)
				}),
				field("uploaded_at", "Uploaded at", func(a *models.Attachment) any { return a.UploadedAt }),
			},
			Filters:    map[string]string{"project": "project_id"},
			Ordering:   []string{"-uploaded_at"},
			Preload:    []string{"Project.Client"},
			UploadOnly: true,
		}),
	)
}

func clientLabel(c *models.Client) string {
	if c == nil {
		return ""
	}
	return c.Label()
}

func projectLabel(p *models.Project) string {
	if p == nil {
		return ""
	}
	return p.Label()
}

func invoiceLabel(inv *models.Invoice, id uint) string {
	if inv == nil {
		return fmt.Sprintf("Invoice #%d", id)
	}
	return inv.Label()
}

func printURL(id uint) string {
	return fmt.Sprintf("/admin/invoice/%d/print", id)
}
