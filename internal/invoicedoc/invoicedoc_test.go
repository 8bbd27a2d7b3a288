package invoicedoc

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/johnfercher/go-tree/node"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		ID:        12,
		IssueDate: models.NewDate(2025, time.May, 2),
		DueDate:   models.NewDate(2025, time.June, 1),
		Amount:    decimal.RequireFromString("1000"),
		Status:    models.InvoicePartiallyPaid,
		Project: &models.Project{
			Title:  "Brand Refresh Site",
			Client: &models.Client{Name: "Jane Doe", Email: "jane@example.com"},
		},
	}
}

func TestSelect(t *testing.T) {
	_, err := Select(nil)
	assert.True(t, errors.Is(err, ErrSelection))
	_, err = Select(make([]models.Invoice, 2))
	assert.True(t, errors.Is(err, ErrSelection))

	inv, err := Select([]models.Invoice{{ID: 3}})
	require.NoError(t, err)
	assert.Equal(t, uint(3), inv.ID)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice_12_Brand_Refresh_Site.pdf", Filename(sampleInvoice()))
}

func TestLayoutFallbacks(t *testing.T) {
	s, err := Layout(sampleInvoice())
	require.NoError(t, err)

	assert.Equal(t, "Individual", s.ClientCompany)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Project service fee.", s.Items[0].Description)
	assert.Equal(t, "1", s.Items[0].Quantity)
	assert.Equal(t, "Thank you for your business!", s.Notes)
	assert.Equal(t, "# 12", s.Number)
	assert.Equal(t, "2025-05-02", s.IssueDate)
	assert.Equal(t, "2025-06-01", s.DueDate)
	assert.Equal(t, "Partially Paid", s.Status)
	assert.Equal(t, CompanyName, s.CompanyName)
}

func TestLayoutUsesRecordText(t *testing.T) {
	inv := sampleInvoice()
	inv.Notes = "Net 30"
	inv.DueDate = models.Date{}
	inv.Project.Description = "Design and build"
	inv.Project.Client.Company = "Acme"

	s, err := Layout(inv)
	require.NoError(t, err)
	assert.Equal(t, "Acme", s.ClientCompany)
	assert.Equal(t, "Design and build", s.Items[0].Description)
	assert.Equal(t, "Net 30", s.Notes)
	assert.Equal(t, "N/A", s.DueDate)
}

func TestLayoutAmountsMatch(t *testing.T) {
	for _, amount := range []string{"1000", "250.5", "0", "12345678.99"} {
		inv := sampleInvoice()
		inv.Amount = decimal.RequireFromString(amount)
		s, err := Layout(inv)
		require.NoError(t, err)
		want := "$" + inv.Amount.StringFixed(2)
		assert.Equal(t, want, s.Items[0].UnitPrice)
		assert.Equal(t, want, s.Items[0].Amount)
		assert.Equal(t, want, s.Total)
	}
	s, _ := Layout(sampleInvoice())
	assert.Equal(t, "$1000.00", s.Total)
}

func TestLayoutMissingReference(t *testing.T) {
	inv := sampleInvoice()
	inv.Project.Client = nil
	_, err := Layout(inv)
	assert.True(t, errors.Is(err, ErrMissingReference))

	inv.Project = nil
	_, err = Layout(inv)
	assert.True(t, errors.Is(err, ErrMissingReference))

	name, body, err := NewRenderer().Document(inv)
	assert.Error(t, err)
	assert.Empty(t, name)
	assert.Nil(t, body, "no partial document")
}

func TestRenderProducesPDF(t *testing.T) {
	name, body, err := NewRenderer().Document(sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "invoice_12_Brand_Refresh_Site.pdf", name)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")), "body is not a PDF")
}

// rowHeight finds the laid-out height of the row holding a text component equal to value.
func rowHeight(t *testing.T, n *node.Node[core.Structure], value string) float64 {
	t.Helper()
	var find func(n *node.Node[core.Structure], rowH float64) (float64, bool)
	find = func(n *node.Node[core.Structure], rowH float64) (float64, bool) {
		d := n.GetData()
		if d.Type == "row" {
			rowH, _ = d.Value.(float64)
		}
		if d.Type == "text" && d.Value == value {
			return rowH, true
		}
		for _, next := range n.GetNexts() {
			if h, ok := find(next, rowH); ok {
				return h, true
			}
		}
		return 0, false
	}
	h, ok := find(n, 0)
	require.True(t, ok, "no row holds %q", value)
	return h
}

func TestLongTextGrowsRows(t *testing.T) {
	short, err := Layout(sampleInvoice())
	require.NoError(t, err)

	inv := sampleInvoice()
	inv.Project.Description = strings.Repeat("Discovery workshops, wireframes and a full visual redesign of the marketing site. ", 6) +
		strings.Repeat("Includes two rounds of revisions and handover of source files. ", 4)
	inv.Notes = strings.Repeat("Payment is due within thirty days of the issue date. ", 16)
	long, err := Layout(inv)
	require.NoError(t, err)

	shortDesc := rowHeight(t, build(short).GetStructure(), short.Items[0].Description)
	longDesc := rowHeight(t, build(long).GetStructure(), long.Items[0].Description)
	assert.Greater(t, longDesc, 3*shortDesc, "description row must fit every wrapped line")

	shortNotes := rowHeight(t, build(short).GetStructure(), "Notes: "+short.Notes)
	longNotes := rowHeight(t, build(long).GetStructure(), "Notes: "+long.Notes)
	assert.Greater(t, longNotes, 2*shortNotes)

	body, err := NewRenderer().Render(long)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}
