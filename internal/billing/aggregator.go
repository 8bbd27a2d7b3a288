// Package billing computes the financial figures shown in listings and on the dashboard.
// Every figure is recomputed from the current records on each call; nothing is stored.
package billing

import (
	"context"
	"sort"
	"time"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Totals is the dashboard headline.
type Totals struct {
	Revenue  decimal.Decimal `json:"total_revenue"`
	Projects int64           `json:"total_projects"`
	Invoices int64           `json:"total_invoices"`
}

// MonthTotal is the sum of payments received in one calendar month number, all years together.
type MonthTotal struct {
	Month time.Month      `json:"month"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// Rollup summarises the money flowing through one project.
type Rollup struct {
	ProjectID       uint                `json:"project_id"`
	Invoiced        decimal.Decimal     `json:"invoiced"`
	Paid            decimal.Decimal     `json:"paid"`
	Outstanding     decimal.Decimal     `json:"outstanding"`
	Expenses        decimal.Decimal     `json:"expenses"`
	Budget          decimal.NullDecimal `json:"budget"`
	BudgetRemaining decimal.NullDecimal `json:"budget_remaining"`
}

// TotalInvoiced sums the amounts of every invoice on the client's projects. It is zero,
// never absent, for a client without invoices.
func (a *Aggregator) TotalInvoiced(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	db := a.db.WithContext(ctx)
	projects := db.Model(&models.Project{}).Select("id").Where("client_id = ?", clientID)
	return a.sum(db.Model(&models.Invoice{}).Where("project_id IN (?)", projects), "amount")
}

func (a *Aggregator) ProjectCount(ctx context.Context, clientID uint) (int64, error) {
	var n int64
	err := a.db.WithContext(ctx).Model(&models.Project{}).Where("client_id = ?", clientID).Count(&n).Error
	return n, err
}

// DashboardTotals returns total revenue (all payments), and the project and invoice counts.
func (a *Aggregator) DashboardTotals(ctx context.Context) (Totals, error) {
	var t Totals
	db := a.db.WithContext(ctx)
	revenue, err := a.sum(db.Model(&models.Payment{}), "amount")
	if err != nil {
		return t, err
	}
	t.Revenue = revenue
	if err := db.Model(&models.Project{}).Count(&t.Projects).Error; err != nil {
		return t, err
	}
	if err := db.Model(&models.Invoice{}).Count(&t.Invoices).Error; err != nil {
		return t, err
	}
	return t, nil
}

// MonthlyRevenue groups payments by the UTC month number of their date, ascending.
// Months without payments are left out rather than reported as zero.
func (a *Aggregator) MonthlyRevenue(ctx context.Context) ([]MonthTotal, error) {
	var payments []models.Payment
	if err := a.db.WithContext(ctx).Select("date", "amount").Find(&payments).Error; err != nil {
		return nil, err
	}
	byMonth := make(map[time.Month]decimal.Decimal)
	for _, p := range payments {
		m := p.Date.UTC().Month()
		byMonth[m] = byMonth[m].Add(p.Amount)
	}
	out := make([]MonthTotal, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, MonthTotal{Month: m, Name: m.String(), Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// ProjectRollup reports invoiced, paid and outstanding amounts for a project, its expenses
// and what is left of its budget once those expenses are spent.
func (a *Aggregator) ProjectRollup(ctx context.Context, projectID uint) (Rollup, error) {
	r := Rollup{ProjectID: projectID}
	db := a.db.WithContext(ctx)

	var project models.Project
	if err := db.Select("id", "budget").First(&project, projectID).Error; err != nil {
		return r, err
	}
	var err error
	if r.Invoiced, err = a.sum(db.Model(&models.Invoice{}).Where("project_id = ?", projectID), "amount"); err != nil {
		return r, err
	}
	invoices := db.Model(&models.Invoice{}).Select("id").Where("project_id = ?", projectID)
	if r.Paid, err = a.sum(db.Model(&models.Payment{}).Where("invoice_id IN (?)", invoices), "amount"); err != nil {
		return r, err
	}
	if r.Expenses, err = a.sum(db.Model(&models.Expense{}).Where("project_id = ?", projectID), "amount"); err != nil {
		return r, err
	}
	r.Outstanding = r.Invoiced.Sub(r.Paid)
	r.Budget = project.Budget
	if project.Budget.Valid {
		r.BudgetRemaining = decimal.NewNullDecimal(project.Budget.Decimal.Sub(r.Expenses))
	}
	return r, nil
}

// sum adds the column up in Go so no SQL engine rounds through a float.
func (a *Aggregator) sum(q *gorm.DB, column string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := q.Pluck(column, &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
