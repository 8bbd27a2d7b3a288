package testutil

import (
	"testing"
	"time"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func mustCreate(t testing.TB, conn *gorm.DB, rec any) {
	t.Helper()
	if err := conn.Omit(clause.Associations).Create(rec).Error; err != nil {
		t.Fatalf("create %T: %v", rec, err)
	}
}

func Client(t testing.TB, conn *gorm.DB, name, email, company string) *models.Client {
	c := &models.Client{Name: name, Email: email, Company: company}
	mustCreate(t, conn, c)
	return c
}

func Project(t testing.TB, conn *gorm.DB, client *models.Client, title string) *models.Project {
	p := &models.Project{ClientID: client.ID, Title: title}
	mustCreate(t, conn, p)
	return p
}

func Invoice(t testing.TB, conn *gorm.DB, project *models.Project, amount string) *models.Invoice {
	inv := &models.Invoice{ProjectID: project.ID, Amount: decimal.RequireFromString(amount)}
	mustCreate(t, conn, inv)
	return inv
}

func Payment(t testing.TB, conn *gorm.DB, invoice *models.Invoice, amount string, date time.Time) *models.Payment {
	p := &models.Payment{InvoiceID: invoice.ID, Amount: decimal.RequireFromString(amount), Date: date}
	mustCreate(t, conn, p)
	return p
}

func Expense(t testing.TB, conn *gorm.DB, project *models.Project, title, amount string) *models.Expense {
	e := &models.Expense{Title: title, Amount: decimal.RequireFromString(amount)}
	if project != nil {
		e.ProjectID = &project.ID
	}
	mustCreate(t, conn, e)
	return e
}
