package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFiles struct{ removed []string }

func (f *fakeFiles) Remove(name string) error {
	f.removed = append(f.removed, name)
	return nil
}

func newStore(t *testing.T) (*Store, *fakeFiles) {
	files := &fakeFiles{}
	return New(testutil.OpenDB(t), files, zerolog.Nop()), files
}

func count[T any](t *testing.T, s *Store) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(new(T)).Count(&n).Error)
	return n
}

func TestCreateClientEmailUnique(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.Client{Name: "Jane", Email: "jane@example.com"}))
	err := s.Create(ctx, &models.Client{Name: "Other Jane", Email: " jane@example.com "})
	v, ok := models.AsValidation(err)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, "already_exists", v["email"])

	// updating a client keeps its own email
	c, err := Get[models.Client](ctx, s, 1)
	require.NoError(t, err)
	c.Phone = "555-0100"
	require.NoError(t, s.Update(ctx, c))
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	s, _ := newStore(t)
	err := s.Create(context.Background(), &models.Client{Name: "", Email: "bad"})
	v, ok := models.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "required", v["name"])
	assert.Equal(t, "invalid_email", v["email"])
	assert.Zero(t, count[models.Client](t, s))
}

func TestCreateChecksReferences(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	err := s.Create(ctx, &models.Project{ClientID: 42, Title: "Ghost"})
	v, ok := models.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_reference", v["client_id"])

	missing := uint(7)
	err = s.Create(ctx, &models.Expense{Title: "Hosting", ProjectID: &missing, Amount: decimal.NewFromInt(5)})
	v, ok = models.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_reference", v["project_id"])

	require.NoError(t, s.Create(ctx, &models.Expense{Title: "Hosting", Amount: decimal.NewFromInt(5)}))
}

func TestCreateAppliesDefaults(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	c := testutil.Client(t, s.DB(), "Jane", "jane@example.com", "")

	p := &models.Project{ClientID: c.ID, Title: "Site"}
	require.NoError(t, s.Create(ctx, p))
	inv := &models.Invoice{ProjectID: p.ID, Amount: decimal.RequireFromString("10.00")}
	require.NoError(t, s.Create(ctx, inv))
	pay := &models.Payment{InvoiceID: inv.ID, Amount: decimal.RequireFromString("10.00")}
	require.NoError(t, s.Create(ctx, pay))

	got, err := Get[models.Project](ctx, s, p.ID, "Client")
	require.NoError(t, err)
	assert.Equal(t, models.ProjectPending, got.Status)
	assert.Equal(t, models.Today(), got.StartDate)
	assert.Equal(t, "Site - Jane", got.Label())

	gotInv, err := Get[models.Invoice](ctx, s, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceUnpaid, gotInv.Status)
	assert.True(t, gotInv.Amount.Equal(decimal.RequireFromString("10")))

	gotPay, err := Get[models.Payment](ctx, s, pay.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPaymentMethod, gotPay.Method)
	assert.False(t, gotPay.Date.IsZero())
}

func TestUpdateMissingRecord(t *testing.T) {
	s, _ := newStore(t)
	err := s.Update(context.Background(), &models.Client{ID: 99, Name: "X", Email: "x@example.com"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, count[models.Client](t, s), "update must not insert")
}

func TestInvoiceStatusIsFreelySettable(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	c := testutil.Client(t, s.DB(), "Jane", "jane@example.com", "")
	p := testutil.Project(t, s.DB(), c, "Site")
	inv := testutil.Invoice(t, s.DB(), p, "100.00")

	for _, status := range []models.InvoiceStatus{models.InvoicePaid, models.InvoiceOverdue, models.InvoiceUnpaid} {
		inv.Status = status
		require.NoError(t, s.Update(ctx, inv))
		got, err := Get[models.Invoice](ctx, s, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestDeleteClientCascades(t *testing.T) {
	s, files := newStore(t)
	ctx := context.Background()
	conn := s.DB()

	c := testutil.Client(t, conn, "Jane", "jane@example.com", "Acme")
	other := testutil.Client(t, conn, "Bob", "bob@example.com", "")
	p1 := testutil.Project(t, conn, c, "Website")
	p2 := testutil.Project(t, conn, c, "Logo")
	kept := testutil.Project(t, conn, other, "Kept")

	inv := testutil.Invoice(t, conn, p1, "1000.00")
	testutil.Invoice(t, conn, p2, "250.50")
	keptInv := testutil.Invoice(t, conn, kept, "10.00")
	testutil.Payment(t, conn, inv, "500.00", time.Now())
	testutil.Payment(t, conn, keptInv, "10.00", time.Now())
	require.NoError(t, conn.Create(&models.Task{ProjectID: p1.ID, Title: "Wireframes"}).Error)
	require.NoError(t, conn.Create(&models.Note{ProjectID: p2.ID, Content: "call back"}).Error)
	require.NoError(t, conn.Create(&models.Attachment{ProjectID: p1.ID, File: "project_files/a.pdf"}).Error)
	exp := testutil.Expense(t, conn, p1, "Hosting", "20.00")
	keptExp := testutil.Expense(t, conn, kept, "Fonts", "5.00")

	require.NoError(t, s.DeleteClient(ctx, c.ID))

	assert.Equal(t, int64(1), count[models.Client](t, s))
	assert.Equal(t, int64(1), count[models.Project](t, s))
	assert.Equal(t, int64(1), count[models.Invoice](t, s))
	assert.Equal(t, int64(1), count[models.Payment](t, s))
	assert.Zero(t, count[models.Task](t, s))
	assert.Zero(t, count[models.Note](t, s))
	assert.Zero(t, count[models.Attachment](t, s))
	assert.Equal(t, int64(2), count[models.Expense](t, s), "expenses survive")

	gotExp, err := Get[models.Expense](ctx, s, exp.ID)
	require.NoError(t, err)
	assert.Nil(t, gotExp.ProjectID)
	gotKept, err := Get[models.Expense](ctx, s, keptExp.ID)
	require.NoError(t, err)
	require.NotNil(t, gotKept.ProjectID)
	assert.Equal(t, kept.ID, *gotKept.ProjectID)

	assert.Equal(t, []string{"project_files/a.pdf"}, files.removed)
}

func TestDeleteInvoiceCascadesPayments(t *testing.T) {
	s, _ := newStore(t)
	conn := s.DB()
	c := testutil.Client(t, conn, "Jane", "jane@example.com", "")
	p := testutil.Project(t, conn, c, "Site")
	inv := testutil.Invoice(t, conn, p, "100.00")
	testutil.Payment(t, conn, inv, "40.00", time.Now())
	testutil.Payment(t, conn, inv, "60.00", time.Now())

	require.NoError(t, Delete[models.Invoice](context.Background(), s, inv.ID))
	assert.Zero(t, count[models.Invoice](t, s))
	assert.Zero(t, count[models.Payment](t, s))
	assert.Equal(t, int64(1), count[models.Project](t, s))
}

func TestDeleteMissing(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	assert.ErrorIs(t, s.DeleteClient(ctx, 5), ErrNotFound)
	assert.ErrorIs(t, s.DeleteProject(ctx, 5), ErrNotFound)
	assert.ErrorIs(t, Delete[models.Task](ctx, s, 5), ErrNotFound)
}

func TestListSearchFilterPaginate(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	conn := s.DB()
	acme := testutil.Client(t, conn, "Jane", "jane@example.com", "Acme")
	solo := testutil.Client(t, conn, "Bob", "bob@example.com", "")
	testutil.Project(t, conn, acme, "Website")
	testutil.Project(t, conn, acme, "Logo")
	bobSite := testutil.Project(t, conn, solo, "Bob site")
	bobSite.Status = models.ProjectOngoing
	require.NoError(t, s.Update(ctx, bobSite))

	page, err := List[models.Project](ctx, s, Query{
		Search:       "JANE",
		SearchFields: []string{"title", "client__name"},
		Order:        []string{"title"},
		Preload:      []string{"Client"},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "Logo", page.Items[0].Title)
	assert.Equal(t, "Jane", page.Items[0].Client.Name)

	page, err = List[models.Project](ctx, s, Query{Filters: map[string]string{"status": string(models.ProjectOngoing)}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bob site", page.Items[0].Title)

	page, err = List[models.Project](ctx, s, Query{Order: []string{"-id"}, Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Website", page.Items[0].Title)
}

func TestListSearchByID(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	conn := s.DB()
	c := testutil.Client(t, conn, "Jane", "jane@example.com", "")
	p := testutil.Project(t, conn, c, "Site")
	testutil.Invoice(t, conn, p, "1.00")
	second := testutil.Invoice(t, conn, p, "2.00")

	page, err := List[models.Invoice](ctx, s, Query{Search: "2", SearchFields: []string{"id"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.ID, page.Items[0].ID)

	page, err = List[models.Invoice](ctx, s, Query{Search: "abc", SearchFields: []string{"id"}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListNestedSearch(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	conn := s.DB()
	c := testutil.Client(t, conn, "Jane", "jane@example.com", "")
	other := testutil.Client(t, conn, "Bob", "bob@example.com", "")
	inv := testutil.Invoice(t, conn, testutil.Project(t, conn, c, "Website"), "10.00")
	otherInv := testutil.Invoice(t, conn, testutil.Project(t, conn, other, "Logo"), "10.00")
	testutil.Payment(t, conn, inv, "10.00", time.Now())
	testutil.Payment(t, conn, otherInv, "10.00", time.Now())

	page, err := List[models.Payment](ctx, s, Query{
		Filters: map[string]string{"invoice__project__client_id": "1"},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, inv.ID, page.Items[0].InvoiceID)

	page, err = List[models.Payment](ctx, s, Query{Search: "logo", SearchFields: []string{"invoice__project__title", "reference"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, otherInv.ID, page.Items[0].InvoiceID)
}
