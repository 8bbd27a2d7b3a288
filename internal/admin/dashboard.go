package admin

import (
	"net/http"

	"github.com/diewo77/go-backoffice/httpx"
	"github.com/diewo77/go-backoffice/internal/billing"
)

type monthEntry struct {
	billing.MonthTotal
	Display string `json:"display"`
}

// dashboard: GET /admin/, the landing view's figures.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	totals, err := h.agg.DashboardTotals(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	months, err := h.agg.MonthlyRevenue(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	monthly := make([]monthEntry, len(months))
	for i, m := range months {
		monthly[i] = monthEntry{MonthTotal: m, Display: billing.FormatMoney(m.Total)}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"total_revenue":         totals.Revenue,
		"total_revenue_display": billing.FormatMoney(totals.Revenue),
		"total_projects":        totals.Projects,
		"total_invoices":        totals.Invoices,
		"monthly_revenue":       monthly,
		"resources":             h.registry.Names(),
	})
}
