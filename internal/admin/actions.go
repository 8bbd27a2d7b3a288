package admin

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/diewo77/go-backoffice/httpx"
	"github.com/diewo77/go-backoffice/internal/invoicedoc"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/store"
)

type actionRequest struct {
	Action string `json:"action"`
	IDs    []uint `json:"ids"`
}

// runAction: POST /admin/{resource}/actions with the action name and the selected ids,
// as JSON or as form fields (ids may also come as _selected_action).
func (h *Handler) runAction(w http.ResponseWriter, r *http.Request) {
	res, ok := h.lookup(w, r, "resource")
	if !ok {
		return
	}
	var req actionRequest
	if httpx.IsJSONBody(r) {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			badRequest(w, "invalid_form")
			return
		}
		req.Action = r.Form.Get("action")
		for _, key := range []string{"ids", "_selected_action"} {
			for _, raw := range r.Form[key] {
				id, err := strconv.ParseUint(raw, 10, 64)
				if err != nil || id == 0 {
					badRequest(w, "invalid_id")
					return
				}
				req.IDs = append(req.IDs, uint(id))
			}
		}
	}
	if req.Action == "" {
		req.Action = r.URL.Query().Get("action")
	}
	action, ok := res.Meta().action(req.Action)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "unknown_action", map[string]string{"action": req.Action})
		return
	}
	slices.Sort(req.IDs)
	action.run(w, r, slices.Compact(req.IDs))
}

// printInvoice: GET /admin/invoice/{id}/print, the per-row shortcut for export_as_pdf.
func (h *Handler) printInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.exportInvoicePDF(w, r, []uint{id})
}

// exportInvoicePDF answers with the whole PDF of the one selected invoice, or an error
// and no document.
func (h *Handler) exportInvoicePDF(w http.ResponseWriter, r *http.Request, ids []uint) {
	invoices, err := store.GetMany[models.Invoice](r.Context(), h.store, ids, "Project.Client")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	inv, err := invoicedoc.Select(invoices)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename, body, err := h.renderer.Document(inv)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info().Uint("invoice", inv.ID).Str("file", filename).Int("bytes", len(body)).Msg("invoice exported")
	httpx.Attachment(w, "application/pdf", filename, body)
}
