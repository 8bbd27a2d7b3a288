package admin

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-backoffice/httpx"
	"github.com/diewo77/go-backoffice/i18n"
	"github.com/diewo77/go-backoffice/internal/invoicedoc"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/store"
)

// fail reports err to the operator. Every failure stays scoped to its request.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())
	if v, ok := models.AsValidation(err); ok {
		details := make(map[string]map[string]string, len(v))
		for _, f := range v.Fields() {
			details[f] = map[string]string{"code": v[f], "message": i18n.T(lang, v[f])}
		}
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", details)
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONMessage(w, http.StatusNotFound, "not_found", i18n.T(lang, "not_found"))
	case errors.Is(err, invoicedoc.ErrSelection):
		httpx.JSONMessage(w, http.StatusBadRequest, "select_one_invoice", i18n.T(lang, "select_one_invoice"))
	case errors.Is(err, invoicedoc.ErrMissingReference):
		h.log.Warn().Err(err).Str("path", r.URL.Path).Msg("invoice export refused")
		httpx.JSONMessage(w, http.StatusUnprocessableEntity, "missing_reference", i18n.T(lang, "missing_reference"))
	default:
		h.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("admin request failed")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func badRequest(w http.ResponseWriter, code string) {
	httpx.JSONError(w, http.StatusBadRequest, code, nil)
}
