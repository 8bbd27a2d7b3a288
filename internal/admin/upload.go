package admin

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-backoffice/httpx"
	"github.com/diewo77/go-backoffice/internal/models"
)

const maxUploadMemory = 32 << 20

// upload: POST /admin/attachment as multipart/form-data with file, project_id and description.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "media_unavailable", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		badRequest(w, "invalid_form")
		return
	}
	projectID, _ := strconv.ParseUint(r.FormValue("project_id"), 10, 64)
	if projectID == 0 {
		h.fail(w, r, models.Invalid("project_id", "required"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, models.Invalid("file", "required"))
		return
	}
	defer file.Close()

	name, err := h.media.Save(header.Filename, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rec := &models.Attachment{
		ProjectID:   uint(projectID),
		File:        name,
		Description: r.FormValue("description"),
	}
	if err := h.store.Create(r.Context(), rec); err != nil {
		if rmErr := h.media.Remove(name); rmErr != nil {
			h.log.Warn().Err(rmErr).Str("file", name).Msg("orphan upload not removed")
		}
		h.fail(w, r, err)
		return
	}
	res, _ := h.registry.Lookup("attachment")
	saved, err := res.Get(r.Context(), h.store, rec.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info().Uint("id", rec.ID).Str("file", name).Msg("attachment uploaded")
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"record": saved,
		"url":    rec.URL(h.mediaURL),
	})
}
