package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-backoffice/httpx"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/store"
	"github.com/diewo77/go-backoffice/validation"
)

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, key string) (Resource, bool) {
	res, ok := h.registry.Lookup(r.PathValue(key))
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "unknown_resource", map[string]string{"resource": r.PathValue(key)})
	}
	return res, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(w, "invalid_id")
		return 0, false
	}
	return uint(id), true
}

// list: GET /admin/{resource}?q=...&page=...&limit=...&<filter>=...
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	res, ok := h.lookup(w, r, "resource")
	if !ok {
		return
	}
	meta := res.Meta()
	params := r.URL.Query()
	page, _ := strconv.Atoi(params.Get("page"))
	limit, _ := strconv.Atoi(params.Get("limit"))

	q := store.Query{
		Search:       params.Get("q"),
		SearchFields: meta.SearchFields,
		Order:        meta.Ordering,
		Preload:      meta.Preload,
		Page:         page,
		Limit:        limit,
	}
	for param, path := range meta.Filters {
		if params.Has(param) {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[path] = params.Get(param)
		}
	}

	recs, total, err := res.List(r.Context(), h.store, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		rw, err := row(r.Context(), meta, rec)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		rows = append(rows, rw)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > store.MaxLimit {
		q.Limit = store.DefaultLimit
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"resource": meta.Name,
		"columns":  meta.Columns,
		"items":    rows,
		"total":    total,
		"page":     q.Page,
		"limit":    q.Limit,
	})
}

// detail: GET /admin/{resource}/{id}, with inline children.
func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	res, ok := h.lookup(w, r, "resource")
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := res.Get(r.Context(), h.store, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body := map[string]any{
		"resource": res.Meta().Name,
		"label":    rec.Label(),
		"record":   rec,
	}
	inlines, err := h.inlines(r.Context(), res.Meta(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(inlines) > 0 {
		body["inlines"] = inlines
	}
	if _, isProject := rec.(*models.Project); isProject {
		rollup, err := h.agg.ProjectRollup(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		body["rollup"] = rollup
	}
	httpx.JSON(w, http.StatusOK, body)
}

// inlineList is one inline table. Total counts every child, Items holds at most store.MaxLimit.
type inlineList struct {
	Items []models.Record `json:"items"`
	Total int64           `json:"total"`
}

func (h *Handler) inlines(ctx context.Context, meta *Meta, parentID uint) (map[string]inlineList, error) {
	out := make(map[string]inlineList, len(meta.Inlines))
	for _, in := range meta.Inlines {
		child, ok := h.registry.Lookup(in.Resource)
		if !ok {
			continue
		}
		order := in.Ordering
		if len(order) == 0 {
			order = child.Meta().Ordering
		}
		recs, total, err := child.List(ctx, h.store, store.Query{
			Filters: map[string]string{in.ForeignKey: strconv.FormatUint(uint64(parentID), 10)},
			Order:   order,
			Limit:   store.MaxLimit,
		})
		if err != nil {
			return nil, err
		}
		out[in.Resource] = inlineList{Items: recs, Total: total}
	}
	return out, nil
}

// create: POST /admin/{resource}
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	res, ok := h.lookup(w, r, "resource")
	if !ok {
		return
	}
	if res.Meta().UploadOnly {
		if !isMultipart(r) {
			httpx.JSONError(w, http.StatusUnsupportedMediaType, "multipart_required", nil)
			return
		}
		h.upload(w, r)
		return
	}
	if !httpx.IsJSONBody(r) {
		httpx.JSONError(w, http.StatusUnsupportedMediaType, "json_required", nil)
		return
	}
	var fields map[string]json.RawMessage
	if err := httpx.DecodeJSON(r, &fields); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	h.decodeAndInsert(w, r, res, fields)
}

// createInline: POST /admin/{resource}/{id}/inlines/{child} binds the new child to the parent.
func (h *Handler) createInline(w http.ResponseWriter, r *http.Request) {
	parent, ok := h.lookup(w, r, "resource")
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var inline *Inline
	for i := range parent.Meta().Inlines {
		if parent.Meta().Inlines[i].Resource == r.PathValue("child") {
			inline = &parent.Meta().Inlines[i]
		}
	}
	if inline == nil {
		httpx.JSONError(w, http.StatusNotFound, "unknown_inline", map[string]string{"inline": r.PathValue("child")})
		return
	}
	child, _ := h.registry.Lookup(inline.Resource)
	if child.Meta().UploadOnly {
		httpx.JSONError(w, http.StatusUnsupportedMediaType, "multipart_required", nil)
		return
	}
	if _, err := parent.Get(r.Context(), h.store, id); err != nil {
		h.fail(w, r, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := httpx.DecodeJSON(r, &fields); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	fields[inline.ForeignKey] = json.RawMessage(strconv.FormatUint(uint64(id), 10))
	h.decodeAndInsert(w, r, child, fields)
}

// decodeAndInsert checks the fields a zero value cannot stand in for, then decodes
// fields onto a new record of res and stores it.
func (h *Handler) decodeAndInsert(w http.ResponseWriter, r *http.Request, res Resource, fields map[string]json.RawMessage) {
	if v := missingFields(res.Meta().Required, fields); !v.Empty() {
		h.fail(w, r, &models.ValidationError{Violations: v})
		return
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rec := res.New()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	h.insert(w, r, res, rec)
}

func missingFields(required []string, fields map[string]json.RawMessage) validation.Violations {
	v := make(validation.Violations)
	for _, name := range required {
		raw, ok := fields[name]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			v[name] = "required"
		}
	}
	return v
}

func (h *Handler) insert(w http.ResponseWriter, r *http.Request, res Resource, rec models.Record) {
	if err := h.store.Create(r.Context(), rec); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := res.Get(r.Context(), h.store, rec.PrimaryKey())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info().Str("resource", res.Meta().Name).Uint("id", saved.PrimaryKey()).Msg("record created")
	httpx.JSON(w, http.StatusCreated, saved)
}

// update: PUT|POST /admin/{resource}/{id}. Fields missing from the body keep their values.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	res, ok := h.lookup(w, r, "resource")
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !httpx.IsJSONBody(r) {
		httpx.JSONError(w, http.StatusUnsupportedMediaType, "json_required", nil)
		return
	}
	rec, err := res.Get(r.Context(), h.store, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var storedFile string
	if a, isAttachment := rec.(*models.Attachment); isAttachment {
		storedFile = a.File
	}
	if err := httpx.DecodeJSON(r, rec); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if a, isAttachment := rec.(*models.Attachment); isAttachment && a.File != storedFile {
		h.fail(w, r, models.Invalid("file", "read_only"))
		return
	}
	if rec.PrimaryKey() != id {
		badRequest(w, "id_mismatch")
		return
	}
	if err := h.store.Update(r.Context(), rec); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := res.Get(r.Context(), h.store, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info().Str("resource", res.Meta().Name).Uint("id", id).Msg("record updated")
	httpx.JSON(w, http.StatusOK, saved)
}

// remove: DELETE /admin/{resource}/{id} or POST /admin/{resource}/{id}/delete
func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	res, ok := h.lookup(w, r, "resource")
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := res.Delete(r.Context(), h.store, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info().Str("resource", res.Meta().Name).Uint("id", id).Msg("record deleted")
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// describe: GET /admin/registry
func (h *Handler) describe(w http.ResponseWriter, r *http.Request) {
	metas := make([]*Meta, 0, len(h.registry.order))
	for _, name := range h.registry.Names() {
		res, _ := h.registry.Lookup(name)
		metas = append(metas, res.Meta())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"resources": metas})
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
