package admin

import (
	"net/http"
	"time"

	"github.com/diewo77/go-backoffice/auth"
	"github.com/diewo77/go-backoffice/internal/billing"
	"github.com/diewo77/go-backoffice/internal/invoicedoc"
	"github.com/diewo77/go-backoffice/internal/media"
	"github.com/diewo77/go-backoffice/internal/store"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the admin handlers work with.
type Deps struct {
	Store    *store.Store
	Agg      *billing.Aggregator
	Renderer *invoicedoc.Renderer
	Media    *media.Storage
	MediaURL string
	Operator auth.Operator
	Sessions *auth.Sessions
	Log      zerolog.Logger
	Now      func() time.Time
}

type Handler struct {
	store    *store.Store
	agg      *billing.Aggregator
	renderer *invoicedoc.Renderer
	media    *media.Storage
	mediaURL string
	operator auth.Operator
	sessions *auth.Sessions
	log      zerolog.Logger
	now      func() time.Time
	registry *Registry
}

func New(d Deps) *Handler {
	h := &Handler{
		store:    d.Store,
		agg:      d.Agg,
		renderer: d.Renderer,
		media:    d.Media,
		mediaURL: d.MediaURL,
		operator: d.Operator,
		sessions: d.Sessions,
		log:      d.Log.With().Str("component", "admin").Logger(),
		now:      d.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.renderer == nil {
		h.renderer = invoicedoc.NewRenderer()
	}
	h.registry = h.buildRegistry()
	return h
}

func (h *Handler) Registry() *Registry { return h.registry }

// Register mounts the login routes and the operator-only admin routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", h.loginForm)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /logout", h.logout)

	protect := func(fn http.HandlerFunc) http.Handler { return auth.RequireAuth(fn) }

	mux.Handle("GET /admin/{$}", protect(h.dashboard))
	mux.Handle("GET /admin/registry", protect(h.describe))

	mux.Handle("GET /admin/invoice/{id}/print", protect(h.printInvoice))
	mux.Handle("POST /admin/{resource}/actions", protect(h.runAction))

	mux.Handle("GET /admin/{resource}", protect(h.list))
	mux.Handle("POST /admin/{resource}", protect(h.create))
	mux.Handle("GET /admin/{resource}/{id}", protect(h.detail))
	mux.Handle("PUT /admin/{resource}/{id}", protect(h.update))
	mux.Handle("POST /admin/{resource}/{id}", protect(h.update))
	mux.Handle("DELETE /admin/{resource}/{id}", protect(h.remove))
	mux.Handle("POST /admin/{resource}/{id}/delete", protect(h.remove))
	mux.Handle("POST /admin/{resource}/{id}/inlines/{child}", protect(h.createInline))
}
