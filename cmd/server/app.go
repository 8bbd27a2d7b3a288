package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/diewo77/go-backoffice/auth"
	"github.com/diewo77/go-backoffice/httpx"
	"github.com/diewo77/go-backoffice/i18n"
	"github.com/diewo77/go-backoffice/internal/admin"
	"github.com/diewo77/go-backoffice/internal/billing"
	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/media"
	"github.com/diewo77/go-backoffice/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	db       *gorm.DB
	sessions *auth.Sessions
	log      zerolog.Logger
	handler  http.Handler
}

// NewApp wires the stores, the admin and the media server onto one mux.
func NewApp(cfg *config.Config, conn *gorm.DB, log zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.Media.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	files := media.New(cfg.Media.Root, cfg.Media.URL)
	operator, err := auth.NewOperator(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return nil, err
	}

	app := &App{
		mux:      http.NewServeMux(),
		db:       conn,
		sessions: auth.NewSessions(cfg.Admin.SessionSecret),
		log:      log,
	}
	adm := admin.New(admin.Deps{
		Store:    store.New(conn, files, log),
		Agg:      billing.NewAggregator(conn),
		Media:    files,
		MediaURL: cfg.Media.URL,
		Operator: operator,
		Sessions: app.sessions,
		Log:      log,
	})

	adm.Register(app.mux)
	app.mux.HandleFunc("GET /healthz", app.health)
	app.mux.Handle("GET "+cfg.Media.URL, files.Handler())
	app.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
	})

	app.handler = withLogging(log, app.sessions.Middleware(withPreferences(app.mux)))
	return app, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		a.log.Error().Err(err).Msg("health check failed")
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withPreferences injects the language preference from query, cookie or Accept-Language.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = i18n.DetectLanguage(c.Value)
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = i18n.DetectLanguage(q)
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
