package admin

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-backoffice/httpx"
	"github.com/diewo77/go-backoffice/i18n"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginForm: GET /login tells the client how to authenticate.
func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"method": http.MethodPost,
		"action": "/login",
		"fields": []string{"username", "password"},
	})
}

// login: POST /login with username and password as JSON or form fields.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if httpx.IsJSONBody(r) {
		if err := httpx.DecodeJSON(r, &c); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	} else {
		c.Username = r.FormValue("username")
		c.Password = r.FormValue("password")
	}
	c.Username = strings.TrimSpace(c.Username)

	if !h.operator.Check(c.Username, c.Password) {
		h.log.Warn().Str("username", c.Username).Msg("login rejected")
		lang := i18n.LangFromContext(r.Context())
		httpx.JSONMessage(w, http.StatusUnauthorized, "invalid_credentials", i18n.T(lang, "invalid_credentials"))
		return
	}
	h.sessions.Create(w, c.Username)
	h.log.Info().Str("username", c.Username).Msg("operator logged in")
	if !httpx.IsJSONBody(r) && !httpx.WantsJSON(r) {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"operator": c.Username})
}

// logout: POST /logout
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
