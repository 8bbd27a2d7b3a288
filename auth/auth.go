// Package auth keeps the operator session: a signed cookie carrying the operator name,
// checked against credentials configured at startup.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const (
	sessionCookieName = "session"
	operatorCtxKey    = ctxKey("operator")
	sessionTTL        = 14 * 24 * time.Hour
)

// Operator is the single back-office account allowed into the admin.
type Operator struct {
	Username     string
	passwordHash []byte
}

// NewOperator hashes password once so plain text never stays in memory longer than startup.
func NewOperator(username, password string) (Operator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Operator{}, fmt.Errorf("hash operator password: %w", err)
	}
	return Operator{Username: username, passwordHash: hash}, nil
}

// Check compares credentials against the operator account.
func (o Operator) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(o.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(o.passwordHash, []byte(password))
	return userOK && passErr == nil
}

// Sessions signs and verifies session cookies with a shared secret.
type Sessions struct {
	secret []byte
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

func (s *Sessions) sign(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Create sets a signed cookie with the operator name.
func (s *Sessions) Create(w http.ResponseWriter, username string) {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(username))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded + "." + s.sign(encoded),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
}

// Clear deletes the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// Parse validates the cookie and returns the operator name.
func (s *Sessions) Parse(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	encoded, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(encoded))) {
		return "", false
	}
	name, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(name) == 0 {
		return "", false
	}
	return string(name), true
}

// Middleware attaches the operator to the request context if a valid session is present.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name, ok := s.Parse(r); ok {
			r = r.WithContext(WithOperator(r.Context(), name))
		}
		next.ServeHTTP(w, r)
	})
}

func WithOperator(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operatorCtxKey, name)
}

func OperatorFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(operatorCtxKey).(string)
	return name, ok && name != ""
}

// RequireAuth returns 401 JSON or redirects to /login when no operator is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := OperatorFromContext(r.Context()); !ok {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "text/html") {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"unauthorized"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}
