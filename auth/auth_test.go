package auth

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatalf("missing session cookie")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("test-secret")
	rr := httptest.NewRecorder()
	s.Create(rr, "admin")
	c := sessionCookie(t, rr)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`), c.Value)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(c)
	name, ok := s.Parse(req)
	require.True(t, ok)
	assert.Equal(t, "admin", name)
}

func TestSessionRejectsForeignSignature(t *testing.T) {
	rr := httptest.NewRecorder()
	NewSessions("one").Create(rr, "admin")
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(sessionCookie(t, rr))
	_, ok := NewSessions("two").Parse(req)
	assert.False(t, ok)
}

func TestOperatorCheck(t *testing.T) {
	op, err := NewOperator("admin", "admin123")
	require.NoError(t, err)
	assert.True(t, op.Check("admin", "admin123"))
	assert.False(t, op.Check("admin", "wrong"))
	assert.False(t, op.Check("root", "admin123"))
}

func TestRequireAuth(t *testing.T) {
	s := NewSessions("k")
	h := s.Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	login := httptest.NewRecorder()
	s.Create(login, "admin")
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(sessionCookie(t, login))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
