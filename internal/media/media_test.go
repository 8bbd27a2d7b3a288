package media

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveServeRemove(t *testing.T) {
	s := New(t.TempDir(), "/media/")

	name, err := s.Save(`C:\docs\signed contract.pdf`, strings.NewReader("%PDF-1.4 contract"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "project_files/"), name)
	assert.True(t, strings.HasSuffix(name, "_signed_contract.pdf"), name)
	assert.Equal(t, "/media/"+name, s.URL(name))

	data, err := os.ReadFile(s.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 contract", string(data))

	req := httptest.NewRequest(http.MethodGet, s.URL(name), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "%PDF-1.4 contract", string(body))

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(s.Path(name))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Remove(name), "removing twice is fine")
}

func TestSaveUniqueNames(t *testing.T) {
	s := New(t.TempDir(), "/media/")
	a, err := s.Save("logo.png", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save("logo.png", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestInvalidNames(t *testing.T) {
	s := New(t.TempDir(), "/media/")
	_, err := s.Save("..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, s.Remove("../etc/passwd"), ErrInvalidName)
}
