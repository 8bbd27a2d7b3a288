// Package media stores attachment files under the media root and serves them by URL.
package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadDir is where project attachments land, relative to the media root.
const UploadDir = "project_files"

var ErrInvalidName = errors.New("invalid media file name")

type Storage struct {
	root string
	url  string
}

func New(root, url string) *Storage {
	return &Storage{root: root, url: url}
}

// Save writes r under UploadDir with a unique prefix and returns the stored name,
// relative to the media root. Nothing is left behind when writing fails.
func (s *Storage) Save(original string, r io.Reader) (string, error) {
	base := cleanBase(original)
	if base == "" {
		return "", ErrInvalidName
	}
	name := path.Join(UploadDir, uuid.NewString()+"_"+base)

	dir := filepath.Join(s.root, filepath.FromSlash(UploadDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return "", fmt.Errorf("store %s: %w", base, err)
	}
	return name, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Storage) Remove(name string) error {
	if !fs.ValidPath(name) {
		return ErrInvalidName
	}
	err := os.Remove(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Path is the location of a stored name on disk.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// URL is the public address of a stored name.
func (s *Storage) URL(name string) string {
	return path.Join(s.url, name)
}

// Handler serves the media root read-only under the media URL.
func (s *Storage) Handler() http.Handler {
	return http.StripPrefix(s.url, http.FileServer(http.Dir(s.root)))
}

func cleanBase(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || strings.ContainsRune(`<>:"|?*`, r):
			return -1
		}
		return r
	}, base)
	return base
}
