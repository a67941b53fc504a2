// Package storage keeps uploaded documents on disk under random keys, so
// a stored file's name carries no uploader-controlled content. Keys look
// like "decree/4ae1c0….pdf": the owning model, a random hex id, and the
// original extension.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
)

// Extension allow-lists per upload slot.
var (
	PDFOnly   = []string{".pdf"}
	ImageOnly = []string{".png", ".jpg", ".jpeg", ".gif"}
	WordOnly  = []string{".doc", ".docx"}
	// Receipts arrive as scans or exports.
	ReceiptAny = []string{".pdf", ".png", ".jpg", ".jpeg"}
)

type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Store{root: root}, nil
}

// Save writes the upload under a fresh random key and returns it. The
// original filename contributes only its extension, checked against the
// allow-list.
func (s *Store) Save(model, filename string, allowed []string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extAllowed(ext, allowed) {
		return "", fmt.Errorf("%w: extension %q not allowed", e.ErrInvalidInput, ext)
	}

	key := filepath.Join(model, uuid.New().String()+ext)
	path := filepath.Join(s.root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return key, nil
}

// Open returns a reader over a stored file.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, e.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored file. Missing files are not an error: soft-deleted
// records may already have had their attachments cleaned up.
func (s *Store) Remove(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve rejects keys that escape the storage root.
func (s *Store) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.Clean("/"+key))
	if !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: bad storage key", e.ErrInvalidInput)
	}
	return path, nil
}

func extAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
