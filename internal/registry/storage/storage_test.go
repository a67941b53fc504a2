package storage

import (
	"io"
	"strings"
	"testing"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	key, err := store.Save("decree", "ruling.PDF", PDFOnly, strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "decree/"), "keys are namespaced by model")
	assert.True(t, strings.HasSuffix(key, ".pdf"), "the extension survives, lowercased")
	assert.NotContains(t, key, "ruling", "the uploader's filename does not reach disk")

	f, err := store.Open(key)
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))
}

func TestSaveRejectsExtension(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("decree", "malware.exe", PDFOnly, strings.NewReader("x"))
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = store.Save("publication", "scan.pdf", ImageOnly, strings.NewReader("x"))
	assert.ErrorIs(t, err, e.ErrInvalidInput, "each slot only accepts its own extensions")
}

func TestOpenRejectsEscapingKeys(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("../../etc/passwd")
	assert.Error(t, err, "keys must not escape the storage root")
}

func TestOpenMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("decree/nope.pdf")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	key, err := store.Save("objection", "receipt.jpg", ReceiptAny, strings.NewReader("img"))
	require.NoError(t, err)
	require.NoError(t, store.Remove(key))

	_, err = store.Open(key)
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.NoError(t, store.Remove(key), "removing an already-removed file is not an error")
}
