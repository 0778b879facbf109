package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

func setupFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFileStore(tempDir)
	require.NoError(t, err)
	return store, tempDir
}

func TestFileStore_SaveReadRoundTrip(t *testing.T) {
	store, tempDir := setupFileStore(t)

	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	ref, err := store.Save("data:image/png;base64," + payload)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "images/"), "reference is relative to the data dir")
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.FileExists(t, filepath.Join(tempDir, filepath.FromSlash(ref)))

	// The file holds decoded bytes, not base64 text.
	data, err := os.ReadFile(filepath.Join(tempDir, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), data)

	got, err := store.Read(ref)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+payload, got)
}

func TestFileStore_SaveBareBase64(t *testing.T) {
	store, _ := setupFileStore(t)

	payload := base64.StdEncoding.EncodeToString([]byte("no prefix"))
	ref, err := store.Save(payload)
	require.NoError(t, err)

	got, err := store.Read(ref)
	require.NoError(t, err)
	assert.Equal(t, payload, domain.StripDataURL(got))
}

func TestFileStore_SaveInvalidBase64(t *testing.T) {
	store, _ := setupFileStore(t)

	_, err := store.Save("not!!valid!!base64")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decoding image data")
}

func TestFileStore_SaveGeneratesUniqueNames(t *testing.T) {
	store, _ := setupFileStore(t)

	payload := base64.StdEncoding.EncodeToString([]byte("same content"))
	ref1, err := store.Save(payload)
	require.NoError(t, err)
	ref2, err := store.Save(payload)
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
}

func TestFileStore_ReadMissing(t *testing.T) {
	store, _ := setupFileStore(t)

	_, err := store.Read("images/does-not-exist.png")
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestFileStore_DeleteAbsentIsNoOp(t *testing.T) {
	store, _ := setupFileStore(t)

	assert.NoError(t, store.Delete("images/does-not-exist.png"))
}

func TestFileStore_Delete(t *testing.T) {
	store, tempDir := setupFileStore(t)

	ref, err := store.Save(base64.StdEncoding.EncodeToString([]byte("bytes")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ref))
	assert.NoFileExists(t, filepath.Join(tempDir, filepath.FromSlash(ref)))
}

func TestFileStore_RepairsObstructedImagesDir(t *testing.T) {
	tempDir := t.TempDir()

	// Simulate a bad restore: "images" exists as a plain file.
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "images"), []byte("junk"), 0600))

	store, err := NewFileStore(tempDir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(tempDir, "images"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = store.Save(base64.StdEncoding.EncodeToString([]byte("bytes")))
	assert.NoError(t, err)
}
