package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyGeminiModel, "gemini-2.5-pro"))
	assert.Equal(t, "gemini-2.5-pro", store.GetString(KeyGeminiModel))

	require.NoError(t, store.Set(KeyRenderDPI, 300))
	assert.Equal(t, 300, store.GetInt(KeyRenderDPI))

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewConfigStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyDataDir, "/srv/vaulty"))
	require.NoError(t, store.Set(KeyRenderDPI, 200))

	reopened, err := NewConfigStore(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/vaulty", reopened.GetString(KeyDataDir))
	assert.Equal(t, 200, reopened.GetInt(KeyRenderDPI))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	tempDir := t.TempDir()

	// Hand-written config files use TOML tables; keys are flattened to
	// dot notation on load.
	content := "data_dir = \"/srv/vaulty\"\n\n[gemini]\nmodel = \"gemini-2.5-flash\"\n\n[render]\ndpi = 72\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/vaulty", store.GetString(KeyDataDir))
	assert.Equal(t, "gemini-2.5-flash", store.GetString(KeyGeminiModel))
	assert.Equal(t, 72, store.GetInt(KeyRenderDPI))
}

func TestConfigStore_Delete(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyDataDir, "/tmp/x"))
	require.NoError(t, store.Delete(KeyDataDir))

	_, ok := store.Get(KeyDataDir)
	assert.False(t, ok)
}

func TestConfigStore_Path(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewConfigStore(tempDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tempDir, "config.toml"), store.Path())
}
