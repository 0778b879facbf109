// Package assets implements the asset store on the local filesystem.
// Image files live under <dataDir>/images and are addressed by
// generated UUID filenames; references are relative to the data
// directory so they stay valid if the directory moves.
package assets

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
	"github.com/vaulty-app/vaulty/internal/logger"
)

// imagesDirName is the asset subdirectory under the data directory.
const imagesDirName = "images"

// Ensure FileStore implements the interface.
var _ driven.AssetStore = (*FileStore)(nil)

// FileStore stores image assets as PNG files on disk.
type FileStore struct {
	dataDir string
}

// NewFileStore creates an asset store rooted at dataDir.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vaulty")
	}
	s := &FileStore{dataDir: dataDir}
	if err := s.ensureImagesDir(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save decodes a base64 image and writes it under a generated filename.
// The returned reference is relative to the data directory, e.g.
// "images/3f2a….png".
func (s *FileStore) Save(encoded string) (string, error) {
	if err := s.ensureImagesDir(); err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(domain.StripDataURL(encoded))
	if err != nil {
		return "", fmt.Errorf("decoding image data: %w", err)
	}

	fileName := uuid.NewString() + ".png"
	fullPath := filepath.Join(s.dataDir, imagesDirName, fileName)
	if err := os.WriteFile(fullPath, data, 0600); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	logger.Debug("saved asset %s (%d bytes)", fileName, len(data))
	return filepath.ToSlash(filepath.Join(imagesDirName, fileName)), nil
}

// Read returns the asset re-encoded as a data URL.
func (s *FileStore) Read(ref string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, filepath.FromSlash(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrAssetNotFound, ref)
		}
		return "", fmt.Errorf("reading asset %s: %w", ref, err)
	}
	return domain.EncodePNG(base64.StdEncoding.EncodeToString(data)), nil
}

// Delete removes the asset file. A missing file is not an error.
func (s *FileStore) Delete(ref string) error {
	err := os.Remove(filepath.Join(s.dataDir, filepath.FromSlash(ref)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting asset %s: %w", ref, err)
	}
	return nil
}

// ensureImagesDir creates the images directory, repairing a storage
// root that unexpectedly exists as a file or symlink. Seen in the wild
// after a bad restore: a plain "images" file blocks MkdirAll forever.
func (s *FileStore) ensureImagesDir() error {
	dir := filepath.Join(s.dataDir, imagesDirName)

	if info, err := os.Lstat(dir); err == nil && !info.IsDir() {
		logger.Warn("images path exists as non-directory, removing: %s", dir)
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("removing obstructing images path: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating images directory: %w", err)
	}
	return nil
}
