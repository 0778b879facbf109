package driven

// AssetStore manages binary image files under the application storage
// root, addressed by generated relative references.
type AssetStore interface {
	// Save decodes a base64 image (with or without a data-URL prefix),
	// writes it under a collision-resistant generated filename, and
	// returns the relative reference for use as an exercise image path.
	Save(encoded string) (string, error)

	// Read returns the asset re-encoded as a data URL, or
	// domain.ErrAssetNotFound if the file is missing.
	Read(ref string) (string, error)

	// Delete removes the asset. Best-effort: a missing file is not an
	// error.
	Delete(ref string) error
}
