package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIntegrityViolation indicates a write would break a uniqueness
	// or referential invariant. Violations are rejected before commit
	// rather than surfaced as raw constraint errors.
	ErrIntegrityViolation = errors.New("integrity violation")

	// Rasterization Errors.

	// ErrDocumentUnreadable indicates the source document cannot be
	// parsed. Fatal: rasterization aborts.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrRenderingUnavailable indicates every renderer strategy failed.
	// Non-fatal: the rasterizer degrades to placeholder pages.
	ErrRenderingUnavailable = errors.New("no PDF renderer available")

	// ErrPageImageMissing indicates a rendered page file was not found
	// under any known naming convention. Non-fatal per page; reported
	// as a warning on the rasterization result.
	ErrPageImageMissing = errors.New("rendered page image missing")

	// Extraction Errors.

	// ErrUpstreamService indicates a non-success response from the
	// classification service. Fatal for that extraction call; the
	// wrapping error carries the upstream status and body verbatim.
	ErrUpstreamService = errors.New("classification service error")

	// ErrSchemaMismatch indicates the service response did not parse
	// into the expected structure. Fatal for that extraction call.
	ErrSchemaMismatch = errors.New("response schema mismatch")

	// Asset Errors.

	// ErrAssetNotFound indicates a referenced image file is missing.
	ErrAssetNotFound = errors.New("asset not found")
)
