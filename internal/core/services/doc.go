// Package services implements the core business logic: the document
// ingestion pipeline and the library operations over the stored
// hierarchy.
package services
