// Package sqlite implements the hierarchy and settings stores on a
// single SQLite database file under the application data directory.
//
// Schema changes are applied as versioned .up.sql migrations embedded
// at compile time; each migration runs at most once, tracked in the
// schema_migrations table.
package sqlite
