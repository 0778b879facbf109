// Package domain contains the core business entities for Vaulty:
// courses, weeks, exercises, page images, and the error taxonomy
// shared by all adapters.
package domain
