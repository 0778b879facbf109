// Package driven defines the outbound ports: interfaces the core
// depends on for storage, rasterization, and AI extraction. Adapters
// under internal/adapters/driven implement them.
package driven
