// Package driving defines the inbound ports: the operation surface the
// CLI invokes on the core services.
package driving
