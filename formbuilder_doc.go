// Package formbuilder builds form descriptors from templates. It re-exports
// the common entry points of pkg/builder and pkg/templates for callers that
// want a single import.
package formbuilder
