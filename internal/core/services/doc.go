// Package services contains the pipeline's use-case logic: source listing,
// two-phase change detection, text loading, chunk embedding, persistence
// and run orchestration. Services depend only on domain types and driven
// ports, never on concrete adapters.
package services
