// Package domain contains the core types of the harvesting pipeline.
// Types here have no dependencies on adapters or external services.
package domain
