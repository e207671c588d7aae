// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/task, domain/project).
// This root package holds sentinel errors, validation types, and the
// non-blocking Warning type shared across all entities.
package domain
