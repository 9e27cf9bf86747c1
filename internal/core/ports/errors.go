package ports

import "errors"

// Sentinel errors shared across repositories and services. Handlers map
// these onto HTTP statuses without inspecting error strings.
var (
	// ErrNotFound is returned for missing rows and failed preconditions.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write.
	ErrDuplicate = errors.New("already exists")
	// ErrCooldown is returned when a dunning record for the lease was
	// created within the trailing cool-down window.
	ErrCooldown = errors.New("dunning cool-down active")
	// ErrUnauthorized is returned for failed credential checks.
	ErrUnauthorized = errors.New("unauthorized")
)
