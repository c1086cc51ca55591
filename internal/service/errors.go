package service

import "errors"

// Sentinel errors reported to the caller. Unique-constraint collisions on
// rename are absorbed by the storage merge rule and never appear here.
var (
	// ErrInvalidValue is returned when a correction's new value fails type
	// conversion (e.g. a non-numeric price). Stored state is unchanged.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupportedField is returned when a correction targets a field
	// outside category/subcategory/price. Programming-level misuse.
	ErrUnsupportedField = errors.New("unsupported field")

	// ErrMissingParent is returned when a subcategory rename does not name
	// its owning category.
	ErrMissingParent = errors.New("missing parent category")

	// ErrStoreUnavailable wraps transient connection/pool failures. The
	// failed operation is safely retryable: every unit is transactional.
	ErrStoreUnavailable = errors.New("store unavailable")
)
