package core

import "errors"

// Sentinel errors returned by services. Adapters map these onto transport
// status codes with errors.Is; services wrap them with fmt.Errorf + %w to
// attach entity-specific context.
var (
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates caller-supplied input that fails a
	// domain constraint (negative target stock, bad enum value, etc).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates a uniqueness violation (duplicate username/email).
	ErrConflict = errors.New("conflict")

	// ErrInsufficientStock indicates a requested subtraction exceeds the
	// available units. Distinct from ErrInvalidArgument so callers can
	// retry with a smaller quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrOverDispense indicates a dispense request beyond the prescribed
	// quantity remaining on a prescription item.
	ErrOverDispense = errors.New("dispense exceeds prescribed quantity")
)
