package services

import (
	"github.com/pkg/errors"
)

// Domain error kinds. Handlers match these with errors.Is and map them to
// HTTP statuses; the services themselves never retry or suppress.
var (
	// ErrNotFound - a referenced entity id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrSchedulingConflict - an overlapping appointment window exists for the clinician.
	ErrSchedulingConflict = errors.New("scheduling conflict")
	// ErrInvalidTransition - the operation is not permitted from the entity's current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrValidation - malformed input parameters.
	ErrValidation = errors.New("validation failed")
	// ErrTransient - a gateway timeout or connection failure; safe to retry only
	// for queries and idempotent-by-construction transitions.
	ErrTransient = errors.New("transient failure")
)
