package engine

import "errors"

// Failure taxonomy. Handlers map these onto HTTP statuses; the engine itself
// only cares that validation failures never touch the store, authorization
// failures never mutate, and conflicts stay distinguishable from both.
var (
	// ErrValidation: malformed input, rejected before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound: unknown report or authority id.
	ErrNotFound = errors.New("report not found")

	// ErrNotEligible: the acting authority was never notified for the report.
	ErrNotEligible = errors.New("authority not notified for this report")

	// ErrNotAssignee: the acting authority is not the assigned one.
	ErrNotAssignee = errors.New("authority not assigned to this report")

	// ErrConflict: lost a race or the report has already been decided.
	ErrConflict = errors.New("report already assigned or decided")

	// ErrBadTransition: the requested status is not the legal successor.
	ErrBadTransition = errors.New("illegal status transition")
)
