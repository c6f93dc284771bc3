package domain

import "errors"

// Computation errors. Components wrap these with context using %w.
var (
	// ErrInputValidation is returned for malformed date/time components.
	ErrInputValidation = errors.New("invalid input")

	// ErrEphemerisUnavailable is returned when the ephemeris collaborator fails or times out.
	ErrEphemerisUnavailable = errors.New("ephemeris unavailable")

	// ErrSearchHorizonExceeded is returned when a boundary search exhausts its day budget.
	ErrSearchHorizonExceeded = errors.New("search horizon exceeded")

	// ErrInvalidDivision is returned when an unsupported division count is requested.
	ErrInvalidDivision = errors.New("invalid division")
)

// ErrorKind labels an error for structured output.
type ErrorKind string

const (
	KindInputValidation       ErrorKind = "input_validation"
	KindEphemerisUnavailable  ErrorKind = "ephemeris_unavailable"
	KindSearchHorizonExceeded ErrorKind = "search_horizon_exceeded"
	KindInvalidDivision       ErrorKind = "invalid_division"
	KindInternal              ErrorKind = "internal"
)

// KindOf maps an error to its kind. A nil error has an empty kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputValidation):
		return KindInputValidation
	case errors.Is(err, ErrEphemerisUnavailable):
		return KindEphemerisUnavailable
	case errors.Is(err, ErrSearchHorizonExceeded):
		return KindSearchHorizonExceeded
	case errors.Is(err, ErrInvalidDivision):
		return KindInvalidDivision
	default:
		return KindInternal
	}
}
