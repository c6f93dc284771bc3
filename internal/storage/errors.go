package storage

import "errors"

// Sample store errors. Samples are immutable once written.
var (
	// ErrNotFound is returned when no sample exists for a (body, timestamp) key.
	ErrNotFound = errors.New("sample not found")

	// ErrDuplicateKey is returned when a batch contains a (body, timestamp) key
	// that is already stored or repeated within the batch. No row of the batch is kept.
	ErrDuplicateKey = errors.New("duplicate sample key")

	// ErrInvalidInput is returned for nil samples or unknown bodies.
	ErrInvalidInput = errors.New("invalid sample")
)
