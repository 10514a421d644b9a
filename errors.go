package aisdk

import "errors"

// Common errors returned by the SDK.
var (
	// ErrUnsupportedChallengeType is returned when the validator is
	// invoked with an unrecognized challenge type. This is a
	// programming/configuration error and is never masked.
	ErrUnsupportedChallengeType = errors.New("unsupported challenge type")

	// ErrNotFound is returned when a personality state or profile does
	// not exist yet.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when a personality write loses an
	// optimistic-concurrency version check.
	ErrVersionConflict = errors.New("personality version conflict")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidEntity is returned when an unknown entity name is used.
	ErrInvalidEntity = errors.New("invalid entity")
)
