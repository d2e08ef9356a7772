package db

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a create or one-time write conflicts with existing data.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrNoCapacity is returned by ConsumeOne when no record can absorb another change.
	ErrNoCapacity = errors.New("no entitlement record with remaining capacity")
)
