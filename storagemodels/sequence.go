/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "github.com/suparena/gridstore/errors"

// NextValueRequest asks a dialect for the next value of a named sequence.
type NextValueRequest struct {
	SequenceName string
	// Increment is added to the counter on every call; values below 1 mean 1.
	Increment int
	// InitialValue is returned by the first call.
	InitialValue int64
}

// Validate checks the request.
func (r NextValueRequest) Validate() error {
	if r.SequenceName == "" {
		return errors.NewValidationError("SequenceName", "must not be empty")
	}
	if r.Increment < 0 {
		return errors.NewValidationError("Increment", "must not be negative")
	}
	return nil
}

// Step returns the effective increment.
func (r NextValueRequest) Step() int64 {
	if r.Increment < 1 {
		return 1
	}
	return int64(r.Increment)
}

// ValueFor converts a backend counter, read after it was atomically
// incremented by Step, into the sequence value handed out to the caller.
// Counters start at zero, so the first call yields InitialValue.
func (r NextValueRequest) ValueFor(counter int64) int64 {
	return r.InitialValue + counter - r.Step()
}
