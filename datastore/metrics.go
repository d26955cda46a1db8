/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"github.com/uber-go/tally"
)

// Metrics tracks unit of work flushes and the operations applied outside of
// a batch.
type Metrics struct {
	Flush     tally.Counter
	FlushFail tally.Counter

	FlushOperations tally.Counter
	FlushQueueSize  tally.Gauge
	FlushDuration   tally.Timer

	Apply     tally.Counter
	ApplyFail tally.Counter

	NextValue     tally.Counter
	NextValueFail tally.Counter
}

// NewMetrics returns a new Metrics struct, with all metrics initialized and
// rooted at the given tally.Scope.
func NewMetrics(scope tally.Scope) *Metrics {
	flushScope := scope.SubScope("flush")
	flushSuccessScope := flushScope.Tagged(map[string]string{"type": "success"})
	flushFailScope := flushScope.Tagged(map[string]string{"type": "fail"})

	opScope := scope.SubScope("operation")
	opSuccessScope := opScope.Tagged(map[string]string{"type": "success"})
	opFailScope := opScope.Tagged(map[string]string{"type": "fail"})

	return &Metrics{
		Flush:     flushSuccessScope.Counter("execute"),
		FlushFail: flushFailScope.Counter("execute"),

		FlushOperations: flushScope.Counter("operations"),
		FlushQueueSize:  flushScope.Gauge("queue_size"),
		FlushDuration:   flushScope.Timer("duration"),

		Apply:     opSuccessScope.Counter("apply"),
		ApplyFail: opFailScope.Counter("apply"),

		NextValue:     opSuccessScope.Counter("next_value"),
		NextValueFail: opFailScope.Counter("next_value"),
	}
}
