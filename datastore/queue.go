/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

// QueueState is the lifecycle state of an OperationsQueue.
type QueueState int

const (
	QueueEmpty QueueState = iota
	QueueAccumulating
	QueueFlushing
)

func (s QueueState) String() string {
	switch s {
	case QueueEmpty:
		return "empty"
	case QueueAccumulating:
		return "accumulating"
	case QueueFlushing:
		return "flushing"
	default:
		return "unknown"
	}
}

// ErrQueueFlushing is returned when operations are added to a queue that is
// being flushed.
var ErrQueueFlushing = fmt.Errorf("%w: operations queue is flushing", errors.ErrInvalidInput)

// OperationsQueue accumulates the storage operations of one unit of work in
// program order. It is not safe for concurrent use.
type OperationsQueue struct {
	id       string
	state    QueueState
	ops      []Operation
	entities map[string]int
}

// NewOperationsQueue creates an empty queue with a fresh id.
func NewOperationsQueue() *OperationsQueue {
	return &OperationsQueue{
		id:       uuid.NewString(),
		entities: make(map[string]int),
	}
}

// ID returns the queue id used to correlate log lines of one flush.
func (q *OperationsQueue) ID() string { return q.id }

// State returns the current lifecycle state.
func (q *OperationsQueue) State() QueueState { return q.state }

// Add appends op. Operations cannot be added while the queue is flushing.
func (q *OperationsQueue) Add(op Operation) error {
	if q.state == QueueFlushing {
		return ErrQueueFlushing
	}
	q.push(op)
	q.state = QueueAccumulating
	return nil
}

func (q *OperationsQueue) push(op Operation) {
	q.ops = append(q.ops, op)
	if !op.IsAssociation() {
		q.entities[op.EntityKey.String()]++
	}
}

// Poll removes and returns the oldest operation. The second result is false
// when the queue holds no operation.
func (q *OperationsQueue) Poll() (Operation, bool) {
	if len(q.ops) == 0 {
		return Operation{}, false
	}
	op := q.ops[0]
	q.ops[0] = Operation{}
	q.ops = q.ops[1:]
	if !op.IsAssociation() {
		k := op.EntityKey.String()
		if q.entities[k]--; q.entities[k] <= 0 {
			delete(q.entities, k)
		}
	}
	if len(q.ops) == 0 && q.state == QueueAccumulating {
		q.state = QueueEmpty
	}
	return op, true
}

// Size returns the number of queued operations.
func (q *OperationsQueue) Size() int { return len(q.ops) }

// Operations returns a copy of the queued operations in order.
func (q *OperationsQueue) Operations() []Operation {
	return append([]Operation(nil), q.ops...)
}

// ContainsEntity reports whether a tuple operation on key is queued.
func (q *OperationsQueue) ContainsEntity(key storagemodels.EntityKey) bool {
	_, ok := q.entities[key.String()]
	return ok
}

// BeginFlush moves the queue to the flushing state.
func (q *OperationsQueue) BeginFlush() error {
	if q.state == QueueFlushing {
		return ErrQueueFlushing
	}
	q.state = QueueFlushing
	return nil
}

// EndFlush discards whatever is left and returns the queue to empty.
func (q *OperationsQueue) EndFlush() {
	q.ops = nil
	q.entities = make(map[string]int)
	q.state = QueueEmpty
}

// Coalesce replaces the queued operations with their coalesced form. It may
// be called while flushing.
func (q *OperationsQueue) Coalesce() {
	ops := Coalesce(q.ops)
	q.ops = nil
	q.entities = make(map[string]int)
	for _, op := range ops {
		q.push(op)
	}
}
