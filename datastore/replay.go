/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"

	"github.com/suparena/gridstore/errors"
)

// Backend is implemented by dialects that report a backend name for errors
// and logs.
type Backend interface {
	Backend() string
}

// BackendName returns the backend name of dialect, or its Go type.
func BackendName(dialect GridDialect) string {
	if b, ok := dialect.(Backend); ok {
		return b.Backend()
	}
	return fmt.Sprintf("%T", dialect)
}

// Apply executes one operation against dialect.
func Apply(ctx context.Context, dialect GridDialect, op Operation) error {
	switch op.Kind {
	case OpInsertTuple, OpUpdateTuple:
		return dialect.InsertOrUpdateTuple(ctx, op.EntityKey, op.Tuple)
	case OpRemoveTuple:
		return dialect.RemoveTuple(ctx, op.EntityKey)
	case OpInsertAssociation, OpUpdateAssociation:
		return dialect.InsertOrUpdateAssociation(ctx, op.AssociationKey, op.Association, op.Context)
	case OpRemoveAssociation:
		return dialect.RemoveAssociation(ctx, op.AssociationKey, op.Context)
	default:
		return errors.NewValidationError("kind", fmt.Sprintf("unknown operation kind %d", op.Kind))
	}
}

// ApplySequentially polls queue and applies every operation in order. The
// first failure stops the replay and is returned as a FlushError.
func ApplySequentially(ctx context.Context, dialect GridDialect, queue *OperationsQueue) error {
	for index := 0; ; index++ {
		op, ok := queue.Poll()
		if !ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return NewFlushError(BackendName(dialect), index, op, err)
		}
		if err := Apply(ctx, dialect, op); err != nil {
			return NewFlushError(BackendName(dialect), index, op, err)
		}
	}
}

// NewFlushError reports the failure of the operation at index of a flush as
// a StorageError wrapping the adapter error.
func NewFlushError(backend string, index int, op Operation, err error) error {
	return &errors.StorageError{
		Backend:   backend,
		Operation: fmt.Sprintf("flush operation %d (%s %s)", index, op.Kind, op.Target()),
		Err:       err,
	}
}
