/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

// UnitOfWork delegates the storage operations of one ORM unit of work to a
// dialect. On batchable dialects mutations are queued until Flush; on every
// other dialect they are applied immediately. A UnitOfWork is confined to
// one goroutine.
type UnitOfWork struct {
	dialect  GridDialect
	batch    BatchableGridDialect
	backend  string
	queue    *OperationsQueue
	coalesce bool
	metrics  *Metrics
	logger   *log.Entry
}

// Option configures a UnitOfWork.
type Option func(*UnitOfWork)

// WithCoalescing merges queued tuple operations per entity key before each
// flush.
func WithCoalescing() Option {
	return func(u *UnitOfWork) { u.coalesce = true }
}

// WithMetrics reports flush and operation metrics to scope.
func WithMetrics(scope tally.Scope) Option {
	return func(u *UnitOfWork) { u.metrics = NewMetrics(scope) }
}

// WithLogger sets the logger entry.
func WithLogger(logger *log.Entry) Option {
	return func(u *UnitOfWork) { u.logger = logger }
}

// NewUnitOfWork creates a unit of work over dialect.
func NewUnitOfWork(dialect GridDialect, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		dialect: dialect,
		backend: BackendName(dialect),
		queue:   NewOperationsQueue(),
	}
	if b, ok := dialect.(BatchableGridDialect); ok {
		u.batch = b
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.metrics == nil {
		u.metrics = NewMetrics(tally.NoopScope)
	}
	if u.logger == nil {
		u.logger = log.WithField("component", "unit_of_work")
	}
	u.logger = u.logger.WithFields(log.Fields{
		"backend": u.backend,
		"queue":   u.queue.ID(),
	})
	return u
}

// Dialect returns the underlying dialect.
func (u *UnitOfWork) Dialect() GridDialect { return u.dialect }

// Batched reports whether mutations are queued until Flush.
func (u *UnitOfWork) Batched() bool { return u.batch != nil }

// Pending returns the number of queued operations.
func (u *UnitOfWork) Pending() int { return u.queue.Size() }

func (u *UnitOfWork) InsertTuple(ctx context.Context, key storagemodels.EntityKey, tuple *storagemodels.Tuple) error {
	return u.submit(ctx, InsertTuple(key, tuple))
}

func (u *UnitOfWork) UpdateTuple(ctx context.Context, key storagemodels.EntityKey, tuple *storagemodels.Tuple) error {
	return u.submit(ctx, UpdateTuple(key, tuple))
}

func (u *UnitOfWork) RemoveTuple(ctx context.Context, key storagemodels.EntityKey) error {
	return u.submit(ctx, RemoveTuple(key))
}

func (u *UnitOfWork) InsertAssociation(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, actx AssociationContext) error {
	return u.submit(ctx, InsertAssociation(key, assoc, actx))
}

func (u *UnitOfWork) UpdateAssociation(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, actx AssociationContext) error {
	return u.submit(ctx, UpdateAssociation(key, assoc, actx))
}

func (u *UnitOfWork) RemoveAssociation(ctx context.Context, key storagemodels.AssociationKey, actx AssociationContext) error {
	return u.submit(ctx, RemoveAssociation(key, actx))
}

func (u *UnitOfWork) submit(ctx context.Context, op Operation) error {
	if u.batch != nil {
		return u.queue.Add(op)
	}
	if err := Apply(ctx, u.dialect, op); err != nil {
		u.metrics.ApplyFail.Inc(1)
		u.logger.WithError(err).
			WithField("operation", op.Kind.String()).
			WithField("target", op.Target()).
			Error("operation failed")
		return err
	}
	u.metrics.Apply.Inc(1)
	return nil
}

// GetTuple reads key and overlays the operations still queued for it, so a
// unit of work always sees its own writes.
func (u *UnitOfWork) GetTuple(ctx context.Context, key storagemodels.EntityKey) (*storagemodels.Tuple, error) {
	stored, err := u.dialect.GetTuple(ctx, key)
	if err != nil || !u.queue.ContainsEntity(key) {
		return stored, err
	}

	current := stored
	if current != nil {
		current = current.Clone()
	}
	for _, op := range u.queue.Operations() {
		if op.IsAssociation() || !op.EntityKey.Equal(key) {
			continue
		}
		if op.Kind == OpRemoveTuple {
			current = nil
			continue
		}
		if current == nil {
			current = storagemodels.NewTuple()
		}
		current.Merge(op.Tuple)
	}
	if current == nil {
		return nil, nil
	}
	return current.Flatten(), nil
}

// GetAssociation reads key and overlays the queued operations on it.
func (u *UnitOfWork) GetAssociation(ctx context.Context, key storagemodels.AssociationKey, actx AssociationContext) (*storagemodels.Association, error) {
	stored, err := u.dialect.GetAssociation(ctx, key, actx)
	if err != nil || u.queue.Size() == 0 {
		return stored, err
	}

	current := stored
	touched := false
	for _, op := range u.queue.Operations() {
		if !op.IsAssociation() || !op.AssociationKey.Equal(key) {
			continue
		}
		if !touched && current != nil {
			current = current.Flatten()
		}
		touched = true
		if op.Kind == OpRemoveAssociation {
			current = nil
			continue
		}
		if current == nil {
			current = storagemodels.NewAssociation()
		}
		if op.Association != nil {
			current.Apply(op.Association.Operations()...)
		}
	}
	if !touched || current == nil {
		return current, nil
	}
	return current.Flatten(), nil
}

// NextValue is never queued.
func (u *UnitOfWork) NextValue(ctx context.Context, req storagemodels.NextValueRequest) (int64, error) {
	v, err := u.dialect.NextValue(ctx, req)
	if err != nil {
		u.metrics.NextValueFail.Inc(1)
		return 0, err
	}
	u.metrics.NextValue.Inc(1)
	return v, nil
}

// Flush hands the queued operations to the dialect in one ExecuteBatch call.
// The queue is empty afterwards, whether the flush failed or not. Failures
// are reported as a StorageError.
func (u *UnitOfWork) Flush(ctx context.Context) error {
	if u.batch == nil || u.queue.Size() == 0 {
		return nil
	}
	if err := u.queue.BeginFlush(); err != nil {
		return err
	}
	defer u.queue.EndFlush()

	if u.coalesce {
		u.queue.Coalesce()
	}
	size := u.queue.Size()
	logger := u.logger.WithField("operations", size)
	logger.Debug("flushing operations queue")

	start := time.Now()
	err := u.batch.ExecuteBatch(ctx, u.queue)
	u.metrics.FlushDuration.Record(time.Since(start))
	u.metrics.FlushQueueSize.Update(float64(size))
	u.metrics.FlushOperations.Inc(int64(size))

	if err != nil {
		u.metrics.FlushFail.Inc(1)
		if !errors.IsStorageError(err) {
			err = errors.NewStorageError(u.backend, "flush", err)
		}
		logger.WithError(err).Error("flush failed")
		return err
	}
	u.metrics.Flush.Inc(1)
	logger.Debug("flushed operations queue")
	return nil
}

// Discard drops every queued operation without applying it.
func (u *UnitOfWork) Discard() {
	u.queue.EndFlush()
}
