/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory grid dialect for testing
package mock

import (
	"context"
	"sync"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

const backendName = "mock"

type storedAssociation struct {
	key         storagemodels.AssociationKey
	rows        []storagemodels.AssociationRow
	storageType storagemodels.AssociationStorageType
}

// Dialect is an in-memory datastore.BatchableGridDialect that records every
// batch it executes
type Dialect struct {
	mu           sync.RWMutex
	entities     map[string]map[string]any
	associations map[string]storedAssociation
	sequences    map[string]int64
	batches      []int

	insertError error
	removeError error
	batchError  error
	authFailure bool
}

// New creates a new mock Dialect
func New() *Dialect {
	return &Dialect{
		entities:     make(map[string]map[string]any),
		associations: make(map[string]storedAssociation),
		sequences:    make(map[string]int64),
	}
}

// WithInsertError makes InsertOrUpdateTuple operations return an error
func (d *Dialect) WithInsertError(err error) *Dialect {
	d.insertError = err
	return d
}

// WithRemoveError makes RemoveTuple operations return an error
func (d *Dialect) WithRemoveError(err error) *Dialect {
	d.removeError = err
	return d
}

// WithBatchError makes ExecuteBatch fail before applying anything
func (d *Dialect) WithBatchError(err error) *Dialect {
	d.batchError = err
	return d
}

// WithAuthenticationFailure makes every operation fail as if the backend
// rejected the credentials
func (d *Dialect) WithAuthenticationFailure() *Dialect {
	d.authFailure = true
	return d
}

// Backend returns the backend name
func (d *Dialect) Backend() string { return backendName }

func (d *Dialect) check() error {
	if d.authFailure {
		return errors.NewAuthenticationError(backendName, "mock", nil)
	}
	return nil
}

// GetTuple returns the stored row, nil when absent
func (d *Dialect) GetTuple(ctx context.Context, key storagemodels.EntityKey) (*storagemodels.Tuple, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	values, exists := d.entities[key.String()]
	if !exists {
		return nil, nil
	}
	return storagemodels.NewTupleFromSnapshot(storagemodels.NewMapSnapshot(values)), nil
}

// InsertOrUpdateTuple applies the tuple overlay to the stored row
func (d *Dialect) InsertOrUpdateTuple(ctx context.Context, key storagemodels.EntityKey, tuple *storagemodels.Tuple) error {
	if err := d.check(); err != nil {
		return err
	}
	if d.insertError != nil {
		return d.insertError
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	values := make(map[string]any)
	for k, v := range d.entities[key.String()] {
		values[k] = v
	}
	if tuple != nil {
		for _, op := range tuple.Operations() {
			switch op.Type {
			case storagemodels.PutOperation:
				values[op.Column] = op.Value
			case storagemodels.PutNullOperation:
				values[op.Column] = nil
			case storagemodels.RemoveOperation:
				delete(values, op.Column)
			}
		}
	}
	d.entities[key.String()] = values
	return nil
}

// RemoveTuple removes the stored row; absent rows are ignored
func (d *Dialect) RemoveTuple(ctx context.Context, key storagemodels.EntityKey) error {
	if err := d.check(); err != nil {
		return err
	}
	if d.removeError != nil {
		return d.removeError
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entities, key.String())
	return nil
}

// GetAssociation returns the stored association, nil when absent
func (d *Dialect) GetAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) (*storagemodels.Association, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	stored, exists := d.associations[key.String()]
	if !exists {
		return nil, nil
	}
	return storagemodels.NewAssociation(storagemodels.CopyRows(stored.rows)...), nil
}

// InsertOrUpdateAssociation applies the association overlay to the stored rows
func (d *Dialect) InsertOrUpdateAssociation(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, actx datastore.AssociationContext) error {
	if err := d.check(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	current := storagemodels.NewAssociation(d.associations[key.String()].rows...)
	if assoc != nil {
		current.Apply(assoc.Operations()...)
	}
	rows := storagemodels.CopyRows(current.Rows())
	d.associations[key.String()] = storedAssociation{key: key, rows: rows, storageType: actx.StorageType}
	return nil
}

// RemoveAssociation removes the stored association; absent ones are ignored
func (d *Dialect) RemoveAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) error {
	if err := d.check(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.associations, key.String())
	return nil
}

// NextValue increments the named in-memory counter
func (d *Dialect) NextValue(ctx context.Context, req storagemodels.NextValueRequest) (int64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sequences[req.SequenceName] += req.Step()
	return req.ValueFor(d.sequences[req.SequenceName]), nil
}

// ExecuteBatch records the queue size and replays the queue in order
func (d *Dialect) ExecuteBatch(ctx context.Context, queue *datastore.OperationsQueue) error {
	d.mu.Lock()
	d.batches = append(d.batches, queue.Size())
	d.mu.Unlock()

	if err := d.check(); err != nil {
		return err
	}
	if d.batchError != nil {
		return d.batchError
	}
	return datastore.ApplySequentially(ctx, d, queue)
}

// DefaultAssociationStorage keeps associations in the owning entity unless
// configured otherwise
func (d *Dialect) DefaultAssociationStorage() storagemodels.AssociationStorageType {
	return storagemodels.InEntity
}

// SupportedAssociationStorage accepts every storage type
func (d *Dialect) SupportedAssociationStorage() []storagemodels.AssociationStorageType {
	return storagemodels.AllAssociationStorageTypes()
}

// Helper methods for testing

// Batches returns the size of every executed batch, in order
func (d *Dialect) Batches() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]int(nil), d.batches...)
}

// GetData returns a copy of the stored rows keyed by canonical entity key
func (d *Dialect) GetData() map[string]map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make(map[string]map[string]any, len(d.entities))
	for k, v := range d.entities {
		row := make(map[string]any, len(v))
		for c, cv := range v {
			row[c] = cv
		}
		result[k] = row
	}
	return result
}

// Clear removes all data and recorded batches
func (d *Dialect) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entities = make(map[string]map[string]any)
	d.associations = make(map[string]storedAssociation)
	d.sequences = make(map[string]int64)
	d.batches = nil
}
