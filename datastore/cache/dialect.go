/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cache

import (
	"context"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

// Dialect is a transactional, non batchable grid dialect over the caches of
// a Provider. Operations called with a context carrying a transaction of
// this dialect are recorded in the transaction write set.
type Dialect struct {
	provider *Provider
}

// NewDialect creates a dialect over provider.
func NewDialect(provider *Provider) *Dialect {
	return &Dialect{provider: provider}
}

func (d *Dialect) Backend() string { return backendName }

func (d *Dialect) DefaultAssociationStorage() storagemodels.AssociationStorageType {
	return storagemodels.AssociationDocument
}

func (d *Dialect) SupportedAssociationStorage() []storagemodels.AssociationStorageType {
	return []storagemodels.AssociationStorageType{storagemodels.AssociationDocument}
}

func checkStorage(actx datastore.AssociationContext) error {
	if actx.StorageType != 0 && actx.StorageType != storagemodels.AssociationDocument {
		return errors.NewUnsupportedCapabilityError(backendName, "association storage "+actx.StorageType.String())
	}
	return nil
}

func (d *Dialect) tx(ctx context.Context) *Transaction {
	tx := TransactionFrom(ctx)
	if tx == nil || tx.provider != d.provider || tx.done {
		return nil
	}
	return tx
}

// GetTuple returns the cached row, nil when absent.
func (d *Dialect) GetTuple(ctx context.Context, key storagemodels.EntityKey) (*storagemodels.Tuple, error) {
	var (
		entry entityEntry
		ok    bool
	)
	if err := d.provider.read("get tuple", func() { entry, ok = d.provider.entities[key.String()] }); err != nil {
		return nil, err
	}

	var values map[string]any
	if ok {
		values = entry.values
	}
	if tx := d.tx(ctx); tx != nil {
		var present bool
		values, present = tx.overlayTuple(key, values, ok)
		ok = present
	}
	if !ok {
		return nil, nil
	}
	return storagemodels.NewTupleFromSnapshot(storagemodels.NewMapSnapshot(values)), nil
}

func (d *Dialect) InsertOrUpdateTuple(ctx context.Context, key storagemodels.EntityKey, tuple *storagemodels.Tuple) error {
	return d.submit(ctx, "insert tuple", datastore.UpdateTuple(key, tuple))
}

func (d *Dialect) RemoveTuple(ctx context.Context, key storagemodels.EntityKey) error {
	return d.submit(ctx, "remove tuple", datastore.RemoveTuple(key))
}

// GetAssociation returns the cached association, nil when absent.
func (d *Dialect) GetAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) (*storagemodels.Association, error) {
	if err := checkStorage(actx); err != nil {
		return nil, err
	}
	var (
		entry associationEntry
		ok    bool
	)
	if err := d.provider.read("get association", func() { entry, ok = d.provider.associations[key.String()] }); err != nil {
		return nil, err
	}

	var assoc *storagemodels.Association
	if ok {
		assoc = storagemodels.NewAssociation(storagemodels.CopyRows(entry.rows)...)
	}
	if tx := d.tx(ctx); tx != nil {
		assoc = tx.overlayAssociation(key, assoc)
	}
	return assoc, nil
}

func (d *Dialect) InsertOrUpdateAssociation(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, actx datastore.AssociationContext) error {
	if err := checkStorage(actx); err != nil {
		return err
	}
	return d.submit(ctx, "insert association", datastore.UpdateAssociation(key, assoc, actx))
}

func (d *Dialect) RemoveAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) error {
	return d.submit(ctx, "remove association", datastore.RemoveAssociation(key, actx))
}

// NextValue increments the identifier cache counter of the sequence.
// Sequence values are not part of transactions.
func (d *Dialect) NextValue(ctx context.Context, req storagemodels.NextValueRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	c, err := d.provider.counter("next value", req.SequenceName)
	if err != nil {
		return 0, err
	}
	return req.ValueFor(c.Add(req.Step())), nil
}

// submit records op in the transaction carried by ctx, or applies it to the
// caches.
func (d *Dialect) submit(ctx context.Context, name string, op datastore.Operation) error {
	if tx := d.tx(ctx); tx != nil {
		if err := d.provider.ensureStarted(name); err != nil {
			return err
		}
		tx.ops = append(tx.ops, op)
		return nil
	}
	return d.provider.write(name, func() { d.provider.apply(op) })
}

// apply writes op to the caches. The caller holds the write lock.
func (p *Provider) apply(op datastore.Operation) {
	switch op.Kind {
	case datastore.OpInsertTuple, datastore.OpUpdateTuple:
		k := op.EntityKey.String()
		p.entities[k] = entityEntry{key: op.EntityKey, values: applyTuple(p.entities[k].values, op.Tuple)}
	case datastore.OpRemoveTuple:
		delete(p.entities, op.EntityKey.String())
	case datastore.OpInsertAssociation, datastore.OpUpdateAssociation:
		k := op.AssociationKey.String()
		p.associations[k] = associationEntry{key: op.AssociationKey, rows: applyAssociation(p.associations[k].rows, op.Association)}
	case datastore.OpRemoveAssociation:
		delete(p.associations, op.AssociationKey.String())
	}
}

func applyTuple(current map[string]any, tuple *storagemodels.Tuple) map[string]any {
	values := make(map[string]any, len(current))
	for k, v := range current {
		values[k] = v
	}
	if tuple == nil {
		return values
	}
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
	return values
}

func applyAssociation(rows []storagemodels.AssociationRow, assoc *storagemodels.Association) []storagemodels.AssociationRow {
	current := storagemodels.NewAssociation(rows...)
	if assoc != nil {
		current.Apply(assoc.Operations()...)
	}
	return storagemodels.CopyRows(current.Rows())
}
