/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"

	"github.com/suparena/gridstore/storagemodels"
)

func (d *Dialect) EntityCount(ctx context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.entities)), nil
}

func (d *Dialect) AssociationCount(ctx context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var n int64
	for _, a := range d.associations {
		if a.key.Kind() == storagemodels.KindAssociation {
			n++
		}
	}
	return n, nil
}

func (d *Dialect) AssociationCountByType(ctx context.Context, storageType storagemodels.AssociationStorageType) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var n int64
	for _, a := range d.associations {
		if a.key.Kind() == storagemodels.KindAssociation && a.storageType == storageType {
			n++
		}
	}
	return n, nil
}

func (d *Dialect) EmbeddedCollectionCount(ctx context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var n int64
	for _, a := range d.associations {
		if a.key.Kind() == storagemodels.KindEmbeddedCollection {
			n++
		}
	}
	return n, nil
}

func (d *Dialect) ExtractEntityTuple(ctx context.Context, key storagemodels.EntityKey) (map[string]any, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	values, ok := d.entities[key.String()]
	if !ok {
		return nil, nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, nil
}

func (d *Dialect) BackendSupportsTransactions() bool { return false }

func (d *Dialect) DropSchemaAndDatabase(ctx context.Context) error {
	if err := d.check(); err != nil {
		return err
	}
	d.Clear()
	return nil
}
