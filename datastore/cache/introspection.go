/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cache

import (
	"context"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

func (d *Dialect) EntityCount(ctx context.Context) (int64, error) {
	var n int64
	err := d.provider.read("entity count", func() { n = int64(len(d.provider.entities)) })
	return n, err
}

func (d *Dialect) AssociationCount(ctx context.Context) (int64, error) {
	var n int64
	err := d.provider.read("association count", func() {
		for _, e := range d.provider.associations {
			if e.key.Kind() == storagemodels.KindAssociation {
				n++
			}
		}
	})
	return n, err
}

// AssociationCountByType is not supported: every association lives in the
// association cache.
func (d *Dialect) AssociationCountByType(ctx context.Context, storageType storagemodels.AssociationStorageType) (int64, error) {
	return 0, errors.NewUnsupportedCapabilityError(backendName, "association count by storage type")
}

func (d *Dialect) EmbeddedCollectionCount(ctx context.Context) (int64, error) {
	return 0, errors.NewUnsupportedCapabilityError(backendName, "embedded collection count")
}

func (d *Dialect) ExtractEntityTuple(ctx context.Context, key storagemodels.EntityKey) (map[string]any, error) {
	var out map[string]any
	err := d.provider.read("extract entity tuple", func() {
		entry, ok := d.provider.entities[key.String()]
		if !ok {
			return
		}
		out = make(map[string]any, len(entry.values))
		for k, v := range entry.values {
			out[k] = v
		}
	})
	return out, err
}

func (d *Dialect) BackendSupportsTransactions() bool { return true }

func (d *Dialect) DropSchemaAndDatabase(ctx context.Context) error {
	return d.provider.write("drop", d.provider.reset)
}
