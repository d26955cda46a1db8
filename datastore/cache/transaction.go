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

type txKey struct{}

// Transaction is a cache transaction: a private write set applied
// atomically by Commit. It is confined to one goroutine.
type Transaction struct {
	provider *Provider
	ops      []datastore.Operation
	done     bool
}

// Begin starts a transaction. Pass it to dialect calls with
// ContextWithTransaction.
func (d *Dialect) Begin(ctx context.Context) (datastore.Transaction, error) {
	if err := d.provider.ensureStarted("begin"); err != nil {
		return nil, err
	}
	return &Transaction{provider: d.provider}, nil
}

// ContextWithTransaction returns a context routing dialect calls into tx.
// Transactions of other dialects are ignored.
func ContextWithTransaction(ctx context.Context, tx datastore.Transaction) context.Context {
	t, ok := tx.(*Transaction)
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, t)
}

// TransactionFrom returns the transaction carried by ctx, if any.
func TransactionFrom(ctx context.Context) *Transaction {
	t, _ := ctx.Value(txKey{}).(*Transaction)
	return t
}

// Commit applies the write set under the cache lock.
func (t *Transaction) Commit(ctx context.Context) error {
	if t.done {
		return errors.NewValidationError("transaction", "already completed")
	}
	err := t.provider.write("commit", func() {
		for _, op := range t.ops {
			t.provider.apply(op)
		}
	})
	if err != nil {
		return err
	}
	t.provider.logger.WithField("operations", len(t.ops)).Debug("transaction committed")
	t.ops = nil
	t.done = true
	return nil
}

// Rollback discards the write set.
func (t *Transaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.ops = nil
	t.done = true
	return nil
}

func (t *Transaction) overlayTuple(key storagemodels.EntityKey, values map[string]any, present bool) (map[string]any, bool) {
	for _, op := range t.ops {
		if op.IsAssociation() || !op.EntityKey.Equal(key) {
			continue
		}
		if op.Kind == datastore.OpRemoveTuple {
			values, present = nil, false
			continue
		}
		values, present = applyTuple(values, op.Tuple), true
	}
	return values, present
}

func (t *Transaction) overlayAssociation(key storagemodels.AssociationKey, assoc *storagemodels.Association) *storagemodels.Association {
	for _, op := range t.ops {
		if !op.IsAssociation() || !op.AssociationKey.Equal(key) {
			continue
		}
		if op.Kind == datastore.OpRemoveAssociation {
			assoc = nil
			continue
		}
		var rows []storagemodels.AssociationRow
		if assoc != nil {
			rows = assoc.Rows()
		}
		assoc = storagemodels.NewAssociation(applyAssociation(rows, op.Association)...)
	}
	return assoc
}
