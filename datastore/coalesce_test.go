/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/gridstore/storagemodels"
)

func kinds(ops []Operation) []OperationKind {
	out := make([]OperationKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func TestCoalesceWritesOnly(t *testing.T) {
	ops := []Operation{
		InsertTuple(key("1"), tuple("a", 1, "b", 1)),
		InsertTuple(key("2"), tuple("a", 2)),
		UpdateTuple(key("1"), tuple("b", 2)),
	}
	out := Coalesce(ops)

	require.Equal(t, []OperationKind{OpInsertTuple, OpInsertTuple}, kinds(out))
	assert.True(t, out[0].EntityKey.Equal(key("2")))
	assert.True(t, out[1].EntityKey.Equal(key("1")), "merged at the position of the last operation")
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, out[1].Tuple.ToMap())
	assert.Len(t, ops, 3, "input is not modified")
}

func TestCoalesceUpdatesStayUpdates(t *testing.T) {
	out := Coalesce([]Operation{
		UpdateTuple(key("1"), tuple("a", 1)),
		UpdateTuple(key("1"), tuple("a", 2)),
	})
	require.Len(t, out, 1)
	assert.Equal(t, OpUpdateTuple, out[0].Kind)
	assert.Equal(t, 2, out[0].Tuple.Get("a"))
}

func TestCoalesceEndingInRemove(t *testing.T) {
	out := Coalesce([]Operation{
		InsertTuple(key("1"), tuple("a", 1)),
		UpdateTuple(key("1"), tuple("a", 2)),
		RemoveTuple(key("1")),
	})
	require.Equal(t, []OperationKind{OpRemoveTuple}, kinds(out))
}

func TestCoalesceRemoveThenWrites(t *testing.T) {
	out := Coalesce([]Operation{
		UpdateTuple(key("1"), tuple("old", true)),
		RemoveTuple(key("1")),
		InsertTuple(key("1"), tuple("a", 1)),
		UpdateTuple(key("1"), tuple("b", 2)),
	})
	require.Equal(t, []OperationKind{OpRemoveTuple, OpInsertTuple}, kinds(out))
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, out[1].Tuple.ToMap())
}

func TestCoalesceLeavesAssociationOwnersAlone(t *testing.T) {
	owner := key("1")
	assocKey := storagemodels.MustAssociationKey(owner, "cars")
	ops := []Operation{
		InsertTuple(owner, tuple("a", 1)),
		InsertAssociation(assocKey, storagemodels.NewAssociation(), AssociationContext{StorageType: storagemodels.InEntity}),
		UpdateTuple(owner, tuple("a", 2)),
		RemoveAssociation(assocKey, AssociationContext{}),
		RemoveAssociation(assocKey, AssociationContext{}),
	}
	out := Coalesce(ops)
	assert.Equal(t, kinds(ops), kinds(out))
}
