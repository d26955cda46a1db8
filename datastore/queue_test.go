/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

func key(id string) storagemodels.EntityKey {
	return storagemodels.MustEntityKey("Person", storagemodels.Column{Name: "id", Value: id})
}

func tuple(kv ...any) *storagemodels.Tuple {
	t := storagemodels.NewTuple()
	for i := 0; i+1 < len(kv); i += 2 {
		t.Put(kv[i].(string), kv[i+1])
	}
	return t
}

func TestOperationsQueueLifecycle(t *testing.T) {
	q := NewOperationsQueue()
	assert.Equal(t, QueueEmpty, q.State())
	assert.NotEmpty(t, q.ID())
	assert.NotEqual(t, q.ID(), NewOperationsQueue().ID())

	require.NoError(t, q.Add(InsertTuple(key("1"), tuple("a", 1))))
	require.NoError(t, q.Add(RemoveTuple(key("2"))))
	assert.Equal(t, QueueAccumulating, q.State())
	assert.Equal(t, 2, q.Size())
	assert.True(t, q.ContainsEntity(key("1")))
	assert.False(t, q.ContainsEntity(key("3")))

	require.NoError(t, q.BeginFlush())
	assert.Equal(t, QueueFlushing, q.State())

	err := q.Add(RemoveTuple(key("3")))
	assert.ErrorIs(t, err, ErrQueueFlushing)
	assert.True(t, errors.IsValidationError(err))
	assert.ErrorIs(t, q.BeginFlush(), ErrQueueFlushing)

	op, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, OpInsertTuple, op.Kind)
	assert.False(t, q.ContainsEntity(key("1")))
	assert.Equal(t, QueueFlushing, q.State(), "polling does not end a flush")

	q.EndFlush()
	assert.Equal(t, QueueEmpty, q.State())
	assert.Equal(t, 0, q.Size(), "remaining operations are discarded")
	_, ok = q.Poll()
	assert.False(t, ok)
}

func TestOperationsQueuePollOnce(t *testing.T) {
	q := NewOperationsQueue()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, q.Add(RemoveTuple(key(id))))
	}

	snapshot := q.Operations()
	snapshot[0] = Operation{}

	var polled []string
	for {
		op, ok := q.Poll()
		if !ok {
			break
		}
		polled = append(polled, op.EntityKey.String())
	}
	assert.Equal(t, []string{key("1").String(), key("2").String(), key("3").String()}, polled)
	assert.Equal(t, QueueEmpty, q.State())
}

func TestOperationsQueueContainsCountsDuplicates(t *testing.T) {
	q := NewOperationsQueue()
	require.NoError(t, q.Add(InsertTuple(key("1"), tuple("a", 1))))
	require.NoError(t, q.Add(UpdateTuple(key("1"), tuple("a", 2))))

	q.Poll()
	assert.True(t, q.ContainsEntity(key("1")), "second operation still queued")
	q.Poll()
	assert.False(t, q.ContainsEntity(key("1")))
}
