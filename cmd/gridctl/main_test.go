/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/suparena/gridstore"
	"github.com/suparena/gridstore/config"
	"github.com/suparena/gridstore/storagemodels"
)

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printVersion(&out))
	assert.Contains(t, out.String(), "gridstore "+gridstore.Version+" (commit ")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: cache\nbatching:\n  coalesce: true\n"), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DialectCache, cfg.Dialect)
	assert.True(t, cfg.Batching.Coalesce)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStatsAndDrop(t *testing.T) {
	ctx := context.Background()
	store, err := gridstore.Open(ctx, &config.Config{Dialect: config.DialectCache})
	require.NoError(t, err)
	defer store.Close(ctx)

	owner := storagemodels.MustEntityKey("Person", storagemodels.Column{Name: "id", Value: "1"})
	uow := store.NewUnitOfWork()
	require.NoError(t, uow.InsertTuple(ctx, owner, storagemodels.NewTupleFromMap(map[string]any{"name": "Jane"})))

	key := storagemodels.MustAssociationKey(owner, "cars")
	row := storagemodels.NewTupleFromMap(map[string]any{"car_id": "c1"})
	rowKey, err := key.RowKeyFor(row)
	require.NoError(t, err)
	assoc := storagemodels.NewAssociation()
	assoc.Put(rowKey, row)
	require.NoError(t, uow.InsertAssociation(ctx, key, assoc, store.AssociationContext(key)))

	var out bytes.Buffer
	require.NoError(t, printStats(ctx, store, &out))
	var stats Stats
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, config.DialectCache, stats.Dialect)
	assert.Equal(t, int64(1), stats.Entities)
	assert.Equal(t, int64(1), stats.Associations)
	assert.True(t, stats.Transactions)
	assert.Contains(t, stats.Capabilities, "introspection")
	assert.Empty(t, stats.AssociationsByStorage)
	assert.Nil(t, stats.EmbeddedCollections)

	out.Reset()
	require.NoError(t, drop(ctx, store, &out))
	assert.Equal(t, "dropped cache datastore\n", out.String())

	after, err := collectStats(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, after.Entities)
	assert.Zero(t, after.Associations)
}
