//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb_test

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/datastore/ddb"
	sm "github.com/suparena/gridstore/storagemodels"
)

// Reads AWS_ACCESS_KEY, AWS_SECRET_KEY, AWS_REGION, AWS_DDB_TABLE and the
// optional AWS_DDB_ENDPOINT from the environment or a .env file. The table
// needs a string PK hash key and a string SK range key.
func startProvider(t *testing.T) *ddb.Provider {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		t.Log("No .env file found, proceeding with environment variables")
	}
	table := os.Getenv("AWS_DDB_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TABLE not set")
	}
	p := ddb.NewProvider(ddb.ProviderConfig{
		Region:    os.Getenv("AWS_REGION"),
		Table:     table,
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
	})
	require.NoError(t, p.Start(context.Background()))
	t.Cleanup(func() { _ = p.Stop(context.Background()) })
	return p
}

func TestDynamoDBTupleRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := ddb.NewDialect(startProvider(t))
	key := sm.MustEntityKey("RatingSystem", sm.Column{Name: "id", Value: "TTOakville"})

	tuple := sm.NewTuple()
	tuple.Put("name", "Oakville Table Tennis Ranking System (test)")
	tuple.Put("description", "This is a test rating system")
	require.NoError(t, d.InsertOrUpdateTuple(ctx, key, tuple))

	got, err := d.GetTuple(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "This is a test rating system", got.Get("description"))

	require.NoError(t, d.RemoveTuple(ctx, key))
	got, err = d.GetTuple(ctx, key)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDynamoDBBatchFlush(t *testing.T) {
	ctx := context.Background()
	d := ddb.NewDialect(startProvider(t))
	uow := datastore.NewUnitOfWork(d)

	owner := sm.MustEntityKey("Player", sm.Column{Name: "id", Value: "it-player"})
	tuple := sm.NewTuple()
	tuple.Put("rating", 1500)
	require.NoError(t, uow.InsertTuple(ctx, owner, tuple))

	clubs := sm.MustAssociationKey(owner, "clubs", sm.WithRowKeyColumns("club_id"))
	assoc := sm.NewAssociation()
	rowKey := sm.MustRowKey(clubs.Table(), sm.Column{Name: "club_id", Value: "oakville"})
	assoc.Put(rowKey, sm.NewTupleFromMap(map[string]any{"club_id": "oakville"}))
	actx := datastore.AssociationContext{StorageType: sm.AssociationDocument}
	require.NoError(t, uow.InsertAssociation(ctx, clubs, assoc, actx))
	require.NoError(t, uow.Flush(ctx))

	got, err := d.GetAssociation(ctx, clubs, actx)
	require.NoError(t, err)
	require.Equal(t, 1, got.Size())

	require.NoError(t, uow.RemoveAssociation(ctx, clubs, actx))
	require.NoError(t, uow.RemoveTuple(ctx, owner))
	require.NoError(t, uow.Flush(ctx))
}
