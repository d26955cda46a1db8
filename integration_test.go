//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/suparena/gridstore"
	"github.com/suparena/gridstore/config"
	"github.com/suparena/gridstore/storagemodels"
)

// GridstoreIntegrationTestSuite runs the same scenario against whichever
// backend GRIDSTORE_DIALECT selects.
type GridstoreIntegrationTestSuite struct {
	suite.Suite

	ctx   context.Context
	store *gridstore.Datastore
}

func TestGridstoreIntegration(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.ApplyEnvironment())
	if cfg.Dialect == "" {
		t.Skip("GRIDSTORE_DIALECT not set, skipping integration test")
	}

	s := &GridstoreIntegrationTestSuite{ctx: context.Background()}
	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	store, err := gridstore.Open(ctx, &cfg, gridstore.WithDropOnClose())
	require.NoError(t, err)
	s.store = store
	defer func() { assert.NoError(t, store.Close(s.ctx)) }()

	suite.Run(t, s)
}

func (s *GridstoreIntegrationTestSuite) SetupTest() {
	introspector, err := s.store.Introspector()
	s.Require().NoError(err)
	s.Require().NoError(introspector.DropSchemaAndDatabase(s.ctx))
}

func personKey(id int) storagemodels.EntityKey {
	return storagemodels.MustEntityKey("Person", storagemodels.Column{Name: "id", Value: id})
}

func (s *GridstoreIntegrationTestSuite) TestEntityLifecycle() {
	uow := s.store.NewUnitOfWork()
	for i := 0; i < 10; i++ {
		tuple := storagemodels.NewTupleFromMap(map[string]any{"name": fmt.Sprintf("person-%d", i)})
		s.Require().NoError(uow.InsertTuple(s.ctx, personKey(i), tuple))
	}
	update := storagemodels.NewTuple()
	update.Put("name", "renamed")
	s.Require().NoError(uow.UpdateTuple(s.ctx, personKey(3), update))
	s.Require().NoError(uow.RemoveTuple(s.ctx, personKey(9)))
	s.Require().NoError(uow.Flush(s.ctx))

	got, err := s.store.Dialect().GetTuple(s.ctx, personKey(3))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("renamed", got.Get("name"))

	got, err = s.store.Dialect().GetTuple(s.ctx, personKey(9))
	s.NoError(err)
	s.Nil(got)

	introspector, err := s.store.Introspector()
	s.Require().NoError(err)
	count, err := introspector.EntityCount(s.ctx)
	s.NoError(err)
	s.Equal(int64(9), count)
}

func (s *GridstoreIntegrationTestSuite) TestAssociationLifecycle() {
	owner := personKey(1)
	key := storagemodels.MustAssociationKey(owner, "cars", storagemodels.WithRowKeyColumns("car_id"))
	actx := s.store.AssociationContext(key)

	uow := s.store.NewUnitOfWork()
	s.Require().NoError(uow.InsertTuple(s.ctx, owner, storagemodels.NewTupleFromMap(map[string]any{"name": "Jane"})))

	assoc := storagemodels.NewAssociation()
	for _, car := range []string{"c1", "c2", "c3"} {
		row := storagemodels.NewTupleFromMap(map[string]any{"car_id": car})
		rowKey, err := key.RowKeyFor(row)
		s.Require().NoError(err)
		assoc.Put(rowKey, row)
	}
	s.Require().NoError(uow.InsertAssociation(s.ctx, key, assoc, actx))
	s.Require().NoError(uow.Flush(s.ctx))

	stored, err := s.store.Dialect().GetAssociation(s.ctx, key, actx)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(3, stored.Size())

	s.Require().NoError(uow.RemoveAssociation(s.ctx, key, actx))
	s.Require().NoError(uow.Flush(s.ctx))
	stored, err = s.store.Dialect().GetAssociation(s.ctx, key, actx)
	s.NoError(err)
	s.True(stored == nil || stored.IsEmpty())
}

func (s *GridstoreIntegrationTestSuite) TestNextValue() {
	uow := s.store.NewUnitOfWork()
	req := storagemodels.NextValueRequest{
		SequenceName: fmt.Sprintf("seq_%d", os.Getpid()),
		Increment:    10,
		InitialValue: 1,
	}
	first, err := uow.NextValue(s.ctx, req)
	s.Require().NoError(err)
	second, err := uow.NextValue(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(first+10, second)
}
