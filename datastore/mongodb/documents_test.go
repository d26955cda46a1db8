/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	sm "github.com/suparena/gridstore/storagemodels"
)

func person(id string) sm.EntityKey {
	return sm.MustEntityKey("Person", sm.Column{Name: "id", Value: id})
}

func updateOf(t *testing.T, w write) bson.D {
	t.Helper()
	model, ok := w.model.(*mongo.UpdateOneModel)
	require.True(t, ok, "expected update model, got %T", w.model)
	update, ok := model.Update.(bson.D)
	require.True(t, ok)
	return update
}

func TestTupleUpdate(t *testing.T) {
	tuple := sm.NewTupleFromSnapshot(sm.NewMapSnapshot(map[string]any{"name": "Jane", "age": 30}))
	tuple.Put("name", "Janet")
	tuple.Put("nickname", nil)
	tuple.Remove("age")
	tuple.Remove("id")

	update, err := tupleUpdate(person("p1"), tuple)
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "id", Value: "p1"},
			{Key: "name", Value: "Janet"},
			{Key: "nickname", Value: nil},
		}},
		{Key: "$unset", Value: bson.D{{Key: "age", Value: ""}}},
	}, update)
}

func TestTupleUpdateKeyColumnOverride(t *testing.T) {
	tuple := sm.NewTuple()
	tuple.Put("id", "p1")
	tuple.Put("name", "Jane")

	update, err := tupleUpdate(person("p1"), tuple)
	require.NoError(t, err)
	require.Len(t, update, 1, "no $unset without removals")
	assert.Equal(t, bson.D{{Key: "id", Value: "p1"}, {Key: "name", Value: "Jane"}}, update[0].Value)
}

func TestTupleUpdateRejectsReservedColumns(t *testing.T) {
	for _, column := range []string{"_id", "_associations", "_collections"} {
		tuple := sm.NewTuple()
		tuple.Put(column, "x")
		_, err := tupleUpdate(person("p1"), tuple)
		assert.True(t, errors.IsValidationError(err), column)
	}
}

func TestTupleUpdateRejectsReservedKeyColumns(t *testing.T) {
	for _, column := range []string{"_id", "_associations", "_collections"} {
		key := sm.MustEntityKey("Person", sm.Column{Name: column, Value: uint64(1)})
		_, err := tupleUpdate(key, sm.NewTuple())
		assert.True(t, errors.IsValidationError(err), column)
	}
}

func TestEntityFilterCompositeKey(t *testing.T) {
	key := sm.MustEntityKey("Order", sm.Column{Name: "customer", Value: "c1"}, sm.Column{Name: "number", Value: 7})
	assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{
		{Key: "customer", Value: "c1"},
		{Key: "number", Value: int64(7)},
	}}}, entityFilter(key))
}

func TestEntityFilterKeepsKeysApart(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	pairs := [][2]sm.EntityKey{
		{
			sm.MustEntityKey("Reading", sm.Column{Name: "id", Value: int64(7)}),
			sm.MustEntityKey("Reading", sm.Column{Name: "id", Value: uint64(7)}),
		},
		{
			sm.MustEntityKey("Reading", sm.Column{Name: "id", Value: at}),
			sm.MustEntityKey("Reading", sm.Column{Name: "id", Value: at.Add(time.Microsecond)}),
		},
		{
			sm.MustEntityKey("Reading", sm.Column{Name: "id", Value: 7}),
			sm.MustEntityKey("Reading", sm.Column{Name: "id", Value: 7.0}),
		},
	}
	for _, pair := range pairs {
		a, err := bson.Marshal(entityFilter(pair[0]))
		require.NoError(t, err)
		b, err := bson.Marshal(entityFilter(pair[1]))
		require.NoError(t, err)
		assert.NotEqual(t, a, b, "%s and %s", pair[0], pair[1])
	}
}

func TestLocate(t *testing.T) {
	owner := person("p1")
	cars := sm.MustAssociationKey(owner, "cars")
	nicknames := sm.MustAssociationKey(owner, "nicknames", sm.WithKind(sm.KindEmbeddedCollection))

	tests := []struct {
		name       string
		key        sm.AssociationKey
		storage    sm.AssociationStorageType
		collection string
		path       string
		document   bool
	}{
		{"in entity", cars, sm.InEntity, "Person", "_associations.cars", false},
		{"embedded in entity", nicknames, sm.InEntity, "Person", "_collections.nicknames", false},
		{"global document", cars, sm.AssociationDocument, "Associations", "rows", true},
		{"per association", cars, sm.AssociationDocumentPerAssociation, "associations_Person_cars", "rows", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := locate(tt.key, tt.storage)
			require.NoError(t, err)
			assert.Equal(t, tt.collection, loc.collection)
			assert.Equal(t, tt.path, loc.path)
			assert.Equal(t, tt.document, loc.document)
		})
	}

	docLoc, err := locate(cars, sm.AssociationDocument)
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{
		{Key: "table", Value: "Person_cars"},
		{Key: "role", Value: "cars"},
		{Key: "owner", Value: "p1"},
	}}}, docLoc.filter)
}

func TestAssociationWrites(t *testing.T) {
	key := sm.MustAssociationKey(person("p1"), "cars", sm.WithRowKeyColumns("car_id"))
	rowKey := sm.MustRowKey(key.Table(), sm.Column{Name: "car_id", Value: "c1"})
	goneKey := sm.MustRowKey(key.Table(), sm.Column{Name: "car_id", Value: "c0"})

	assoc := sm.NewAssociation()
	assoc.Put(rowKey, sm.NewTupleFromMap(map[string]any{"car_id": "c1", "color": "red"}))
	assoc.Remove(goneKey)

	writes, err := associationWrites(key, assoc, sm.AssociationDocument)
	require.NoError(t, err)
	require.Len(t, writes, 3, "put is pull then push, remove is one pull")

	for _, w := range writes {
		assert.Equal(t, "Associations", w.collection)
	}
	pull := updateOf(t, writes[0])
	assert.Equal(t, "$pull", pull[0].Key)
	assert.Equal(t, bson.D{{Key: "rows", Value: bson.D{{Key: "_rowkey", Value: "Person_cars:car_id=c1"}}}}, pull[0].Value)
	assert.Equal(t, bson.E{Key: "$setOnInsert", Value: bson.D{{Key: "kind", Value: "ASSOCIATION"}}}, pull[1])

	push := updateOf(t, writes[1])
	assert.Equal(t, bson.D{{Key: "$push", Value: bson.D{{Key: "rows", Value: bson.D{
		{Key: "_rowkey", Value: "Person_cars:car_id=c1"},
		{Key: "car_id", Value: "c1"},
		{Key: "color", Value: "red"},
	}}}}}, push)

	remove := updateOf(t, writes[2])
	assert.Equal(t, bson.D{{Key: "rows", Value: bson.D{{Key: "_rowkey", Value: "Person_cars:car_id=c0"}}}}, remove[0].Value)
}

func TestAssociationRowsKeepStoredRowKey(t *testing.T) {
	since := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC)
	key := sm.MustAssociationKey(person("p1"), "cars", sm.WithRowKeyColumns("car_id", "since"))
	rowKey := sm.MustRowKey(key.Table(),
		sm.Column{Name: "car_id", Value: uint32(4)},
		sm.Column{Name: "since", Value: since})

	assoc := sm.NewAssociation()
	assoc.Put(rowKey, sm.NewTupleFromMap(map[string]any{"car_id": uint32(4), "since": since}))
	writes, err := associationWrites(key, assoc, sm.InEntity)
	require.NoError(t, err)
	pushed := updateOf(t, writes[1])[0].Value.(bson.D)[0].Value.(bson.D)

	// the server hands the row back with a widened integer and a millisecond
	// timestamp
	stored := bson.M{}
	for _, e := range pushed {
		stored[e.Key] = e.Value
	}
	stored["car_id"] = int64(4)
	stored["since"] = primitive.NewDateTimeFromTime(since)

	got, err := associationRows(key, bson.M{"_associations": bson.M{"cars": primitive.A{stored}}}, "_associations.cars")
	require.NoError(t, err)
	require.Equal(t, 1, got.Size())
	assert.True(t, got.Keys()[0].Equal(rowKey))
	assert.NotContains(t, got.Get(rowKey).ColumnNames(), "_rowkey")

	got.Remove(rowKey)
	assert.Equal(t, 0, got.Size())
}

func TestRejectsPathCharactersInNames(t *testing.T) {
	for _, column := range []string{"a.b", "$where", "price$"} {
		tuple := sm.NewTuple()
		tuple.Put(column, 1)
		_, err := tupleUpdate(person("p1"), tuple)
		assert.True(t, errors.IsValidationError(err), column)

		key := sm.MustAssociationKey(person("p1"), "cars")
		assoc := sm.NewAssociation()
		assoc.Put(sm.MustRowKey(key.Table(), sm.Column{Name: "car", Value: "c1"}),
			sm.NewTupleFromMap(map[string]any{"car": "c1", column: 1}))
		_, err = associationWrites(key, assoc, sm.AssociationDocument)
		assert.True(t, errors.IsValidationError(err), column)
	}

	_, err := tupleUpdate(sm.MustEntityKey("Person", sm.Column{Name: "a.id", Value: "p1"}), nil)
	assert.True(t, errors.IsValidationError(err))

	for _, role := range []string{"cars.0", "$cars"} {
		key := sm.MustAssociationKey(person("p1"), role)
		_, err := locate(key, sm.InEntity)
		assert.True(t, errors.IsValidationError(err), role)
		_, err = removeAssociationWrites(key, sm.InEntity)
		assert.True(t, errors.IsValidationError(err), role)

		_, err = locate(key, sm.AssociationDocument)
		assert.NoError(t, err, "document storage keeps the role as a value")
	}

	reserved := sm.NewAssociation()
	rk := sm.MustRowKey("Person_cars", sm.Column{Name: "car", Value: "c1"})
	reserved.Put(rk, sm.NewTupleFromMap(map[string]any{"car": "c1", "_rowkey": "x"}))
	_, err = associationWrites(sm.MustAssociationKey(person("p1"), "cars"), reserved, sm.InEntity)
	assert.True(t, errors.IsValidationError(err))
}

func TestAssociationWritesInEntity(t *testing.T) {
	key := sm.MustAssociationKey(person("p1"), "cars")
	assoc := sm.NewAssociation()
	assoc.Clear()

	writes, err := associationWrites(key, assoc, sm.InEntity)
	require.NoError(t, err)
	require.Len(t, writes, 1)
	assert.Equal(t, "Person", writes[0].collection)
	assert.Equal(t, bson.D{{Key: "$set", Value: bson.D{{Key: "_associations.cars", Value: bson.A{}}}}}, updateOf(t, writes[0]),
		"owner documents carry no kind marker")
}

func TestRemoveAssociationWrites(t *testing.T) {
	key := sm.MustAssociationKey(person("p1"), "cars")

	inEntity, err := removeAssociationWrites(key, sm.InEntity)
	require.NoError(t, err)
	require.Len(t, inEntity, 1)
	assert.Equal(t, bson.D{{Key: "$unset", Value: bson.D{{Key: "_associations.cars", Value: ""}}}}, updateOf(t, inEntity[0]))

	document, err := removeAssociationWrites(key, sm.AssociationDocumentPerAssociation)
	require.NoError(t, err)
	require.Len(t, document, 1)
	assert.IsType(t, &mongo.DeleteOneModel{}, document[0].model)
	assert.Equal(t, "associations_Person_cars", document[0].collection)
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, checkSize(bson.D{{Key: "a", Value: "small"}}))

	err := checkSize(bson.D{{Key: "blob", Value: strings.Repeat("x", MaxDocumentSize)}})
	require.Error(t, err)
	assert.True(t, errors.IsStorageError(err))
	assert.Contains(t, err.Error(), "exceeds")
}

func TestAssociationRows(t *testing.T) {
	key := sm.MustAssociationKey(person("p1"), "cars", sm.WithRowKeyColumns("car_id"))
	doc := bson.M{
		"_id": "p1",
		"_associations": bson.M{
			"cars": primitive.A{
				bson.M{"car_id": "c1", "color": "red"},
				bson.D{{Key: "car_id", Value: "c2"}},
			},
		},
	}

	assoc, err := associationRows(key, doc, "_associations.cars")
	require.NoError(t, err)
	require.NotNil(t, assoc)
	assert.Equal(t, 2, assoc.Size())
	assert.Equal(t, "red", assoc.Get(sm.MustRowKey(key.Table(), sm.Column{Name: "car_id", Value: "c1"})).Get("color"))

	missing, err := associationRows(key, doc, "_associations.bikes")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = associationRows(key, bson.M{"rows": "oops"}, "rows")
	assert.True(t, errors.IsStorageError(err))
}

func TestDocumentColumns(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cols := documentColumns(bson.M{
		"_id":           "p1",
		"_associations": bson.M{},
		"id":            "p1",
		"born":          primitive.NewDateTimeFromTime(at),
		"tags":          primitive.A{"a", "b"},
		"photo":         primitive.Binary{Data: []byte{1, 2}},
		"age":           int32(41),
		"rank":          primitive.A{int32(1), int64(2)},
	})
	assert.Equal(t, map[string]any{
		"id":    "p1",
		"born":  at,
		"tags":  []any{"a", "b"},
		"photo": []byte{1, 2},
		"age":   int64(41),
		"rank":  []any{int64(1), int64(2)},
	}, cols)
}

func TestRuns(t *testing.T) {
	writes := []write{{collection: "A"}, {collection: "A"}, {collection: "B"}, {collection: "A"}}
	assert.Equal(t, []run{
		{collection: "A", start: 0, end: 2},
		{collection: "B", start: 2, end: 3},
		{collection: "A", start: 3, end: 4},
	}, runs(writes))
	assert.Empty(t, runs(nil))
}

func TestOperationWrites(t *testing.T) {
	key := person("p1")
	tuple := sm.NewTuple()
	tuple.Put("name", "Jane")

	writes, err := operationWrites(datastore.InsertTuple(key, tuple), sm.InEntity)
	require.NoError(t, err)
	require.Len(t, writes, 1)
	model := writes[0].model.(*mongo.UpdateOneModel)
	require.NotNil(t, model.Upsert)
	assert.True(t, *model.Upsert)

	writes, err = operationWrites(datastore.RemoveTuple(key), sm.InEntity)
	require.NoError(t, err)
	assert.IsType(t, &mongo.DeleteOneModel{}, writes[0].model)
}

func TestIsEntityCollection(t *testing.T) {
	assert.True(t, isEntityCollection("Person"))
	assert.False(t, isEntityCollection("Associations"))
	assert.False(t, isEntityCollection("associations_Person_cars"))
	assert.False(t, isEntityCollection("hibernate_sequences"))
	assert.False(t, isEntityCollection("system.views"))
}

func TestCountKeys(t *testing.T) {
	docs := []bson.M{
		{"_associations": bson.M{"cars": primitive.A{}, "bikes": primitive.A{}}},
		{"_associations": bson.D{{Key: "cars", Value: primitive.A{}}}},
		{"name": "no associations"},
	}
	assert.Equal(t, int64(3), countKeys(docs, "_associations"))
}
