/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/gridstore/errors"
	sm "github.com/suparena/gridstore/storagemodels"
)

func TestBuildUpdateExpression(t *testing.T) {
	expr, names, values, err := buildUpdateExpression(
		[]attribute{{name: "name", value: "Jane"}, {name: "age", value: 30}, {name: "nickname", value: nil}},
		[]string{"city"},
	)
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2 REMOVE #f3", expr)
	assert.Equal(t, map[string]string{"#f0": "name", "#f1": "age", "#f2": "nickname", "#f3": "city"}, names)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Jane"}, values[":v0"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "30"}, values[":v1"])
	assert.Equal(t, &types.AttributeValueMemberNULL{Value: true}, values[":v2"])
}

func TestBuildUpdateExpressionRemoveOnly(t *testing.T) {
	expr, _, values, err := buildUpdateExpression(nil, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "REMOVE #f0, #f1", expr)
	assert.Nil(t, values, "an empty values map is rejected by the service")
}

func TestBuildUpdateExpressionEmpty(t *testing.T) {
	_, _, _, err := buildUpdateExpression(nil, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestUpdateExpressionReusesNames(t *testing.T) {
	u := newUpdateExpression()
	require.NoError(t, u.SetIfNotExists("EntityType", "Person"))
	require.NoError(t, u.Add("next_val", int64(5)))
	expr, names, _, err := u.Build()
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = if_not_exists(#f0, :v0) ADD #f1 :v1", expr)
	assert.Len(t, names, 2)
}

func TestTupleWrite(t *testing.T) {
	tuple := sm.NewTuple()
	tuple.Put("id", "p1")
	tuple.Put("name", "Jane")
	tuple.Remove("id")
	tuple.Remove("age")

	w, err := tupleWrite("gridstore", key("p1"), tuple)
	require.NoError(t, err)
	require.NotNil(t, w.item.Update)
	assert.Equal(t, itemKey{pk: "Person:id=p1", sk: entitySK}, w.key)
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2 REMOVE #f3", *w.item.Update.UpdateExpression)
	assert.Equal(t, map[string]string{"#f0": "EntityType", "#f1": "id", "#f2": "name", "#f3": "age"},
		w.item.Update.ExpressionAttributeNames)

	reserved := sm.NewTuple()
	reserved.Put("_associations", "x")
	_, err = tupleWrite("gridstore", key("p1"), reserved)
	assert.True(t, errors.IsValidationError(err))

	for _, column := range []string{"PK", "SK"} {
		k := sm.MustEntityKey("Person", sm.Column{Name: column, Value: "p1"})
		_, err = tupleWrite("gridstore", k, sm.NewTuple())
		assert.True(t, errors.IsValidationError(err), column)
	}
}

func TestChunk(t *testing.T) {
	var writes []write
	for i := 0; i < 205; i++ {
		writes = append(writes, write{key: itemKey{pk: fmt.Sprint(i), sk: entitySK}})
	}
	var sizes []int
	for _, c := range chunk(writes) {
		sizes = append(sizes, len(c))
	}
	assert.Equal(t, []int{100, 100, 5}, sizes)

	a := write{key: itemKey{pk: "a", sk: entitySK}}
	b := write{key: itemKey{pk: "b", sk: entitySK}}
	chunks := chunk([]write{a, b, a, b, b})
	require.Len(t, chunks, 3)
	assert.Equal(t, []write{a, b}, chunks[0])
	assert.Equal(t, []write{a, b}, chunks[1])
	assert.Equal(t, []write{b}, chunks[2])
	assert.Empty(t, chunk(nil))
}

func TestUnmarshalItem(t *testing.T) {
	item, err := unmarshalItem(map[string]types.AttributeValue{
		"n":    &types.AttributeValueMemberN{Value: "42"},
		"f":    &types.AttributeValueMemberN{Value: "1.25"},
		"null": &types.AttributeValueMemberNULL{Value: true},
		"rows": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"car_id": &types.AttributeValueMemberN{Value: "3"},
			}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), item["n"])
	assert.Equal(t, 1.25, item["f"])
	assert.Nil(t, item["null"])
	assert.Equal(t, []any{map[string]any{"car_id": int64(3)}}, item["rows"])
}

func TestItemKeys(t *testing.T) {
	owner := key("p1")
	assocKey := sm.MustAssociationKey(owner, "cars")
	assert.Equal(t, "Person_cars:cars:Person:id=p1", associationItemKey(assocKey).pk)
	assert.Equal(t, associationSK, associationItemKey(assocKey).sk)
	assert.Equal(t, "hibernate_sequences:seq", sequenceItemKey("seq").pk)
	assert.Equal(t, "associations_Person_cars", documentCollection(assocKey, sm.AssociationDocumentPerAssociation))
	assert.Equal(t, AssociationsCollection, documentCollection(assocKey, sm.AssociationDocument))
}
