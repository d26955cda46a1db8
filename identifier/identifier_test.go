/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package identifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

func col(name string, value any) storagemodels.Column {
	return storagemodels.Column{Name: name, Value: value}
}

func TestEntityIDFormat(t *testing.T) {
	key := storagemodels.MustEntityKey("Order", col("customer", "c:1"), col("number", 7))
	assert.Equal(t, `Order:customer=c\:1,number=#i7`, EntityID(key))
	assert.Equal(t, key.String(), EntityID(key))
}

func TestEntityIDInjective(t *testing.T) {
	keys := []storagemodels.EntityKey{
		storagemodels.MustEntityKey("T", col("a", "1")),
		storagemodels.MustEntityKey("T", col("a", 1)),
		storagemodels.MustEntityKey("T", col("a", uint(1))),
		storagemodels.MustEntityKey("T", col("a", 1.0)),
		storagemodels.MustEntityKey("T", col("a", true)),
		storagemodels.MustEntityKey("T", col("a", "true")),
		storagemodels.MustEntityKey("T", col("a", "#i1")),
		storagemodels.MustEntityKey("T", col("a", "1,b=2")),
		storagemodels.MustEntityKey("T", col("a", "1"), col("b", "2")),
		storagemodels.MustEntityKey("T", col("a=1,b", "2")),
		storagemodels.MustEntityKey("T:a", col("a", "1")),
		storagemodels.MustEntityKey("T", col("a", `1\`)),
		storagemodels.MustEntityKey("T", col("a", "")),
		storagemodels.MustEntityKey("T", col("b", "1"), col("a", "2")),
		storagemodels.MustEntityKey("T", col("a", "2"), col("b", "1")),
	}

	seen := make(map[string]int)
	for i, key := range keys {
		id := EntityID(key)
		if j, dup := seen[id]; dup {
			t.Fatalf("keys %d and %d share id %q", j, i, id)
		}
		seen[id] = i
	}
}

func TestParseEntityIDRoundTrip(t *testing.T) {
	when := time.Date(2024, 2, 29, 13, 14, 15, 123456789, time.UTC)
	keys := []storagemodels.EntityKey{
		storagemodels.MustEntityKey("Person", col("id", "p-1")),
		storagemodels.MustEntityKey("Order", col("customer", `c\,:=#`), col("number", int32(9))),
		storagemodels.MustEntityKey("Reading", col("sensor", uint16(3)), col("at", when), col("ok", false)),
		storagemodels.MustEntityKey("Weird:Table", col("ratio", 0.25)),
	}

	for _, key := range keys {
		parsed, err := ParseEntityID(EntityID(key))
		require.NoError(t, err, EntityID(key))
		assert.True(t, parsed.Equal(key), "%s != %s", parsed, key)
		assert.Equal(t, key.Table(), parsed.Table())
		assert.Equal(t, key.ColumnNames(), parsed.ColumnNames())
	}
}

func TestParseEntityIDMalformed(t *testing.T) {
	for _, id := range []string{"", "Person", "Person:id", "a:b:c", `Person:id=#x1`, `Person:id=1\`} {
		_, err := ParseEntityID(id)
		assert.Error(t, err, id)
		assert.True(t, errors.IsValidationError(err), id)
	}
}

func TestAssociationAndSequenceIDs(t *testing.T) {
	owner := storagemodels.MustEntityKey("Person", col("id", "p1"))
	cars := storagemodels.MustAssociationKey(owner, "cars")
	bikes := storagemodels.MustAssociationKey(owner, "bikes")

	assert.Equal(t, "Person_cars:cars:Person:id=p1", AssociationID(cars))
	assert.NotEqual(t, AssociationID(cars), AssociationID(bikes))
	assert.NotEqual(t, SequenceID("a:b"), SequenceID("a"))
	assert.Equal(t, "hibernate_sequences:orders", SequenceID("orders"))
}

func TestDocumentID(t *testing.T) {
	single := storagemodels.MustEntityKey("Person", col("id", "p1"))
	assert.Equal(t, "p1", DocumentID(single))

	composite := storagemodels.MustEntityKey("Order", col("customer", "c1"), col("number", 7))
	assert.Equal(t, bson.D{{Key: "customer", Value: "c1"}, {Key: "number", Value: int64(7)}}, DocumentID(composite))

	assert.Equal(t, int64(9), DocumentID(storagemodels.MustEntityKey("T", col("id", int32(9)))))
	assert.Equal(t, "#u9", DocumentID(storagemodels.MustEntityKey("T", col("id", uint8(9)))))
	assert.Equal(t, "#s#u9", DocumentID(storagemodels.MustEntityKey("T", col("id", "#u9"))))
}

func TestDocumentIDDistinguishesKeys(t *testing.T) {
	when := time.Date(2025, 3, 1, 8, 0, 0, 1000, time.UTC)
	keys := []storagemodels.EntityKey{
		storagemodels.MustEntityKey("T", col("id", int64(7))),
		storagemodels.MustEntityKey("T", col("id", uint64(7))),
		storagemodels.MustEntityKey("T", col("id", 7.0)),
		storagemodels.MustEntityKey("T", col("id", "7")),
		storagemodels.MustEntityKey("T", col("id", "#u7")),
		storagemodels.MustEntityKey("T", col("id", when)),
		storagemodels.MustEntityKey("T", col("id", when.Add(time.Microsecond))),
		storagemodels.MustEntityKey("T", col("id", true)),
		storagemodels.MustEntityKey("T", col("id", "#btrue")),
	}

	seen := make(map[string]int)
	for i, key := range keys {
		raw, err := bson.Marshal(bson.D{{Key: "_id", Value: DocumentID(key)}})
		require.NoError(t, err)
		if j, dup := seen[string(raw)]; dup {
			t.Fatalf("keys %s and %s share an _id", keys[j], key)
		}
		seen[string(raw)] = i
	}

	same := []storagemodels.EntityKey{
		storagemodels.MustEntityKey("T", col("id", 7)),
		storagemodels.MustEntityKey("T", col("id", int16(7))),
	}
	assert.Equal(t, DocumentID(keys[0]), DocumentID(same[0]))
	assert.Equal(t, DocumentID(keys[0]), DocumentID(same[1]))
}

func TestParseRowIDRoundTrip(t *testing.T) {
	when := time.Date(2024, 2, 29, 13, 14, 15, 123456789, time.FixedZone("CET", 3600))
	keys := []storagemodels.RowKey{
		storagemodels.MustRowKey("Person_cars", col("car", "c1")),
		storagemodels.MustRowKey("Person_cars", col("car", uint32(4)), col("since", when)),
		storagemodels.MustRowKey("Person_tags", col("tag", "#x"), col("weight", 0.5)),
	}
	for _, key := range keys {
		parsed, err := ParseRowID(RowID(key))
		require.NoError(t, err, RowID(key))
		assert.True(t, parsed.Equal(key), "%s != %s", parsed, key)
		assert.Equal(t, key.Table(), parsed.Table())
	}

	_, err := ParseRowID("Person_cars")
	assert.True(t, errors.IsValidationError(err))
}
