/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package identifier

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/internal/keycodec"
	"github.com/suparena/gridstore/storagemodels"
)

// SequenceTable is the table holding sequence counters.
const SequenceTable = "hibernate_sequences"

// EntityID derives the string id of an entity row:
//
//	table:name1=value1,name2=value2
//
// Every component is escaped and non-string values are type tagged, so two
// different keys never share an id.
func EntityID(key storagemodels.EntityKey) string {
	return key.String()
}

// AssociationID derives the string id of an association:
//
//	associationTable:role:ownerEntityID
func AssociationID(key storagemodels.AssociationKey) string {
	return key.String()
}

// RowID derives the string id of one association row.
func RowID(key storagemodels.RowKey) string {
	return key.String()
}

// SequenceID derives the string id of a named sequence.
func SequenceID(name string) string {
	return keycodec.Join(SequenceTable, name)
}

// ParseEntityID rebuilds the EntityKey an id was derived from. Integer key
// values come back as int64, unsigned ones as uint64 and floats as float64,
// which does not change key equality.
func ParseEntityID(id string) (storagemodels.EntityKey, error) {
	table, columns, err := parseID("entity", id)
	if err != nil {
		return storagemodels.EntityKey{}, err
	}
	return storagemodels.NewEntityKey(table, columns...)
}

// ParseRowID rebuilds the RowKey a row id was derived from, with the value
// types of ParseEntityID.
func ParseRowID(id string) (storagemodels.RowKey, error) {
	table, columns, err := parseID("row", id)
	if err != nil {
		return storagemodels.RowKey{}, err
	}
	return storagemodels.NewRowKey(table, columns...)
}

func parseID(kind, id string) (string, []storagemodels.Column, error) {
	parts := keycodec.Split(id, keycodec.Separator)
	if len(parts) != 2 {
		return "", nil, errors.NewValidationError("id", fmt.Sprintf("malformed %s id %q", kind, id))
	}
	table, err := keycodec.Unescape(parts[0])
	if err != nil {
		return "", nil, errors.NewValidationError("id", err.Error())
	}
	names, values, err := keycodec.DecodeColumns(parts[1])
	if err != nil {
		return "", nil, errors.NewValidationError("id", err.Error())
	}
	columns := make([]storagemodels.Column, len(names))
	for i := range names {
		columns[i] = storagemodels.Column{Name: names[i], Value: values[i]}
	}
	return table, columns, nil
}

// DocumentID returns the _id of an entity document. Single column keys map
// to one id value, composite keys to an ordered document of the key columns.
func DocumentID(key storagemodels.EntityKey) interface{} {
	cols := key.Columns()
	if len(cols) == 1 {
		return documentValue(cols[0].Value)
	}
	doc := make(bson.D, 0, len(cols))
	for _, c := range cols {
		doc = append(doc, bson.E{Key: c.Name, Value: documentValue(c.Value)})
	}
	return doc
}

// documentValue maps a key value to its _id component. Signed integers are
// stored as int64 and strings as themselves; every other type, and strings
// starting with the tag character, are stored as their tagged key encoding,
// so keys that differ never share an _id.
func documentValue(v any) any {
	switch tv := v.(type) {
	case int:
		return int64(tv)
	case int8:
		return int64(tv)
	case int16:
		return int64(tv)
	case int32:
		return int64(tv)
	case int64:
		return tv
	}
	s, err := keycodec.FormatValue(v)
	if err != nil {
		// key values are validated when the key is built
		return v
	}
	return s
}
