/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/identifier"
	"github.com/suparena/gridstore/storagemodels"
)

const (
	idField           = "_id"
	associationsField = "_associations"
	collectionsField  = "_collections"
	rowsField         = "rows"
	kindField         = "kind"
	rowKeyField       = "_rowkey"

	// AssociationsCollection holds ASSOCIATION_DOCUMENT associations of every
	// entity.
	AssociationsCollection = "Associations"
	// PerAssociationPrefix prefixes the collection of an
	// ASSOCIATION_DOCUMENT_PER_ASSOCIATION association table.
	PerAssociationPrefix = "associations_"

	sequenceValueField = "next_val"

	// MaxDocumentSize is the BSON document size limit of the server.
	MaxDocumentSize = 16 * 1024 * 1024
)

// write is one write model bound to its collection.
type write struct {
	collection string
	model      mongo.WriteModel
}

func reservedField(name string) bool {
	return name == idField || name == associationsField || name == collectionsField
}

// checkFieldName rejects names the server would read as a path or an
// operator.
func checkFieldName(field, name string) error {
	if name == "" {
		return errors.NewValidationError(field, "must not be empty")
	}
	if strings.ContainsAny(name, ".$") {
		return errors.NewValidationError(field, fmt.Sprintf("%q must not contain '.' or '$'", name))
	}
	return nil
}

// setFields is an ordered $set document where later values replace earlier
// ones.
type setFields struct {
	doc   bson.D
	index map[string]int
}

func (s *setFields) put(name string, value any) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.doc[i].Value = value
		return
	}
	s.index[name] = len(s.doc)
	s.doc = append(s.doc, bson.E{Key: name, Value: value})
}

// tupleUpdate builds the upsert document of a tuple overlay. Key columns are
// mirrored as fields so the $set is never empty and cannot be removed.
func tupleUpdate(key storagemodels.EntityKey, tuple *storagemodels.Tuple) (bson.D, error) {
	var set setFields
	keyColumns := make(map[string]struct{})
	for _, c := range key.Columns() {
		if reservedField(c.Name) {
			return nil, errors.NewValidationError(c.Name, "key column name is reserved")
		}
		if err := checkFieldName(c.Name, c.Name); err != nil {
			return nil, err
		}
		set.put(c.Name, c.Value)
		keyColumns[c.Name] = struct{}{}
	}

	var unset bson.D
	if tuple != nil {
		for _, op := range tuple.Operations() {
			if reservedField(op.Column) {
				return nil, errors.NewValidationError(op.Column, "column name is reserved")
			}
			if err := checkFieldName(op.Column, op.Column); err != nil {
				return nil, err
			}
			switch op.Type {
			case storagemodels.PutOperation:
				set.put(op.Column, op.Value)
			case storagemodels.PutNullOperation:
				set.put(op.Column, nil)
			case storagemodels.RemoveOperation:
				if _, isKey := keyColumns[op.Column]; isKey {
					continue
				}
				unset = append(unset, bson.E{Key: op.Column, Value: ""})
			}
		}
	}

	update := bson.D{{Key: "$set", Value: set.doc}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update, nil
}

func entityFilter(key storagemodels.EntityKey) bson.D {
	return bson.D{{Key: idField, Value: identifier.DocumentID(key)}}
}

func tupleWrites(key storagemodels.EntityKey, tuple *storagemodels.Tuple) ([]write, error) {
	update, err := tupleUpdate(key, tuple)
	if err != nil {
		return nil, err
	}
	if err := checkSize(update); err != nil {
		return nil, err
	}
	model := mongo.NewUpdateOneModel().
		SetFilter(entityFilter(key)).
		SetUpdate(update).
		SetUpsert(true)
	return []write{{collection: key.Table(), model: model}}, nil
}

func removeTupleWrites(key storagemodels.EntityKey) []write {
	return []write{{
		collection: key.Table(),
		model:      mongo.NewDeleteOneModel().SetFilter(entityFilter(key)),
	}}
}

// associationDocumentID identifies an association document.
func associationDocumentID(key storagemodels.AssociationKey) bson.D {
	return bson.D{
		{Key: "table", Value: key.Table()},
		{Key: "role", Value: key.Role()},
		{Key: "owner", Value: identifier.DocumentID(key.Owner())},
	}
}

// associationLocation is where the rows of an association live: a
// collection, the filter of the document holding them and the path of the
// rows array inside it.
type associationLocation struct {
	collection string
	filter     bson.D
	path       string
	document   bool
}

// locate fails for a role that cannot be a field name of the owner
// document.
func locate(key storagemodels.AssociationKey, storage storagemodels.AssociationStorageType) (associationLocation, error) {
	switch storage {
	case storagemodels.AssociationDocument, storagemodels.AssociationDocumentPerAssociation:
		collection := AssociationsCollection
		if storage == storagemodels.AssociationDocumentPerAssociation {
			collection = PerAssociationPrefix + key.Table()
		}
		return associationLocation{
			collection: collection,
			filter:     bson.D{{Key: idField, Value: associationDocumentID(key)}},
			path:       rowsField,
			document:   true,
		}, nil
	default:
		if err := checkFieldName("role", key.Role()); err != nil {
			return associationLocation{}, err
		}
		parent := associationsField
		if key.Kind() == storagemodels.KindEmbeddedCollection {
			parent = collectionsField
		}
		return associationLocation{
			collection: key.Owner().Table(),
			filter:     entityFilter(key.Owner()),
			path:       parent + "." + key.Role(),
		}, nil
	}
}

// rowDocument stores the row with the id of its row key, which identifies
// the row on later pulls and reads.
func rowDocument(key storagemodels.RowKey, row *storagemodels.Tuple) (bson.D, error) {
	doc := bson.D{{Key: rowKeyField, Value: identifier.RowID(key)}}
	if row == nil {
		return doc, nil
	}
	for _, name := range row.ColumnNames() {
		if name == rowKeyField {
			return nil, errors.NewValidationError(name, "column name is reserved")
		}
		if err := checkFieldName(name, name); err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: name, Value: row.Get(name)})
	}
	return doc, nil
}

func rowKeyCondition(key storagemodels.RowKey) bson.D {
	return bson.D{{Key: rowKeyField, Value: identifier.RowID(key)}}
}

func (l associationLocation) update(key storagemodels.AssociationKey, ops ...bson.E) bson.D {
	update := bson.D(ops)
	if l.document {
		update = append(update, bson.E{Key: "$setOnInsert", Value: bson.D{{Key: kindField, Value: key.Kind().String()}}})
	}
	return update
}

// associationWrites translates the association overlay into ordered updates.
// A replaced row is pulled before the new version is pushed.
func associationWrites(key storagemodels.AssociationKey, assoc *storagemodels.Association, storage storagemodels.AssociationStorageType) ([]write, error) {
	loc, err := locate(key, storage)
	if err != nil {
		return nil, err
	}
	var writes []write
	add := func(update bson.D) error {
		if err := checkSize(update); err != nil {
			return err
		}
		writes = append(writes, write{
			collection: loc.collection,
			model:      mongo.NewUpdateOneModel().SetFilter(loc.filter).SetUpdate(update).SetUpsert(true),
		})
		return nil
	}

	if assoc == nil {
		return nil, nil
	}
	for _, op := range assoc.Operations() {
		var err error
		switch op.Type {
		case storagemodels.ClearOperation:
			err = add(loc.update(key, bson.E{Key: "$set", Value: bson.D{{Key: loc.path, Value: bson.A{}}}}))
		case storagemodels.RemoveRowOperation:
			err = add(loc.update(key, bson.E{Key: "$pull", Value: bson.D{{Key: loc.path, Value: rowKeyCondition(op.Key)}}}))
		case storagemodels.PutRowOperation:
			var row bson.D
			if row, err = rowDocument(op.Key, op.Row); err != nil {
				break
			}
			if err = add(loc.update(key, bson.E{Key: "$pull", Value: bson.D{{Key: loc.path, Value: rowKeyCondition(op.Key)}}})); err == nil {
				err = add(bson.D{{Key: "$push", Value: bson.D{{Key: loc.path, Value: row}}}})
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return writes, nil
}

func removeAssociationWrites(key storagemodels.AssociationKey, storage storagemodels.AssociationStorageType) ([]write, error) {
	loc, err := locate(key, storage)
	if err != nil {
		return nil, err
	}
	if loc.document {
		return []write{{collection: loc.collection, model: mongo.NewDeleteOneModel().SetFilter(loc.filter)}}, nil
	}
	return []write{{
		collection: loc.collection,
		model: mongo.NewUpdateOneModel().
			SetFilter(loc.filter).
			SetUpdate(bson.D{{Key: "$unset", Value: bson.D{{Key: loc.path, Value: ""}}}}),
	}}, nil
}

// checkSize rejects documents the server would refuse.
func checkSize(doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return errors.NewStorageError(backendName, "encode document", err)
	}
	if len(raw) > MaxDocumentSize {
		return errors.NewStorageStatusError(backendName, "encode document", "",
			fmt.Sprintf("document of %d bytes exceeds the %d byte limit", len(raw), MaxDocumentSize))
	}
	return nil
}

// normalize converts decoded BSON values to plain Go values. Integers are
// widened to int64.
func normalize(v any) any {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Binary:
		return x.Data
	case primitive.Decimal128:
		return x.String()
	case primitive.A:
		out := make([]any, len(x))
		for i := range x {
			out[i] = normalize(x[i])
		}
		return out
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	}
	return v
}

func asMap(v any) (map[string]any, bool) {
	m, ok := normalize(v).(map[string]any)
	return m, ok
}

// documentColumns returns the entity columns of a stored document.
func documentColumns(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for name, v := range doc {
		if reservedField(name) {
			continue
		}
		out[name] = normalize(v)
	}
	return out
}

// lookup resolves a dotted path inside a decoded document.
func lookup(doc bson.M, path string) (any, bool) {
	var current any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// associationRows builds the association stored at path, nil when absent.
func associationRows(key storagemodels.AssociationKey, doc bson.M, path string) (*storagemodels.Association, error) {
	value, ok := lookup(doc, path)
	if !ok || value == nil {
		return nil, nil
	}
	items, ok := normalize(value).([]any)
	if !ok {
		return nil, errors.NewStorageStatusError(backendName, "get association", "",
			fmt.Sprintf("field %s is %T, not an array", path, value))
	}
	rows := make([]storagemodels.AssociationRow, 0, len(items))
	for _, item := range items {
		values, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, stored := values[rowKeyField].(string)
		delete(values, rowKeyField)
		row := storagemodels.NewTupleFromMap(values)

		var (
			rowKey storagemodels.RowKey
			err    error
		)
		if stored {
			rowKey, err = identifier.ParseRowID(id)
		} else {
			rowKey, err = key.RowKeyFor(row)
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, storagemodels.AssociationRow{Key: rowKey, Row: row})
	}
	return storagemodels.NewAssociation(rows...), nil
}

// operationWrites converts one queued operation into write models.
func operationWrites(op datastore.Operation, storage storagemodels.AssociationStorageType) ([]write, error) {
	switch op.Kind {
	case datastore.OpInsertTuple, datastore.OpUpdateTuple:
		return tupleWrites(op.EntityKey, op.Tuple)
	case datastore.OpRemoveTuple:
		return removeTupleWrites(op.EntityKey), nil
	case datastore.OpInsertAssociation, datastore.OpUpdateAssociation:
		return associationWrites(op.AssociationKey, op.Association, storage)
	case datastore.OpRemoveAssociation:
		return removeAssociationWrites(op.AssociationKey, storage)
	default:
		return nil, errors.NewValidationError("operation", "unknown kind "+op.Kind.String())
	}
}

// countKeys counts the roles stored under a parent field of the entity
// documents.
func countKeys(docs []bson.M, parent string) int64 {
	var n int64
	for _, doc := range docs {
		if m, ok := asMap(doc[parent]); ok {
			n += int64(len(m))
		}
	}
	return n
}

func isEntityCollection(name string) bool {
	return name != AssociationsCollection &&
		name != identifier.SequenceTable &&
		!strings.HasPrefix(name, PerAssociationPrefix) &&
		!strings.HasPrefix(name, "system.")
}

func sortedCollections(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
