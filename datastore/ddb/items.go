/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/identifier"
	"github.com/suparena/gridstore/storagemodels"
)

// Item layout of the single table.
const (
	pkAttr           = "PK"
	skAttr           = "SK"
	entityTypeAttr   = "EntityType"
	associationsAttr = "_associations"
	collectionsAttr  = "_collections"
	collectionAttr   = "Collection"
	kindAttr         = "Kind"
	roleAttr         = "Role"
	ownerAttr        = "Owner"
	rowsAttr         = "Rows"
	rowKeyAttr       = "_rowkey"
	sequenceAttr     = "next_val"

	entitySK      = "ENTITY"
	associationSK = "ASSOCIATION"
	sequenceSK    = "SEQUENCE"

	// AssociationsCollection is the Collection attribute of
	// ASSOCIATION_DOCUMENT items.
	AssociationsCollection = "Associations"
	// PerAssociationPrefix prefixes the Collection attribute of
	// ASSOCIATION_DOCUMENT_PER_ASSOCIATION items.
	PerAssociationPrefix = "associations_"

	// maxTransactItems is the TransactWriteItems item limit.
	maxTransactItems = 100
)

var reservedAttributes = map[string]struct{}{
	pkAttr:           {},
	skAttr:           {},
	entityTypeAttr:   {},
	associationsAttr: {},
	collectionsAttr:  {},
}

type itemKey struct {
	pk, sk string
}

func (k itemKey) attributes() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkAttr: &types.AttributeValueMemberS{Value: k.pk},
		skAttr: &types.AttributeValueMemberS{Value: k.sk},
	}
}

func (k itemKey) String() string { return k.pk + "|" + k.sk }

func entityItemKey(key storagemodels.EntityKey) itemKey {
	return itemKey{pk: identifier.EntityID(key), sk: entitySK}
}

func associationItemKey(key storagemodels.AssociationKey) itemKey {
	return itemKey{pk: identifier.AssociationID(key), sk: associationSK}
}

func sequenceItemKey(name string) itemKey {
	return itemKey{pk: identifier.SequenceID(name), sk: sequenceSK}
}

func documentCollection(key storagemodels.AssociationKey, storage storagemodels.AssociationStorageType) string {
	if storage == storagemodels.AssociationDocumentPerAssociation {
		return PerAssociationPrefix + key.Table()
	}
	return AssociationsCollection
}

func embeddedAttribute(key storagemodels.AssociationKey) string {
	if key.Kind() == storagemodels.KindEmbeddedCollection {
		return collectionsAttr
	}
	return associationsAttr
}

// write is one item write bound to the item it touches.
type write struct {
	key  itemKey
	item types.TransactWriteItem
}

// tupleWrite builds the upsert of a tuple overlay. Key columns are mirrored
// as attributes.
func tupleWrite(table string, key storagemodels.EntityKey, tuple *storagemodels.Tuple) (write, error) {
	var (
		sets    []attribute
		removes []string
	)
	index := make(map[string]int)
	set := func(name string, value any) {
		if i, ok := index[name]; ok {
			sets[i].value = value
			return
		}
		index[name] = len(sets)
		sets = append(sets, attribute{name: name, value: value})
	}

	set(entityTypeAttr, key.Table())
	keyColumns := make(map[string]struct{})
	for _, c := range key.Columns() {
		if _, reserved := reservedAttributes[c.Name]; reserved {
			return write{}, errors.NewValidationError(c.Name, "key column name is reserved")
		}
		set(c.Name, c.Value)
		keyColumns[c.Name] = struct{}{}
	}
	if tuple != nil {
		for _, op := range tuple.Operations() {
			if _, reserved := reservedAttributes[op.Column]; reserved {
				return write{}, errors.NewValidationError(op.Column, "column name is reserved")
			}
			switch op.Type {
			case storagemodels.PutOperation:
				set(op.Column, op.Value)
			case storagemodels.PutNullOperation:
				set(op.Column, nil)
			case storagemodels.RemoveOperation:
				if _, isKey := keyColumns[op.Column]; !isKey {
					removes = append(removes, op.Column)
				}
			}
		}
	}

	expr, names, values, err := buildUpdateExpression(sets, removes)
	if err != nil {
		return write{}, err
	}
	ik := entityItemKey(key)
	return write{key: ik, item: types.TransactWriteItem{Update: &types.Update{
		TableName:                 aws.String(table),
		Key:                       ik.attributes(),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}}}, nil
}

func deleteWrite(table string, ik itemKey) write {
	return write{key: ik, item: types.TransactWriteItem{Delete: &types.Delete{
		TableName: aws.String(table),
		Key:       ik.attributes(),
	}}}
}

// rowMaps converts a decoded rows list.
func rowMaps(raw any) ([]map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("rows are %T, not a list", raw)
	}
	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row is %T, not a map", item)
		}
		rows = append(rows, m)
	}
	return rows, nil
}

// storedRows converts the rows of assoc to maps carrying the id of their row
// key, so a row reads back under the key it was written with.
func storedRows(assoc *storagemodels.Association) ([]map[string]any, error) {
	rows := assoc.Rows()
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		m := map[string]any{}
		if r.Row != nil {
			m = r.Row.ToMap()
		}
		if _, taken := m[rowKeyAttr]; taken {
			return nil, errors.NewValidationError(rowKeyAttr, "column name is reserved")
		}
		m[rowKeyAttr] = identifier.RowID(r.Key)
		out[i] = m
	}
	return out, nil
}

// toAssociation rebuilds the rows of key. Rows without a stored row key are
// keyed with the row key columns of key.
func toAssociation(key storagemodels.AssociationKey, rows []map[string]any) (*storagemodels.Association, error) {
	out := make([]storagemodels.AssociationRow, 0, len(rows))
	for _, stored := range rows {
		values := make(map[string]any, len(stored))
		for name, v := range stored {
			if name != rowKeyAttr {
				values[name] = v
			}
		}
		row := storagemodels.NewTupleFromMap(values)

		var (
			rowKey storagemodels.RowKey
			err    error
		)
		if id, ok := stored[rowKeyAttr].(string); ok {
			rowKey, err = identifier.ParseRowID(id)
		} else {
			rowKey, err = key.RowKeyFor(row)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, storagemodels.AssociationRow{Key: rowKey, Row: row})
	}
	return storagemodels.NewAssociation(out...), nil
}

// ownerState is the view of the embedded associations of one owner item
// while a plan is built.
type ownerState struct {
	exists bool
	roles  map[string]map[string][]map[string]any
}

func (s *ownerState) rows(attr, role string) ([]map[string]any, bool) {
	rows, ok := s.roles[attr][role]
	return rows, ok
}

func (s *ownerState) put(attr, role string, rows []map[string]any) {
	if s.roles[attr] == nil {
		s.roles[attr] = make(map[string][]map[string]any)
	}
	s.roles[attr][role] = rows
}

type documentState struct {
	exists bool
	rows   []map[string]any
}

// planner converts operations into item writes. Association writes are
// read-modify-write; the planner keeps the state produced by earlier
// operations of the same plan so later ones build on it.
type planner struct {
	api       API
	table     string
	owners    map[string]*ownerState
	documents map[string]*documentState
}

func newPlanner(api API, table string) *planner {
	return &planner{
		api:       api,
		table:     table,
		owners:    make(map[string]*ownerState),
		documents: make(map[string]*documentState),
	}
}

func (p *planner) getItem(ctx context.Context, ik itemKey, projection ...string) (map[string]any, error) {
	input := &sdk.GetItemInput{
		TableName:      aws.String(p.table),
		Key:            ik.attributes(),
		ConsistentRead: aws.Bool(true),
	}
	if len(projection) > 0 {
		u := newUpdateExpression()
		expr := ""
		for i, attr := range projection {
			if i > 0 {
				expr += ", "
			}
			expr += u.name(attr)
		}
		input.ProjectionExpression = aws.String(expr)
		input.ExpressionAttributeNames = u.names
	}
	out, err := p.api.GetItem(ctx, input)
	if err != nil {
		return nil, wrapError("get item", "", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	item, err := unmarshalItem(out.Item)
	if err != nil {
		return nil, errors.NewStorageError(backendName, "decode item", err)
	}
	return item, nil
}

func (p *planner) owner(ctx context.Context, key storagemodels.EntityKey) (*ownerState, error) {
	ik := entityItemKey(key)
	if s, ok := p.owners[ik.String()]; ok {
		return s, nil
	}
	item, err := p.getItem(ctx, ik, pkAttr, associationsAttr, collectionsAttr)
	if err != nil {
		return nil, err
	}
	s := &ownerState{exists: item != nil, roles: make(map[string]map[string][]map[string]any)}
	for _, attr := range []string{associationsAttr, collectionsAttr} {
		m, ok := item[attr].(map[string]any)
		if !ok {
			continue
		}
		for role, raw := range m {
			rows, err := rowMaps(raw)
			if err != nil {
				return nil, errors.NewStorageStatusError(backendName, "decode item", "", err.Error())
			}
			s.put(attr, role, rows)
		}
	}
	p.owners[ik.String()] = s
	return s, nil
}

func (p *planner) document(ctx context.Context, key storagemodels.AssociationKey) (*documentState, error) {
	ik := associationItemKey(key)
	if s, ok := p.documents[ik.String()]; ok {
		return s, nil
	}
	item, err := p.getItem(ctx, ik, pkAttr, rowsAttr)
	if err != nil {
		return nil, err
	}
	s := &documentState{exists: item != nil}
	if item != nil {
		if s.rows, err = rowMaps(item[rowsAttr]); err != nil {
			return nil, errors.NewStorageStatusError(backendName, "decode item", "", err.Error())
		}
	}
	p.documents[ik.String()] = s
	return s, nil
}

// association returns the current association, nil when absent.
func (p *planner) association(ctx context.Context, key storagemodels.AssociationKey, storage storagemodels.AssociationStorageType) (*storagemodels.Association, error) {
	if storage.IsDocument() {
		s, err := p.document(ctx, key)
		if err != nil || !s.exists {
			return nil, err
		}
		return toAssociation(key, s.rows)
	}
	s, err := p.owner(ctx, key.Owner())
	if err != nil {
		return nil, err
	}
	rows, ok := s.rows(embeddedAttribute(key), key.Role())
	if !ok {
		return nil, nil
	}
	return toAssociation(key, rows)
}

func (p *planner) ownerWrite(key storagemodels.AssociationKey, s *ownerState) (write, error) {
	u := newUpdateExpression()
	if err := u.SetIfNotExists(entityTypeAttr, key.Owner().Table()); err != nil {
		return write{}, err
	}
	attr := embeddedAttribute(key)
	if len(s.roles[attr]) == 0 {
		u.Remove(attr)
	} else if err := u.Set(attr, s.roles[attr]); err != nil {
		return write{}, err
	}
	expr, names, values, err := u.Build()
	if err != nil {
		return write{}, err
	}
	ik := entityItemKey(key.Owner())
	return write{key: ik, item: types.TransactWriteItem{Update: &types.Update{
		TableName:                 aws.String(p.table),
		Key:                       ik.attributes(),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}}}, nil
}

func (p *planner) documentWrite(key storagemodels.AssociationKey, storage storagemodels.AssociationStorageType, rows []map[string]any) (write, error) {
	ik := associationItemKey(key)
	if rows == nil {
		rows = []map[string]any{}
	}
	item := ik.attributes()
	attrs := []attribute{
		{name: entityTypeAttr, value: key.Table()},
		{name: collectionAttr, value: documentCollection(key, storage)},
		{name: kindAttr, value: key.Kind().String()},
		{name: roleAttr, value: key.Role()},
		{name: ownerAttr, value: identifier.EntityID(key.Owner())},
		{name: rowsAttr, value: rows},
	}
	for _, a := range attrs {
		av, err := marshalValue(a.value)
		if err != nil {
			return write{}, errors.NewValidationError(a.name, err.Error())
		}
		item[a.name] = av
	}
	return write{key: ik, item: types.TransactWriteItem{Put: &types.Put{
		TableName: aws.String(p.table),
		Item:      item,
	}}}, nil
}

func (p *planner) associationWrites(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, storage storagemodels.AssociationStorageType) ([]write, error) {
	current, err := p.association(ctx, key, storage)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = storagemodels.NewAssociation()
	}
	if assoc != nil {
		current.Apply(assoc.Operations()...)
	}
	rows, err := storedRows(current)
	if err != nil {
		return nil, err
	}

	if storage.IsDocument() {
		s, _ := p.document(ctx, key)
		s.exists, s.rows = true, rows
		w, err := p.documentWrite(key, storage, rows)
		if err != nil {
			return nil, err
		}
		return []write{w}, nil
	}

	s, _ := p.owner(ctx, key.Owner())
	s.exists = true
	s.put(embeddedAttribute(key), key.Role(), rows)
	w, err := p.ownerWrite(key, s)
	if err != nil {
		return nil, err
	}
	return []write{w}, nil
}

func (p *planner) removeAssociationWrites(ctx context.Context, key storagemodels.AssociationKey, storage storagemodels.AssociationStorageType) ([]write, error) {
	if storage.IsDocument() {
		s, err := p.document(ctx, key)
		if err != nil {
			return nil, err
		}
		s.exists, s.rows = false, nil
		return []write{deleteWrite(p.table, associationItemKey(key))}, nil
	}

	s, err := p.owner(ctx, key.Owner())
	if err != nil {
		return nil, err
	}
	attr := embeddedAttribute(key)
	if _, ok := s.rows(attr, key.Role()); !ok || !s.exists {
		return nil, nil
	}
	delete(s.roles[attr], key.Role())
	w, err := p.ownerWrite(key, s)
	if err != nil {
		return nil, err
	}
	return []write{w}, nil
}

// writes converts one operation.
func (p *planner) writes(ctx context.Context, op datastore.Operation) ([]write, error) {
	storage := storageOf(op.Context)
	switch op.Kind {
	case datastore.OpInsertTuple, datastore.OpUpdateTuple:
		w, err := tupleWrite(p.table, op.EntityKey, op.Tuple)
		if err != nil {
			return nil, err
		}
		if s, ok := p.owners[w.key.String()]; ok {
			s.exists = true
		}
		return []write{w}, nil
	case datastore.OpRemoveTuple:
		ik := entityItemKey(op.EntityKey)
		p.owners[ik.String()] = &ownerState{roles: make(map[string]map[string][]map[string]any)}
		return []write{deleteWrite(p.table, ik)}, nil
	case datastore.OpInsertAssociation, datastore.OpUpdateAssociation:
		return p.associationWrites(ctx, op.AssociationKey, op.Association, storage)
	case datastore.OpRemoveAssociation:
		return p.removeAssociationWrites(ctx, op.AssociationKey, storage)
	default:
		return nil, errors.NewValidationError("operation", "unknown kind "+op.Kind.String())
	}
}

// chunk splits writes into transactions of at most maxTransactItems items
// that never touch the same item twice.
func chunk(writes []write) [][]write {
	var (
		out     [][]write
		current []write
		seen    = make(map[string]struct{})
	)
	for _, w := range writes {
		_, dup := seen[w.key.String()]
		if dup || len(current) == maxTransactItems {
			out = append(out, current)
			current = nil
			seen = make(map[string]struct{})
		}
		current = append(current, w)
		seen[w.key.String()] = struct{}{}
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

// sortedRoles lists the roles of a decoded embedded attribute.
func sortedRoles(raw any) []string {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(m))
	for role := range m {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
