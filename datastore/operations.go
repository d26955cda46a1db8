/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import "github.com/suparena/gridstore/storagemodels"

// OperationKind tags the variant of an Operation.
type OperationKind int

const (
	OpInsertTuple OperationKind = iota
	OpUpdateTuple
	OpRemoveTuple
	OpInsertAssociation
	OpUpdateAssociation
	OpRemoveAssociation
)

func (k OperationKind) String() string {
	switch k {
	case OpInsertTuple:
		return "insert_tuple"
	case OpUpdateTuple:
		return "update_tuple"
	case OpRemoveTuple:
		return "remove_tuple"
	case OpInsertAssociation:
		return "insert_association"
	case OpUpdateAssociation:
		return "update_association"
	case OpRemoveAssociation:
		return "remove_association"
	default:
		return "unknown"
	}
}

// Operation is one queued storage operation. Tuple operations use EntityKey
// and Tuple; association operations use AssociationKey, Association and
// Context.
type Operation struct {
	Kind           OperationKind
	EntityKey      storagemodels.EntityKey
	Tuple          *storagemodels.Tuple
	AssociationKey storagemodels.AssociationKey
	Association    *storagemodels.Association
	Context        AssociationContext
}

// InsertTuple creates an operation inserting a new entity row.
func InsertTuple(key storagemodels.EntityKey, tuple *storagemodels.Tuple) Operation {
	return Operation{Kind: OpInsertTuple, EntityKey: key, Tuple: tuple}
}

// UpdateTuple creates an operation updating an existing entity row.
func UpdateTuple(key storagemodels.EntityKey, tuple *storagemodels.Tuple) Operation {
	return Operation{Kind: OpUpdateTuple, EntityKey: key, Tuple: tuple}
}

// RemoveTuple creates an operation removing an entity row.
func RemoveTuple(key storagemodels.EntityKey) Operation {
	return Operation{Kind: OpRemoveTuple, EntityKey: key}
}

// InsertAssociation creates an operation writing a new association.
func InsertAssociation(key storagemodels.AssociationKey, assoc *storagemodels.Association, actx AssociationContext) Operation {
	return Operation{Kind: OpInsertAssociation, AssociationKey: key, Association: assoc, Context: actx}
}

// UpdateAssociation creates an operation updating an association.
func UpdateAssociation(key storagemodels.AssociationKey, assoc *storagemodels.Association, actx AssociationContext) Operation {
	return Operation{Kind: OpUpdateAssociation, AssociationKey: key, Association: assoc, Context: actx}
}

// RemoveAssociation creates an operation removing an association.
func RemoveAssociation(key storagemodels.AssociationKey, actx AssociationContext) Operation {
	return Operation{Kind: OpRemoveAssociation, AssociationKey: key, Context: actx}
}

// IsAssociation reports whether the operation targets an association.
func (o Operation) IsAssociation() bool {
	return o.Kind == OpInsertAssociation || o.Kind == OpUpdateAssociation || o.Kind == OpRemoveAssociation
}

// IsRemove reports whether the operation removes its target.
func (o Operation) IsRemove() bool {
	return o.Kind == OpRemoveTuple || o.Kind == OpRemoveAssociation
}

// OwnerKey returns the entity key of a tuple operation or the owner key of
// an association operation.
func (o Operation) OwnerKey() storagemodels.EntityKey {
	if o.IsAssociation() {
		return o.AssociationKey.Owner()
	}
	return o.EntityKey
}

// Target returns the canonical key of the operation target.
func (o Operation) Target() string {
	if o.IsAssociation() {
		return o.AssociationKey.String()
	}
	return o.EntityKey.String()
}
