/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

//go:generate mockgen -destination=mocks/datastore.go -package=mocks github.com/suparena/gridstore/datastore GridDialect,BatchableGridDialect,AssociationStorageAware,TypeOverrider

import (
	"context"

	"github.com/suparena/gridstore/storagemodels"
)

// AssociationContext carries the per-call information a dialect needs to
// locate an association.
type AssociationContext struct {
	// StorageType is the resolved storage strategy of the association role.
	StorageType storagemodels.AssociationStorageType
}

// GridDialect is the contract every backend adapter implements. Reads
// return nil, nil for absent rows; deletes of absent rows are no-ops.
type GridDialect interface {
	GetTuple(ctx context.Context, key storagemodels.EntityKey) (*storagemodels.Tuple, error)

	// InsertOrUpdateTuple applies the tuple overlay to the stored row,
	// creating it when absent.
	InsertOrUpdateTuple(ctx context.Context, key storagemodels.EntityKey, tuple *storagemodels.Tuple) error

	RemoveTuple(ctx context.Context, key storagemodels.EntityKey) error

	GetAssociation(ctx context.Context, key storagemodels.AssociationKey, actx AssociationContext) (*storagemodels.Association, error)

	InsertOrUpdateAssociation(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, actx AssociationContext) error

	RemoveAssociation(ctx context.Context, key storagemodels.AssociationKey, actx AssociationContext) error

	// NextValue returns the next value of a sequence. Values are unique
	// and increasing per sequence name.
	NextValue(ctx context.Context, req storagemodels.NextValueRequest) (int64, error)
}

// BatchableGridDialect is implemented by dialects that apply a whole queue
// of operations in one call.
type BatchableGridDialect interface {
	GridDialect
	ExecuteBatch(ctx context.Context, queue *OperationsQueue) error
}

// Transaction is a backend transaction started by a TransactionalGridDialect.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionalGridDialect is implemented by dialects whose backend supports
// transactions.
type TransactionalGridDialect interface {
	GridDialect
	Begin(ctx context.Context) (Transaction, error)
}

// AssociationStorageAware is implemented by dialects that declare which
// association storage strategies they support.
type AssociationStorageAware interface {
	DefaultAssociationStorage() storagemodels.AssociationStorageType
	SupportedAssociationStorage() []storagemodels.AssociationStorageType
}

// TypeOverrider is implemented by dialects that store some Go types as
// strings. OverrideType names the codec of the codec registry a value is
// written with; the dialect decodes it with the same codec on read.
type TypeOverrider interface {
	OverrideType(value any) (codecName string, ok bool)
}

// Introspector exposes backend state for tests and operators.
type Introspector interface {
	EntityCount(ctx context.Context) (int64, error)
	AssociationCount(ctx context.Context) (int64, error)
	AssociationCountByType(ctx context.Context, storageType storagemodels.AssociationStorageType) (int64, error)
	EmbeddedCollectionCount(ctx context.Context) (int64, error)
	ExtractEntityTuple(ctx context.Context, key storagemodels.EntityKey) (map[string]any, error)
	BackendSupportsTransactions() bool
	DropSchemaAndDatabase(ctx context.Context) error
}

// Provider owns the backend connection of a dialect.
type Provider interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
