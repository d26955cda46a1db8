/*
Package datastore defines the grid dialect contract and the batching layer
on top of it.

Every backend adapter implements GridDialect:

	type GridDialect interface {
	    GetTuple(ctx, key) (*storagemodels.Tuple, error)
	    InsertOrUpdateTuple(ctx, key, tuple) error
	    RemoveTuple(ctx, key) error
	    GetAssociation(ctx, key, actx) (*storagemodels.Association, error)
	    InsertOrUpdateAssociation(ctx, key, assoc, actx) error
	    RemoveAssociation(ctx, key, actx) error
	    NextValue(ctx, req) (int64, error)
	}

Optional capabilities are detected by interface assertion: BatchableGridDialect,
TransactionalGridDialect, AssociationStorageAware and Introspector.

A UnitOfWork queues the mutations of one ORM unit of work in an
OperationsQueue when the dialect is batchable and hands the queue to
ExecuteBatch on Flush:

	uow := datastore.NewUnitOfWork(dialect, datastore.WithMetrics(scope))
	uow.InsertTuple(ctx, key, tuple)
	uow.UpdateTuple(ctx, key, delta)
	if err := uow.Flush(ctx); err != nil {
	    // errors.IsStorageError(err) == true
	}

Implementations:
  - mongodb: MongoDB documents, ordered bulk writes
  - ddb: DynamoDB single-table design, transactional batches
  - cache: embedded transactional cache
  - mock: in-memory recording dialect for tests
*/
package datastore
