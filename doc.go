/*
Package gridstore is a persistence layer for key/value and document stores
modelled as grids of tuples: every entity is a column map addressed by an
EntityKey, every collection property an Association keyed by its owner and
role.

Backends are plugged in as grid dialects (see package datastore). Three ship
with the module: MongoDB, a single DynamoDB table and an embedded
transactional cache. Open builds the configured one:

	cfg, err := config.Load("gridstore.yaml")
	if err != nil {
	    return err
	}
	if err := cfg.ApplyEnvironment(); err != nil {
	    return err
	}
	store, err := gridstore.Open(ctx, cfg)
	if err != nil {
	    return err
	}
	defer store.Close(ctx)

	uow := store.NewUnitOfWork()
	tuple := storagemodels.NewTuple()
	tuple.Put("name", "Jane")
	if err := uow.InsertTuple(ctx, key, tuple); err != nil {
	    return err
	}
	return uow.Flush(ctx)

On batchable dialects the unit of work queues every mutation and hands the
queue to the dialect in one ExecuteBatch call on Flush; elsewhere mutations
apply immediately. Association storage (IN_ENTITY, ASSOCIATION_DOCUMENT or
ASSOCIATION_DOCUMENT_PER_ASSOCIATION) is resolved per role from the
configuration by Datastore.AssociationContext.

Errors are typed, see package errors.
*/
package gridstore
