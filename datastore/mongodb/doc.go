/*
Package mongodb implements the grid dialect over a MongoDB database.

Every entity is one document in the collection named after its table, with
the key in _id and the columns as top-level fields. Association rows live
either inside the owner document (IN_ENTITY, under _associations.<role> or
_collections.<role>), in the global Associations collection, or in one
associations_<table> collection per association table.

	provider := mongodb.NewProvider(mongodb.ProviderConfig{
	    Host:     "localhost",
	    Database: "gridstore",
	})
	if err := provider.Start(ctx); err != nil {
	    return err
	}
	defer provider.Stop(ctx)

	uow := datastore.NewUnitOfWork(mongodb.NewDialect(provider))

Batches are sent as ordered bulk writes; a failure reports the first failing
operation of the queue. The dialect is not transactional.
*/
package mongodb
