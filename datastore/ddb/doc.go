/*
Package ddb implements the grid dialect over a single DynamoDB table.

Item layout:

	PK                          SK           content
	Person:id=#i1               ENTITY       EntityType, columns, _associations, _collections
	Person_cars:cars:Person:... ASSOCIATION  Collection, Kind, Role, Owner, Rows
	hibernate_sequences:seq     SEQUENCE     next_val

Tuples are written with UpdateItem SET/REMOVE expressions so only the changed
columns reach the table. IN_ENTITY associations are kept as a map of role to
row list on the owner item; document strategies get their own item, told
apart by the Collection attribute.

ExecuteBatch coalesces the queue and sends it as TransactWriteItems calls of
at most 100 items, never touching one item twice in the same call:

	provider := ddb.NewProvider(ddb.ProviderConfig{
	    Region: "us-east-1",
	    Table:  "gridstore",
	})
	if err := provider.Start(ctx); err != nil {
	    return err
	}
	uow := datastore.NewUnitOfWork(ddb.NewDialect(provider))

Sequences use an atomic ADD on the sequence item.
*/
package ddb
