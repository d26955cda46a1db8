/*
Package storagemodels defines the data structures every grid dialect speaks.

Key Types:

EntityKey:
Identifies one entity row by table name and ordered key columns:

	key, err := storagemodels.NewEntityKey("Person",
	    storagemodels.Column{Name: "id", Value: "p-1"},
	)

Tuple:
The column map of one entity, an immutable snapshot plus an overlay of the
changes made during the unit of work. Only the overlay reaches the backend:

	tuple := storagemodels.NewTuple()
	tuple.Put("name", "Jane")
	tuple.Put("nickname", nil) // recorded as PUT_NULL
	for _, op := range tuple.Operations() {
	    // PUT name, PUT_NULL nickname
	}

AssociationKey and Association:
An association is keyed by its owner and role; its rows are tuples keyed by
RowKey:

	assocKey := storagemodels.MustAssociationKey(key, "cars",
	    storagemodels.WithRowKeyColumns("owner_id", "car_id"))
	assoc := storagemodels.NewAssociation()
	assoc.Put(rowKey, row)

AssociationStorageType:
IN_ENTITY, ASSOCIATION_DOCUMENT or ASSOCIATION_DOCUMENT_PER_ASSOCIATION,
resolved once per association role by the registry package.

Keys compare by their canonical encoding, so they can be used directly as Go
map keys through String().
*/
package storagemodels
