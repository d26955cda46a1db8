/*
Package identifier derives backend ids from entity, association, row and
sequence keys.

Derivation is pure and deterministic. It is also injective: ParseEntityID
recovers the table, column names and typed values from an EntityID.

	key := storagemodels.MustEntityKey("Order",
	    storagemodels.Column{Name: "customer", Value: "c:1"},
	    storagemodels.Column{Name: "number", Value: 7},
	)
	identifier.EntityID(key)   // Order:customer=c\:1,number=#i7
	identifier.DocumentID(key) // bson.D{{customer c:1} {number 7}}
*/
package identifier
