/*
Package cache implements an embedded, transactional grid dialect.

Entities, associations and sequence counters live in three separate caches
owned by a Provider. Associations are always stored as separate documents in
the association cache.

	provider := cache.NewProvider()
	provider.Start(ctx)
	dialect := cache.NewDialect(provider)

	tx, _ := dialect.Begin(ctx)
	txCtx := cache.ContextWithTransaction(ctx, tx)
	dialect.InsertOrUpdateTuple(txCtx, key, tuple) // visible in txCtx only
	tx.Commit(ctx)
*/
package cache
