/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"context"
	stderrors "errors"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/identifier"
	"github.com/suparena/gridstore/storagemodels"
)

// Dialect is a batchable grid dialect storing one document per entity.
type Dialect struct {
	provider *Provider
	logger   *log.Entry
}

// NewDialect creates a dialect over provider.
func NewDialect(provider *Provider) *Dialect {
	return &Dialect{
		provider: provider,
		logger:   provider.logger.WithField("component", "dialect"),
	}
}

func (d *Dialect) Backend() string { return backendName }

func (d *Dialect) DefaultAssociationStorage() storagemodels.AssociationStorageType {
	return storagemodels.InEntity
}

func (d *Dialect) SupportedAssociationStorage() []storagemodels.AssociationStorageType {
	return storagemodels.AllAssociationStorageTypes()
}

func storageOf(actx datastore.AssociationContext) storagemodels.AssociationStorageType {
	if actx.StorageType.IsValid() {
		return actx.StorageType
	}
	return storagemodels.InEntity
}

func (d *Dialect) GetTuple(ctx context.Context, key storagemodels.EntityKey) (*storagemodels.Tuple, error) {
	db, err := d.provider.database("get tuple")
	if err != nil {
		return nil, err
	}
	var doc bson.M
	err = db.Collection(key.Table()).FindOne(ctx, entityFilter(key)).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("get tuple", err)
	}
	return storagemodels.NewTupleFromSnapshot(storagemodels.NewMapSnapshot(documentColumns(doc))), nil
}

func (d *Dialect) InsertOrUpdateTuple(ctx context.Context, key storagemodels.EntityKey, tuple *storagemodels.Tuple) error {
	writes, err := tupleWrites(key, tuple)
	if err != nil {
		return err
	}
	return d.execute(ctx, "insert tuple", writes)
}

func (d *Dialect) RemoveTuple(ctx context.Context, key storagemodels.EntityKey) error {
	return d.execute(ctx, "remove tuple", removeTupleWrites(key))
}

func (d *Dialect) GetAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) (*storagemodels.Association, error) {
	db, err := d.provider.database("get association")
	if err != nil {
		return nil, err
	}
	loc, err := locate(key, storageOf(actx))
	if err != nil {
		return nil, err
	}
	opts := options.FindOne().SetProjection(bson.D{{Key: loc.path, Value: 1}})

	var doc bson.M
	err = db.Collection(loc.collection).FindOne(ctx, loc.filter, opts).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("get association", err)
	}
	return associationRows(key, doc, loc.path)
}

func (d *Dialect) InsertOrUpdateAssociation(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, actx datastore.AssociationContext) error {
	writes, err := associationWrites(key, assoc, storageOf(actx))
	if err != nil {
		return err
	}
	return d.execute(ctx, "insert association", writes)
}

func (d *Dialect) RemoveAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) error {
	writes, err := removeAssociationWrites(key, storageOf(actx))
	if err != nil {
		return err
	}
	return d.execute(ctx, "remove association", writes)
}

// NextValue increments the sequence document and returns the value of the
// reserved block.
func (d *Dialect) NextValue(ctx context.Context, req storagemodels.NextValueRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	db, err := d.provider.database("next value")
	if err != nil {
		return 0, err
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var out struct {
		Value int64 `bson:"next_val"`
	}
	err = db.Collection(identifier.SequenceTable).FindOneAndUpdate(ctx,
		bson.D{{Key: idField, Value: req.SequenceName}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: sequenceValueField, Value: req.Step()}}}},
		opts,
	).Decode(&out)
	if err != nil {
		return 0, wrapError("next value", err)
	}
	return req.ValueFor(out.Value), nil
}

// ExecuteBatch drains queue and sends its operations as ordered bulk writes,
// one per run of consecutive writes to the same collection.
func (d *Dialect) ExecuteBatch(ctx context.Context, queue *datastore.OperationsQueue) error {
	var (
		ops    []datastore.Operation
		writes []write
		owners []int
	)
	for {
		op, ok := queue.Poll()
		if !ok {
			break
		}
		index := len(ops)
		ops = append(ops, op)
		opWrites, err := operationWrites(op, storageOf(op.Context))
		if err != nil {
			return datastore.NewFlushError(backendName, index, op, err)
		}
		for range opWrites {
			owners = append(owners, index)
		}
		writes = append(writes, opWrites...)
	}

	d.logger.WithFields(log.Fields{
		"queue":      queue.ID(),
		"operations": len(ops),
		"writes":     len(writes),
	}).Debug("executing mongodb batch")

	failed, err := d.bulkWrite(ctx, writes)
	if err != nil {
		index := owners[failed]
		return datastore.NewFlushError(backendName, index, ops[index], wrapError("bulk write", err))
	}
	return nil
}

func (d *Dialect) execute(ctx context.Context, op string, writes []write) error {
	if _, err := d.bulkWrite(ctx, writes); err != nil {
		return wrapError(op, err)
	}
	return nil
}

// bulkWrite sends writes in order. On failure it returns the position of
// the failing write.
func (d *Dialect) bulkWrite(ctx context.Context, writes []write) (int, error) {
	if len(writes) == 0 {
		return 0, nil
	}
	db, err := d.provider.database("bulk write")
	if err != nil {
		return 0, err
	}
	opts := options.BulkWrite().SetOrdered(true)
	for _, run := range runs(writes) {
		models := make([]mongo.WriteModel, 0, run.end-run.start)
		for _, w := range writes[run.start:run.end] {
			models = append(models, w.model)
		}
		if _, err := db.Collection(run.collection).BulkWrite(ctx, models, opts); err != nil {
			return run.start + failedModel(err), err
		}
	}
	return 0, nil
}

// run is a maximal range of consecutive writes to one collection.
type run struct {
	collection string
	start, end int
}

func runs(writes []write) []run {
	var out []run
	for i, w := range writes {
		if n := len(out); n > 0 && out[n-1].collection == w.collection {
			out[n-1].end = i + 1
			continue
		}
		out = append(out, run{collection: w.collection, start: i, end: i + 1})
	}
	return out
}

func failedModel(err error) int {
	var bwe mongo.BulkWriteException
	if stderrors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
		return bwe.WriteErrors[0].Index
	}
	return 0
}
