/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

// Dialect is a batchable grid dialect over one DynamoDB table.
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

func (d *Dialect) planner(op string) (*planner, error) {
	api, err := d.provider.client(op)
	if err != nil {
		return nil, err
	}
	return newPlanner(api, d.provider.Table()), nil
}

// GetTuple returns the entity item without its association attributes.
func (d *Dialect) GetTuple(ctx context.Context, key storagemodels.EntityKey) (*storagemodels.Tuple, error) {
	values, err := d.ExtractEntityTuple(ctx, key)
	if err != nil || values == nil {
		return nil, err
	}
	return storagemodels.NewTupleFromSnapshot(storagemodels.NewMapSnapshot(values)), nil
}

func (d *Dialect) InsertOrUpdateTuple(ctx context.Context, key storagemodels.EntityKey, tuple *storagemodels.Tuple) error {
	return d.apply(ctx, "insert tuple", datastore.UpdateTuple(key, tuple))
}

func (d *Dialect) RemoveTuple(ctx context.Context, key storagemodels.EntityKey) error {
	return d.apply(ctx, "remove tuple", datastore.RemoveTuple(key))
}

func (d *Dialect) GetAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) (*storagemodels.Association, error) {
	p, err := d.planner("get association")
	if err != nil {
		return nil, err
	}
	return p.association(ctx, key, storageOf(actx))
}

func (d *Dialect) InsertOrUpdateAssociation(ctx context.Context, key storagemodels.AssociationKey, assoc *storagemodels.Association, actx datastore.AssociationContext) error {
	return d.apply(ctx, "insert association", datastore.UpdateAssociation(key, assoc, actx))
}

func (d *Dialect) RemoveAssociation(ctx context.Context, key storagemodels.AssociationKey, actx datastore.AssociationContext) error {
	return d.apply(ctx, "remove association", datastore.RemoveAssociation(key, actx))
}

// apply executes one operation item by item, outside a transaction.
func (d *Dialect) apply(ctx context.Context, name string, op datastore.Operation) error {
	p, err := d.planner(name)
	if err != nil {
		return err
	}
	writes, err := p.writes(ctx, op)
	if err != nil {
		return err
	}
	for _, w := range writes {
		if err := d.writeItem(ctx, p.api, w); err != nil {
			return wrapError(name, d.provider.cfg.AccessKey, err)
		}
	}
	return nil
}

func (d *Dialect) writeItem(ctx context.Context, api API, w write) error {
	var err error
	switch {
	case w.item.Update != nil:
		u := w.item.Update
		_, err = api.UpdateItem(ctx, &sdk.UpdateItemInput{
			TableName:                 u.TableName,
			Key:                       u.Key,
			UpdateExpression:          u.UpdateExpression,
			ExpressionAttributeNames:  u.ExpressionAttributeNames,
			ExpressionAttributeValues: u.ExpressionAttributeValues,
		})
	case w.item.Put != nil:
		_, err = api.PutItem(ctx, &sdk.PutItemInput{
			TableName: w.item.Put.TableName,
			Item:      w.item.Put.Item,
		})
	case w.item.Delete != nil:
		_, err = api.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName: w.item.Delete.TableName,
			Key:       w.item.Delete.Key,
		})
	}
	return err
}

// ExecuteBatch coalesces the queue and writes it as a sequence of
// TransactWriteItems calls. Each call is atomic; the batch as a whole is
// not.
func (d *Dialect) ExecuteBatch(ctx context.Context, queue *datastore.OperationsQueue) error {
	p, err := d.planner("execute batch")
	if err != nil {
		return err
	}
	queue.Coalesce()

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
		opWrites, err := p.writes(ctx, op)
		if err != nil {
			return datastore.NewFlushError(backendName, index, op, err)
		}
		for range opWrites {
			owners = append(owners, index)
		}
		writes = append(writes, opWrites...)
	}

	chunks := chunk(writes)
	d.logger.WithFields(log.Fields{
		"queue":        queue.ID(),
		"operations":   len(ops),
		"writes":       len(writes),
		"transactions": len(chunks),
	}).Debug("executing dynamodb batch")

	offset := 0
	for _, items := range chunks {
		input := &sdk.TransactWriteItemsInput{TransactItems: make([]types.TransactWriteItem, len(items))}
		for i, w := range items {
			input.TransactItems[i] = w.item
		}
		if _, err := p.api.TransactWriteItems(ctx, input); err != nil {
			failed := offset
			if i, ok := cancelledItem(err); ok {
				failed += i
			}
			index := owners[failed]
			return datastore.NewFlushError(backendName, index, ops[index], wrapError("transact write items", d.provider.cfg.AccessKey, err))
		}
		offset += len(items)
	}
	return nil
}

// NextValue adds the increment to the sequence item atomically.
func (d *Dialect) NextValue(ctx context.Context, req storagemodels.NextValueRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	api, err := d.provider.client("next value")
	if err != nil {
		return 0, err
	}
	u := newUpdateExpression()
	if err := u.Add(sequenceAttr, req.Step()); err != nil {
		return 0, err
	}
	expr, names, values, err := u.Build()
	if err != nil {
		return 0, err
	}
	out, err := api.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 aws.String(d.provider.Table()),
		Key:                       sequenceItemKey(req.SequenceName).attributes(),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, wrapError("next value", d.provider.cfg.AccessKey, err)
	}
	n, ok := out.Attributes[sequenceAttr].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.NewStorageStatusError(backendName, "next value", "", "sequence value missing from response")
	}
	counter, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, errors.NewStorageError(backendName, "next value", err)
	}
	return req.ValueFor(counter), nil
}
