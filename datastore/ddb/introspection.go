/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

const (
	batchWriteLimit    = 25
	batchWriteAttempts = 5
)

// scan visits every item of the table, page by page.
func (d *Dialect) scan(ctx context.Context, op string, projection []string, visit func(map[string]any) error) error {
	api, err := d.provider.client(op)
	if err != nil {
		return err
	}
	input := &sdk.ScanInput{TableName: aws.String(d.provider.Table())}
	if len(projection) > 0 {
		u := newUpdateExpression()
		names := make([]string, len(projection))
		for i, attr := range projection {
			names[i] = u.name(attr)
		}
		input.ProjectionExpression = aws.String(strings.Join(names, ", "))
		input.ExpressionAttributeNames = u.names
	}

	pages := sdk.NewScanPaginator(api, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return wrapError(op, d.provider.cfg.AccessKey, err)
		}
		for _, raw := range page.Items {
			item, err := unmarshalItem(raw)
			if err != nil {
				return errors.NewStorageError(backendName, op, err)
			}
			if err := visit(item); err != nil {
				return err
			}
		}
	}
	return nil
}

var countProjection = []string{pkAttr, skAttr, collectionAttr, kindAttr, associationsAttr, collectionsAttr}

// counts tallies the items of the table in one scan.
type counts struct {
	entities       int64
	inEntity       int64
	embeddedInline int64
	documents      map[storagemodels.AssociationStorageType]int64
	embeddedDocs   int64
}

func (d *Dialect) count(ctx context.Context, op string) (counts, error) {
	c := counts{documents: make(map[storagemodels.AssociationStorageType]int64)}
	err := d.scan(ctx, op, countProjection, func(item map[string]any) error {
		switch item[skAttr] {
		case entitySK:
			c.entities++
			c.inEntity += int64(len(sortedRoles(item[associationsAttr])))
			c.embeddedInline += int64(len(sortedRoles(item[collectionsAttr])))
		case associationSK:
			if item[kindAttr] == storagemodels.KindEmbeddedCollection.String() {
				c.embeddedDocs++
				return nil
			}
			collection, _ := item[collectionAttr].(string)
			if strings.HasPrefix(collection, PerAssociationPrefix) {
				c.documents[storagemodels.AssociationDocumentPerAssociation]++
			} else {
				c.documents[storagemodels.AssociationDocument]++
			}
		}
		return nil
	})
	return c, err
}

func (d *Dialect) EntityCount(ctx context.Context) (int64, error) {
	c, err := d.count(ctx, "entity count")
	return c.entities, err
}

func (d *Dialect) AssociationCount(ctx context.Context) (int64, error) {
	c, err := d.count(ctx, "association count")
	if err != nil {
		return 0, err
	}
	total := c.inEntity
	for _, n := range c.documents {
		total += n
	}
	return total, nil
}

func (d *Dialect) AssociationCountByType(ctx context.Context, storageType storagemodels.AssociationStorageType) (int64, error) {
	if !storageType.IsValid() {
		return 0, errors.NewValidationError("storageType", "unknown association storage type")
	}
	c, err := d.count(ctx, "association count")
	if err != nil {
		return 0, err
	}
	if storageType == storagemodels.InEntity {
		return c.inEntity, nil
	}
	return c.documents[storageType], nil
}

func (d *Dialect) EmbeddedCollectionCount(ctx context.Context) (int64, error) {
	c, err := d.count(ctx, "embedded collection count")
	return c.embeddedInline + c.embeddedDocs, err
}

// ExtractEntityTuple returns the stored columns of an entity, nil when
// absent.
func (d *Dialect) ExtractEntityTuple(ctx context.Context, key storagemodels.EntityKey) (map[string]any, error) {
	p, err := d.planner("get tuple")
	if err != nil {
		return nil, err
	}
	item, err := p.getItem(ctx, entityItemKey(key))
	if err != nil || item == nil {
		return nil, err
	}
	for attr := range reservedAttributes {
		delete(item, attr)
	}
	return item, nil
}

func (d *Dialect) BackendSupportsTransactions() bool { return false }

// DropSchemaAndDatabase deletes every item of the table. The table itself
// is kept.
func (d *Dialect) DropSchemaAndDatabase(ctx context.Context) error {
	api, err := d.provider.client("drop")
	if err != nil {
		return err
	}
	var keys []itemKey
	err = d.scan(ctx, "drop", []string{pkAttr, skAttr}, func(item map[string]any) error {
		pk, _ := item[pkAttr].(string)
		sk, _ := item[skAttr].(string)
		keys = append(keys, itemKey{pk: pk, sk: sk})
		return nil
	})
	if err != nil {
		return err
	}

	table := d.provider.Table()
	for start := 0; start < len(keys); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(keys) {
			end = len(keys)
		}
		requests := make([]types.WriteRequest, 0, end-start)
		for _, k := range keys[start:end] {
			requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: k.attributes()}})
		}
		pending := map[string][]types.WriteRequest{table: requests}
		for attempt := 0; len(pending[table]) > 0; attempt++ {
			if attempt == batchWriteAttempts {
				return errors.NewStorageStatusError(backendName, "drop", "", "unprocessed items remain")
			}
			out, err := api.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return wrapError("drop", d.provider.cfg.AccessKey, err)
			}
			pending = out.UnprocessedItems
		}
	}
	d.logger.WithField("items", len(keys)).Info("dropped dynamodb items")
	return nil
}
