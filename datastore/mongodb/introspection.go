/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"context"
	stderrors "errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suparena/gridstore/storagemodels"
)

func (d *Dialect) collections(ctx context.Context) (*mongo.Database, []string, error) {
	db, err := d.provider.database("list collections")
	if err != nil {
		return nil, nil, err
	}
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, nil, wrapError("list collections", err)
	}
	return db, sortedCollections(names), nil
}

func (d *Dialect) EntityCount(ctx context.Context) (int64, error) {
	db, names, err := d.collections(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, name := range names {
		if !isEntityCollection(name) {
			continue
		}
		n, err := db.Collection(name).CountDocuments(ctx, bson.D{})
		if err != nil {
			return 0, wrapError("entity count", err)
		}
		total += n
	}
	return total, nil
}

// embeddedRoles counts the roles stored in entity documents under parent.
func (d *Dialect) embeddedRoles(ctx context.Context, db *mongo.Database, names []string, parent string) (int64, error) {
	var total int64
	filter := bson.D{{Key: parent, Value: bson.D{{Key: "$exists", Value: true}}}}
	opts := options.Find().SetProjection(bson.D{{Key: parent, Value: 1}})
	for _, name := range names {
		if !isEntityCollection(name) {
			continue
		}
		cursor, err := db.Collection(name).Find(ctx, filter, opts)
		if err != nil {
			return 0, wrapError("count embedded", err)
		}
		var docs []bson.M
		if err := cursor.All(ctx, &docs); err != nil {
			return 0, wrapError("count embedded", err)
		}
		total += countKeys(docs, parent)
	}
	return total, nil
}

// documentCount counts association documents of kind in the given
// association collections.
func documentCount(ctx context.Context, db *mongo.Database, names []string, kind storagemodels.AssociationKind, perAssociation bool) (int64, error) {
	var total int64
	for _, name := range names {
		switch {
		case name == AssociationsCollection && !perAssociation:
		case strings.HasPrefix(name, PerAssociationPrefix) && perAssociation:
		default:
			continue
		}
		n, err := db.Collection(name).CountDocuments(ctx, bson.D{{Key: kindField, Value: kind.String()}})
		if err != nil {
			return 0, wrapError("association count", err)
		}
		total += n
	}
	return total, nil
}

func (d *Dialect) AssociationCount(ctx context.Context) (int64, error) {
	var total int64
	for _, t := range storagemodels.AllAssociationStorageTypes() {
		n, err := d.AssociationCountByType(ctx, t)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (d *Dialect) AssociationCountByType(ctx context.Context, storageType storagemodels.AssociationStorageType) (int64, error) {
	db, names, err := d.collections(ctx)
	if err != nil {
		return 0, err
	}
	switch storageType {
	case storagemodels.InEntity:
		return d.embeddedRoles(ctx, db, names, associationsField)
	case storagemodels.AssociationDocumentPerAssociation:
		return documentCount(ctx, db, names, storagemodels.KindAssociation, true)
	default:
		return documentCount(ctx, db, names, storagemodels.KindAssociation, false)
	}
}

func (d *Dialect) EmbeddedCollectionCount(ctx context.Context) (int64, error) {
	db, names, err := d.collections(ctx)
	if err != nil {
		return 0, err
	}
	total, err := d.embeddedRoles(ctx, db, names, collectionsField)
	if err != nil {
		return 0, err
	}
	for _, perAssociation := range []bool{false, true} {
		n, err := documentCount(ctx, db, names, storagemodels.KindEmbeddedCollection, perAssociation)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (d *Dialect) ExtractEntityTuple(ctx context.Context, key storagemodels.EntityKey) (map[string]any, error) {
	db, err := d.provider.database("extract entity tuple")
	if err != nil {
		return nil, err
	}
	var doc bson.M
	err = db.Collection(key.Table()).FindOne(ctx, entityFilter(key)).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("extract entity tuple", err)
	}
	return documentColumns(doc), nil
}

func (d *Dialect) BackendSupportsTransactions() bool { return false }

func (d *Dialect) DropSchemaAndDatabase(ctx context.Context) error {
	db, err := d.provider.database("drop")
	if err != nil {
		return err
	}
	if err := db.Drop(ctx); err != nil {
		return wrapError("drop", err)
	}
	d.logger.WithField("database", db.Name()).Info("dropped mongodb database")
	return nil
}
