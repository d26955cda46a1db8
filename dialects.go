/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/suparena/gridstore/config"
	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/datastore/cache"
	"github.com/suparena/gridstore/datastore/ddb"
	"github.com/suparena/gridstore/datastore/mongodb"
)

// Factory builds a dialect and the provider it runs on from a
// configuration. The provider is returned stopped.
type Factory func(cfg *config.Config, logger *log.Entry) (datastore.GridDialect, datastore.Provider, error)

// dialectRegistry is a thread-safe set of named factories.
type dialectRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var dialects = &dialectRegistry{factories: make(map[string]Factory)}

func init() {
	for name, f := range map[string]Factory{
		config.DialectMongoDB:  newMongoDB,
		config.DialectDynamoDB: newDynamoDB,
		config.DialectCache:    newCache,
	} {
		if err := RegisterDialect(name, f); err != nil {
			panic(err)
		}
	}
}

// RegisterDialect makes a dialect available to Open under name.
func RegisterDialect(name string, f Factory) error {
	dialects.mu.Lock()
	defer dialects.mu.Unlock()

	if _, exists := dialects.factories[name]; exists {
		return fmt.Errorf("dialect %q already registered", name)
	}
	dialects.factories[name] = f
	return nil
}

// UnregisterDialect removes a registered dialect.
func UnregisterDialect(name string) error {
	dialects.mu.Lock()
	defer dialects.mu.Unlock()

	if _, exists := dialects.factories[name]; !exists {
		return fmt.Errorf("dialect %q not found", name)
	}
	delete(dialects.factories, name)
	return nil
}

// Dialects lists the registered dialect names.
func Dialects() []string {
	dialects.mu.RLock()
	defer dialects.mu.RUnlock()

	names := make([]string, 0, len(dialects.factories))
	for name := range dialects.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupDialect(name string) (Factory, error) {
	dialects.mu.RLock()
	defer dialects.mu.RUnlock()

	f, exists := dialects.factories[name]
	if !exists {
		return nil, fmt.Errorf("dialect %q not found", name)
	}
	return f, nil
}

func newMongoDB(cfg *config.Config, logger *log.Entry) (datastore.GridDialect, datastore.Provider, error) {
	p := mongodb.NewProvider(mongodb.ProviderConfig{
		Host:           cfg.Host,
		Port:           cfg.EffectivePort(),
		Database:       cfg.Database,
		AuthDatabase:   cfg.AuthDatabase,
		Username:       cfg.Username,
		Password:       cfg.Password,
		ConnectTimeout: cfg.ConnectTimeout,
	}, mongodb.WithLogger(logger))
	return mongodb.NewDialect(p), p, nil
}

// newDynamoDB maps username/password to the static access key pair.
func newDynamoDB(cfg *config.Config, logger *log.Entry) (datastore.GridDialect, datastore.Provider, error) {
	p := ddb.NewProvider(ddb.ProviderConfig{
		Region:    cfg.Region,
		Table:     cfg.Table,
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.Username,
		SecretKey: cfg.Password,
	}, ddb.WithLogger(logger))
	return ddb.NewDialect(p), p, nil
}

func newCache(cfg *config.Config, logger *log.Entry) (datastore.GridDialect, datastore.Provider, error) {
	p := cache.NewProvider(cache.WithLogger(logger))
	return cache.NewDialect(p), p, nil
}
