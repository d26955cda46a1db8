/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"

	"github.com/suparena/gridstore/config"
	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/registry"
	"github.com/suparena/gridstore/storagemodels"
)

// Datastore is an opened dialect: the started provider, the dialect and the
// resolved association storage mapping.
type Datastore struct {
	cfg      config.Config
	dialect  datastore.GridDialect
	provider datastore.Provider
	mapping  *registry.Mapping
	logger   *log.Entry
	scope    tally.Scope

	dropOnClose bool
}

// Option configures Open.
type Option func(*Datastore)

// WithLogger sets the logger entry handed to the provider and every unit of
// work.
func WithLogger(logger *log.Entry) Option {
	return func(d *Datastore) { d.logger = logger }
}

// WithMetrics sets the metrics scope of every unit of work.
func WithMetrics(scope tally.Scope) Option {
	return func(d *Datastore) { d.scope = scope }
}

// WithDropOnClose drops the schema and data when the datastore is closed.
func WithDropOnClose() Option {
	return func(d *Datastore) { d.dropOnClose = true }
}

// Open validates cfg, builds the configured dialect, checks the association
// storage mapping against it and starts its provider.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Datastore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Datastore{cfg: *cfg, scope: tally.NoopScope}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.WithField("component", "gridstore")
	}
	d.logger = d.logger.WithField("dialect", cfg.Dialect)

	factory, err := lookupDialect(cfg.Dialect)
	if err != nil {
		return nil, errors.NewValidationError("dialect", err.Error())
	}
	d.dialect, d.provider, err = factory(cfg, d.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build dialect %q: %w", cfg.Dialect, err)
	}
	if d.mapping, err = registry.NewMapping(cfg.AssociationStorage, d.dialect); err != nil {
		return nil, err
	}
	if err := d.provider.Start(ctx); err != nil {
		return nil, err
	}

	d.logger.WithField("capabilities", datastore.Capabilities(d.dialect).String()).Info("datastore opened")
	return d, nil
}

// Dialect returns the dialect.
func (d *Datastore) Dialect() datastore.GridDialect { return d.dialect }

// Mapping returns the association storage mapping.
func (d *Datastore) Mapping() *registry.Mapping { return d.mapping }

// Config returns a copy of the configuration the datastore was opened with.
func (d *Datastore) Config() config.Config { return d.cfg }

// Capabilities lists the optional extensions of the dialect.
func (d *Datastore) Capabilities() datastore.CapabilitySet {
	return datastore.Capabilities(d.dialect)
}

// AssociationContext resolves the storage strategy of an association.
func (d *Datastore) AssociationContext(key storagemodels.AssociationKey) datastore.AssociationContext {
	return d.mapping.Context(key)
}

// NewUnitOfWork starts a unit of work carrying the datastore logger, metrics
// and batching configuration. opts are applied last.
func (d *Datastore) NewUnitOfWork(opts ...datastore.Option) *datastore.UnitOfWork {
	base := []datastore.Option{
		datastore.WithLogger(d.logger),
		datastore.WithMetrics(d.scope),
	}
	if d.cfg.Batching.Coalesce {
		base = append(base, datastore.WithCoalescing())
	}
	return datastore.NewUnitOfWork(d.dialect, append(base, opts...)...)
}

// Introspector returns the introspection view of the dialect.
func (d *Datastore) Introspector() (datastore.Introspector, error) {
	i, ok := d.dialect.(datastore.Introspector)
	if !ok {
		return nil, errors.NewUnsupportedCapabilityError(datastore.BackendName(d.dialect), string(datastore.CapabilityIntrospection))
	}
	return i, nil
}

// Close stops the provider, dropping everything first when opened with
// WithDropOnClose. Every failure is reported.
func (d *Datastore) Close(ctx context.Context) error {
	var errs error
	if d.dropOnClose {
		if i, err := d.Introspector(); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			errs = multierr.Append(errs, i.DropSchemaAndDatabase(ctx))
		}
	}
	errs = multierr.Append(errs, d.provider.Stop(ctx))
	if errs != nil {
		d.logger.WithError(errs).Error("datastore close failed")
		return errs
	}
	d.logger.Info("datastore closed")
	return nil
}
