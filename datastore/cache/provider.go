/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cache

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

const backendName = "cache"

type entityEntry struct {
	key    storagemodels.EntityKey
	values map[string]any
}

type associationEntry struct {
	key  storagemodels.AssociationKey
	rows []storagemodels.AssociationRow
}

// Provider owns the entity, association and identifier caches of one
// embedded cache instance. The started flag and the caches are guarded by
// mu, so an operation sees either a started provider with its caches or a
// stopped one.
type Provider struct {
	logger *log.Entry

	mu           sync.RWMutex
	started      bool
	entities     map[string]entityEntry
	associations map[string]associationEntry
	sequences    map[string]*atomic.Int64
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger entry.
func WithLogger(logger *log.Entry) ProviderOption {
	return func(p *Provider) { p.logger = logger }
}

// NewProvider creates a stopped provider.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.WithField("backend", backendName)
	}
	return p
}

// Start creates the caches. Starting a started provider is a no-op.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.reset()
	p.started = true
	p.mu.Unlock()
	p.logger.Info("cache provider started")
	return nil
}

// Stop clears every cache.
func (p *Provider) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	p.entities = nil
	p.associations = nil
	p.sequences = nil
	p.mu.Unlock()
	p.logger.Info("cache provider stopped")
	return nil
}

// Started reports whether Start was called without a later Stop.
func (p *Provider) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

// checkStarted fails on a stopped provider. The caller holds mu.
func (p *Provider) checkStarted(op string) error {
	if !p.started {
		return errors.NewStorageStatusError(backendName, op, "", "provider not started")
	}
	return nil
}

// ensureStarted is checkStarted for callers that do not touch the caches.
func (p *Provider) ensureStarted(op string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.checkStarted(op)
}

// read runs fn under the read lock of a started provider.
func (p *Provider) read(op string, fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.checkStarted(op); err != nil {
		return err
	}
	fn()
	return nil
}

// write runs fn under the write lock of a started provider.
func (p *Provider) write(op string, fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkStarted(op); err != nil {
		return err
	}
	fn()
	return nil
}

// reset replaces the caches with empty ones. The caller holds the write
// lock.
func (p *Provider) reset() {
	p.entities = make(map[string]entityEntry)
	p.associations = make(map[string]associationEntry)
	p.sequences = make(map[string]*atomic.Int64)
}

func (p *Provider) counter(op, name string) (*atomic.Int64, error) {
	var (
		c  *atomic.Int64
		ok bool
	)
	if err := p.read(op, func() { c, ok = p.sequences[name] }); err != nil || ok {
		return c, err
	}
	err := p.write(op, func() {
		if c, ok = p.sequences[name]; !ok {
			c = atomic.NewInt64(0)
			p.sequences[name] = c
		}
	})
	return c, err
}
