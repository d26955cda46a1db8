/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/suparena/gridstore/errors"
)

const (
	backendName = "mongodb"

	// DefaultPort is the MongoDB default port.
	DefaultPort = 27017
	// DefaultConnectTimeout bounds connection setup when none is configured.
	DefaultConnectTimeout = 10 * time.Second
)

// ProviderConfig holds the connection settings of a Provider.
type ProviderConfig struct {
	Host           string
	Port           int
	Database       string
	AuthDatabase   string
	Username       string
	Password       string
	ConnectTimeout time.Duration
}

func (c ProviderConfig) uri() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("mongodb://%s:%d", host, port)
}

func (c ProviderConfig) timeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return c.ConnectTimeout
}

// Provider owns the MongoDB client. It is started once and shared by every
// dialect built on it.
type Provider struct {
	cfg    ProviderConfig
	logger *log.Entry

	mu      sync.RWMutex
	started bool
	client  *mongo.Client
	db      *mongo.Database
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger entry.
func WithLogger(logger *log.Entry) ProviderOption {
	return func(p *Provider) { p.logger = logger }
}

// NewProvider creates a stopped provider.
func NewProvider(cfg ProviderConfig, opts ...ProviderOption) *Provider {
	p := &Provider{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.WithField("backend", backendName)
	}
	p.logger = p.logger.WithFields(log.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	})
	return p
}

func (p *Provider) clientOptions() *options.ClientOptions {
	timeout := p.cfg.timeout()
	opts := options.Client().
		ApplyURI(p.cfg.uri()).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if p.cfg.Username != "" {
		authSource := p.cfg.AuthDatabase
		if authSource == "" {
			authSource = "admin"
		}
		opts.SetAuth(options.Credential{
			AuthSource: authSource,
			Username:   p.cfg.Username,
			Password:   p.cfg.Password,
		})
	}
	return opts
}

// Start connects to MongoDB, authenticates and checks the connection.
// Starting a started provider is a no-op.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if p.cfg.Database == "" {
		return errors.NewValidationError("database", "must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(ctx, p.clientOptions())
	if err != nil {
		return p.connectError("connect", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return p.connectError("ping", err)
	}

	p.client = client
	p.db = client.Database(p.cfg.Database)
	p.started = true
	p.logger.Info("mongodb provider started")
	return nil
}

func (p *Provider) connectError(op string, err error) error {
	if isAuthenticationError(err) {
		p.logger.WithError(err).WithField("username", p.cfg.Username).Error("mongodb authentication failed")
		return errors.NewAuthenticationError(backendName, p.cfg.Username, err)
	}
	p.logger.WithError(err).Error("mongodb connection failed")
	return wrapError(op, err)
}

// Stop disconnects the client. Stopping a stopped provider is a no-op.
func (p *Provider) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client = nil
	p.db = nil
	p.started = false
	if err != nil {
		return wrapError("disconnect", err)
	}
	p.logger.Info("mongodb provider stopped")
	return nil
}

// Database returns the configured database; nil before Start.
func (p *Provider) Database() *mongo.Database {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.db
}

func (p *Provider) database(op string) (*mongo.Database, error) {
	db := p.Database()
	if db == nil {
		return nil, errors.NewStorageStatusError(backendName, op, "", "provider not started")
	}
	return db, nil
}
