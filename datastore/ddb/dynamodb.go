/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	log "github.com/sirupsen/logrus"

	"github.com/suparena/gridstore/errors"
)

const backendName = "ddb"

// API is the subset of the DynamoDB client used by the dialect.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *sdk.TransactWriteItemsInput, optFns ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error)
	BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
}

var _ API = (*sdk.Client)(nil)

// ProviderConfig holds the settings of a Provider.
type ProviderConfig struct {
	Region    string
	Table     string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are
// used when an access key is given, the default chain otherwise.
func NewDynamoDBClient(ctx context.Context, cfg ProviderConfig) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Provider owns the DynamoDB client and the name of the single table.
type Provider struct {
	cfg    ProviderConfig
	logger *log.Entry

	mu      sync.RWMutex
	started bool
	api     API
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger entry.
func WithLogger(logger *log.Entry) ProviderOption {
	return func(p *Provider) { p.logger = logger }
}

// WithAPI makes the provider use api instead of building a client.
func WithAPI(api API) ProviderOption {
	return func(p *Provider) { p.api = api }
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
		"region": cfg.Region,
		"table":  cfg.Table,
	})
	return p
}

// Start builds the client and checks that the table exists. Starting a
// started provider is a no-op.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if p.cfg.Table == "" {
		return errors.NewValidationError("table", "must not be empty")
	}
	if p.api == nil {
		client, err := NewDynamoDBClient(ctx, p.cfg)
		if err != nil {
			return errors.NewStorageError(backendName, "start", err)
		}
		p.api = client
	}
	if _, err := p.api.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(p.cfg.Table)}); err != nil {
		p.logger.WithError(err).Error("dynamodb table check failed")
		return wrapError("describe table", p.cfg.AccessKey, err)
	}
	p.started = true
	p.logger.Info("dynamodb provider started")
	return nil
}

// Stop releases the provider. The SDK client holds no connection state to
// close.
func (p *Provider) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	p.logger.Info("dynamodb provider stopped")
	return nil
}

// Table returns the table name.
func (p *Provider) Table() string { return p.cfg.Table }

func (p *Provider) client(op string) (API, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.started {
		return nil, errors.NewStorageStatusError(backendName, op, "", "provider not started")
	}
	return p.api, nil
}
