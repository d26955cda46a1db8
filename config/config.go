/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/registry"
	"github.com/suparena/gridstore/storagemodels"
)

// Dialect names known to the configuration.
const (
	DialectMongoDB  = "mongodb"
	DialectDynamoDB = "ddb"
	DialectCache    = "cache"
)

// DefaultMongoDBPort is used when no port is configured for MongoDB.
const DefaultMongoDBPort = 27017

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDSTORE_"

// Config is the datastore configuration.
type Config struct {
	// Dialect selects the registered dialect, e.g. "mongodb" or "ddb".
	Dialect string `yaml:"dialect"`

	Host           string        `yaml:"host,omitempty"`
	Port           int           `yaml:"port,omitempty"`
	Database       string        `yaml:"database,omitempty"`
	AuthDatabase   string        `yaml:"auth_database,omitempty"`
	Username       string        `yaml:"username,omitempty"`
	Password       string        `yaml:"password,omitempty"`
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`

	// DynamoDB
	Region   string `yaml:"region,omitempty"`
	Table    string `yaml:"table,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`

	AssociationStorage registry.MappingConfig `yaml:"association_storage,omitempty"`
	Batching           BatchingConfig         `yaml:"batching,omitempty"`
}

// BatchingConfig controls unit of work batching.
type BatchingConfig struct {
	// Coalesce merges queued operations per entity before each flush.
	Coalesce bool `yaml:"coalesce"`
}

// DefaultConfig returns sensible defaults for a local setup.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Database:       "gridstore",
		AuthDatabase:   "admin",
		ConnectTimeout: 10 * time.Second,
		Table:          "gridstore",
	}
}

// Load reads the given YAML files in order and merges them over
// DefaultConfig; later files override earlier ones.
func Load(paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return &cfg, nil
}

// ApplyEnvironment loads the given .env files (".env" when none is given;
// missing files are ignored) and then applies every GRIDSTORE_* variable
// over the configuration.
func (c *Config) ApplyEnvironment(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var errs error
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("DIALECT", &c.Dialect)
	str("HOST", &c.Host)
	str("DATABASE", &c.Database)
	str("AUTH_DATABASE", &c.AuthDatabase)
	str("USERNAME", &c.Username)
	str("PASSWORD", &c.Password)
	str("REGION", &c.Region)
	str("TABLE", &c.Table)
	str("ENDPOINT", &c.Endpoint)

	if v, ok := os.LookupEnv(EnvPrefix + "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, errors.NewValidationError(EnvPrefix+"PORT", err.Error()))
		} else {
			c.Port = port
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "CONNECT_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = multierr.Append(errs, errors.NewValidationError(EnvPrefix+"CONNECT_TIMEOUT", err.Error()))
		} else {
			c.ConnectTimeout = d
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "ASSOCIATION_STORAGE"); ok {
		t, err := storagemodels.ParseAssociationStorageType(v)
		if err != nil {
			errs = multierr.Append(errs, errors.NewValidationError(EnvPrefix+"ASSOCIATION_STORAGE", err.Error()))
		} else {
			c.AssociationStorage.Default = t
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "COALESCE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierr.Append(errs, errors.NewValidationError(EnvPrefix+"COALESCE", err.Error()))
		} else {
			c.Batching.Coalesce = b
		}
	}
	return errs
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs error
	if c.Dialect == "" {
		errs = multierr.Append(errs, errors.NewValidationError("dialect", "must not be empty"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = multierr.Append(errs, errors.NewValidationError("port", fmt.Sprintf("%d is out of range", c.Port)))
	}
	if c.ConnectTimeout < 0 {
		errs = multierr.Append(errs, errors.NewValidationError("connect_timeout", "must not be negative"))
	}
	if c.Password != "" && c.Username == "" {
		errs = multierr.Append(errs, errors.NewValidationError("username", "required when a password is set"))
	}

	switch c.Dialect {
	case DialectMongoDB:
		if c.Host == "" {
			errs = multierr.Append(errs, errors.NewValidationError("host", "required for mongodb"))
		}
		if c.Database == "" {
			errs = multierr.Append(errs, errors.NewValidationError("database", "required for mongodb"))
		}
	case DialectDynamoDB:
		if c.Region == "" {
			errs = multierr.Append(errs, errors.NewValidationError("region", "required for ddb"))
		}
		if c.Table == "" {
			errs = multierr.Append(errs, errors.NewValidationError("table", "required for ddb"))
		}
	}
	return errs
}

// EffectivePort returns the configured port or the dialect default.
func (c *Config) EffectivePort() int {
	if c.Port == 0 && c.Dialect == DialectMongoDB {
		return DefaultMongoDBPort
	}
	return c.Port
}
