/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"

	"github.com/suparena/gridstore"
	"github.com/suparena/gridstore/config"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

var (
	app = kingpin.New("gridctl", "Inspect and manage gridstore backends")

	debug = app.Flag("debug", "enable debug logging").
		Short('d').
		Default("false").
		Bool()

	envFiles = app.Flag("env", ".env files applied over the configuration").
		Strings()

	timeout = app.Flag("timeout", "timeout of the whole command (set $GRIDCTL_TIMEOUT to override)").
		Default("30s").
		Envar("GRIDCTL_TIMEOUT").
		Duration()

	versionCmd = app.Command("version", "show version information")

	statsCmd    = app.Command("stats", "print entity and association counts and the dialect capabilities")
	statsConfig = statsCmd.Flag("config", "YAML configuration").Short('c').Required().ExistingFile()

	dropCmd    = app.Command("drop", "drop every entity, association and sequence")
	dropConfig = dropCmd.Flag("config", "YAML configuration").Short('c').Required().ExistingFile()
)

// Stats is the report printed by the stats command.
type Stats struct {
	Dialect               string           `yaml:"dialect"`
	Capabilities          []string         `yaml:"capabilities"`
	Transactions          bool             `yaml:"transactions"`
	Entities              int64            `yaml:"entities"`
	Associations          int64            `yaml:"associations"`
	AssociationsByStorage map[string]int64 `yaml:"associations_by_storage,omitempty"`
	EmbeddedCollections   *int64           `yaml:"embedded_collections,omitempty"`
}

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stderr)
	if *debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var err error
	switch cmd {
	case versionCmd.FullCommand():
		err = printVersion(os.Stdout)
	case statsCmd.FullCommand():
		err = withStore(ctx, *statsConfig, func(store *gridstore.Datastore) error {
			return printStats(ctx, store, os.Stdout)
		})
	case dropCmd.FullCommand():
		err = withStore(ctx, *dropConfig, func(store *gridstore.Datastore) error {
			return drop(ctx, store, os.Stdout)
		})
	default:
		app.Fatalf("unknown command %s", cmd)
	}
	app.FatalIfError(err, "%s failed", cmd)
}

func printVersion(out io.Writer) error {
	_, err := fmt.Fprintln(out, gridstore.GetVersionInfo())
	return err
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvironment(*envFiles...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withStore opens the configured datastore, runs fn and closes it again.
func withStore(ctx context.Context, path string, fn func(*gridstore.Datastore) error) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	store, err := gridstore.Open(ctx, cfg, gridstore.WithLogger(log.WithField("component", "gridctl")))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(ctx); cerr != nil {
			log.WithError(cerr).Warn("failed to close datastore")
		}
	}()
	return fn(store)
}

func collectStats(ctx context.Context, store *gridstore.Datastore) (*Stats, error) {
	introspector, err := store.Introspector()
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Dialect:               store.Config().Dialect,
		Transactions:          introspector.BackendSupportsTransactions(),
		AssociationsByStorage: make(map[string]int64),
	}
	for _, c := range store.Capabilities().List() {
		stats.Capabilities = append(stats.Capabilities, string(c))
	}
	if stats.Entities, err = introspector.EntityCount(ctx); err != nil {
		return nil, err
	}
	if stats.Associations, err = introspector.AssociationCount(ctx); err != nil {
		return nil, err
	}
	for _, t := range storagemodels.AllAssociationStorageTypes() {
		n, err := introspector.AssociationCountByType(ctx, t)
		if errors.IsUnsupportedCapability(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		stats.AssociationsByStorage[t.String()] = n
	}
	// dialects without embedded collections leave the field out
	n, err := introspector.EmbeddedCollectionCount(ctx)
	switch {
	case errors.IsUnsupportedCapability(err):
	case err != nil:
		return nil, err
	default:
		stats.EmbeddedCollections = &n
	}
	return stats, nil
}

func printStats(ctx context.Context, store *gridstore.Datastore, out io.Writer) error {
	stats, err := collectStats(ctx, store)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(stats)
}

func drop(ctx context.Context, store *gridstore.Datastore, out io.Writer) error {
	introspector, err := store.Introspector()
	if err != nil {
		return err
	}
	if err := introspector.DropSchemaAndDatabase(ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "dropped %s datastore\n", store.Config().Dialect)
	return err
}
