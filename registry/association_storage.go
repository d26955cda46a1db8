/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/suparena/gridstore/datastore"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/storagemodels"
)

// MappingConfig is the configured association storage strategy: a global
// default plus overrides per entity table and per association role. Role
// overrides are keyed "<owner table>.<role>".
type MappingConfig struct {
	Default        storagemodels.AssociationStorageType            `yaml:"default,omitempty"`
	PerEntity      map[string]storagemodels.AssociationStorageType `yaml:"entities,omitempty"`
	PerAssociation map[string]storagemodels.AssociationStorageType `yaml:"associations,omitempty"`
}

// Mapping resolves the storage strategy of association roles. Resolved
// values are memoised and never change for the lifetime of the Mapping.
type Mapping struct {
	cfg            MappingConfig
	backendDefault storagemodels.AssociationStorageType

	mu       sync.RWMutex
	resolved map[string]storagemodels.AssociationStorageType
}

// NewMapping validates cfg against what dialect supports.
func NewMapping(cfg MappingConfig, dialect datastore.GridDialect) (*Mapping, error) {
	m := &Mapping{
		cfg: MappingConfig{
			Default:        cfg.Default,
			PerEntity:      make(map[string]storagemodels.AssociationStorageType, len(cfg.PerEntity)),
			PerAssociation: make(map[string]storagemodels.AssociationStorageType, len(cfg.PerAssociation)),
		},
		backendDefault: datastore.DefaultAssociationStorage(dialect),
		resolved:       make(map[string]storagemodels.AssociationStorageType),
	}

	var errs error
	check := func(entity, role string, t storagemodels.AssociationStorageType) {
		if !t.IsValid() {
			errs = multierr.Append(errs, errors.NewMappingConfigurationError(entity, role,
				fmt.Sprintf("unknown association storage %s", t)))
			return
		}
		if !datastore.SupportsAssociationStorage(dialect, t) {
			errs = multierr.Append(errs, errors.NewMappingConfigurationError(entity, role,
				fmt.Sprintf("%s does not support association storage %s", datastore.BackendName(dialect), t)))
		}
	}

	if cfg.Default != 0 {
		check("", "", cfg.Default)
	}
	for table, t := range cfg.PerEntity {
		name := strings.TrimSpace(table)
		if name == "" {
			errs = multierr.Append(errs, errors.NewMappingConfigurationError("", "", "empty entity name"))
			continue
		}
		if prev, dup := m.cfg.PerEntity[name]; dup && prev != t {
			errs = multierr.Append(errs, errors.NewMappingConfigurationError(name, "",
				fmt.Sprintf("conflicting association storage %s and %s", prev, t)))
			continue
		}
		check(name, "", t)
		m.cfg.PerEntity[name] = t
	}
	for path, t := range cfg.PerAssociation {
		entity, role, ok := splitRolePath(path)
		if !ok {
			errs = multierr.Append(errs, errors.NewMappingConfigurationError("", "",
				fmt.Sprintf("association override %q is not of the form <entity>.<role>", path)))
			continue
		}
		name := entity + "." + role
		if prev, dup := m.cfg.PerAssociation[name]; dup && prev != t {
			errs = multierr.Append(errs, errors.NewMappingConfigurationError(entity, role,
				fmt.Sprintf("conflicting association storage %s and %s", prev, t)))
			continue
		}
		check(entity, role, t)
		m.cfg.PerAssociation[name] = t
	}
	if errs != nil {
		return nil, errs
	}
	return m, nil
}

func splitRolePath(path string) (string, string, bool) {
	i := strings.LastIndex(path, ".")
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	entity := strings.TrimSpace(path[:i])
	role := strings.TrimSpace(path[i+1:])
	return entity, role, entity != "" && role != ""
}

// Resolve returns the storage strategy of the association role of key:
// the role override, then the owner entity override, then the global
// default and finally the backend default.
func (m *Mapping) Resolve(key storagemodels.AssociationKey) storagemodels.AssociationStorageType {
	path := key.Owner().Table() + "." + key.Role()

	m.mu.RLock()
	t, ok := m.resolved[path]
	m.mu.RUnlock()
	if ok {
		return t
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.resolved[path]; ok {
		return t
	}
	t = m.lookup(key.Owner().Table(), path)
	m.resolved[path] = t
	return t
}

func (m *Mapping) lookup(table, path string) storagemodels.AssociationStorageType {
	if t, ok := m.cfg.PerAssociation[path]; ok {
		return t
	}
	if t, ok := m.cfg.PerEntity[table]; ok {
		return t
	}
	if m.cfg.Default != 0 {
		return m.cfg.Default
	}
	return m.backendDefault
}

// Context returns the AssociationContext to pass to the dialect for key.
func (m *Mapping) Context(key storagemodels.AssociationKey) datastore.AssociationContext {
	return datastore.AssociationContext{StorageType: m.Resolve(key)}
}
