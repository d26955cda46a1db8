/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"sort"
	"strings"

	"github.com/suparena/gridstore/storagemodels"
)

// Capability names an optional dialect extension.
type Capability string

const (
	CapabilityBatchWrite         Capability = "batch_write"
	CapabilityTransaction        Capability = "transaction"
	CapabilityAssociationStorage Capability = "association_storage"
	CapabilityIntrospection      Capability = "introspection"
	CapabilityTypeOverride       Capability = "type_override"
)

// CapabilitySet is the set of extensions a dialect implements.
type CapabilitySet map[Capability]struct{}

// Capabilities inspects dialect once and reports its extensions.
func Capabilities(dialect GridDialect) CapabilitySet {
	set := make(CapabilitySet)
	if _, ok := dialect.(BatchableGridDialect); ok {
		set[CapabilityBatchWrite] = struct{}{}
	}
	if _, ok := dialect.(TransactionalGridDialect); ok {
		set[CapabilityTransaction] = struct{}{}
	}
	if _, ok := dialect.(AssociationStorageAware); ok {
		set[CapabilityAssociationStorage] = struct{}{}
	}
	if _, ok := dialect.(Introspector); ok {
		set[CapabilityIntrospection] = struct{}{}
	}
	if _, ok := dialect.(TypeOverrider); ok {
		set[CapabilityTypeOverride] = struct{}{}
	}
	return set
}

// Has reports whether c is in the set.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities sorted by name.
func (s CapabilitySet) List() []Capability {
	list := make([]Capability, 0, len(s))
	for c := range s {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

func (s CapabilitySet) String() string {
	names := make([]string, 0, len(s))
	for _, c := range s.List() {
		names = append(names, string(c))
	}
	return strings.Join(names, ",")
}

// DefaultAssociationStorage returns the storage type used when nothing is
// configured: the dialect's declared default, IN_ENTITY otherwise.
func DefaultAssociationStorage(dialect GridDialect) storagemodels.AssociationStorageType {
	if aware, ok := dialect.(AssociationStorageAware); ok {
		if t := aware.DefaultAssociationStorage(); t.IsValid() {
			return t
		}
	}
	return storagemodels.InEntity
}

// SupportsAssociationStorage reports whether dialect can store associations
// with the given strategy. Dialects that declare nothing support every type.
func SupportsAssociationStorage(dialect GridDialect, t storagemodels.AssociationStorageType) bool {
	aware, ok := dialect.(AssociationStorageAware)
	if !ok {
		return t.IsValid()
	}
	for _, supported := range aware.SupportedAssociationStorage() {
		if supported == t {
			return true
		}
	}
	return false
}
