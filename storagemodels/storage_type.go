/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AssociationStorageType says where the rows of an association are stored.
// The zero value means "not configured".
type AssociationStorageType int

const (
	// InEntity stores the rows inside the owning entity document.
	InEntity AssociationStorageType = iota + 1
	// AssociationDocument stores the rows in a separate document of one
	// global association collection.
	AssociationDocument
	// AssociationDocumentPerAssociation stores the rows in a separate
	// document of a collection dedicated to the association.
	AssociationDocumentPerAssociation
)

var storageTypeNames = map[AssociationStorageType]string{
	InEntity:                          "IN_ENTITY",
	AssociationDocument:               "ASSOCIATION_DOCUMENT",
	AssociationDocumentPerAssociation: "ASSOCIATION_DOCUMENT_PER_ASSOCIATION",
}

// AllAssociationStorageTypes lists every valid storage type.
func AllAssociationStorageTypes() []AssociationStorageType {
	return []AssociationStorageType{InEntity, AssociationDocument, AssociationDocumentPerAssociation}
}

func (t AssociationStorageType) String() string {
	if name, ok := storageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AssociationStorageType(%d)", int(t))
}

// IsValid reports whether t is one of the defined storage types.
func (t AssociationStorageType) IsValid() bool {
	_, ok := storageTypeNames[t]
	return ok
}

// IsDocument reports whether rows live outside the owning entity.
func (t AssociationStorageType) IsDocument() bool {
	return t == AssociationDocument || t == AssociationDocumentPerAssociation
}

// ParseAssociationStorageType parses the upper snake case name of a storage
// type. Matching ignores case and accepts dashes for underscores.
func ParseAssociationStorageType(s string) (AssociationStorageType, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for t, name := range storageTypeNames {
		if name == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown association storage type %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (t AssociationStorageType) MarshalYAML() (interface{}, error) {
	if t == 0 {
		return "", nil
	}
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *AssociationStorageType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*t = 0
		return nil
	}
	parsed, err := ParseAssociationStorageType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
