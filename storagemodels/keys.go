/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"hash/fnv"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/internal/keycodec"
)

// Column is one named value of a key or a row.
type Column struct {
	Name  string
	Value any
}

// EntityKey identifies one logical entity row: a table name plus the ordered
// primary key columns. Two keys are equal when their canonical encodings are
// equal, so int(1) and int64(1) identify the same row.
type EntityKey struct {
	table     string
	columns   []Column
	canonical string
}

// NewEntityKey validates the key columns and builds an immutable EntityKey.
func NewEntityKey(table string, columns ...Column) (EntityKey, error) {
	if table == "" {
		return EntityKey{}, errors.NewValidationError("table", "must not be empty")
	}
	cols, encoded, err := encodeColumns(columns)
	if err != nil {
		return EntityKey{}, err
	}
	return EntityKey{
		table:     table,
		columns:   cols,
		canonical: keycodec.Escape(table) + string(keycodec.Separator) + encoded,
	}, nil
}

// MustEntityKey is like NewEntityKey but panics on invalid input.
func MustEntityKey(table string, columns ...Column) EntityKey {
	k, err := NewEntityKey(table, columns...)
	if err != nil {
		panic(err)
	}
	return k
}

// Table returns the table or collection name.
func (k EntityKey) Table() string { return k.table }

// Columns returns a copy of the key columns.
func (k EntityKey) Columns() []Column {
	return append([]Column(nil), k.columns...)
}

// ColumnNames returns the key column names in order.
func (k EntityKey) ColumnNames() []string {
	names := make([]string, len(k.columns))
	for i, c := range k.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnValues returns the key column values in order.
func (k EntityKey) ColumnValues() []any {
	values := make([]any, len(k.columns))
	for i, c := range k.columns {
		values[i] = c.Value
	}
	return values
}

// Value returns the value of the named key column.
func (k EntityKey) Value(name string) (any, bool) {
	for _, c := range k.columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// IsZero reports whether k was never initialised.
func (k EntityKey) IsZero() bool { return k.canonical == "" }

// String returns the canonical encoding, usable as a Go map key.
func (k EntityKey) String() string { return k.canonical }

// Equal reports structural equality.
func (k EntityKey) Equal(other EntityKey) bool { return k.canonical == other.canonical }

// Hash returns a stable FNV-64a hash of the canonical encoding.
func (k EntityKey) Hash() uint64 { return hashString(k.canonical) }

// AssociationKind distinguishes associations between entities from
// collections of embeddable values.
type AssociationKind int

const (
	KindAssociation AssociationKind = iota
	KindEmbeddedCollection
)

func (k AssociationKind) String() string {
	if k == KindEmbeddedCollection {
		return "EMBEDDED_COLLECTION"
	}
	return "ASSOCIATION"
}

// AssociationKey identifies one association collection: the owning entity
// plus the role (the property name on the owner).
type AssociationKey struct {
	owner         EntityKey
	role          string
	table         string
	rowKeyColumns []string
	kind          AssociationKind
	canonical     string
}

// AssociationKeyOption configures optional AssociationKey metadata.
type AssociationKeyOption func(*AssociationKey)

// WithAssociationTable sets the association table name. It defaults to
// "<owner table>_<role>".
func WithAssociationTable(table string) AssociationKeyOption {
	return func(k *AssociationKey) { k.table = table }
}

// WithRowKeyColumns sets the columns identifying one row of the association.
func WithRowKeyColumns(names ...string) AssociationKeyOption {
	return func(k *AssociationKey) { k.rowKeyColumns = append([]string(nil), names...) }
}

// WithKind sets the association kind.
func WithKind(kind AssociationKind) AssociationKeyOption {
	return func(k *AssociationKey) { k.kind = kind }
}

// NewAssociationKey builds an AssociationKey for the given owner and role.
func NewAssociationKey(owner EntityKey, role string, opts ...AssociationKeyOption) (AssociationKey, error) {
	if owner.IsZero() {
		return AssociationKey{}, errors.NewValidationError("owner", "must be an initialised entity key")
	}
	if role == "" {
		return AssociationKey{}, errors.NewValidationError("role", "must not be empty")
	}
	k := AssociationKey{owner: owner, role: role, kind: KindAssociation}
	for _, opt := range opts {
		opt(&k)
	}
	if k.table == "" {
		k.table = owner.Table() + "_" + role
	}
	seen := make(map[string]struct{}, len(k.rowKeyColumns))
	for _, name := range k.rowKeyColumns {
		if _, dup := seen[name]; dup {
			return AssociationKey{}, errors.NewValidationError("rowKeyColumns", fmt.Sprintf("duplicate column %q", name))
		}
		seen[name] = struct{}{}
	}
	k.canonical = keycodec.Join(k.table, role) + string(keycodec.Separator) + owner.String()
	return k, nil
}

// MustAssociationKey is like NewAssociationKey but panics on invalid input.
func MustAssociationKey(owner EntityKey, role string, opts ...AssociationKeyOption) AssociationKey {
	k, err := NewAssociationKey(owner, role, opts...)
	if err != nil {
		panic(err)
	}
	return k
}

// Owner returns the owning entity key.
func (k AssociationKey) Owner() EntityKey { return k.owner }

// Role returns the association role.
func (k AssociationKey) Role() string { return k.role }

// Table returns the association table name.
func (k AssociationKey) Table() string { return k.table }

// RowKeyColumns returns the names of the columns identifying a row.
func (k AssociationKey) RowKeyColumns() []string {
	return append([]string(nil), k.rowKeyColumns...)
}

// Kind returns the association kind.
func (k AssociationKey) Kind() AssociationKind { return k.kind }

// IsZero reports whether k was never initialised.
func (k AssociationKey) IsZero() bool { return k.canonical == "" }

// String returns the canonical encoding, usable as a Go map key.
func (k AssociationKey) String() string { return k.canonical }

// Equal reports structural equality.
func (k AssociationKey) Equal(other AssociationKey) bool { return k.canonical == other.canonical }

// Hash returns a stable FNV-64a hash of the canonical encoding.
func (k AssociationKey) Hash() uint64 { return hashString(k.canonical) }

// RowKeyFor extracts the row key of row using the key's row key columns.
// Without row key columns every column of the row is part of the key.
func (k AssociationKey) RowKeyFor(row *Tuple) (RowKey, error) {
	names := k.rowKeyColumns
	if len(names) == 0 {
		names = row.ColumnNames()
	}
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, Column{Name: name, Value: row.Get(name)})
	}
	return NewRowKey(k.table, cols...)
}

// RowKey identifies one row of an association.
type RowKey struct {
	table     string
	columns   []Column
	canonical string
}

// NewRowKey builds a RowKey.
func NewRowKey(table string, columns ...Column) (RowKey, error) {
	cols, encoded, err := encodeColumns(columns)
	if err != nil {
		return RowKey{}, err
	}
	return RowKey{
		table:     table,
		columns:   cols,
		canonical: keycodec.Escape(table) + string(keycodec.Separator) + encoded,
	}, nil
}

// MustRowKey is like NewRowKey but panics on invalid input.
func MustRowKey(table string, columns ...Column) RowKey {
	k, err := NewRowKey(table, columns...)
	if err != nil {
		panic(err)
	}
	return k
}

// Table returns the association table name.
func (k RowKey) Table() string { return k.table }

// Columns returns a copy of the row key columns.
func (k RowKey) Columns() []Column { return append([]Column(nil), k.columns...) }

// String returns the canonical encoding.
func (k RowKey) String() string { return k.canonical }

// Equal reports structural equality.
func (k RowKey) Equal(other RowKey) bool { return k.canonical == other.canonical }

func encodeColumns(columns []Column) ([]Column, string, error) {
	if len(columns) == 0 {
		return nil, "", errors.NewValidationError("columns", "at least one key column is required")
	}
	names := make([]string, len(columns))
	values := make([]any, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if c.Name == "" {
			return nil, "", errors.NewValidationError("columns", "column name must not be empty")
		}
		if _, dup := seen[c.Name]; dup {
			return nil, "", errors.NewValidationError("columns", fmt.Sprintf("duplicate column %q", c.Name))
		}
		seen[c.Name] = struct{}{}
		if !keycodec.Supported(c.Value) {
			return nil, "", errors.NewValidationError(c.Name, fmt.Sprintf("unsupported key value type %T", c.Value))
		}
		names[i] = c.Name
		values[i] = c.Value
	}
	encoded, err := keycodec.EncodeColumns(names, values)
	if err != nil {
		return nil, "", errors.NewValidationError("columns", err.Error())
	}
	return append([]Column(nil), columns...), encoded, nil
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
