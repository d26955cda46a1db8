/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "sort"

// TupleOperationType is the kind of change recorded for one column.
type TupleOperationType int

const (
	// PutOperation sets a column to a non-nil value.
	PutOperation TupleOperationType = iota
	// PutNullOperation sets a column to null.
	PutNullOperation
	// RemoveOperation removes a column.
	RemoveOperation
)

func (t TupleOperationType) String() string {
	switch t {
	case PutOperation:
		return "PUT"
	case PutNullOperation:
		return "PUT_NULL"
	case RemoveOperation:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// TupleOperation is one column change of a Tuple.
type TupleOperation struct {
	Column string
	Value  any
	Type   TupleOperationType
}

// TupleSnapshot is the immutable state of a tuple as read from the backend.
type TupleSnapshot interface {
	Get(column string) any
	ColumnNames() []string
	IsEmpty() bool
}

// MapSnapshot is a TupleSnapshot backed by a private copy of a map.
type MapSnapshot struct {
	values map[string]any
}

// NewMapSnapshot copies values into a new snapshot.
func NewMapSnapshot(values map[string]any) MapSnapshot {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return MapSnapshot{values: cp}
}

func (s MapSnapshot) Get(column string) any { return s.values[column] }

func (s MapSnapshot) ColumnNames() []string {
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s MapSnapshot) IsEmpty() bool { return len(s.values) == 0 }

// Tuple is the column/value map of one entity instance: an immutable
// snapshot plus an overlay of the changes made during the unit of work.
// Only the overlay is sent to the backend on upsert.
type Tuple struct {
	snapshot TupleSnapshot
	ops      map[string]TupleOperation
	order    []string
}

// NewTuple creates a tuple with an empty snapshot.
func NewTuple() *Tuple {
	return NewTupleFromSnapshot(nil)
}

// NewTupleFromSnapshot creates a tuple over an existing snapshot.
func NewTupleFromSnapshot(snapshot TupleSnapshot) *Tuple {
	if snapshot == nil {
		snapshot = MapSnapshot{}
	}
	return &Tuple{snapshot: snapshot, ops: make(map[string]TupleOperation)}
}

// NewTupleFromMap creates a tuple with an empty snapshot whose overlay puts
// every entry of values, in column name order.
func NewTupleFromMap(values map[string]any) *Tuple {
	t := NewTuple()
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		t.Put(name, values[name])
	}
	return t
}

// Snapshot returns the immutable state the tuple was created from.
func (t *Tuple) Snapshot() TupleSnapshot { return t.snapshot }

// Get returns the current value of column, nil when absent or null.
func (t *Tuple) Get(column string) any {
	if op, ok := t.ops[column]; ok {
		if op.Type == PutOperation {
			return op.Value
		}
		return nil
	}
	return t.snapshot.Get(column)
}

// Contains reports whether column is present, null values included.
func (t *Tuple) Contains(column string) bool {
	if op, ok := t.ops[column]; ok {
		return op.Type != RemoveOperation
	}
	for _, name := range t.snapshot.ColumnNames() {
		if name == column {
			return true
		}
	}
	return false
}

// Put records a column change; a nil value is recorded as PutNull.
func (t *Tuple) Put(column string, value any) {
	if value == nil {
		t.record(TupleOperation{Column: column, Type: PutNullOperation})
		return
	}
	t.record(TupleOperation{Column: column, Value: value, Type: PutOperation})
}

// Remove records the removal of column.
func (t *Tuple) Remove(column string) {
	t.record(TupleOperation{Column: column, Type: RemoveOperation})
}

// Apply replays operations onto the overlay in order.
func (t *Tuple) Apply(ops ...TupleOperation) {
	for _, op := range ops {
		t.record(op)
	}
}

// Merge replays the overlay of other onto t.
func (t *Tuple) Merge(other *Tuple) {
	if other == nil {
		return
	}
	t.Apply(other.Operations()...)
}

func (t *Tuple) record(op TupleOperation) {
	if _, seen := t.ops[op.Column]; !seen {
		t.order = append(t.order, op.Column)
	}
	t.ops[op.Column] = op
}

// Operations returns one operation per touched column, last write wins, in
// the order columns were first touched.
func (t *Tuple) Operations() []TupleOperation {
	ops := make([]TupleOperation, 0, len(t.order))
	for _, name := range t.order {
		ops = append(ops, t.ops[name])
	}
	return ops
}

// HasChanges reports whether the overlay holds any operation.
func (t *Tuple) HasChanges() bool { return len(t.order) > 0 }

// ColumnNames returns the current column names, sorted.
func (t *Tuple) ColumnNames() []string {
	present := make(map[string]struct{})
	for _, name := range t.snapshot.ColumnNames() {
		present[name] = struct{}{}
	}
	for name, op := range t.ops {
		if op.Type == RemoveOperation {
			delete(present, name)
		} else {
			present[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(present))
	for name := range present {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether the tuple has no columns.
func (t *Tuple) IsEmpty() bool { return len(t.ColumnNames()) == 0 }

// ToMap returns the current state as a new map; null columns map to nil.
func (t *Tuple) ToMap() map[string]any {
	names := t.ColumnNames()
	m := make(map[string]any, len(names))
	for _, name := range names {
		m[name] = t.Get(name)
	}
	return m
}

// Clone returns a deep copy of the overlay sharing the immutable snapshot.
func (t *Tuple) Clone() *Tuple {
	c := NewTupleFromSnapshot(t.snapshot)
	c.Apply(t.Operations()...)
	return c
}

// Flatten returns a tuple whose snapshot is the current state of t and whose
// overlay is empty.
func (t *Tuple) Flatten() *Tuple {
	return NewTupleFromSnapshot(NewMapSnapshot(t.ToMap()))
}
