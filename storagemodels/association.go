/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// AssociationOperationType is the kind of change recorded on an association.
type AssociationOperationType int

const (
	PutRowOperation AssociationOperationType = iota
	RemoveRowOperation
	ClearOperation
)

func (t AssociationOperationType) String() string {
	switch t {
	case PutRowOperation:
		return "PUT"
	case RemoveRowOperation:
		return "REMOVE"
	case ClearOperation:
		return "CLEAR"
	default:
		return "UNKNOWN"
	}
}

// AssociationOperation is one change of an Association.
type AssociationOperation struct {
	Type AssociationOperationType
	Key  RowKey
	Row  *Tuple
}

// AssociationRow is one row of an association with its key.
type AssociationRow struct {
	Key RowKey
	Row *Tuple
}

// Association is the set of rows of one association collection: the rows
// read from the backend plus an ordered overlay of changes.
type Association struct {
	snapshot []AssociationRow
	ops      []AssociationOperation
}

// NewAssociation creates an association over the given snapshot rows.
// Later rows replace earlier rows with an equal key.
func NewAssociation(rows ...AssociationRow) *Association {
	a := &Association{}
	index := make(map[string]int, len(rows))
	for _, r := range rows {
		if i, ok := index[r.Key.String()]; ok {
			a.snapshot[i] = r
			continue
		}
		index[r.Key.String()] = len(a.snapshot)
		a.snapshot = append(a.snapshot, r)
	}
	return a
}

// Put adds or replaces the row with the given key.
func (a *Association) Put(key RowKey, row *Tuple) {
	a.ops = append(a.ops, AssociationOperation{Type: PutRowOperation, Key: key, Row: row})
}

// Remove removes the row with the given key.
func (a *Association) Remove(key RowKey) {
	a.ops = append(a.ops, AssociationOperation{Type: RemoveRowOperation, Key: key})
}

// Clear removes every row.
func (a *Association) Clear() {
	a.ops = append(a.ops, AssociationOperation{Type: ClearOperation})
}

// Operations returns the overlay in program order.
func (a *Association) Operations() []AssociationOperation {
	return append([]AssociationOperation(nil), a.ops...)
}

// Apply replays operations onto the overlay.
func (a *Association) Apply(ops ...AssociationOperation) {
	a.ops = append(a.ops, ops...)
}

// HasChanges reports whether the overlay holds any operation.
func (a *Association) HasChanges() bool { return len(a.ops) > 0 }

// Rows returns the current rows: snapshot order first, then rows added by
// the overlay in insertion order.
func (a *Association) Rows() []AssociationRow {
	rows := append([]AssociationRow(nil), a.snapshot...)
	index := make(map[string]int, len(rows))
	for i, r := range rows {
		index[r.Key.String()] = i
	}
	for _, op := range a.ops {
		switch op.Type {
		case ClearOperation:
			rows = rows[:0]
			index = make(map[string]int)
		case PutRowOperation:
			if i, ok := index[op.Key.String()]; ok {
				rows[i] = AssociationRow{Key: op.Key, Row: op.Row}
				continue
			}
			index[op.Key.String()] = len(rows)
			rows = append(rows, AssociationRow{Key: op.Key, Row: op.Row})
		case RemoveRowOperation:
			i, ok := index[op.Key.String()]
			if !ok {
				continue
			}
			rows = append(rows[:i], rows[i+1:]...)
			index = make(map[string]int, len(rows))
			for j, r := range rows {
				index[r.Key.String()] = j
			}
		}
	}
	return rows
}

// Get returns the current row with the given key, nil when absent.
func (a *Association) Get(key RowKey) *Tuple {
	for _, r := range a.Rows() {
		if r.Key.Equal(key) {
			return r.Row
		}
	}
	return nil
}

// Keys returns the keys of the current rows.
func (a *Association) Keys() []RowKey {
	rows := a.Rows()
	keys := make([]RowKey, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys
}

// Size returns the number of current rows.
func (a *Association) Size() int { return len(a.Rows()) }

// IsEmpty reports whether the association has no rows.
func (a *Association) IsEmpty() bool { return a.Size() == 0 }

// RowMaps returns the current rows as column maps, in row order.
func (a *Association) RowMaps() []map[string]any {
	rows := a.Rows()
	maps := make([]map[string]any, len(rows))
	for i, r := range rows {
		if r.Row == nil {
			maps[i] = map[string]any{}
			continue
		}
		maps[i] = r.Row.ToMap()
	}
	return maps
}

// Flatten returns an association whose snapshot is the current state of a.
func (a *Association) Flatten() *Association {
	return NewAssociation(a.Rows()...)
}

// CopyRows returns rows whose tuples are flattened copies of the given ones,
// so that changes made through the result never reach the originals.
func CopyRows(rows []AssociationRow) []AssociationRow {
	out := make([]AssociationRow, len(rows))
	for i, r := range rows {
		out[i] = AssociationRow{Key: r.Key}
		if r.Row != nil {
			out[i].Row = r.Row.Flatten()
		}
	}
	return out
}
