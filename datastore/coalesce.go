/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import "github.com/suparena/gridstore/storagemodels"

// Coalesce merges the tuple operations of each entity key into the position
// of the last operation on that key, keeping the net effect of ops:
//
//   - a sequence ending in a remove becomes one remove
//   - a remove followed by writes becomes the remove plus one merged insert
//   - writes only become one merged write, an insert when the first was one
//
// Keys that own a queued association operation and all association
// operations are left as they are. The input slice is not modified.
func Coalesce(ops []Operation) []Operation {
	pinned := make(map[string]struct{})
	for _, op := range ops {
		if op.IsAssociation() {
			pinned[op.AssociationKey.Owner().String()] = struct{}{}
		}
	}

	groups := make(map[string][]int)
	for i, op := range ops {
		if op.IsAssociation() {
			continue
		}
		k := op.EntityKey.String()
		if _, ok := pinned[k]; ok {
			continue
		}
		groups[k] = append(groups[k], i)
	}

	// replacement operations keyed by the index of the last operation of
	// their group; every other index of a merged group is dropped
	merged := make(map[int][]Operation)
	dropped := make(map[int]struct{})
	for _, idx := range groups {
		if len(idx) < 2 {
			continue
		}
		last := idx[len(idx)-1]
		group := make([]Operation, len(idx))
		for i, j := range idx {
			group[i] = ops[j]
			if j != last {
				dropped[j] = struct{}{}
			}
		}
		merged[last] = mergeTupleOperations(group)
	}

	out := make([]Operation, 0, len(ops))
	for i, op := range ops {
		if _, ok := dropped[i]; ok {
			continue
		}
		if repl, ok := merged[i]; ok {
			out = append(out, repl...)
			continue
		}
		out = append(out, op)
	}
	return out
}

func mergeTupleOperations(group []Operation) []Operation {
	last := group[len(group)-1]
	if last.Kind == OpRemoveTuple {
		return []Operation{RemoveTuple(last.EntityKey)}
	}

	removedAt := -1
	for i, op := range group {
		if op.Kind == OpRemoveTuple {
			removedAt = i
		}
	}
	writes := group[removedAt+1:]

	var tuple *storagemodels.Tuple
	if removedAt < 0 && writes[0].Tuple != nil {
		tuple = storagemodels.NewTupleFromSnapshot(writes[0].Tuple.Snapshot())
	} else {
		tuple = storagemodels.NewTuple()
	}
	for _, w := range writes {
		tuple.Merge(w.Tuple)
	}

	if removedAt >= 0 {
		return []Operation{RemoveTuple(last.EntityKey), InsertTuple(last.EntityKey, tuple)}
	}
	if writes[0].Kind == OpInsertTuple {
		return []Operation{InsertTuple(last.EntityKey, tuple)}
	}
	return []Operation{UpdateTuple(last.EntityKey, tuple)}
}
