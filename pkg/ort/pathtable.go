// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
)

// Version is a (mode, oid) pair: the content identity of a path on one
// side of a merge. A zero Mode means the path does not exist on that
// side.
type Version struct {
	OID  plumbing.Hash
	Mode filemode.FileMode
}

func (v Version) isNull() bool {
	return v.Mode == filemode.Empty
}

func (v Version) isDir() bool {
	return v.Mode == filemode.Dir
}

func (v Version) typeBits() filemode.FileMode {
	return v.Mode.TypeBits()
}

func (v Version) equal(o Version) bool {
	return v.Mode == o.Mode && v.OID == o.OID
}

// entry is the value stored in the path table for a single path. It is
// a tagged union in spirit: while Clean is false the Stages/Pathnames/
// masks are meaningful; once Clean flips true they must not be read
// again, and markClean is the only way to flip the tag.
type entry struct {
	// Result is the resolved (mode, oid) for this path once the
	// resolver has run.
	Result Version
	// IsNull means "omit this path from the written tree".
	IsNull bool
	Clean  bool

	// basename and dir are cached for the writer's directory
	// accumulator.
	basename string
	dir      string

	// Conflict-only fields. Valid only while Clean == false.
	Stages       [3]Version
	Pathnames    [3]string
	DFConflict   bool
	PathConflict bool
	FileMask     Mask
	DirMask      Mask
	MatchMask    Mask
}

// markClean downgrades a Conflicted entry to a pure Merged view. After
// this call the conflict-only fields must not be consulted.
func (e *entry) markClean(result Version, isNull bool) {
	e.Result = result
	e.IsNull = isNull
	e.Clean = true
}

// pathTable is the interned path -> entry map. Go string keys already
// give value-equality interning for free, and the garbage collector
// keeps a string referenced by entry.Pathnames[i] alive regardless of
// map membership, so no deferred-free bookkeeping is needed.
type pathTable struct {
	m map[string]*entry
	// order preserves insertion order for deterministic iteration
	// before the writer imposes its own D/F-aware sort.
	order []string
}

func newPathTable() *pathTable {
	return &pathTable{m: make(map[string]*entry, 64)}
}

// insert interns path and stores e, returning the now-canonical path
// string (always == path by value; callers may drop their own copy).
func (t *pathTable) insert(path string, e *entry) string {
	if _, exists := t.m[path]; !exists {
		t.order = append(t.order, path)
	}
	t.m[path] = e
	return path
}

func (t *pathTable) get(path string) (*entry, bool) {
	e, ok := t.m[path]
	return e, ok
}

func (t *pathTable) forEach(fn func(path string, e *entry)) {
	for _, p := range t.order {
		if e, ok := t.m[p]; ok {
			fn(p, e)
		}
	}
}

func (t *pathTable) len() int {
	return len(t.m)
}

// isConflicted encapsulates the entry tag check.
func isConflicted(e *entry) bool {
	return !e.Clean
}
