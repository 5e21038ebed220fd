// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package index implements the on-disk staging index: the flat,
// path-sorted table of entries that sits between the object store and
// the working copy. A path that is cleanly resolved carries a single
// stage-0 entry; a path still in conflict after a merge carries one
// entry per side that touched it, at stages 1 (base), 2 (ours) and 3
// (theirs).
package index

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
)

// EncodeVersionSupported is the index format version this package
// writes; Decode accepts it and any lower version.
const EncodeVersionSupported = 4

// Stage identifies which side of a conflict an entry records. Stage 0
// means the path is resolved; stages 1-3 coexist for a single path
// while it remains conflicted.
type Stage int8

const (
	// Merged is the stage of a path with no outstanding conflict.
	Merged Stage = 0
	// AncestorMode is the common-ancestor copy of a conflicted path.
	AncestorMode Stage = 1
	// OurMode is our side's copy of a conflicted path.
	OurMode Stage = 2
	// TheirMode is their side's copy of a conflicted path.
	TheirMode Stage = 3
)

func (s Stage) String() string {
	switch s {
	case Merged:
		return "merged"
	case AncestorMode:
		return "base"
	case OurMode:
		return "ours"
	case TheirMode:
		return "theirs"
	default:
		return fmt.Sprintf("stage(%d)", int8(s))
	}
}

// Entry is a single row of the index: the cached stat data used to
// short-circuit a worktree rescan, plus the blob identity and mode
// recorded at a given stage for a path.
type Entry struct {
	CreatedAt    time.Time
	ModifiedAt   time.Time
	Dev          uint32
	Inode        uint32
	UID          uint32
	GID          uint32
	Size         int64
	Stage        Stage
	Hash         plumbing.Hash
	Name         string
	Mode         filemode.FileMode
	SkipWorktree bool
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s %s %s", e.Mode, e.Hash, e.Name)
}

// TreeEntry is one row of the cache-tree extension: a precomputed
// subtree oid keyed by its path prefix and the count of index entries
// it covers, so a clean write can skip re-hashing untouched subtrees.
type TreeEntry struct {
	Path    string
	Entries int
	Trees   int
	Hash    plumbing.Hash
}

// Tree is the cache-tree extension: a flattened pre-order walk of
// TreeEntry records.
type Tree struct {
	Entries []TreeEntry
}

// Invalidate drops every cached subtree that covers path: the subtree
// containing it and each of its ancestors up to the root. The next
// write-tree over the index recomputes them.
func (t *Tree) Invalidate(path string) {
	kept := t.Entries[:0]
	for _, te := range t.Entries {
		if covers(te.Path, path) {
			continue
		}
		kept = append(kept, te)
	}
	t.Entries = kept
}

func covers(prefix, p string) bool {
	if prefix == "" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// Index is the in-memory form of the staging area.
type Index struct {
	Version int
	Entries []*Entry
	Cache   *Tree
}

// cacheNameCompare orders entries the way the on-disk index is kept
// sorted: by name, then by stage, matching the bytewise comparator the
// encoder/decoder round-trips against.
func cacheNameCompare(a, b *Entry) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Stage < b.Stage
}

// SortEntries restores index invariants after an out-of-order append.
func (idx *Index) SortEntries() {
	sort.SliceStable(idx.Entries, func(i, j int) bool {
		return cacheNameCompare(idx.Entries[i], idx.Entries[j])
	})
}

// Find returns the position of the first entry named name within the
// first n entries of the index, or -1. It assumes that prefix is
// sorted, which holds for the original on-disk entries before any
// conflict-stage entries are appended past the end.
func (idx *Index) Find(name string, n int) int {
	entries := idx.Entries[:n]
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Name >= name
	})
	if i < len(entries) && entries[i].Name == name {
		return i
	}
	return -1
}

// Glob returns the entries whose name matches pattern. A pattern
// ending in "/" matches every entry under that directory; otherwise
// the pattern is matched with path.Match against the whole name
// (which, like a single path segment, does not cross "/").
func (idx *Index) Glob(pattern string) ([]*Entry, error) {
	if strings.HasSuffix(pattern, "/") {
		var out []*Entry
		for _, e := range idx.Entries {
			if strings.HasPrefix(e.Name, pattern) {
				out = append(out, e)
			}
		}
		return out, nil
	}
	var out []*Entry
	for _, e := range idx.Entries {
		ok, err := path.Match(pattern, e.Name)
		if err != nil {
			return nil, err
		}
		if ok || e.Name == pattern {
			out = append(out, e)
		}
	}
	return out, nil
}
