// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"sort"

	"github.com/antgroup/treemerge/modules/plumbing/format/index"
)

// reconcileIndex rewrites the staging index after a checkout of the
// merge result. The checkout left idx describing result.Tree with a
// stage-0 entry per path; for every path that is still conflicted
// this replaces that entry with one entry per surviving stage, so the
// index reports the merge state a resolver UI expects.
//
// Appended entries land unsorted past the original tail; a single
// sort at the end restores the index invariants. Lookups during the
// loop are therefore bounded to the original length, which is the
// still-sorted prefix.
func (c *Context) reconcileIndex(idx *index.Index) {
	paths := make([]string, 0, len(c.conflicted))
	for p := range c.conflicted {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	originalLen := len(idx.Entries)
	removal := make(map[int]bool)
	for _, path := range paths {
		e, ok := c.table.get(path)
		if !ok || e.Clean {
			abortInternal("index reconciler: conflicted set names %q but the path table disagrees", path)
		}
		pos := idx.Find(path, originalLen)
		if pos >= 0 {
			removal[pos] = true
		} else {
			// Nothing checked out at this path: only a both-sides
			// deletion can leave a conflicted path with no stage-0
			// entry. Any cached subtree covering it is stale now.
			if e.FileMask != maskBase {
				abortInternal("index reconciler: no stage-0 entry for %q (filemask=%d)", path, e.FileMask)
			}
			if idx.Cache != nil {
				idx.Cache.Invalidate(path)
			}
		}
		for i := SideBase; i <= SideTheir; i++ {
			if !e.FileMask.has(i) {
				continue
			}
			idx.Entries = append(idx.Entries, &index.Entry{
				Name:  e.Pathnames[i],
				Stage: index.Stage(i + 1),
				Hash:  e.Stages[i].OID,
				Mode:  e.Stages[i].Mode,
			})
		}
	}
	if len(removal) > 0 {
		kept := idx.Entries[:0]
		for i, entry := range idx.Entries {
			if !removal[i] {
				kept = append(kept, entry)
			}
		}
		idx.Entries = kept
	}
	idx.SortEntries()
	// TODO: stage>0 entries whose stage-0 predecessor was marked
	// skip-worktree still need their file written out; that pass
	// belongs to the worktree updater once it learns about sparse
	// checkouts.
}
