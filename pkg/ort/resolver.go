// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import "context"

// resolve classifies one path's outcome. It is called by the tree writer
// for every still-conflicted entry, in reverse D/F-aware order, after
// any subtree below path has already been closed. It decides whether
// the entry is clean or stays conflicted, fills in e.Result, and
// records still-conflicted paths in the conflicted set.
//
// Resolution never fails: conflicts are data, not errors.
func (w *treeWriter) resolve(path string, e *entry) {
	c := w.c
	fileMask, dirMask, matchMask := e.FileMask, e.DirMask, e.MatchMask

	switch {
	case fileMask == 0:
		// Directory on every side that has the path. The subtree was
		// assembled when its frame closed; Result and IsNull already
		// hold the written oid (or the became-empty marker), so there
		// is nothing left to decide.
		e.markClean(e.Result, e.IsNull)
		return

	case dirMask != 0:
		// Directory/file conflict. Resolution beyond flagging is a
		// reserved hook: keep the file content (side 1's copy when it
		// has one) and stay conflicted. The directory side's subtree
		// was still written out and remains reachable through the
		// conflict stages.
		fileSide := SideOur
		if !fileMask.has(SideOur) {
			if fileMask.has(SideTheir) {
				fileSide = SideTheir
			} else {
				fileSide = SideBase
			}
		}
		e.Result = e.Stages[fileSide]
		e.IsNull = false
		c.log.addf(path, false, "CONFLICT (file/directory): directory in the way of %s from %s.",
			path, c.opt.branchLabel(fileSide))
		c.markConflicted(path)
		return

	case matchMask == maskOur|maskTheir:
		// Both sides made the same change.
		e.markClean(e.Stages[SideOur], e.Stages[SideOur].isNull())
		return

	case matchMask == maskBase|maskOur:
		// Side 1 left it alone; side 2's change wins.
		e.markClean(e.Stages[SideTheir], e.Stages[SideTheir].isNull())
		return

	case matchMask == maskBase|maskTheir:
		e.markClean(e.Stages[SideOur], e.Stages[SideOur].isNull())
		return

	case fileMask == maskBase|maskOur || fileMask == maskBase|maskTheir:
		c.resolveModifyDelete(path, e)
		return

	case fileMask == maskOur || fileMask == maskTheir:
		// Added on one side only, with no entry at all anywhere else
		// (a D/F collision would have been caught above).
		side := SideOur
		if fileMask == maskTheir {
			side = SideTheir
		}
		e.markClean(e.Stages[side], false)
		return

	case fileMask == maskBase:
		// Deleted on both sides.
		e.markClean(Version{}, true)
		return

	case e.Stages[SideOur].typeBits() != e.Stages[SideTheir].typeBits():
		// Both sides have the path as a file but disagree about what
		// kind of file it is. Resolving that (file vs symlink vs
		// submodule) is a reserved hook; keep side 1's copy.
		e.Result = e.Stages[SideOur]
		e.IsNull = false
		c.log.addf(path, false, "CONFLICT (distinct types): %s had different types on each side; kept %s version.",
			path, c.opt.Branch1Label)
		c.markConflicted(path)
		return

	default:
		c.resolveBothModified(w.ctx, path, e)
	}
}

// resolveModifyDelete handles a path one side modified and the other
// deleted. At the top-level call the modified content is kept; while
// reducing merge bases to a virtual ancestor the base content is kept
// instead, so an inner disagreement never leaks one head's change into
// the synthesized ancestor.
func (c *Context) resolveModifyDelete(path string, e *entry) {
	modSide, delSide := SideOur, SideTheir
	if !e.FileMask.has(SideOur) {
		modSide, delSide = SideTheir, SideOur
	}
	kept := e.Stages[modSide]
	keptLabel := c.opt.branchLabel(modSide)
	if c.callDepth > 0 {
		kept = e.Stages[SideBase]
		keptLabel = c.opt.Ancestor
	}
	e.Result = kept
	e.IsNull = kept.isNull()
	c.log.addf(path, false,
		"CONFLICT (modify/delete): %s deleted in %s and modified in %s. Version %s of %s left in tree.",
		path, c.opt.branchLabel(delSide), c.opt.branchLabel(modSide), keptLabel, path)
	c.markConflicted(path)
}

// resolveBothModified handles the remaining case: the path is a file
// on both sides, of the same type, with content that differs from the
// base (or the base never had it). The actual text merge is the
// caller's hook; without one the entry stays conflicted carrying side
// 1's content, the degraded mode the engine promises.
func (c *Context) resolveBothModified(ctx context.Context, path string, e *entry) {
	conflictKey := "CONFLICT (content): Merge conflict in %s"
	if e.Stages[SideBase].isNull() {
		conflictKey = "CONFLICT (add/add): Merge conflict in %s"
	}

	switch c.opt.RecursiveVariant {
	case VariantOurs:
		e.markClean(e.Stages[SideOur], false)
		return
	case VariantTheirs:
		e.markClean(e.Stages[SideTheir], false)
		return
	}

	if c.opt.ContentMerger != nil {
		merged, clean, err := c.opt.ContentMerger.MergeContent(
			ctx, e.Stages[SideBase], e.Stages[SideOur], e.Stages[SideTheir], e.Pathnames)
		if err == nil {
			if clean {
				if c.opt.Verbosity > 0 {
					c.log.addf(path, true, "Auto-merging %s", path)
				}
				e.markClean(merged, false)
				return
			}
			e.Result = merged
			e.IsNull = false
			c.log.addf(path, false, conflictKey, path)
			c.markConflicted(path)
			return
		}
		// A failing hook is not allowed to fail the merge; fall
		// through to the degraded resolution.
		c.log.addf(path, true, "error: failed to merge %s: %v", path, err)
	}

	e.Result = e.Stages[SideOur]
	e.IsNull = false
	c.log.addf(path, false, conflictKey, path)
	c.markConflicted(path)
}

func (c *Context) markConflicted(path string) {
	c.conflicted[path] = struct{}{}
}
