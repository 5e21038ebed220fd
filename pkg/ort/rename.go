// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import "context"

// renameCandidate is one side's half of a potential pure rename: a
// path that disappeared (or appeared) relative to base, paired with
// the version it carried.
type renameCandidate struct {
	path    string
	version Version
	used    bool
}

// detectRenames is the rename detector hook. With DetectRenames off
// it is a no-op: every path's masks and pathnames stand exactly as
// the collector left them. With it on, it runs the "pure rename"
// heuristic: a one-sided delete paired with a one-sided add of the
// same side whose blob is byte-identical to what was deleted. This is intentionally short of true similarity scoring: an
// identical blob satisfies any RenameScore threshold, so only
// RenameLimit has an observable effect, as a cap on pairs considered.
func (c *Context) detectRenames(ctx context.Context) error {
	if !c.opt.DetectRenames {
		return nil
	}
	pairs := 0
	for _, side := range [2]Side{SideOur, SideTheir} {
		deletes := c.sideDeletes(side)
		adds := c.sideAdds(side)
		for _, d := range deletes {
			if c.opt.RenameLimit >= 0 && pairs >= c.opt.RenameLimit {
				return nil
			}
			for _, a := range adds {
				if a.used || !a.version.equal(d.version) {
					continue
				}
				c.applyPureRename(side, d, a)
				a.used = true
				pairs++
				break
			}
		}
	}
	c.detectRenameRename()
	return nil
}

// sideDeletes returns every still-conflicted path where base had a
// file and side has nothing at all.
func (c *Context) sideDeletes(side Side) []*renameCandidate {
	var out []*renameCandidate
	c.table.forEach(func(path string, e *entry) {
		if e.Clean || !e.FileMask.has(SideBase) {
			return
		}
		if (e.FileMask | e.DirMask).has(side) {
			return
		}
		out = append(out, &renameCandidate{path: path, version: e.Stages[SideBase]})
	})
	return out
}

// sideAdds returns every still-conflicted path where base had nothing
// and side added a file.
func (c *Context) sideAdds(side Side) []*renameCandidate {
	var out []*renameCandidate
	c.table.forEach(func(path string, e *entry) {
		if e.Clean || (e.FileMask | e.DirMask).has(SideBase) || !e.FileMask.has(side) {
			return
		}
		out = append(out, &renameCandidate{path: path, version: e.Stages[side]})
	})
	return out
}

// applyPureRename cross-references the moved path in both entries'
// Pathnames, preserving the rule that Pathnames[i] always names an
// interned path, and logs the detected move. It does not alter
// FileMask/MatchMask: the clean resolution for the "rename with the
// other side untouched" case this heuristic targets already falls out
// of the ordinary two-way-match row in the resolver, so the rewrite
// is metadata enrichment for logging and any downstream content-merge
// hook rather than a second resolution path.
func (c *Context) applyPureRename(side Side, d, a *renameCandidate) {
	if de, ok := c.table.get(d.path); ok {
		de.Pathnames[side] = a.path
	}
	if ae, ok := c.table.get(a.path); ok {
		ae.Pathnames[SideBase] = d.path
	}
	c.log.addf(a.path, true, "Auto-merging %s", a.path)
}

// detectRenameRename looks for the same base path renamed to two
// different names, one on each side: a purely informational notice,
// since both renamed-to paths already resolve cleanly as independent
// adds and the renamed-from path resolves cleanly as a delete-on-both.
func (c *Context) detectRenameRename() {
	for _, d := range c.sideDeletes(SideOur) {
		e, ok := c.table.get(d.path)
		if !ok {
			continue
		}
		ourTo, theirTo := e.Pathnames[SideOur], e.Pathnames[SideTheir]
		if ourTo == d.path || theirTo == d.path || ourTo == theirTo {
			// Not renamed on both sides, or renamed to the same place.
			continue
		}
		e.PathConflict = true
		c.log.addf(d.path, false, "CONFLICT (rename/rename): %s renamed to %s in %s and to %s in %s.",
			d.path, ourTo, c.opt.Branch1Label, theirTo, c.opt.Branch2Label)
	}
}
