// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"context"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/strengthen"
)

// collect walks base,
// side1 and side2 in lockstep, in sorted name order, populating the
// path table with one entry per visited name; dirPath is the already
// visited parent directory ("" at the root).
func (c *Context) collect(ctx context.Context, dirPath string, trees [3]plumbing.Hash) error {
	var lists [3][]TreeRecord
	for i, h := range trees {
		if h.IsZero() {
			continue
		}
		recs, err := c.opt.Store.ParseTree(ctx, h)
		if err != nil {
			return newHardError("parse-tree", err)
		}
		lists[i] = recs
	}
	var idx [3]int
	for {
		name, found := "", false
		for i := 0; i < 3; i++ {
			if idx[i] >= len(lists[i]) {
				continue
			}
			n := lists[i][idx[i]].Name
			if !found || n < name {
				name, found = n, true
			}
		}
		if !found {
			return nil
		}
		var versions [3]Version
		var sideMask Mask
		for i := 0; i < 3; i++ {
			if idx[i] >= len(lists[i]) || lists[i][idx[i]].Name != name {
				continue
			}
			rec := lists[i][idx[i]]
			versions[i] = Version{OID: rec.OID, Mode: rec.Mode}
			sideMask = sideMask.set(Side(i))
			idx[i]++
		}
		if err := c.visit(ctx, dirPath, name, versions, sideMask); err != nil {
			return err
		}
	}
}

// visit handles a single visited name: it classifies the three
// versions, records a path table entry, and recurses into any
// directory side unless the name was clean on all three sides.
func (c *Context) visit(ctx context.Context, dirPath, name string, versions [3]Version, sideMask Mask) error {
	path := name
	if dirPath != "" {
		path = strengthen.StrCat(dirPath, "/", name)
	}

	var fileMask, dirMask Mask
	for i := 0; i < 3; i++ {
		if !sideMask.has(Side(i)) {
			continue
		}
		if versions[i].isDir() {
			dirMask = dirMask.set(Side(i))
		} else {
			fileMask = fileMask.set(Side(i))
		}
	}

	base, our, their := versions[SideBase], versions[SideOur], versions[SideTheir]
	side1MatchesBase := our.equal(base)
	side2MatchesBase := their.equal(base)
	sidesMatch := our.equal(their)

	var matchMask Mask
	switch {
	case side1MatchesBase && side2MatchesBase:
		matchMask = maskAll
	case side1MatchesBase:
		matchMask = maskBase | maskOur
	case side2MatchesBase:
		matchMask = maskBase | maskTheir
	case sidesMatch:
		matchMask = maskOur | maskTheir
	}

	if matchMask == maskAll {
		// Identical on all three sides: emit a Merged entry and do not
		// recurse, even if it is a directory: the whole subtree is
		// untouched.
		c.table.insert(path, &entry{
			Result:   base,
			IsNull:   base.isNull(),
			Clean:    true,
			basename: name,
			dir:      dirPath,
		})
		return nil
	}

	e := &entry{
		basename:   name,
		dir:        dirPath,
		Stages:     [3]Version{base, our, their},
		Pathnames:  [3]string{path, path, path},
		FileMask:   fileMask,
		DirMask:    dirMask,
		MatchMask:  matchMask,
		DFConflict: fileMask != 0 && dirMask != 0,
		// Tentative: a pure directory entry's IsNull/Result are fixed
		// up by the tree writer when its subtree closes.
		IsNull: dirMask != 0,
	}
	c.table.insert(path, e)

	if dirMask != 0 {
		var childTrees [3]plumbing.Hash
		for i := 0; i < 3; i++ {
			if versions[i].isDir() {
				childTrees[i] = versions[i].OID
			}
		}
		if err := c.collect(ctx, path, childTrees); err != nil {
			return err
		}
	}
	return nil
}
