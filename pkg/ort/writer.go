// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"context"
	"sort"
	"strings"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
)

// sortIsDir reports whether e should be treated as a directory for
// ordering purposes: a directory-only or directory/file-conflict entry
// nests its recursed children below it and must sort as if it carried
// a trailing slash, even while still conflicted.
func (e *entry) sortIsDir() bool {
	if !e.Clean {
		return e.DirMask != 0
	}
	return e.Result.Mode == filemode.Dir
}

// sortKey is the D/F-aware comparator key: a directory sorts as
// if its name carried a trailing slash, so "foo" (directory) sorts
// immediately before "foo/bar" and after siblings such as "foo.txt"
// whose next byte sorts below '/'.
func sortKey(name string, isDir bool) string {
	if isDir {
		return name + "/"
	}
	return name
}

// writerSlot is one pending child of the directory currently being
// accumulated.
type writerSlot struct {
	name string
	mode filemode.FileMode
	oid  plumbing.Hash
}

// dirFrame is one open directory on the accumulator stack: path is the
// directory's own path ("" for the root) and start is the index into
// versions where its children begin.
type dirFrame struct {
	path  string
	start int
}

// treeWriter is the bottom-up tree writer: it walks the path table in
// reverse D/F-aware order, resolves each still-conflicted entry it
// meets, and assembles subtrees as it leaves each directory.
type treeWriter struct {
	ctx      context.Context
	c        *Context
	offsets  []dirFrame
	versions []writerSlot
	rootOID  plumbing.Hash
}

func isAncestorDir(anc, dir string) bool {
	if anc == "" {
		return true
	}
	return dir == anc || strings.HasPrefix(dir, anc+"/")
}

// closeDirectory pops and materializes every open directory up to and
// including the point where newDir becomes (or already is) the
// innermost open directory, pushing a fresh frame if newDir descends
// further than anything currently open.
func (w *treeWriter) closeDirectory(newDir string) error {
	for {
		top := w.offsets[len(w.offsets)-1]
		if newDir == top.path {
			return nil
		}
		if isAncestorDir(top.path, newDir) {
			w.offsets = append(w.offsets, dirFrame{path: newDir, start: len(w.versions)})
			return nil
		}
		if err := w.closeTop(); err != nil {
			return err
		}
	}
}

// closeTop pops the innermost open directory and writes its subtree
// (or marks it empty), storing the result on its path table entry,
// or, for the root frame, into w's final result.
func (w *treeWriter) closeTop() error {
	n := len(w.offsets)
	frame := w.offsets[n-1]
	w.offsets = w.offsets[:n-1]
	off := frame.start

	var dirEntry *entry
	if frame.path != "" {
		e, ok := w.c.table.get(frame.path)
		if !ok {
			abortInternal("tree writer: no path table entry for open directory %q", frame.path)
		}
		dirEntry = e
	}

	if len(w.versions) == off {
		if dirEntry != nil {
			dirEntry.IsNull = true
		} else {
			w.versions = w.versions[:off]
			w.rootOID = w.c.opt.Store.HashAlgo().EmptyTreeOID
		}
		w.versions = w.versions[:off]
		return nil
	}

	slice := append([]writerSlot(nil), w.versions[off:]...)
	sort.Slice(slice, func(i, j int) bool {
		ki, kj := sortKey(slice[i].name, slice[i].mode == filemode.Dir), sortKey(slice[j].name, slice[j].mode == filemode.Dir)
		if ki != kj {
			return ki < kj
		}
		return slice[i].mode < slice[j].mode
	})
	records := make([]TreeRecord, len(slice))
	for i, s := range slice {
		records[i] = TreeRecord{Mode: s.mode, OID: s.oid, Name: s.name}
	}
	oid, err := w.c.opt.Store.WriteTree(w.ctx, records)
	if err != nil {
		return newHardError("write-tree", err)
	}
	if dirEntry != nil {
		dirEntry.Result = Version{Mode: filemode.Dir, OID: oid}
		dirEntry.IsNull = false
	} else {
		w.rootOID = oid
	}
	w.versions = w.versions[:off]
	return nil
}

// write drives tree assembly end to end: sort, reverse-walk, resolve,
// emit.
func (c *Context) write(ctx context.Context) (plumbing.Hash, error) {
	type item struct {
		path string
		e    *entry
	}
	items := make([]item, 0, c.table.len())
	c.table.forEach(func(path string, e *entry) {
		items = append(items, item{path: path, e: e})
	})
	sort.Slice(items, func(i, j int) bool {
		ki := sortKey(items[i].path, items[i].e.sortIsDir())
		kj := sortKey(items[j].path, items[j].e.sortIsDir())
		if ki != kj {
			return ki < kj
		}
		return len(items[i].path) < len(items[j].path)
	})

	w := &treeWriter{ctx: ctx, c: c, offsets: []dirFrame{{path: "", start: 0}}}
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if err := w.closeDirectory(it.e.dir); err != nil {
			return plumbing.ZeroHash, err
		}
		if isConflicted(it.e) {
			w.resolve(it.path, it.e)
		}
		if it.e.IsNull {
			continue
		}
		w.versions = append(w.versions, writerSlot{name: it.e.basename, mode: it.e.Result.Mode, oid: it.e.Result.OID})
	}
	for len(w.offsets) > 1 {
		if err := w.closeTop(); err != nil {
			return plumbing.ZeroHash, err
		}
	}
	if len(w.offsets) != 1 || w.offsets[0].start != 0 || w.offsets[0].path != "" {
		abortInternal("tree writer: accounting mismatch at root, offsets=%v", w.offsets)
	}
	if err := w.closeTop(); err != nil {
		return plumbing.ZeroHash, err
	}
	return w.rootOID, nil
}
