// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
	"github.com/antgroup/treemerge/modules/streamio"
	"github.com/antgroup/treemerge/modules/strengthen"
)

const (
	maxTreeDepth      = 1024
	startingStackSize = 8
)

var (
	ErrMaxTreeDepth = errors.New("maximum tree depth exceeded")
)

type ErrDirectoryNotFound struct {
	dir string
}

func (e *ErrDirectoryNotFound) Error() string {
	return fmt.Sprintf("dir '%s' not found", e.dir)
}

func IsErrDirectoryNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ErrDirectoryNotFound)
	return ok
}

type ErrEntryNotFound struct {
	entry string
}

func (e *ErrEntryNotFound) Error() string {
	return fmt.Sprintf("entry '%s' not found", e.entry)
}

func IsErrEntryNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ErrEntryNotFound)
	return ok
}

// TreeEntry is one record of a tree object: the basename, mode and oid
// of a blob or subtree.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash plumbing.Hash
}

func (e *TreeEntry) Clone() *TreeEntry {
	n := *e
	return &n
}

func (e *TreeEntry) Equal(other *TreeEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Name == other.Name && e.Mode == other.Mode && e.Hash == other.Hash
}

func (e *TreeEntry) Type() ObjectType {
	switch e.Mode.TypeBits() {
	case filemode.Dir:
		return TreeObject
	case filemode.Submodule:
		return CommitObject
	case filemode.Empty:
		return InvalidObject
	default:
		return BlobObject
	}
}

func (e *TreeEntry) IsDir() bool {
	return e.Mode == filemode.Dir
}

func (e *TreeEntry) IsRegular() bool {
	return e.Mode.IsRegular()
}

func (e *TreeEntry) IsLink() bool {
	return e.Mode == filemode.Symlink
}

// SubtreeOrder sorts tree entries in base-name order: a directory
// compares as if its name carried a trailing slash, and entries whose
// names tie are ordered by mode, so serialization is fully
// deterministic.
type SubtreeOrder []*TreeEntry

func (s SubtreeOrder) Len() int      { return len(s) }
func (s SubtreeOrder) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s SubtreeOrder) Less(i, j int) bool {
	a, b := s.Name(i), s.Name(j)
	if a != b {
		return a < b
	}
	return s[i].Mode < s[j].Mode
}

func (s SubtreeOrder) Name(i int) string {
	e := s[i]
	if e.IsDir() {
		return strengthen.StrCat(e.Name, "/")
	}
	return e.Name
}

// Tree is the in-memory form of a tree object. Entries hold the
// direct children; the optional backend lets lookups descend into
// subtrees lazily.
type Tree struct {
	Hash    plumbing.Hash
	Entries []*TreeEntry

	b Backend
	m map[string]*TreeEntry
}

func NewTree(b Backend, entries []*TreeEntry) *Tree {
	t := &Tree{Entries: entries, b: b}
	t.Sort()
	return t
}

// Sort restores base-name order after out-of-order appends.
func (t *Tree) Sort() {
	sort.Sort(SubtreeOrder(t.Entries))
}

func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Entries) != len(other.Entries) {
		return false
	}
	for i, e := range t.Entries {
		if !e.Equal(other.Entries[i]) {
			return false
		}
	}
	return true
}

// Entry looks up a direct child by basename.
func (t *Tree) Entry(name string) (*TreeEntry, error) {
	if t.m == nil {
		t.m = make(map[string]*TreeEntry, len(t.Entries))
		for _, e := range t.Entries {
			t.m[e.Name] = e
		}
	}
	if e, ok := t.m[name]; ok {
		return e, nil
	}
	return nil, &ErrEntryNotFound{entry: name}
}

// FindEntry resolves a slash-separated path relative to t, loading
// intermediate subtrees through the backend.
func (t *Tree) FindEntry(ctx context.Context, relativePath string) (*TreeEntry, error) {
	parts := strings.Split(relativePath, "/")
	current := t
	for _, dir := range parts[:len(parts)-1] {
		var err error
		if current, err = current.dir(ctx, dir); err != nil {
			return nil, err
		}
	}
	return current.Entry(parts[len(parts)-1])
}

// Tree resolves the subtree at a slash-separated path relative to t.
func (t *Tree) Tree(ctx context.Context, relativePath string) (*Tree, error) {
	current := t
	for _, dir := range strings.Split(relativePath, "/") {
		var err error
		if current, err = current.dir(ctx, dir); err != nil {
			return nil, &ErrDirectoryNotFound{dir: relativePath}
		}
	}
	return current, nil
}

func (t *Tree) dir(ctx context.Context, baseName string) (*Tree, error) {
	entry, err := t.Entry(baseName)
	if err != nil || !entry.IsDir() {
		return nil, &ErrDirectoryNotFound{dir: baseName}
	}
	return resolveTree(ctx, t.b, entry.Hash)
}

// Encode serializes t in the canonical tree format: per entry the
// octal mode with no leading zero, a space, the raw basename, a NUL,
// and the raw oid bytes. Entries must already be in SubtreeOrder.
func (t *Tree) Encode(w io.Writer) error {
	for _, entry := range t.Entries {
		if entry.Mode == filemode.Empty {
			return fmt.Errorf("tree entry '%s' has empty mode", entry.Name)
		}
		if _, err := fmt.Fprintf(w, "%o %s", uint32(entry.Mode), entry.Name); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0x00}); err != nil {
			return err
		}
		if _, err := w.Write(entry.Hash[:]); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses the canonical tree format from reader. The caller
// supplies the oid the bytes were addressed by.
func (t *Tree) Decode(oid plumbing.Hash, reader io.Reader) error {
	r := streamio.GetBufioReader(reader)
	defer streamio.PutBufioReader(r)

	t.Hash = oid
	t.Entries = nil
	t.m = nil
	for {
		str, err := r.ReadString(' ')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		mode, err := filemode.New(str[:len(str)-1])
		if err != nil {
			return err
		}
		name, err := r.ReadString(0x00)
		if err != nil {
			return err
		}
		var hash plumbing.Hash
		if _, err := io.ReadFull(r, hash[:]); err != nil {
			return err
		}
		t.Entries = append(t.Entries, &TreeEntry{
			Name: name[:len(name)-1],
			Mode: mode,
			Hash: hash,
		})
	}
}

// resolveTree gets a tree from the backend and rebinds it so further
// descents keep working.
func resolveTree(ctx context.Context, b Backend, h plumbing.Hash) (*Tree, error) {
	if b == nil {
		return nil, plumbing.NoSuchObject(h)
	}
	t, err := b.Tree(ctx, h)
	if err != nil {
		return nil, err
	}
	t.b = b
	return t, nil
}

type treeEntryIter struct {
	t    *Tree
	base string
	pos  int
}

func (iter *treeEntryIter) next() (*TreeEntry, error) {
	if iter.pos >= len(iter.t.Entries) {
		return nil, io.EOF
	}
	iter.pos++
	return iter.t.Entries[iter.pos-1], nil
}

// TreeWalker provides a pre-order iteration over a tree and, when
// recursive, every subtree below it.
type TreeWalker struct {
	stack     []*treeEntryIter
	recursive bool
	b         Backend
}

func NewTreeWalker(t *Tree, recursive bool) *TreeWalker {
	stack := make([]*treeEntryIter, 0, startingStackSize)
	stack = append(stack, &treeEntryIter{t: t})
	return &TreeWalker{
		stack:     stack,
		recursive: recursive,
		b:         t.b,
	}
}

// Next returns the path and entry of the next object in the walk, or
// io.EOF when the walk is exhausted.
func (w *TreeWalker) Next(ctx context.Context) (name string, entry *TreeEntry, err error) {
	for {
		current := len(w.stack) - 1
		if current < 0 {
			return "", nil, io.EOF
		}
		if current > maxTreeDepth {
			return "", nil, ErrMaxTreeDepth
		}
		frame := w.stack[current]
		entry, err = frame.next()
		if err == io.EOF {
			w.stack = w.stack[:current]
			continue
		}
		if err != nil {
			return "", nil, err
		}
		name = simpleJoin(frame.base, entry.Name)
		if w.recursive && entry.IsDir() {
			var sub *Tree
			if sub, err = resolveTree(ctx, w.b, entry.Hash); err != nil {
				return "", nil, err
			}
			w.stack = append(w.stack, &treeEntryIter{t: sub, base: name})
		}
		return name, entry, nil
	}
}

func (w *TreeWalker) Close() {
	w.stack = nil
}

func simpleJoin(parent, child string) string {
	if parent == "" {
		return child
	}
	return strengthen.StrCat(parent, "/", child)
}
