// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package odb is a content-addressed loose-object database: one
// zstd-compressed file per object under a fan-out directory, addressed
// by the BLAKE3 digest of the object's typed envelope. It is the
// bundled store the merge engine runs against when the caller does not
// bring their own.
package odb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/antgroup/treemerge/modules/object"
	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/streamio"
	"github.com/dgraph-io/ristretto/v2"
)

const (
	defaultCacheSize = 64 << 20
)

// DB is a loose-object database rooted at a single directory.
type DB struct {
	root     string
	compress bool
	trees    *ristretto.Cache[string, *object.Tree]

	emptyTreeOnce sync.Once
	emptyTree     plumbing.Hash
}

type Option func(*DB)

// WithoutCompression stores object files raw; useful when the caller
// layers its own compression or wants debuggable files.
func WithoutCompression() Option {
	return func(d *DB) { d.compress = false }
}

// New opens (creating if needed) a database rooted at dir.
func New(dir string, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	d := &DB{root: dir, compress: true}
	for _, opt := range opts {
		opt(d)
	}
	trees, err := ristretto.NewCache(&ristretto.Config[string, *object.Tree]{
		NumCounters: 1 << 14,
		MaxCost:     defaultCacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	d.trees = trees
	return d, nil
}

func (d *DB) Close() {
	if d.trees != nil {
		d.trees.Close()
	}
}

// HashObject returns the oid body would be stored under: the BLAKE3
// digest of the "<type> <size>\0" envelope followed by the body.
func HashObject(t object.ObjectType, body []byte) plumbing.Hash {
	h := plumbing.NewHasher()
	_, _ = fmt.Fprintf(h, "%s %d\x00", t, len(body))
	_, _ = h.Write(body)
	return h.Sum()
}

// EmptyTree is the oid of the tree with no entries; it never hits the
// disk.
func (d *DB) EmptyTree() plumbing.Hash {
	d.emptyTreeOnce.Do(func() {
		d.emptyTree = HashObject(object.TreeObject, nil)
	})
	return d.emptyTree
}

func (d *DB) loosePath(oid plumbing.Hash) string {
	hex := oid.String()
	return filepath.Join(d.root, hex[:2], hex[2:])
}

// Exists reports whether oid is present without reading it.
func (d *DB) Exists(oid plumbing.Hash) bool {
	if oid == d.EmptyTree() {
		return true
	}
	_, err := os.Stat(d.loosePath(oid))
	return err == nil
}

// put stores body under its typed envelope and returns its oid. An
// object that is already present is left untouched: equal oid means
// equal bytes.
func (d *DB) put(t object.ObjectType, body []byte) (plumbing.Hash, error) {
	oid := HashObject(t, body)
	name := d.loosePath(oid)
	if _, err := os.Stat(name); err == nil {
		return oid, nil
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return plumbing.ZeroHash, err
	}
	fd, err := os.CreateTemp(filepath.Dir(name), "obj-*")
	if err != nil {
		return plumbing.ZeroHash, err
	}
	tmp := fd.Name()
	if err := d.encodeTo(fd, t, body); err != nil {
		_ = fd.Close()
		_ = os.Remove(tmp)
		return plumbing.ZeroHash, err
	}
	if err := fd.Close(); err != nil {
		_ = os.Remove(tmp)
		return plumbing.ZeroHash, err
	}
	if err := os.Rename(tmp, name); err != nil {
		_ = os.Remove(tmp)
		return plumbing.ZeroHash, err
	}
	return oid, nil
}

func (d *DB) encodeTo(w io.Writer, t object.ObjectType, body []byte) error {
	if !d.compress {
		if _, err := fmt.Fprintf(w, "%s %d\x00", t, len(body)); err != nil {
			return err
		}
		_, err := w.Write(body)
		return err
	}
	z := streamio.GetZstdWriter(w)
	if _, err := fmt.Fprintf(z, "%s %d\x00", t, len(body)); err != nil {
		streamio.PutZstdWriter(z)
		return err
	}
	if _, err := z.Write(body); err != nil {
		streamio.PutZstdWriter(z)
		return err
	}
	return streamio.PutZstdWriter(z)
}

// get reads the object named by oid, verifying its envelope type.
func (d *DB) get(oid plumbing.Hash, want object.ObjectType) ([]byte, error) {
	fd, err := os.Open(d.loosePath(oid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, plumbing.NoSuchObject(oid)
		}
		return nil, err
	}
	defer fd.Close() // nolint
	var r io.Reader = fd
	if d.compress {
		z, err := streamio.GetZstdReader(fd)
		if err != nil {
			return nil, err
		}
		defer streamio.PutZstdReader(z)
		r = z
	}
	br := streamio.GetBufioReader(r)
	defer streamio.PutBufioReader(br)
	header, err := br.ReadString(0x00)
	if err != nil {
		return nil, fmt.Errorf("odb: %s: malformed envelope: %w", oid, err)
	}
	var typeName string
	var size int64
	if _, err := fmt.Sscanf(header[:len(header)-1], "%s %d", &typeName, &size); err != nil {
		return nil, fmt.Errorf("odb: %s: malformed envelope %q", oid, header)
	}
	if got := object.ObjectTypeFromString(typeName); got != want {
		return nil, fmt.Errorf("odb: %s: object is a %s, not a %s", oid, got, want)
	}
	body, err := streamio.ReadMax(br, size)
	if err != nil {
		return nil, err
	}
	if int64(len(body)) != size {
		return nil, fmt.Errorf("odb: %s: truncated object: want %d bytes, have %d", oid, size, len(body))
	}
	return body, nil
}

// WriteBlob stores raw file content and returns its oid.
func (d *DB) WriteBlob(content []byte) (plumbing.Hash, error) {
	return d.put(object.BlobObject, content)
}

// Blob reads raw file content by oid.
func (d *DB) Blob(oid plumbing.Hash) ([]byte, error) {
	return d.get(oid, object.BlobObject)
}

// WriteTree serializes t, stores it, fills in t.Hash and returns it.
func (d *DB) WriteTree(ctx context.Context, t *object.Tree) (plumbing.Hash, error) {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return plumbing.ZeroHash, err
	}
	if buf.Len() == 0 {
		t.Hash = d.EmptyTree()
		return t.Hash, nil
	}
	oid, err := d.put(object.TreeObject, buf.Bytes())
	if err != nil {
		return plumbing.ZeroHash, err
	}
	t.Hash = oid
	d.trees.Set(string(oid[:]), t, int64(buf.Len()))
	return oid, nil
}

// Tree reads and parses the tree named by oid, caching the parsed
// form: recursive merges revisit the same subtrees often.
func (d *DB) Tree(ctx context.Context, oid plumbing.Hash) (*object.Tree, error) {
	if oid == d.EmptyTree() || oid.IsZero() {
		return object.NewTree(d, nil), nil
	}
	if t, ok := d.trees.Get(string(oid[:])); ok {
		return t, nil
	}
	body, err := d.get(oid, object.TreeObject)
	if err != nil {
		return nil, err
	}
	t := object.NewTree(d, nil)
	if err := t.Decode(oid, bytes.NewReader(body)); err != nil {
		return nil, err
	}
	d.trees.Set(string(oid[:]), t, int64(len(body)))
	return t, nil
}

// WriteCommit serializes c, stores it, fills in c.Hash and returns it.
func (d *DB) WriteCommit(ctx context.Context, c *object.Commit) (plumbing.Hash, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return plumbing.ZeroHash, err
	}
	oid, err := d.put(object.CommitObject, buf.Bytes())
	if err != nil {
		return plumbing.ZeroHash, err
	}
	c.Hash = oid
	c.Bind(d)
	return oid, nil
}

// Commit reads and parses the commit named by oid.
func (d *DB) Commit(ctx context.Context, oid plumbing.Hash) (*object.Commit, error) {
	body, err := d.get(oid, object.CommitObject)
	if err != nil {
		return nil, err
	}
	c := &object.Commit{}
	if err := c.Decode(oid, bytes.NewReader(body)); err != nil {
		return nil, err
	}
	c.Bind(d)
	return c, nil
}

var _ object.Backend = (*DB)(nil)
