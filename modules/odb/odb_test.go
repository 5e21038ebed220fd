// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"context"
	"testing"

	"github.com/antgroup/treemerge/modules/object"
	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, opts ...Option) *DB {
	t.Helper()
	d, err := New(t.TempDir(), opts...)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestBlobRoundTrip(t *testing.T) {
	for _, opts := range [][]Option{nil, {WithoutCompression()}} {
		d := newTestDB(t, opts...)
		oid, err := d.WriteBlob([]byte("package main\n"))
		require.NoError(t, err)
		assert.True(t, d.Exists(oid))

		body, err := d.Blob(oid)
		require.NoError(t, err)
		assert.Equal(t, "package main\n", string(body))

		// Same content, same address.
		again, err := d.WriteBlob([]byte("package main\n"))
		require.NoError(t, err)
		assert.Equal(t, oid, again)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	blob, err := d.WriteBlob([]byte("content"))
	require.NoError(t, err)

	tree := object.NewTree(d, []*object.TreeEntry{
		{Name: "a.txt", Mode: filemode.Regular, Hash: blob},
	})
	oid, err := d.WriteTree(ctx, tree)
	require.NoError(t, err)
	require.False(t, oid.IsZero())

	got, err := d.Tree(ctx, oid)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "a.txt", got.Entries[0].Name)
	assert.Equal(t, blob, got.Entries[0].Hash)
}

func TestEmptyTree(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	oid, err := d.WriteTree(ctx, object.NewTree(d, nil))
	require.NoError(t, err)
	assert.Equal(t, d.EmptyTree(), oid)
	assert.True(t, d.Exists(d.EmptyTree()))

	got, err := d.Tree(ctx, d.EmptyTree())
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
}

func TestMissingObject(t *testing.T) {
	d := newTestDB(t)
	var bogus plumbing.Hash
	bogus[0] = 0xfe
	_, err := d.Blob(bogus)
	assert.True(t, plumbing.IsNoSuchObject(err))
}

// commitChain writes a commit with the given parents over an empty
// tree and returns its oid.
func commitChain(t *testing.T, d *DB, msg string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	oid, err := d.WriteCommit(context.Background(), &object.Commit{
		Tree:    d.EmptyTree(),
		Parents: parents,
		Message: msg,
	})
	require.NoError(t, err)
	return oid
}

func TestMergeBasesLinear(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	root := commitChain(t, d, "root")
	mid := commitChain(t, d, "mid", root)
	tip := commitChain(t, d, "tip", mid)

	bases, err := d.MergeBases(ctx, tip, mid)
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{mid}, bases)

	bases, err = d.MergeBases(ctx, tip, tip)
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{tip}, bases)
}

func TestMergeBasesForked(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	root := commitChain(t, d, "root")
	left := commitChain(t, d, "left", root)
	right := commitChain(t, d, "right", root)

	bases, err := d.MergeBases(ctx, left, right)
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{root}, bases)
}

func TestMergeBasesCrissCross(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	root := commitChain(t, d, "root")
	a := commitChain(t, d, "a", root)
	b := commitChain(t, d, "b", root)
	// Both sides merged the other once already; each head then sees
	// both original tips as best common ancestors.
	m1 := commitChain(t, d, "m1", a, b)
	m2 := commitChain(t, d, "m2", b, a)
	head1 := commitChain(t, d, "head1", m1)
	head2 := commitChain(t, d, "head2", m2)

	bases, err := d.MergeBases(ctx, head1, head2)
	require.NoError(t, err)
	require.Len(t, bases, 2)
	assert.ElementsMatch(t, []plumbing.Hash{a, b}, bases)
}

func TestMergeBasesUnrelated(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	a := commitChain(t, d, "island a")
	b := commitChain(t, d, "island b")
	bases, err := d.MergeBases(ctx, a, b)
	require.NoError(t, err)
	assert.Empty(t, bases)
}
