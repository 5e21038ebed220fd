// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"testing"
	"time"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	idx := &Index{
		Version: EncodeVersionSupported,
		Entries: []*Entry{
			{
				CreatedAt:  time.Unix(1700000000, 0).UTC(),
				ModifiedAt: time.Unix(1700000100, 0).UTC(),
				Size:       42,
				Hash:       plumbing.NewHash("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"),
				Name:       "docs/guide.md",
				Mode:       filemode.Regular,
			},
			{
				Name:         "vendor/lib.go",
				Mode:         filemode.Regular,
				Stage:        TheirMode,
				SkipWorktree: true,
			},
		},
		Cache: &Tree{
			Entries: []TreeEntry{
				{Path: "", Entries: 2, Trees: 1},
				{Path: "docs", Entries: 1},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(idx))

	decoded := &Index{}
	require.NoError(t, NewDecoder(bytes.NewReader(buf.Bytes())).Decode(decoded))
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, idx.Entries[0].Name, decoded.Entries[0].Name)
	assert.Equal(t, idx.Entries[0].Hash, decoded.Entries[0].Hash)
	assert.Equal(t, idx.Entries[1].Stage, decoded.Entries[1].Stage)
	assert.True(t, decoded.Entries[1].SkipWorktree)
	require.NotNil(t, decoded.Cache)
	assert.Len(t, decoded.Cache.Entries, 2)
}

func TestFindAndSort(t *testing.T) {
	idx := &Index{
		Entries: []*Entry{
			{Name: "a.txt"},
			{Name: "dir/file"},
			{Name: "z.txt"},
		},
	}
	assert.Equal(t, 1, idx.Find("dir/file", len(idx.Entries)))
	assert.Equal(t, -1, idx.Find("missing", len(idx.Entries)))

	// Conflict stages land past the sorted prefix; Find only looks at
	// the first n entries, so a bound that excludes a row hides it.
	idx.Entries = append(idx.Entries, &Entry{Name: "dir/file", Stage: OurMode})
	assert.Equal(t, -1, idx.Find("dir/file", 0))

	idx.SortEntries()
	assert.Equal(t, "dir/file", idx.Entries[1].Name)
	assert.Equal(t, Merged, idx.Entries[1].Stage)
	assert.Equal(t, OurMode, idx.Entries[2].Stage)
}

func TestCacheInvalidate(t *testing.T) {
	cache := &Tree{Entries: []TreeEntry{
		{Path: ""},
		{Path: "docs"},
		{Path: "docs/img"},
		{Path: "src"},
	}}
	cache.Invalidate("docs/img/logo.png")
	paths := make([]string, 0, len(cache.Entries))
	for _, te := range cache.Entries {
		paths = append(paths, te.Path)
	}
	assert.Equal(t, []string{"src"}, paths)
}

func TestGlob(t *testing.T) {
	idx := &Index{Entries: []*Entry{
		{Name: "docs/a.md"},
		{Name: "docs/b.md"},
		{Name: "src/main.go"},
	}}
	got, err := idx.Glob("docs/")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
