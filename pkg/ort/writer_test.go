// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortKeyDFOrdering(t *testing.T) {
	// A file "foo" sorts before the directory "foo" and its children
	// (a sibling such as "foo.txt" can fall in between), so the
	// reverse walk meets the subtree first.
	keys := []string{
		sortKey("foo/bar", false),
		sortKey("foo", true),
		sortKey("foo", false),
		sortKey("foo.txt", false),
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"foo", "foo.txt", "foo/", "foo/bar"}, keys)
}

func TestIsAncestorDir(t *testing.T) {
	assert.True(t, isAncestorDir("", "a/b"))
	assert.True(t, isAncestorDir("a", "a/b"))
	assert.True(t, isAncestorDir("a", "a"))
	assert.False(t, isAncestorDir("a", "ab"))
	assert.False(t, isAncestorDir("a/b", "a"))
}
