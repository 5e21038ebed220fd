// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"testing"

	"github.com/antgroup/treemerge/modules/plumbing/filemode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathTableInterning(t *testing.T) {
	table := newPathTable()
	// Build the second key at runtime so the compiler cannot collapse
	// the two literals into one string.
	key1 := "dir/file"
	key2 := "dir" + string([]byte{'/'}) + "file"
	table.insert(key1, &entry{basename: "file", dir: "dir"})
	e, ok := table.get(key2)
	require.True(t, ok)
	assert.Equal(t, "file", e.basename)
	assert.Equal(t, 1, table.len())
}

func TestIsConflicted(t *testing.T) {
	e := &entry{}
	assert.True(t, isConflicted(e))
	e.markClean(Version{Mode: filemode.Regular}, false)
	assert.False(t, isConflicted(e))
	assert.False(t, e.IsNull)
}

func TestMaskOps(t *testing.T) {
	var m Mask
	m = m.set(SideBase).set(SideTheir)
	assert.True(t, m.has(SideBase))
	assert.False(t, m.has(SideOur))
	assert.Equal(t, 2, m.count())
	assert.Equal(t, maskBase|maskTheir, m)
	assert.Equal(t, 3, maskAll.count())
}

func TestVersionPredicates(t *testing.T) {
	assert.True(t, Version{}.isNull())
	assert.True(t, Version{Mode: filemode.Dir}.isDir())
	a := Version{Mode: filemode.Regular}
	b := Version{Mode: filemode.Executable}
	assert.Equal(t, a.typeBits(), b.typeBits())
	assert.False(t, a.equal(b))
}
