// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package filemode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		in   string
		want FileMode
	}{
		{"100644", Regular},
		{"100755", Executable},
		{"40000", Dir},
		{"040000", Dir},
		{"120000", Symlink},
		{"160000", Submodule},
	}
	for _, tt := range tests {
		got, err := New(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := New("10064x")
	assert.Error(t, err)
}

func TestTypeBits(t *testing.T) {
	assert.Equal(t, Regular.TypeBits(), Executable.TypeBits())
	assert.Equal(t, Regular.TypeBits(), Deprecated.TypeBits())
	assert.NotEqual(t, Regular.TypeBits(), Symlink.TypeBits())
	assert.NotEqual(t, Dir.TypeBits(), Submodule.TypeBits())
	assert.Equal(t, Regular.TypeBits(), (Regular | Fragments).TypeBits())
}

func TestIsRegular(t *testing.T) {
	assert.True(t, Regular.IsRegular())
	assert.True(t, Executable.IsRegular())
	assert.True(t, (Executable | Fragments).IsRegular())
	assert.False(t, Dir.IsRegular())
	assert.False(t, Symlink.IsRegular())
}

func TestIsMalformed(t *testing.T) {
	assert.False(t, Regular.IsMalformed())
	assert.False(t, Dir.IsMalformed())
	assert.False(t, (Symlink | Fragments).IsMalformed())
	assert.True(t, FileMode(0100001).IsMalformed())
}

func TestString(t *testing.T) {
	assert.Equal(t, "100644", Regular.String())
	assert.Equal(t, "040000", Dir.String())
}
