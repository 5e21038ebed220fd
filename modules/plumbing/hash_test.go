// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package plumbing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherDeterministic(t *testing.T) {
	h1 := NewHasher()
	_, _ = h1.Write([]byte("blob 5\x00hello"))
	h2 := NewHasher()
	_, _ = h2.Write([]byte("blob 5\x00hello"))
	assert.Equal(t, h1.Sum(), h2.Sum())
	assert.False(t, h1.Sum().IsZero())
}

func TestNewHashEx(t *testing.T) {
	hex := strings.Repeat("ab", HASH_DIGEST_SIZE)
	h, err := NewHashEx(hex)
	require.NoError(t, err)
	assert.Equal(t, hex, h.String())

	_, err = NewHashEx("abc")
	assert.Error(t, err)
	_, err = NewHashEx(strings.Repeat("zz", HASH_DIGEST_SIZE))
	assert.Error(t, err)
}

func TestPrefix(t *testing.T) {
	var h Hash
	h[0], h[1] = 0xde, 0xad
	assert.Equal(t, "dead00000000", h.Prefix())
	assert.True(t, ZeroHash.IsZero())
}

func TestNoSuchObject(t *testing.T) {
	h := NewHash(strings.Repeat("11", HASH_DIGEST_SIZE))
	err := NoSuchObject(h)
	assert.True(t, IsNoSuchObject(err))
	got, ok := ExtractNoSuchObject(err)
	assert.True(t, ok)
	assert.Equal(t, h, got)
	assert.False(t, IsNoSuchObject(nil))
}
