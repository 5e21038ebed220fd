// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bytes"
	"testing"
	"time"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitRoundTrip(t *testing.T) {
	when := time.Unix(1719400000, 0).In(time.FixedZone("+0800", 8*3600))
	c := &Commit{
		Tree:    oidOf(0x10),
		Parents: []plumbing.Hash{oidOf(0x20), oidOf(0x21)},
		Author:  Signature{Name: "Wang Lei", Email: "wanglei@example.com", When: when},
		Committer: Signature{
			Name: "Wang Lei", Email: "wanglei@example.com", When: when,
		},
		Message: "merge: reconcile release branches\n\nSecond paragraph.\n",
	}
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))

	decoded := &Commit{}
	require.NoError(t, decoded.Decode(oidOf(0x30), bytes.NewReader(buf.Bytes())))
	assert.Equal(t, oidOf(0x30), decoded.Hash)
	assert.Equal(t, c.Tree, decoded.Tree)
	assert.Equal(t, c.Parents, decoded.Parents)
	assert.Equal(t, c.Author.Name, decoded.Author.Name)
	assert.Equal(t, c.Author.Email, decoded.Author.Email)
	assert.Equal(t, when.Unix(), decoded.Author.When.Unix())
	assert.Equal(t, c.Message, decoded.Message)
	assert.Equal(t, "merge: reconcile release branches", decoded.Subject())
	assert.Equal(t, 2, decoded.NumParents())
}

func TestCommitRootCommit(t *testing.T) {
	c := &Commit{
		Tree:    oidOf(0x11),
		Author:  Signature{Name: "a", Email: "a@b"},
		Message: "root",
	}
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))
	decoded := &Commit{}
	require.NoError(t, decoded.Decode(oidOf(0x31), bytes.NewReader(buf.Bytes())))
	assert.Empty(t, decoded.Parents)
	assert.Equal(t, "root", decoded.Message)
}
