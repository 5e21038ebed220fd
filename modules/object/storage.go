// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"

	"github.com/antgroup/treemerge/modules/plumbing"
)

// Backend is the narrow slice of the object database the object model
// needs to resolve ancestry and subtrees lazily: look up a commit or a
// tree by oid. Everything else (packing, transfer, GC) lives outside
// this package.
type Backend interface {
	Commit(ctx context.Context, oid plumbing.Hash) (*Commit, error)
	Tree(ctx context.Context, oid plumbing.Hash) (*Tree, error)
}
