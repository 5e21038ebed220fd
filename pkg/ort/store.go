// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"context"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
)

// TreeRecord is a single (mode, oid, name) triple parsed out of a tree
// object, in the order the tree stores them.
type TreeRecord struct {
	Mode filemode.FileMode
	OID  plumbing.Hash
	Name string
}

// HashAlgo describes the object id space a Store was built against.
type HashAlgo struct {
	RawSize      int
	EmptyTreeOID plumbing.Hash
}

// Store is the minimal object-store handle the engine consumes.
// Everything else, packing, transfer, garbage collection, lives
// outside this package; callers own the concrete implementation
// (NewODBStore adapts the bundled modules/odb database).
type Store interface {
	// ParseTree returns the mode/oid/name triples of the tree named by
	// id, in tree order (sorted by base_name_compare).
	ParseTree(ctx context.Context, id plumbing.Hash) ([]TreeRecord, error)
	// WriteTree writes a tree object assembled from records (already
	// sorted in base_name_compare order by the caller) and returns its
	// oid. Implementations should treat an already-stored identical
	// tree as a no-op write.
	WriteTree(ctx context.Context, records []TreeRecord) (plumbing.Hash, error)
	// HashAlgo reports this store's hash parameters.
	HashAlgo() HashAlgo
}

// ContentMerger is the three-way blob merge hook for paths both
// sides modified. The core never implements text merging; when nil, that
// case stays conflicted in degraded mode (side1's content is kept).
type ContentMerger interface {
	MergeContent(ctx context.Context, base, our, their Version, pathnames [3]string) (result Version, clean bool, err error)
}

// ContentMergerFunc adapts a function to ContentMerger.
type ContentMergerFunc func(ctx context.Context, base, our, their Version, pathnames [3]string) (Version, bool, error)

func (f ContentMergerFunc) MergeContent(ctx context.Context, base, our, their Version, pathnames [3]string) (Version, bool, error) {
	return f(ctx, base, our, their, pathnames)
}
