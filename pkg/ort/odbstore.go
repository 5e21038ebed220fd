// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"context"

	"github.com/antgroup/treemerge/modules/object"
	"github.com/antgroup/treemerge/modules/odb"
	"github.com/antgroup/treemerge/modules/plumbing"
)

// odbStore adapts the bundled loose-object database to the engine's
// Store contract, translating between parsed object trees and the
// flat record slices the collector and writer speak.
type odbStore struct {
	db *odb.DB
}

// NewODBStore wraps db as a merge engine Store.
func NewODBStore(db *odb.DB) Store {
	return &odbStore{db: db}
}

func (s *odbStore) ParseTree(ctx context.Context, id plumbing.Hash) ([]TreeRecord, error) {
	t, err := s.db.Tree(ctx, id)
	if err != nil {
		return nil, err
	}
	records := make([]TreeRecord, 0, len(t.Entries))
	for _, e := range t.Entries {
		records = append(records, TreeRecord{Mode: e.Mode, OID: e.Hash, Name: e.Name})
	}
	return records, nil
}

func (s *odbStore) WriteTree(ctx context.Context, records []TreeRecord) (plumbing.Hash, error) {
	entries := make([]*object.TreeEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, &object.TreeEntry{Name: r.Name, Mode: r.Mode, Hash: r.OID})
	}
	return s.db.WriteTree(ctx, object.NewTree(s.db, entries))
}

func (s *odbStore) HashAlgo() HashAlgo {
	return HashAlgo{
		RawSize:      plumbing.HASH_DIGEST_SIZE,
		EmptyTreeOID: s.db.EmptyTree(),
	}
}

// NewODBBaseFinder locates merge bases through db's commit graph. A
// virtual commit (zero oid) cannot be read from the store, so its
// in-memory Parents are expanded until real commits are reached; the
// bases of two real commits come straight from the ancestry walk.
func NewODBBaseFinder(db *odb.DB) MergeBaseFinder {
	return func(ctx context.Context, a, b *CommitLike) ([]*CommitLike, error) {
		realA, err := realRoots(ctx, db, a)
		if err != nil {
			return nil, err
		}
		realB, err := realRoots(ctx, db, b)
		if err != nil {
			return nil, err
		}
		var bases []*CommitLike
		seen := map[plumbing.Hash]bool{}
		for _, ra := range realA {
			for _, rb := range realB {
				found, err := db.MergeBases(ctx, ra, rb)
				if err != nil {
					return nil, err
				}
				for _, oid := range found {
					if seen[oid] {
						continue
					}
					seen[oid] = true
					c, err := db.Commit(ctx, oid)
					if err != nil {
						return nil, err
					}
					bases = append(bases, &CommitLike{OID: oid, Tree: c.Tree, Label: oid.Prefix()})
				}
			}
		}
		return bases, nil
	}
}

// realRoots resolves c to the nearest store-resident commits: itself
// when it has an oid, otherwise its virtual ancestry's real fringe.
func realRoots(ctx context.Context, db *odb.DB, c *CommitLike) ([]plumbing.Hash, error) {
	if !c.OID.IsZero() {
		return []plumbing.Hash{c.OID}, nil
	}
	var roots []plumbing.Hash
	for _, p := range c.Parents {
		sub, err := realRoots(ctx, db, p)
		if err != nil {
			return nil, err
		}
		roots = append(roots, sub...)
	}
	return roots, nil
}
