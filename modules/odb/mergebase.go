// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"context"
	"sort"

	"github.com/antgroup/treemerge/modules/plumbing"
)

// MergeBases returns the best common ancestors of a and b: the common
// ancestors not reachable from any other common ancestor. A criss-
// cross history yields more than one; unrelated histories yield none.
func (d *DB) MergeBases(ctx context.Context, a, b plumbing.Hash) ([]plumbing.Hash, error) {
	if a == b {
		return []plumbing.Hash{a}, nil
	}
	ours, err := d.ancestry(ctx, a)
	if err != nil {
		return nil, err
	}

	// Walk b's ancestry; the first common commit on any path is a
	// candidate, and nothing beyond it can be a better one.
	var candidates []plumbing.Hash
	seen := map[plumbing.Hash]bool{}
	queue := []plumbing.Hash{b}
	for len(queue) > 0 {
		oid := queue[0]
		queue = queue[1:]
		if seen[oid] {
			continue
		}
		seen[oid] = true
		if ours[oid] {
			candidates = append(candidates, oid)
			continue
		}
		c, err := d.Commit(ctx, oid)
		if err != nil {
			return nil, err
		}
		queue = append(queue, c.Parents...)
	}

	// Keep only maximal candidates: drop any that another candidate
	// can reach through its own ancestry.
	bases := candidates[:0]
	for i, oid := range candidates {
		redundant := false
		for j, other := range candidates {
			if i == j {
				continue
			}
			reach, err := d.reaches(ctx, other, oid)
			if err != nil {
				return nil, err
			}
			if reach {
				redundant = true
				break
			}
		}
		if !redundant {
			bases = append(bases, oid)
		}
	}
	sort.Slice(bases, func(i, j int) bool {
		return bases[i].String() < bases[j].String()
	})
	return bases, nil
}

// ancestry returns every commit reachable from head, head included.
func (d *DB) ancestry(ctx context.Context, head plumbing.Hash) (map[plumbing.Hash]bool, error) {
	reachable := map[plumbing.Hash]bool{}
	queue := []plumbing.Hash{head}
	for len(queue) > 0 {
		oid := queue[0]
		queue = queue[1:]
		if reachable[oid] {
			continue
		}
		reachable[oid] = true
		c, err := d.Commit(ctx, oid)
		if err != nil {
			return nil, err
		}
		queue = append(queue, c.Parents...)
	}
	return reachable, nil
}

// reaches reports whether from's proper ancestry contains to.
func (d *DB) reaches(ctx context.Context, from, to plumbing.Hash) (bool, error) {
	c, err := d.Commit(ctx, from)
	if err != nil {
		return false, err
	}
	seen := map[plumbing.Hash]bool{}
	queue := append([]plumbing.Hash(nil), c.Parents...)
	for len(queue) > 0 {
		oid := queue[0]
		queue = queue[1:]
		if seen[oid] {
			continue
		}
		seen[oid] = true
		if oid == to {
			return true, nil
		}
		p, err := d.Commit(ctx, oid)
		if err != nil {
			return false, err
		}
		queue = append(queue, p.Parents...)
	}
	return false, nil
}
