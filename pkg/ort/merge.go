// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ort implements an in-memory three-way tree merge: given a
// common ancestor tree and two side trees it produces a merged tree
// object, a per-path conflict log, and the conflict stages a staging
// index needs to surface what is left for a human. It is the engine
// underneath merge, rebase, cherry-pick and revert; checkout, text
// merging and true rename detection stay outside it, behind hooks.
package ort

import (
	"context"
	"errors"
	"io"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/trace"
)

// MergeIncoreNonrecursive merges three trees directly, with no merge
// base reduction: base is taken as the ancestor as-is. opt.Ancestor
// must already name it, since there is no commit to derive a label
// from.
func MergeIncoreNonrecursive(ctx context.Context, opt *MergeOptions, base, side1, side2 plumbing.Hash) (*MergeResult, error) {
	if err := opt.Validate(); err != nil {
		return &MergeResult{Clean: -1}, err
	}
	if opt.Ancestor == "" {
		return &MergeResult{Clean: -1}, errors.New("ort: MergeIncoreNonrecursive requires opt.Ancestor")
	}
	c := newMergeContext(opt)
	return c.guarded(func() (*MergeResult, error) {
		return c.runOnce(ctx, base, side1, side2)
	})
}

// MergeIncoreRecursive merges the trees of two commits, reducing
// multiple merge bases to a single virtual ancestor first. bases
// may be nil, in which case opt.BaseFinder locates them; an empty set
// degrades to the empty tree. opt.Ancestor is set internally.
func MergeIncoreRecursive(ctx context.Context, opt *MergeOptions, bases []*CommitLike, side1, side2 *CommitLike) (*MergeResult, error) {
	if err := opt.Validate(); err != nil {
		return &MergeResult{Clean: -1}, err
	}
	c := newMergeContext(opt)
	return c.guarded(func() (*MergeResult, error) {
		return c.mergeOrtInternal(ctx, bases, side1, side2)
	})
}

// mergeOrtInternal is the recursive driver. It folds every merge base
// beyond the first into a growing virtual ancestor (each fold is a
// full recursive merge one call level deeper), then runs the ordinary
// three-way merge of the two heads against the result.
func (c *Context) mergeOrtInternal(ctx context.Context, bases []*CommitLike, side1, side2 *CommitLike) (*MergeResult, error) {
	tracker := trace.NewTracker(c.opt.Verbosity >= 4)
	if bases == nil && c.opt.BaseFinder != nil {
		found, err := c.opt.BaseFinder(ctx, side1, side2)
		if err != nil {
			return &MergeResult{Clean: -1}, newHardError("merge-base", err)
		}
		bases = found
	}
	tracker.StepNext("ort: locate merge bases (%d)", len(bases))

	multiBase := len(bases) > 1
	var ancestor *CommitLike
	if len(bases) == 0 {
		ancestor = &CommitLike{Tree: c.opt.Store.HashAlgo().EmptyTreeOID, Label: "empty tree"}
	} else {
		ancestor = bases[0]
	}
	var rest []*CommitLike
	if len(bases) > 1 {
		rest = bases[1:]
	}
	for _, next := range rest {
		c.callDepth++
		saved1, saved2 := c.opt.Branch1Label, c.opt.Branch2Label
		c.opt.Branch1Label, c.opt.Branch2Label = "Temporary merge branch 1", "Temporary merge branch 2"
		inner, err := c.mergeOrtInternal(ctx, nil, ancestor, next)
		c.opt.Branch1Label, c.opt.Branch2Label = saved1, saved2
		c.callDepth--
		if err != nil {
			return inner, err
		}
		// The reduced ancestor only exists in memory: a virtual commit
		// whose parents record how it was synthesized, so a nested
		// base search can still walk through it.
		ancestor = &CommitLike{
			Tree:    inner.Tree,
			Label:   "merged common ancestors",
			Parents: []*CommitLike{ancestor, next},
		}
		tracker.StepNext("ort: reduced merge base %s", next.Label)
	}

	switch {
	case multiBase:
		c.opt.Ancestor = "merged common ancestors"
	case len(bases) == 0:
		c.opt.Ancestor = "empty tree"
	default:
		c.opt.Ancestor = ancestor.Label
		if !ancestor.OID.IsZero() {
			c.opt.Ancestor = ancestor.OID.Prefix()
		}
	}
	result, err := c.runOnce(ctx, ancestor.Tree, side1.Tree, side2.Tree)
	tracker.StepNext("ort: merge trees of %s and %s", side1.Label, side2.Label)
	return result, err
}

// MergeSwitchToResult applies result to the caller's working copy:
// the two-way checkout from headTree to result.Tree (when requested
// and a worktree updater is configured), conflict-stage reconciliation
// of the index the updater maintains, and finally the sorted conflict
// narration, written to messages when non-nil.
func MergeSwitchToResult(ctx context.Context, opt *MergeOptions, headTree plumbing.Hash, result *MergeResult, updateWorktreeAndIndex bool, messages io.Writer) error {
	c := result.Priv
	if c == nil {
		return errors.New("ort: merge result has no context; already finalized?")
	}
	if updateWorktreeAndIndex && opt.Worktree != nil {
		if err := opt.Worktree.Checkout(ctx, headTree, result.Tree); err != nil {
			return newHardError("checkout", err)
		}
		if idx := opt.Worktree.Index(); idx != nil {
			c.reconcileIndex(idx)
		}
	}
	if messages != nil {
		return c.drainLog(messages)
	}
	return nil
}

// MergeFinalize releases the per-merge context. The result's tree and
// clean flag stay valid; the conflict details and log do not.
func MergeFinalize(opt *MergeOptions, result *MergeResult) {
	if c := result.Priv; c != nil {
		c.table = nil
		c.conflicted = nil
		c.log = nil
	}
	result.Priv = nil
}
