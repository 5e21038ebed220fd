// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"context"
	"errors"
	"fmt"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/format/index"
	"github.com/sirupsen/logrus"
)

// MaxRenameScore is the upper bound of MergeOptions.RenameScore, a
// percentage-like similarity cutoff. Validate enforces the bound; the
// shipped rename heuristic does not read the score.
const MaxRenameScore = 100

// RecursiveVariant selects which side a path whose content both sides
// changed resolves to, mirroring the -X ours/-X theirs merge strategy
// options of a traditional three-way merge.
type RecursiveVariant int8

const (
	VariantNormal RecursiveVariant = iota
	VariantOurs
	VariantTheirs
)

// WorktreeUpdater performs the two-way checkout from one tree to
// another. It is an external collaborator: the engine never
// touches a working copy directly. A nil Worktree makes
// MergeSwitchToResult skip both the checkout and the index
// reconciliation (the index comes from the updater); only the log is
// drained.
type WorktreeUpdater interface {
	Checkout(ctx context.Context, from, to plumbing.Hash) error
	// Index exposes the staging index the checkout maintains, so the
	// engine can re-insert conflict stages after the switch. May
	// return nil when the updater has no index to reconcile.
	Index() *index.Index
}

// MergeBaseFinder computes the merge base(s) of two commits. The
// recursive driver calls it whenever it has no base list: at the
// top-level call when the caller passes nil bases, and for each inner
// merge while reducing several merge bases to a single virtual
// ancestor. With a nil finder a missing base list stays empty, which
// degrades to an empty-tree ancestor.
type MergeBaseFinder func(ctx context.Context, a, b *CommitLike) ([]*CommitLike, error)

// CommitLike is the minimal shape MergeIncoreRecursive needs from a
// commit: its tree, a printable identity for ancestor labels, and
// enough ancestry to chase merge bases through commits that only
// exist in memory. Callers adapt their real commit type to it rather
// than the engine depending on a concrete commit package.
type CommitLike struct {
	// OID is the commit's object id; zero for a virtual commit
	// fabricated while reducing merge bases.
	OID  plumbing.Hash
	Tree plumbing.Hash
	// Label names the commit in the ancestor label of a single-base
	// merge; typically a branch name or an abbreviated id.
	Label string
	// Parents is the in-memory ancestry of a virtual commit. For a
	// real commit it may be left nil; a MergeBaseFinder is expected
	// to fall back to the object store via OID.
	Parents []*CommitLike
}

// MergeOptions is the immutable (after Validate) configuration for one
// merge engine invocation.
type MergeOptions struct {
	// Store is the object-store handle; required.
	Store Store
	// ContentMerger resolves "both sides modify" content conflicts.
	// Nil leaves that case in degraded conflicted mode.
	ContentMerger ContentMerger
	// Worktree applies the merge result to a working copy; optional.
	Worktree WorktreeUpdater
	// BaseFinder locates merge bases while reducing a multi-base
	// recursive merge; optional.
	BaseFinder MergeBaseFinder

	// Branch1Label and Branch2Label name the two sides in CONFLICT
	// messages and moved-path disambiguation.
	Branch1Label string
	Branch2Label string
	// Ancestor names the base side; MergeIncoreNonrecursive callers
	// must set it, MergeIncoreRecursive computes it.
	Ancestor string

	// DetectRenames turns on the pure-rename heuristic.
	DetectRenames bool
	// RenameLimit caps the number of rename pairs considered; -1
	// means unlimited.
	RenameLimit int
	// RenameScore is a similarity floor in [0, MaxRenameScore]. It is
	// validated but not read by the shipped heuristic, which pairs
	// only exact-oid matches.
	RenameScore int

	// RecursiveVariant forces content-conflict (both sides modified)
	// resolution toward one side instead of staying conflicted.
	// Modify/delete, type-change and directory/file conflicts stay
	// conflicted under every variant.
	RecursiveVariant RecursiveVariant

	// Verbosity is a diagnostic verbosity level in [0, 5]. The engine
	// reads it twice: "> 0" adds the informational "Auto-merging"
	// message for paths a ContentMerger merged cleanly, and ">= 4"
	// turns on step timing on stderr in the recursive driver.
	Verbosity int
	// DiffAlgorithm names the text-diff algorithm a ContentMerger
	// should use; the core never reads file content itself, so this
	// is advisory metadata threaded through to the hook.
	DiffAlgorithm string
}

// Validate checks option invariants and fills in defaults. It must be
// called before any entry point uses opt.
func (o *MergeOptions) Validate() error {
	if o.Store == nil {
		return errors.New("ort: MergeOptions.Store is required")
	}
	if o.RenameLimit < -1 {
		return errors.New("ort: MergeOptions.RenameLimit must be >= -1")
	}
	if o.RenameScore < 0 || o.RenameScore > MaxRenameScore {
		return fmt.Errorf("ort: MergeOptions.RenameScore must be in [0,%d]", MaxRenameScore)
	}
	if o.Verbosity < 0 || o.Verbosity > 5 {
		return errors.New("ort: MergeOptions.Verbosity must be in [0,5]")
	}
	switch o.RecursiveVariant {
	case VariantNormal, VariantOurs, VariantTheirs:
	default:
		return errors.New("ort: MergeOptions.RecursiveVariant is invalid")
	}
	if o.DiffAlgorithm == "" {
		o.DiffAlgorithm = "histogram"
	}
	if o.Branch1Label == "" {
		o.Branch1Label = "HEAD"
	}
	if o.Branch2Label == "" {
		o.Branch2Label = "MERGE_HEAD"
	}
	return nil
}

// branchLabel names side for use in a CONFLICT message.
func (o *MergeOptions) branchLabel(s Side) string {
	switch s {
	case SideOur:
		return o.Branch1Label
	case SideTheir:
		return o.Branch2Label
	default:
		return o.Ancestor
	}
}

// MergeResult is the outcome of one merge. Clean is 1 for a
// conflict-free merge, 0 when the conflicted set is non-empty, and -1
// when the merge itself failed (Tree is meaningless in that case).
type MergeResult struct {
	Tree  plumbing.Hash
	Clean int8
	// Priv is the opaque per-merge context MergeSwitchToResult and
	// MergeFinalize need; callers must not inspect it.
	Priv *Context
}

// Context is the opaque per-merge engine state: the path table,
// the conflicted set, the diagnostic log and the current recursion
// depth. A Context is created once per top-level entry-point call and
// reused, with table/conflicted reset, across the virtual-ancestor
// reduction steps of a recursive merge so the log accumulates across
// all of them.
type Context struct {
	opt        *MergeOptions
	callDepth  int
	table      *pathTable
	conflicted map[string]struct{}
	log        *mergeLog
}

func newMergeContext(opt *MergeOptions) *Context {
	return &Context{
		opt:        opt,
		table:      newPathTable(),
		conflicted: make(map[string]struct{}),
		log:        newMergeLog(),
	}
}

func (c *Context) reset() {
	c.table = newPathTable()
	c.conflicted = make(map[string]struct{})
}

// runOnce performs one non-recursive three-way merge of three trees,
// collection through tree writing, reusing c's accumulated log.
func (c *Context) runOnce(ctx context.Context, base, side1, side2 plumbing.Hash) (*MergeResult, error) {
	c.reset()
	if err := c.collect(ctx, "", [3]plumbing.Hash{base, side1, side2}); err != nil {
		return &MergeResult{Clean: -1}, fmt.Errorf("ort: failed to collect trees (base=%s, side1=%s, side2=%s): %w", base.String(), side1.String(), side2.String(), err)
	}
	if err := c.detectRenames(ctx); err != nil {
		return &MergeResult{Clean: -1}, fmt.Errorf("ort: rename detection failed: %w", err)
	}
	root, err := c.write(ctx)
	if err != nil {
		return &MergeResult{Clean: -1}, err
	}
	clean := int8(1)
	if len(c.conflicted) > 0 {
		clean = 0
	}
	return &MergeResult{Tree: root, Clean: clean, Priv: c}, nil
}

// guarded wraps fn so that an internalError panic is annotated with
// the branch labels in flight before it is re-raised. It never
// recovers the panic for good: an internal consistency violation is a
// bug, and the process is expected to go down loudly.
func (c *Context) guarded(fn func() (*MergeResult, error)) (result *MergeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*internalError); ok {
				logrus.WithFields(logrus.Fields{
					"component": "ort",
					"branch1":   c.opt.Branch1Label,
					"branch2":   c.opt.Branch2Label,
					"depth":     c.callDepth,
				}).Error(ie.Error())
			}
			panic(r)
		}
	}()
	return fn()
}
