// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"io"
	"sort"

	"github.com/antgroup/treemerge/pkg/tr"
)

// logMessage is one entry in the diagnostic log. format is a
// catalog key (an English sentence with printf verbs); it is
// translated at drain time, not at emission time, so a log can be
// drained more than once under a different locale.
type logMessage struct {
	format          string
	args            []any
	skipRemergeDiff bool
}

// mergeLog is the per-merge append-only message list, keyed by path.
// It never removes a message once added; drain is the only reader.
type mergeLog struct {
	entries map[string][]logMessage
}

func newMergeLog() *mergeLog {
	return &mergeLog{entries: make(map[string][]logMessage)}
}

// addf records a message against path. skipRemergeDiff marks a
// message as cosmetic rename/auto-merge noise that a remerge-diff
// rendering should suppress.
func (l *mergeLog) addf(path string, skipRemergeDiff bool, format string, args ...any) {
	l.entries[path] = append(l.entries[path], logMessage{format: format, args: args, skipRemergeDiff: skipRemergeDiff})
}

// PathLog is one path's drained, translated messages.
type PathLog struct {
	Path     string
	Messages []string
}

// drain renders every recorded message through the translation
// catalog and returns them sorted by path.
func (l *mergeLog) drain() []PathLog {
	paths := make([]string, 0, len(l.entries))
	for p := range l.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]PathLog, 0, len(paths))
	for _, p := range paths {
		msgs := l.entries[p]
		texts := make([]string, 0, len(msgs))
		for _, m := range msgs {
			texts = append(texts, tr.Sprintf(m.format, m.args...))
		}
		out = append(out, PathLog{Path: p, Messages: texts})
	}
	return out
}

// drainLog writes every recorded message to w, one per line, in path
// order. It is the degraded-mode substitute for a worktree renderer:
// MergeSwitchToResult calls it when the caller wants the messages a
// real checkout would print next to the files it touched.
func (c *Context) drainLog(w io.Writer) error {
	for _, pl := range c.log.drain() {
		for _, msg := range pl.Messages {
			if _, err := io.WriteString(w, msg+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
