// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package trace is the operator-facing instrumentation the merge
// engine threads its step timing through: stderr lines, colorized when
// stderr is a terminal and plain otherwise; the verbose/debug flag of
// a Debuger or Tracker decides whether anything is written. It is deliberately
// separate from the engine's per-path conflict log, which is user
// output, not telemetry.
package trace

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/antgroup/treemerge/modules/term"
)

type Debuger interface {
	DbgPrint(format string, args ...any)
}

func NewDebuger(verbose bool) Debuger {
	return &debuger{verbose: verbose}
}

type debuger struct {
	verbose bool
}

// DbgPrint writes one starred diagnostic line per line of message,
// colored to the terminal's capability.
func DbgPrint(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	var buffer strings.Builder
	for _, s := range strings.Split(message, "\n") {
		buffer.WriteString(term.StderrLevel.Yellow("* " + s))
		buffer.WriteByte('\n')
	}
	_, _ = os.Stderr.WriteString(buffer.String())
}

func (d debuger) DbgPrint(format string, args ...any) {
	if !d.verbose {
		return
	}
	DbgPrint(format, args...)
}

var (
	_ Debuger = &debuger{}
)

// Tracker reports how long each named step of a multi-step operation
// took, measured from the previous step boundary.
type Tracker struct {
	debug bool
	last  time.Time
}

func NewTracker(debugMode bool) *Tracker {
	return &Tracker{debug: debugMode, last: time.Now()}
}

func (t *Tracker) StepNext(format string, a ...any) {
	if !t.debug {
		return
	}
	s := strings.Trim(fmt.Sprintf(format, a...), "\n")
	now := time.Now()
	fmt.Fprintf(os.Stderr, "%s\n", term.StderrLevel.Purple(fmt.Sprintf("* %s use time: %v", s, now.Sub(t.last))))
	t.last = now
}
