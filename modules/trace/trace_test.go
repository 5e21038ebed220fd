// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package trace

import "testing"

func TestDbgPrint(t *testing.T) {
	DbgPrint("collected %d entries", 7)
	d := NewDebuger(false)
	d.DbgPrint("suppressed %s", "line")
}

func TestTracker(t *testing.T) {
	tr := NewTracker(true)
	tr.StepNext("collect trees")
	tr.StepNext("write result")
	quiet := NewTracker(false)
	quiet.StepNext("never printed")
}
