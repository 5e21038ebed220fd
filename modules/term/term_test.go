// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "* merge done", StripANSI("\x1b[38;2;254;225;64m* merge done\x1b[0m"))
	assert.Equal(t, "plain", StripANSI("plain"))
}

func TestColorLevels(t *testing.T) {
	assert.Equal(t, "x", Level0.Red("x"))
	assert.Equal(t, "\x1b[33mx\x1b[0m", Level256.Yellow("x"))
	assert.Equal(t, StripANSI(Level16M.Purple("x")), "x")
}
