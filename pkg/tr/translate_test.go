// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package tr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackToKey(t *testing.T) {
	// A key the catalog does not carry renders as itself, so English
	// call sites never break when a catalog lags behind.
	got := Sprintf("CONFLICT (made-up): %s", "a/b")
	assert.Equal(t, "CONFLICT (made-up): a/b", got)
}

func TestSprintfKnownKey(t *testing.T) {
	got := Sprintf("Auto-merging %s", "docs/guide.md")
	assert.True(t, strings.Contains(got, "docs/guide.md"))
}

func TestLanguageResolves(t *testing.T) {
	assert.NotEmpty(t, Language())
}
