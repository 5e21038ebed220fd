// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package strengthen carries the small string helpers shared across
// the tree and terminal plumbing.
package strengthen

import "strings"

// StrCat concatenates its arguments with a single pre-grown builder.
// It only pays off against the + operator once there are more than two
// pieces, which is exactly the path-joining case it exists for.
func StrCat(sv ...string) string {
	var sb strings.Builder
	var size int
	for _, s := range sv {
		size += len(s)
	}
	sb.Grow(size)
	for _, s := range sv {
		_, _ = sb.WriteString(s)
	}
	return sb.String()
}

// SimpleAtob reads a human boolean ("yes", "on", "1", ...) with a
// default for anything unrecognized.
func SimpleAtob(s string, dv bool) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return dv
}
