// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package locale detects the user's preferred language from the
// environment, the same POSIX variables a shell consults to pick a
// message catalog.
package locale

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/text/language"
)

var ErrNotDetected = errors.New("unable to detect locale from environment")

var envKeys = []string{"LC_ALL", "LC_MESSAGES", "LANG", "LANGUAGE"}

// Detect returns the BCP 47 tag for the current process locale, derived
// from the first populated environment variable in envKeys. POSIX
// locale strings look like "zh_CN.UTF-8" or "en_US"; the encoding and
// modifier suffix is stripped before parsing.
func Detect() (language.Tag, error) {
	for _, key := range envKeys {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if name := normalize(v); name != "" {
			if tag, err := language.Parse(name); err == nil {
				return tag, nil
			}
		}
	}
	return language.Und, ErrNotDetected
}

// normalize strips the encoding (".UTF-8") and modifier ("@euro")
// suffixes from a POSIX locale name and swaps the "_" separator for
// the "-" BCP 47 expects.
func normalize(v string) string {
	if i := strings.IndexAny(v, ".@"); i != -1 {
		v = v[:i]
	}
	return strings.ReplaceAll(v, "_", "-")
}
