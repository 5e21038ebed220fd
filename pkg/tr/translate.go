// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tr renders user-facing messages through a TOML message
// catalog keyed by the English format string. An unknown key, or an
// undetectable locale, falls through to the key itself, so every
// call site stays readable and the English output needs no catalog
// at all.
package tr

import (
	"embed"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/antgroup/treemerge/pkg/tr/locale"
)

//go:embed languages
var langFS embed.FS

var (
	langTable map[string]string

	// Language resolves the catalog name once per process.
	Language = sync.OnceValue(func() string {
		t, err := locale.Detect()
		if err != nil {
			return "en-US"
		}
		lang := t.String()
		if strings.HasPrefix(lang, "zh-Hans") {
			return "zh-CN"
		}
		return lang
	})

	loadOnce = sync.OnceValue(func() error {
		fd, err := langFS.Open(path.Join("languages", Language()+".toml"))
		if err != nil {
			return err
		}
		defer fd.Close() // nolint
		table := make(map[string]string)
		if _, err := toml.NewDecoder(fd).Decode(&table); err != nil {
			return err
		}
		langTable = table
		return nil
	})
)

func translate(k string) string {
	if err := loadOnce(); err != nil {
		return k
	}
	if v, ok := langTable[k]; ok {
		return v
	}
	return k
}

// W translates a bare word or sentence.
func W(k string) string {
	return translate(k)
}

// Sprintf formats with the translated form of format.
func Sprintf(format string, a ...any) string {
	return fmt.Sprintf(translate(format), a...)
}

// Fprintf writes the translated, formatted message to w.
func Fprintf(w io.Writer, format string, a ...any) (n int, err error) {
	return fmt.Fprintf(w, translate(format), a...)
}
