// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package streamio

import (
	"bytes"
	"io"
)

// ReadMax reads at most n bytes from r into a buffer grown once up
// front. A reader that ends early yields a short result, not an
// error; callers that need exactly n check the length.
func ReadMax(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(n))
	if _, err := buf.ReadFrom(io.LimitReader(r, n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
