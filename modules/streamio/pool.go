// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package streamio pools the buffered readers, writers and
// decompressors the object codecs lean on, so parsing many small
// objects in a row does not churn allocations.
package streamio

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

const largePacketSize = 64 * 1024

var (
	bufioReader = sync.Pool{
		New: func() any {
			return bufio.NewReader(nil)
		},
	}
	bufferWriter = sync.Pool{
		New: func() any {
			return bufio.NewWriterSize(nil, largePacketSize)
		},
	}
	bytesBuffer = sync.Pool{
		New: func() any {
			return bytes.NewBuffer(nil)
		},
	}
)

// GetBufioReader returns a pooled *bufio.Reader reset to read from
// reader. Return it with PutBufioReader when done.
func GetBufioReader(reader io.Reader) *bufio.Reader {
	r := bufioReader.Get().(*bufio.Reader)
	r.Reset(reader)
	return r
}

func PutBufioReader(reader *bufio.Reader) {
	bufioReader.Put(reader)
}

// GetBufferWriter returns a pooled *bufio.Writer reset to write to
// writer. The caller flushes; PutBufferWriter only recycles.
func GetBufferWriter(writer io.Writer) *bufio.Writer {
	w := bufferWriter.Get().(*bufio.Writer)
	w.Reset(writer)
	return w
}

func PutBufferWriter(writer *bufio.Writer) {
	bufferWriter.Put(writer)
}

// GetBytesBuffer returns a pooled, already-reset *bytes.Buffer. Return
// it with PutBytesBuffer when done.
func GetBytesBuffer() *bytes.Buffer {
	buf := bytesBuffer.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func PutBytesBuffer(buf *bytes.Buffer) {
	bytesBuffer.Put(buf)
}
