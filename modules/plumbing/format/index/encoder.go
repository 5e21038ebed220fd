// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/antgroup/treemerge/modules/streamio"
)

var indexMagic = [4]byte{'D', 'I', 'R', 'C'}

// Encoder writes an Index in the on-disk format.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes idx to the underlying writer.
func (e *Encoder) Encode(idx *Index) error {
	version := idx.Version
	if version == 0 {
		version = EncodeVersionSupported
	}
	if version > EncodeVersionSupported {
		return fmt.Errorf("index: unsupported encode version %d", version)
	}
	w := streamio.GetBufferWriter(e.w)
	defer streamio.PutBufferWriter(w)
	if _, err := w.Write(indexMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(version)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(idx.Entries))); err != nil {
		return err
	}
	for _, entry := range idx.Entries {
		if err := e.encodeEntry(w, entry); err != nil {
			return err
		}
	}
	if err := e.encodeCache(w, idx.Cache); err != nil {
		return err
	}
	return w.Flush()
}

func (e *Encoder) encodeEntry(w io.Writer, entry *Entry) error {
	if err := binary.Write(w, binary.BigEndian, entry.CreatedAt.Unix()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, entry.ModifiedAt.Unix()); err != nil {
		return err
	}
	for _, v := range []uint32{entry.Dev, entry.Inode, entry.UID, entry.GID, uint32(entry.Mode)} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.BigEndian, entry.Size); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int8(entry.Stage)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, boolToByte(entry.SkipWorktree)); err != nil {
		return err
	}
	if _, err := w.Write(entry.Hash[:]); err != nil {
		return err
	}
	nameBytes := []byte(entry.Name)
	if err := binary.Write(w, binary.BigEndian, uint32(len(nameBytes))); err != nil {
		return err
	}
	if _, err := w.Write(nameBytes); err != nil {
		return err
	}
	return nil
}

func (e *Encoder) encodeCache(w io.Writer, cache *Tree) error {
	if cache == nil {
		return binary.Write(w, binary.BigEndian, uint32(0))
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(cache.Entries))); err != nil {
		return err
	}
	for _, te := range cache.Entries {
		nameBytes := []byte(te.Path)
		if err := binary.Write(w, binary.BigEndian, uint32(len(nameBytes))); err != nil {
			return err
		}
		if _, err := w.Write(nameBytes); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(te.Entries)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(te.Trees)); err != nil {
			return err
		}
		if _, err := w.Write(te.Hash[:]); err != nil {
			return err
		}
	}
	return nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
