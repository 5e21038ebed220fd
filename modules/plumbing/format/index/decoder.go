// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/plumbing/filemode"
	"github.com/antgroup/treemerge/modules/streamio"
)

var (
	ErrMalformedIndex      = fmt.Errorf("malformed index")
	ErrUnsupportedVersion  = fmt.Errorf("unsupported index version")
	ErrMismatchedIndexName = fmt.Errorf("mismatched index name length")
)

// Decoder reads an Index from the on-disk format written by Encoder.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a Decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the underlying reader into idx.
func (d *Decoder) Decode(idx *Index) error {
	r := streamio.GetBufioReader(d.r)
	defer streamio.PutBufioReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return err
	}
	if !bytes.Equal(magic[:], indexMagic[:]) {
		return ErrMalformedIndex
	}
	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return err
	}
	if version > EncodeVersionSupported {
		return ErrUnsupportedVersion
	}
	idx.Version = int(version)

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return err
	}
	idx.Entries = make([]*Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		entry, err := d.decodeEntry(r)
		if err != nil {
			return err
		}
		idx.Entries = append(idx.Entries, entry)
	}
	cache, err := d.decodeCache(r)
	if err != nil {
		return err
	}
	idx.Cache = cache
	return nil
}

func (d *Decoder) decodeEntry(r io.Reader) (*Entry, error) {
	e := &Entry{}
	var createdAt, modifiedAt int64
	if err := binary.Read(r, binary.BigEndian, &createdAt); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &modifiedAt); err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	e.ModifiedAt = time.Unix(modifiedAt, 0).UTC()

	var dev, inode, uid, gid, mode uint32
	for _, v := range []*uint32{&dev, &inode, &uid, &gid, &mode} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	e.Dev, e.Inode, e.UID, e.GID, e.Mode = dev, inode, uid, gid, filemode.FileMode(mode)

	if err := binary.Read(r, binary.BigEndian, &e.Size); err != nil {
		return nil, err
	}
	var stage int8
	if err := binary.Read(r, binary.BigEndian, &stage); err != nil {
		return nil, err
	}
	e.Stage = Stage(stage)
	var skip byte
	if err := binary.Read(r, binary.BigEndian, &skip); err != nil {
		return nil, err
	}
	e.SkipWorktree = skip != 0
	if _, err := io.ReadFull(r, e.Hash[:]); err != nil {
		return nil, err
	}
	var nameLen uint32
	if err := binary.Read(r, binary.BigEndian, &nameLen); err != nil {
		return nil, err
	}
	if nameLen > 1<<20 {
		return nil, ErrMismatchedIndexName
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, err
	}
	e.Name = string(name)
	return e, nil
}

func (d *Decoder) decodeCache(r io.Reader) (*Tree, error) {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	if count == 0 {
		return &Tree{}, nil
	}
	tree := &Tree{Entries: make([]TreeEntry, 0, count)}
	for i := uint32(0); i < count; i++ {
		var nameLen uint32
		if err := binary.Read(r, binary.BigEndian, &nameLen); err != nil {
			return nil, err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, err
		}
		var entries, trees int32
		if err := binary.Read(r, binary.BigEndian, &entries); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &trees); err != nil {
			return nil, err
		}
		var h plumbing.Hash
		if _, err := io.ReadFull(r, h[:]); err != nil {
			return nil, err
		}
		tree.Entries = append(tree.Entries, TreeEntry{
			Path:    string(name),
			Entries: int(entries),
			Trees:   int(trees),
			Hash:    h,
		})
	}
	return tree, nil
}
