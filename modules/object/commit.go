// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/antgroup/treemerge/modules/plumbing"
	"github.com/antgroup/treemerge/modules/streamio"
)

// DateFormat is the format being used in the original git implementation
const DateFormat = "Mon Jan 02 15:04:05 2006 -0700"

// Signature names who authored or committed, and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Decode parses the "Name <email> unix-ts tz-offset" encoding used on
// the author and committer headers.
func (s *Signature) Decode(b []byte) {
	open := bytes.LastIndexByte(b, '<')
	closed := bytes.LastIndexByte(b, '>')
	if open == -1 || closed == -1 || closed < open {
		s.Name = string(bytes.TrimSpace(b))
		return
	}
	s.Name = string(bytes.TrimSpace(b[:open]))
	s.Email = string(b[open+1 : closed])
	rest := bytes.TrimSpace(b[closed+1:])
	if len(rest) == 0 {
		return
	}
	fields := bytes.Fields(rest)
	ts, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return
	}
	loc := time.UTC
	if len(fields) > 1 && len(fields[1]) == 5 {
		tz := string(fields[1])
		hh, herr := strconv.Atoi(tz[1:3])
		mm, merr := strconv.Atoi(tz[3:5])
		if herr == nil && merr == nil {
			offset := (hh*60 + mm) * 60
			if tz[0] == '-' {
				offset = -offset
			}
			loc = time.FixedZone(tz, offset)
		}
	}
	s.When = time.Unix(ts, 0).In(loc)
}

func (s *Signature) Encode(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
	return err
}

func (s *Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// Commit binds a root tree to its ancestry.
type Commit struct {
	Hash      plumbing.Hash
	Tree      plumbing.Hash
	Parents   []plumbing.Hash
	Author    Signature
	Committer Signature
	Message   string

	b Backend
}

// Bind attaches a backend so Root can resolve the commit's tree.
func (c *Commit) Bind(b Backend) {
	c.b = b
}

// Encode writes the textual commit encoding: tree and parent headers,
// author and committer, a blank line, then the message.
func (c *Commit) Encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "tree %s\n", c.Tree); err != nil {
		return err
	}
	for _, parent := range c.Parents {
		if _, err := fmt.Fprintf(w, "parent %s\n", parent); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "author "); err != nil {
		return err
	}
	if err := c.Author.Encode(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\ncommitter "); err != nil {
		return err
	}
	if err := c.Committer.Encode(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n\n%s", c.Message)
	return err
}

// Decode parses the encoding written by Encode. The caller supplies
// the oid the bytes were addressed by.
func (c *Commit) Decode(oid plumbing.Hash, reader io.Reader) error {
	r := streamio.GetBufioReader(reader)
	defer streamio.PutBufioReader(r)

	c.Hash = oid
	c.Parents = nil
	var message strings.Builder
	inMessage := false
	for {
		line, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if inMessage {
			message.Write(line)
		} else {
			trimmed := bytes.TrimRight(line, "\n")
			if len(trimmed) == 0 {
				inMessage = true
			} else if herr := c.decodeHeader(trimmed); herr != nil {
				return herr
			}
		}
		if err == io.EOF {
			break
		}
	}
	c.Message = message.String()
	return nil
}

func (c *Commit) decodeHeader(line []byte) error {
	key, value, ok := bytes.Cut(line, []byte{' '})
	if !ok {
		return fmt.Errorf("malformed commit header %q", line)
	}
	switch string(key) {
	case "tree":
		oid, err := plumbing.NewHashEx(string(value))
		if err != nil {
			return err
		}
		c.Tree = oid
	case "parent":
		oid, err := plumbing.NewHashEx(string(value))
		if err != nil {
			return err
		}
		c.Parents = append(c.Parents, oid)
	case "author":
		c.Author.Decode(value)
	case "committer":
		c.Committer.Decode(value)
	default:
		// Unknown headers are preserved-by-ignoring: this decoder only
		// needs the ancestry and the tree.
	}
	return nil
}

// Root resolves the commit's tree through its backend.
func (c *Commit) Root(ctx context.Context) (*Tree, error) {
	return resolveTree(ctx, c.b, c.Tree)
}

func (c *Commit) NumParents() int {
	return len(c.Parents)
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(subject)
}

func (c *Commit) String() string {
	var sb strings.Builder
	w := bufio.NewWriter(&sb)
	fmt.Fprintf(w, "commit %s\nAuthor: %s\nDate:   %s\n\n    %s\n",
		c.Hash, c.Author.String(), c.Author.When.Format(DateFormat), c.Subject())
	_ = w.Flush()
	return sb.String()
}
