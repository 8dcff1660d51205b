package container

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/movelab/tdf/block"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

// DefaultComment is the entry comment used when the caller supplies none.
const DefaultComment = "Generated by tdf"

// New creates an empty container at path: a version-1 header followed by
// DefaultEntryCount unused slots whose offsets all point past the entry
// table. It fails with errs.ErrAlreadyExists if path exists.
func New(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", errs.ErrAlreadyExists, path)
		}

		return err
	}
	defer f.Close()

	now := time.Now()
	w := bufio.NewWriter(f)
	h := Header{
		Version:          Version,
		NEntries:         DefaultEntryCount,
		Creation:         now,
		LastModification: now,
		LastAccess:       now,
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	payloadStart := int32(HeaderSize + EntrySize*DefaultEntryCount)
	for i := 0; i < DefaultEntryCount; i++ {
		if err := writeEntry(w, unusedEntry(payloadStart, now)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return f.Sync()
}

// ReadSession is an open read-only view of a container: the decoded header
// and entry table plus the underlying file for payload access. Sessions own
// their file exclusively and must be closed.
type ReadSession struct {
	f       *os.File
	header  Header
	entries []Entry
}

// OpenRead opens a container for reading. It fails with errs.ErrNotFound if
// path does not exist and errs.ErrInvalidContainer if the signature does not
// match.
func OpenRead(path string) (*ReadSession, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, path)
		}

		return nil, err
	}

	s := &ReadSession{f: f}
	if err := s.load(); err != nil {
		f.Close()

		return nil, err
	}

	return s, nil
}

func (s *ReadSession) load() error {
	r := bufio.NewReader(s.f)
	h, err := readHeader(r)
	if err != nil {
		return err
	}
	entries := make([]Entry, h.NEntries)
	for i := range entries {
		if entries[i], err = readEntry(r); err != nil {
			return err
		}
	}
	s.header = h
	s.entries = entries

	return nil
}

// Close releases the underlying file.
func (s *ReadSession) Close() error {
	return s.f.Close()
}

// Header returns the decoded container header.
func (s *ReadSession) Header() Header {
	return s.header
}

// Entries returns the decoded entry table in slot order.
func (s *ReadSession) Entries() []Entry {
	return s.entries
}

// Size returns the container's total byte size on disk.
func (s *ReadSession) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// Has reports whether an entry of the given type exists.
func (s *ReadSession) Has(typ format.BlockType) bool {
	return s.find(typ) >= 0
}

func (s *ReadSession) find(typ format.BlockType) int {
	for i, e := range s.entries {
		if e.Type == typ {
			return i
		}
	}

	return -1
}

// Block decodes the block of the given type. It fails with
// errs.ErrBlockNotFound if no entry of that type exists.
func (s *ReadSession) Block(typ format.BlockType) (block.Block, error) {
	i := s.find(typ)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrBlockNotFound, typ)
	}

	return s.BlockAt(i)
}

// BlockAt decodes the block indexed by entry table slot i.
func (s *ReadSession) BlockAt(i int) (block.Block, error) {
	if i < 0 || i >= len(s.entries) {
		return nil, fmt.Errorf("%w: entry %d of %d", errs.ErrIndexOutOfRange, i, len(s.entries))
	}
	e := s.entries[i]
	r := bufio.NewReader(io.NewSectionReader(s.f, int64(e.Offset), int64(e.Size)))

	return block.Build(r, e.Type, e.Format, int(e.Size))
}

// Blocks decodes every non-sentinel block in slot order.
func (s *ReadSession) Blocks() ([]block.Block, error) {
	var out []block.Block
	for i, e := range s.entries {
		if e.IsUnused() || e.Type == format.NotDefined {
			continue
		}
		b, err := s.BlockAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, nil
}

// Comment returns the entry comment of the given block type.
func (s *ReadSession) Comment(typ format.BlockType) (string, error) {
	i := s.find(typ)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", errs.ErrBlockNotFound, typ)
	}

	return s.entries[i].Comment, nil
}
