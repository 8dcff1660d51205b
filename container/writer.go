package container

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/movelab/tdf/block"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
	"github.com/movelab/tdf/internal/pool"
)

// WriteSession is an open read-write view of a container. It extends
// ReadSession with the mutating table operations; holding one is the only way
// to reach them, so a read-only handle can never mutate.
type WriteSession struct {
	ReadSession
}

// OpenWrite opens a container for reading and writing. It fails with
// errs.ErrNotFound if path does not exist and errs.ErrInvalidContainer if the
// signature does not match.
func OpenWrite(path string) (*WriteSession, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, path)
		}

		return nil, err
	}

	s := &WriteSession{ReadSession{f: f}}
	if err := s.load(); err != nil {
		f.Close()

		return nil, err
	}

	return s, nil
}

// AddBlock appends b to the container: the first unused slot takes the new
// entry, every trailing unused slot's offset moves to the new end of file,
// and the payload is written at the slot's previously recorded offset.
//
// It fails with errs.ErrDuplicateBlockType if a block of b's type already
// exists, errs.ErrCapacityExceeded if no unused slot remains, and
// errs.ErrCorruptLayout if a real entry follows an unused one. All checks run
// before the first disk write, so a failed add leaves the file unchanged.
func (s *WriteSession) AddBlock(b block.Block, comment string) error {
	if s.find(b.Type()) >= 0 {
		return fmt.Errorf("%w: %s", errs.ErrDuplicateBlockType, b.Type())
	}
	slot := -1
	for i, e := range s.entries {
		if e.IsUnused() {
			slot = i

			break
		}
	}
	if slot < 0 {
		return fmt.Errorf("%w: all %d slots in use", errs.ErrCapacityExceeded, len(s.entries))
	}
	for i := slot + 1; i < len(s.entries); i++ {
		if !s.entries[i].IsUnused() {
			return fmt.Errorf("%w: entry %d (%s) follows unused slot %d",
				errs.ErrCorruptLayout, i, s.entries[i].Type, slot)
		}
	}

	if comment == "" {
		comment = DefaultComment
	}
	now := time.Now()
	offset := s.entries[slot].Offset
	size := int32(b.Size())
	updated := make([]Entry, len(s.entries)-slot)
	updated[0] = Entry{
		Type:             b.Type(),
		Format:           b.Format(),
		Offset:           offset,
		Size:             size,
		Creation:         now,
		LastModification: now,
		LastAccess:       now,
		Comment:          comment,
	}
	for i := 1; i < len(updated); i++ {
		updated[i] = s.entries[slot+i]
		updated[i].Offset = offset + size
	}

	// Encode the table slots up front so anything writeEntry can reject (an
	// oversized comment, say) fails before the table or the file is touched.
	var table bytes.Buffer
	for _, e := range updated {
		if err := writeEntry(&table, e); err != nil {
			return err
		}
	}

	copy(s.entries[slot:], updated)
	if _, err := s.f.WriteAt(table.Bytes(), int64(HeaderSize+EntrySize*slot)); err != nil {
		return err
	}

	if _, err := s.f.Seek(int64(offset), io.SeekStart); err != nil {
		return err
	}
	w := bufio.NewWriter(s.f)
	if err := b.Write(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return s.f.Sync()
}

// RemoveBlock removes the block of the given type: its entry leaves the
// table, every later entry's offset shifts left by the removed size, a fresh
// unused slot takes the freed table position, and the payload region is
// compacted by a buffered splice. It fails with errs.ErrBlockNotFound if no
// entry of that type exists.
func (s *WriteSession) RemoveBlock(typ format.BlockType) error {
	i := s.find(typ)
	if i < 0 {
		return fmt.Errorf("%w: %s", errs.ErrBlockNotFound, typ)
	}
	removedOffset := s.entries[i].Offset
	removedSize := s.entries[i].Size

	nextAvailable := int32(HeaderSize + EntrySize*len(s.entries))
	if i != 0 {
		nextAvailable = s.entries[len(s.entries)-1].Offset
	}

	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	for j := i; j < len(s.entries); j++ {
		s.entries[j].Offset -= removedSize
	}
	s.entries = append(s.entries, unusedEntry(nextAvailable, time.Now()))
	if err := s.writeEntries(i); err != nil {
		return err
	}

	return s.splice(int64(removedOffset), int64(removedSize))
}

// ReplaceBlock swaps the existing block of b's type for b, keeping the prior
// entry comment when none is supplied. It is a remove followed by an add, not
// an in-place overwrite. It fails with errs.ErrBlockNotFound if no block of
// b's type exists.
func (s *WriteSession) ReplaceBlock(b block.Block, comment string) error {
	i := s.find(b.Type())
	if i < 0 {
		return fmt.Errorf("%w: %s", errs.ErrBlockNotFound, b.Type())
	}
	if comment == "" {
		comment = s.entries[i].Comment
	}
	if err := s.RemoveBlock(b.Type()); err != nil {
		return err
	}

	return s.AddBlock(b, comment)
}

// writeEntries persists table slots from..end.
func (s *WriteSession) writeEntries(from int) error {
	if _, err := s.f.Seek(int64(HeaderSize+EntrySize*from), io.SeekStart); err != nil {
		return err
	}
	w := bufio.NewWriter(s.f)
	for _, e := range s.entries[from:] {
		if err := writeEntry(w, e); err != nil {
			return err
		}
	}

	return w.Flush()
}

// splice closes a size-byte hole at offset by copying everything after the
// hole left in fixed-size chunks, then truncating. Chunked so containers far
// larger than memory stay removable.
func (s *WriteSession) splice(offset, size int64) error {
	info, err := s.f.Stat()
	if err != nil {
		return err
	}
	fileSize := info.Size()

	buf := pool.GetSpliceBuffer()
	defer pool.PutSpliceBuffer(buf)

	src, dst := offset+size, offset
	for src < fileSize {
		n := int64(len(*buf))
		if rest := fileSize - src; rest < n {
			n = rest
		}
		if _, err := s.f.ReadAt((*buf)[:n], src); err != nil {
			return err
		}
		if _, err := s.f.WriteAt((*buf)[:n], dst); err != nil {
			return err
		}
		src += n
		dst += n
	}
	if err := s.f.Truncate(fileSize - size); err != nil {
		return err
	}

	return s.f.Sync()
}
