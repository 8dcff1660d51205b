package container

import (
	"io"
	"time"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/format"
)

// Entry is one decoded entry table record: the type, sub-format, location and
// provenance of one payload block.
type Entry struct {
	Type             format.BlockType
	Format           uint32
	Offset           int32
	Size             int32
	Creation         time.Time
	LastModification time.Time
	LastAccess       time.Time
	Comment          string
}

// IsUnused reports whether the entry is a sentinel slot with no payload.
func (e Entry) IsUnused() bool {
	return e.Type == format.UnusedSlot
}

func unusedEntry(offset int32, now time.Time) Entry {
	return Entry{
		Type:             format.UnusedSlot,
		Offset:           offset,
		Creation:         now,
		LastModification: now,
		LastAccess:       now,
	}
}

func readEntry(r io.Reader) (Entry, error) {
	var e Entry
	typ, err := bintype.ReadUint32(r)
	if err != nil {
		return e, err
	}
	e.Type = format.BlockType(typ)
	if e.Format, err = bintype.ReadUint32(r); err != nil {
		return e, err
	}
	if e.Offset, err = bintype.ReadInt32(r); err != nil {
		return e, err
	}
	if e.Size, err = bintype.ReadInt32(r); err != nil {
		return e, err
	}
	if e.Creation, err = bintype.ReadTime(r); err != nil {
		return e, err
	}
	if e.LastModification, err = bintype.ReadTime(r); err != nil {
		return e, err
	}
	if e.LastAccess, err = bintype.ReadTime(r); err != nil {
		return e, err
	}
	if err = bintype.Skip(r, 4); err != nil {
		return e, err
	}
	if e.Comment, err = bintype.ReadString(r, CommentSize); err != nil {
		return e, err
	}

	return e, nil
}

func writeEntry(w io.Writer, e Entry) error {
	if err := bintype.WriteUint32(w, uint32(e.Type)); err != nil {
		return err
	}
	if err := bintype.WriteUint32(w, e.Format); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, e.Offset); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, e.Size); err != nil {
		return err
	}
	for _, t := range []time.Time{e.Creation, e.LastModification, e.LastAccess} {
		if err := bintype.WriteTime(w, t); err != nil {
			return err
		}
	}
	if err := bintype.Pad(w, 4); err != nil {
		return err
	}

	return bintype.WriteString(w, CommentSize, e.Comment)
}
