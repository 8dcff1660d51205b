// Package container implements the TDF container engine: the fixed 64-byte
// header, the fixed-width entry table that indexes every payload block, and
// the read/write sessions that open, scan, append, replace and compact
// container files on disk.
package container

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
)

const (
	// HeaderSize is the fixed on-disk size of the container header.
	HeaderSize = 64

	// EntrySize is the fixed on-disk size of one entry table record.
	EntrySize = 288

	// CommentSize is the width of the Windows-1252 comment field of an entry.
	CommentSize = 256

	// DefaultEntryCount is the table capacity of a newly created container.
	// Capacity is fixed at creation; the table never grows.
	DefaultEntryCount = 14

	// Version is the format version written into new containers.
	Version = 1
)

// Signature is the 16-byte magic sequence every container starts with.
var Signature = [16]byte{
	0x82, 0x4B, 0x60, 0x41, 0xD3, 0x11, 0x84, 0xCA,
	0x60, 0x00, 0xB6, 0xAC, 0x16, 0x68, 0x0C, 0x08,
}

// Header is the decoded container header.
type Header struct {
	Version          uint32
	NEntries         int32
	Creation         time.Time
	LastModification time.Time
	LastAccess       time.Time
}

func readHeader(r io.Reader) (Header, error) {
	var magic [16]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, fmt.Errorf("%w: reading signature: %v", errs.ErrInvalidContainer, err)
	}
	if !bytes.Equal(magic[:], Signature[:]) {
		return Header{}, fmt.Errorf("%w: bad signature", errs.ErrInvalidContainer)
	}

	var h Header
	var err error
	if h.Version, err = bintype.ReadUint32(r); err != nil {
		return Header{}, err
	}
	if h.NEntries, err = bintype.ReadInt32(r); err != nil {
		return Header{}, err
	}
	if h.NEntries < 0 {
		return Header{}, fmt.Errorf("%w: negative entry count %d", errs.ErrInvalidContainer, h.NEntries)
	}
	if err = bintype.Skip(r, 8); err != nil {
		return Header{}, err
	}
	if h.Creation, err = bintype.ReadTime(r); err != nil {
		return Header{}, err
	}
	if h.LastModification, err = bintype.ReadTime(r); err != nil {
		return Header{}, err
	}
	if h.LastAccess, err = bintype.ReadTime(r); err != nil {
		return Header{}, err
	}
	if err = bintype.Skip(r, 20); err != nil {
		return Header{}, err
	}

	return h, nil
}

func writeHeader(w io.Writer, h Header) error {
	if _, err := w.Write(Signature[:]); err != nil {
		return err
	}
	if err := bintype.WriteUint32(w, h.Version); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, h.NEntries); err != nil {
		return err
	}
	if err := bintype.Pad(w, 8); err != nil {
		return err
	}
	for _, t := range []time.Time{h.Creation, h.LastModification, h.LastAccess} {
		if err := bintype.WriteTime(w, t); err != nil {
			return err
		}
	}

	return bintype.Pad(w, 20)
}
