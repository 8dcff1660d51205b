package block

import (
	"fmt"
	"io"

	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

// Raw is an opaque block: a payload whose type belongs to the closed
// enumeration but has no structured codec. It round-trips byte-exactly, so
// containers carrying such blocks can still be copied, replaced and compacted
// without loss.
type Raw struct {
	typ      format.BlockType
	formatID uint32

	// Data is the verbatim payload.
	Data []byte
}

// NewRaw wraps payload bytes as an opaque block of the given type.
func NewRaw(typ format.BlockType, formatID uint32, data []byte) *Raw {
	return &Raw{typ: typ, formatID: formatID, Data: data}
}

func buildRaw(r io.Reader, typ format.BlockType, formatID uint32, size int) (*Raw, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative payload size %d", errs.ErrInvalidContainer, size)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: raw %s payload of %d bytes: %v", errs.ErrUnexpectedEOF, typ, size, err)
	}

	return &Raw{typ: typ, formatID: formatID, Data: data}, nil
}

func (b *Raw) Type() format.BlockType { return b.typ }

func (b *Raw) Format() uint32 { return b.formatID }

func (b *Raw) Size() int { return len(b.Data) }

func (b *Raw) Write(w io.Writer) error {
	_, err := w.Write(b.Data)

	return err
}
