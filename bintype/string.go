package bintype

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"

	"github.com/movelab/tdf/errs"
)

// TDF strings are stored in the Windows-1252 single-byte codepage,
// NUL-terminated and zero-padded to a fixed field width.

// ReadString reads a fixed-width string field. Decoding stops at the first
// NUL byte; a field with no terminator yields the full width.
func ReadString(r io.Reader, width int) (string, error) {
	raw, err := readN(r, width)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252 string: %w", err)
	}

	return string(s), nil
}

// WriteString writes s as a fixed-width string field. The encoded form plus
// its NUL terminator must fit in width bytes, otherwise errs.ErrStringTooLong.
func WriteString(w io.Writer, width int, s string) error {
	enc, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("encode windows-1252 string: %w", err)
	}
	if len(enc)+1 > width {
		return fmt.Errorf("%w: %q needs %d bytes, field holds %d", errs.ErrStringTooLong, s, len(enc)+1, width)
	}

	field := make([]byte, width)
	copy(field, enc)
	_, err = w.Write(field)

	return err
}
