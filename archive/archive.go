// Package archive packs container files into single-frame compressed
// sidecars for cold storage and restores them. An archive is a small fixed
// header naming the algorithm followed by one compressed frame of the whole
// container.
package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/movelab/tdf/compress"
	"github.com/movelab/tdf/errs"
)

// Ext is the conventional file extension of packed containers.
const Ext = ".tdz"

// magic marks a packed container.
var magic = [4]byte{'T', 'D', 'F', 'Z'}

// headerSize is magic + algorithm byte + 3 reserved + original size.
const headerSize = 4 + 1 + 3 + 8

// Pack compresses the container at src into a new archive at dst using the
// given algorithm. It fails with errs.ErrAlreadyExists if dst exists and
// errs.ErrNotFound if src does not.
func Pack(src, dst string, typ compress.CompressionType) error {
	codec, err := compress.GetCodec(typ)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errs.ErrNotFound, src)
		}

		return err
	}
	compressed, err := codec.Compress(data)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", errs.ErrAlreadyExists, dst)
		}

		return err
	}
	defer f.Close()

	header := make([]byte, headerSize)
	copy(header, magic[:])
	header[4] = byte(typ)
	binary.LittleEndian.PutUint64(header[8:], uint64(len(data)))
	if _, err := f.Write(header); err != nil {
		return err
	}
	if _, err := f.Write(compressed); err != nil {
		return err
	}

	return f.Sync()
}

// Unpack restores the container archived at src into a new file at dst. It
// fails with errs.ErrInvalidContainer on bad framing, errs.ErrAlreadyExists
// if dst exists and errs.ErrNotFound if src does not.
func Unpack(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errs.ErrNotFound, src)
		}

		return err
	}
	if len(raw) < headerSize || !bytes.Equal(raw[:4], magic[:]) {
		return fmt.Errorf("%w: not a packed container", errs.ErrInvalidContainer)
	}
	typ := compress.CompressionType(raw[4])
	codec, err := compress.GetCodec(typ)
	if err != nil {
		return err
	}
	originalSize := binary.LittleEndian.Uint64(raw[8:16])

	data, err := codec.Decompress(raw[headerSize:])
	if err != nil {
		return err
	}
	if uint64(len(data)) != originalSize {
		return fmt.Errorf("%w: archive declares %d bytes, frame holds %d",
			errs.ErrInvalidContainer, originalSize, len(data))
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", errs.ErrAlreadyExists, dst)
		}

		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return f.Sync()
}
