package block

import (
	"io"

	"github.com/movelab/tdf/bintype"
)

// Viewport is the active pixel window of a camera sensor: origin plus size,
// both in integer pixels.
type Viewport struct {
	Origin bintype.Vec2i
	Size   bintype.Vec2i
}

const viewportSize = 16

func readViewport(r io.Reader) (Viewport, error) {
	var v Viewport
	var err error
	if v.Origin, err = bintype.ReadVec2i(r); err != nil {
		return v, err
	}
	if v.Size, err = bintype.ReadVec2i(r); err != nil {
		return v, err
	}

	return v, nil
}

func writeViewport(w io.Writer, v Viewport) error {
	if err := bintype.WriteVec2i(w, v.Origin); err != nil {
		return err
	}

	return bintype.WriteVec2i(w, v.Size)
}
