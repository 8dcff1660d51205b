package block

import (
	"fmt"
	"io"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

const opticalNameWidth = 32

// OpticalChannel describes one camera of the optical rig: its logical channel
// number, hardware identity strings and active sensor window.
type OpticalChannel struct {
	LogicalIndex int32
	LensName     string
	CameraType   string
	CameraName   string
	Viewport     Viewport
}

func (c OpticalChannel) size() int { return 4 + 4 + 3*opticalNameWidth + viewportSize }

// OpticalSetup holds the hardware configuration of the optical system.
type OpticalSetup struct {
	formatID format.OpticalFormat
	channels []OpticalChannel
}

// NewOpticalSetup creates an optical setup block from its channel records.
func NewOpticalSetup(channels []OpticalChannel) *OpticalSetup {
	return &OpticalSetup{formatID: format.OpticalBasic, channels: channels}
}

func buildOpticalSetup(r io.Reader, f format.OpticalFormat) (*OpticalSetup, error) {
	if f != format.OpticalBasic {
		return nil, errs.ErrUnsupportedFormat
	}

	nChannels, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if nChannels < 0 {
		return nil, fmt.Errorf("%w: negative channel count %d", errs.ErrInvalidContainer, nChannels)
	}
	if err := bintype.Skip(r, 4); err != nil {
		return nil, err
	}

	channels := make([]OpticalChannel, nChannels)
	for i := range channels {
		c := &channels[i]
		if c.LogicalIndex, err = bintype.ReadInt32(r); err != nil {
			return nil, err
		}
		if err := bintype.Skip(r, 4); err != nil {
			return nil, err
		}
		if c.LensName, err = bintype.ReadString(r, opticalNameWidth); err != nil {
			return nil, err
		}
		if c.CameraType, err = bintype.ReadString(r, opticalNameWidth); err != nil {
			return nil, err
		}
		if c.CameraName, err = bintype.ReadString(r, opticalNameWidth); err != nil {
			return nil, err
		}
		if c.Viewport, err = readViewport(r); err != nil {
			return nil, err
		}
	}

	return NewOpticalSetup(channels), nil
}

func (b *OpticalSetup) Type() format.BlockType { return format.OpticalSetup }

func (b *OpticalSetup) Format() uint32 { return uint32(b.formatID) }

// Channels returns the camera channel records in file order.
func (b *OpticalSetup) Channels() []OpticalChannel { return b.channels }

// NChannels returns the number of camera channels.
func (b *OpticalSetup) NChannels() int { return len(b.channels) }

func (b *OpticalSetup) Size() int {
	size := 4 + 4
	for _, c := range b.channels {
		size += c.size()
	}

	return size
}

func (b *OpticalSetup) Write(w io.Writer) error {
	if err := bintype.WriteInt32(w, int32(len(b.channels))); err != nil {
		return err
	}
	if err := bintype.Pad(w, 4); err != nil {
		return err
	}
	for _, c := range b.channels {
		if err := bintype.WriteInt32(w, c.LogicalIndex); err != nil {
			return err
		}
		if err := bintype.Pad(w, 4); err != nil {
			return err
		}
		for _, s := range []string{c.LensName, c.CameraType, c.CameraName} {
			if err := bintype.WriteString(w, opticalNameWidth, s); err != nil {
				return err
			}
		}
		if err := writeViewport(w, c.Viewport); err != nil {
			return err
		}
	}

	return nil
}
