package block

import (
	"fmt"
	"io"
	"math"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
	"github.com/movelab/tdf/segment"
)

// PlatformSample is one frame of a platform track: center of pressure in
// platform coordinates, resultant force and the torque about the vertical
// axis.
type PlatformSample struct {
	Point  bintype.Vec2
	Force  bintype.Vec3
	Torque float32
}

// PlatformTrack is a sparse channel of platform samples. Platform tracks are
// unlabelled; the physical channel map identifies them instead.
type PlatformTrack = segment.Track[PlatformSample]

// NewPlatformTrack builds a platform track from dense per-frame samples;
// frames whose center-of-pressure X component is NaN are treated as missing.
func NewPlatformTrack(samples []PlatformSample) *PlatformTrack {
	return segment.FromDense("", samples, platformCodec{})
}

type platformCodec struct{}

func (platformCodec) RecordSize() int { return 24 }

func (platformCodec) Blank() PlatformSample {
	nan := float32(math.NaN())

	return PlatformSample{
		Point:  bintype.Vec2{nan, nan},
		Force:  bintype.Vec3{nan, nan, nan},
		Torque: nan,
	}
}

func (platformCodec) Missing(s PlatformSample) bool { return math.IsNaN(float64(s.Point[0])) }

func (platformCodec) ReadRun(r io.Reader, n int) ([]PlatformSample, error) {
	flat, err := bintype.ReadFloat32Slice(r, 6*n)
	if err != nil {
		return nil, err
	}
	out := make([]PlatformSample, n)
	for i := range out {
		rec := flat[6*i : 6*i+6]
		copy(out[i].Point[:], rec[0:2])
		copy(out[i].Force[:], rec[2:5])
		out[i].Torque = rec[5]
	}

	return out, nil
}

func (platformCodec) WriteRun(w io.Writer, run []PlatformSample) error {
	flat := make([]float32, 0, 6*len(run))
	for _, s := range run {
		flat = append(flat, s.Point[:]...)
		flat = append(flat, s.Force[:]...)
		flat = append(flat, s.Torque)
	}

	return bintype.WriteFloat32Slice(w, flat)
}

// PlatformCodec is the segment codec for force platform tracks.
var PlatformCodec segment.Codec[PlatformSample] = platformCodec{}

// Platforms holds per-platform force capture data. Each track pairs a
// physical platform channel with an unlabelled sample track; channel numbers
// are unique within the block.
type Platforms struct {
	Frequency int32
	StartTime float32

	formatID format.PlatformFormat
	frames   int32
	channels []uint16
	tracks   []*PlatformTrack
}

// NewPlatforms creates an empty force platforms block.
func NewPlatforms(frequency, frames int32) *Platforms {
	return &Platforms{
		Frequency: frequency,
		formatID:  format.PlatformByTrackISS,
		frames:    frames,
	}
}

func buildPlatforms(r io.Reader, f format.PlatformFormat) (*Platforms, error) {
	if f != format.PlatformByTrackISS {
		return nil, errs.ErrUnsupportedFormat
	}

	nPlatforms, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	frequency, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	startTime, err := bintype.ReadFloat32(r)
	if err != nil {
		return nil, err
	}
	frames, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if nPlatforms < 0 || frames < 0 {
		return nil, fmt.Errorf("%w: negative platform or frame count (%d, %d)",
			errs.ErrInvalidContainer, nPlatforms, frames)
	}

	b := NewPlatforms(frequency, frames)
	b.StartTime = startTime

	channels, err := bintype.ReadUint16Slice(r, int(nPlatforms))
	if err != nil {
		return nil, err
	}

	for i := int32(0); i < nPlatforms; i++ {
		t, err := segment.Decode(r, 0, int(frames), PlatformCodec)
		if err != nil {
			return nil, err
		}
		if err := b.AddPlatformAt(channels[i], t); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *Platforms) Type() format.BlockType { return format.ForcePlatformsData }

func (b *Platforms) Format() uint32 { return uint32(b.formatID) }

// Frames returns the per-track frame count every track must match.
func (b *Platforms) Frames() int32 { return b.frames }

// Tracks returns the platform tracks in file order.
func (b *Platforms) Tracks() []*PlatformTrack { return b.tracks }

// Channels returns the physical platform channel numbers, aligned with Tracks.
func (b *Platforms) Channels() []uint16 { return b.channels }

// NPlatforms returns the number of platform tracks.
func (b *Platforms) NPlatforms() int { return len(b.tracks) }

// Platform returns the track captured on the given physical channel.
func (b *Platforms) Platform(channel uint16) (*PlatformTrack, error) {
	for i, ch := range b.channels {
		if ch == channel {
			return b.tracks[i], nil
		}
	}

	return nil, errs.ErrTrackNotFound
}

// AddPlatform appends a platform track on the next free channel number.
func (b *Platforms) AddPlatform(t *PlatformTrack) error {
	next := uint16(0)
	for _, ch := range b.channels {
		if ch >= next {
			next = ch + 1
		}
	}

	return b.AddPlatformAt(next, t)
}

// AddPlatformAt appends a platform track on an explicit channel number. The
// channel must be free and the track's frame count must match the block's.
func (b *Platforms) AddPlatformAt(channel uint16, t *PlatformTrack) error {
	if int32(t.Frames()) != b.frames {
		return errs.ErrFrameCountMismatch
	}
	for _, ch := range b.channels {
		if ch == channel {
			return fmt.Errorf("%w: platform channel %d", errs.ErrChannelInUse, channel)
		}
	}
	b.channels = append(b.channels, channel)
	b.tracks = append(b.tracks, t)

	return nil
}

// RemovePlatform removes the track on the given channel; the channel becomes
// free.
func (b *Platforms) RemovePlatform(channel uint16) error {
	for i, ch := range b.channels {
		if ch == channel {
			b.channels = append(b.channels[:i], b.channels[i+1:]...)
			b.tracks = append(b.tracks[:i], b.tracks[i+1:]...)

			return nil
		}
	}

	return errs.ErrTrackNotFound
}

func (b *Platforms) Size() int {
	size := 4 + 4 + 4 + 4 + 2*len(b.channels)
	for _, t := range b.tracks {
		size += t.Size(0, PlatformCodec)
	}

	return size
}

func (b *Platforms) Write(w io.Writer) error {
	if err := bintype.WriteInt32(w, int32(len(b.tracks))); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, b.Frequency); err != nil {
		return err
	}
	if err := bintype.WriteFloat32(w, b.StartTime); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, b.frames); err != nil {
		return err
	}
	if err := bintype.WriteUint16Slice(w, b.channels); err != nil {
		return err
	}
	for _, t := range b.tracks {
		if err := t.Encode(w, 0, PlatformCodec); err != nil {
			return err
		}
	}

	return nil
}
