package block

import (
	"fmt"
	"io"
	"math"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
	"github.com/movelab/tdf/internal/hash"
	"github.com/movelab/tdf/segment"
)

// ForceSample is one frame of a force/torque track: application point, force
// vector and torque vector in the lab reference frame.
type ForceSample struct {
	Point  bintype.Vec3
	Force  bintype.Vec3
	Torque bintype.Vec3
}

// ForceTrack is a sparse channel of force/torque samples.
type ForceTrack = segment.Track[ForceSample]

// NewForceTrack builds a force track from dense per-frame samples; frames
// whose application-point X component is NaN are treated as missing.
func NewForceTrack(label string, samples []ForceSample) *ForceTrack {
	return segment.FromDense(label, samples, forceCodec{})
}

// forceCodec packs force runs planar: all points of the run, then all forces,
// then all torques. This matches the reference layout, which groups each
// component across the run instead of interleaving per frame.
type forceCodec struct{}

func (forceCodec) RecordSize() int { return 36 }

func (forceCodec) Blank() ForceSample {
	nan := float32(math.NaN())
	v := bintype.Vec3{nan, nan, nan}

	return ForceSample{Point: v, Force: v, Torque: v}
}

func (forceCodec) Missing(s ForceSample) bool { return math.IsNaN(float64(s.Point[0])) }

func (forceCodec) ReadRun(r io.Reader, n int) ([]ForceSample, error) {
	out := make([]ForceSample, n)
	for _, pick := range []func(*ForceSample) *bintype.Vec3{
		func(s *ForceSample) *bintype.Vec3 { return &s.Point },
		func(s *ForceSample) *bintype.Vec3 { return &s.Force },
		func(s *ForceSample) *bintype.Vec3 { return &s.Torque },
	} {
		flat, err := bintype.ReadFloat32Slice(r, 3*n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			copy(pick(&out[i])[:], flat[3*i:3*i+3])
		}
	}

	return out, nil
}

func (forceCodec) WriteRun(w io.Writer, run []ForceSample) error {
	flat := make([]float32, 0, 3*len(run))
	for _, pick := range []func(ForceSample) bintype.Vec3{
		func(s ForceSample) bintype.Vec3 { return s.Point },
		func(s ForceSample) bintype.Vec3 { return s.Force },
		func(s ForceSample) bintype.Vec3 { return s.Torque },
	} {
		flat = flat[:0]
		for _, s := range run {
			v := pick(s)
			flat = append(flat, v[:]...)
		}
		if err := bintype.WriteFloat32Slice(w, flat); err != nil {
			return err
		}
	}

	return nil
}

// ForceCodec is the segment codec for force/torque tracks.
var ForceCodec segment.Codec[ForceSample] = forceCodec{}

// ForceTorque3D holds the force and torque tracks of a capture, typically one
// per tracked body or platform resultant.
type ForceTorque3D struct {
	Frequency         int32
	StartTime         float32
	Volume            bintype.Vec3
	RotationMatrix    bintype.Mat3x3
	TranslationVector bintype.Vec3

	formatID format.Force3DFormat
	frames   int32
	tracks   []*ForceTrack
	index    map[uint64]int
}

// NewForceTorque3D creates an empty force/torque block.
func NewForceTorque3D(frequency, frames int32, volume bintype.Vec3, rotation bintype.Mat3x3, translation bintype.Vec3) *ForceTorque3D {
	return &ForceTorque3D{
		Frequency:         frequency,
		Volume:            volume,
		RotationMatrix:    rotation,
		TranslationVector: translation,
		formatID:          format.Force3DByTrack,
		frames:            frames,
		index:             make(map[uint64]int),
	}
}

func buildForceTorque3D(r io.Reader, f format.Force3DFormat) (*ForceTorque3D, error) {
	if f != format.Force3DByTrack {
		return nil, errs.ErrUnsupportedFormat
	}

	frames, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if frames < 0 {
		return nil, fmt.Errorf("%w: negative frame count %d", errs.ErrInvalidContainer, frames)
	}
	frequency, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	startTime, err := bintype.ReadFloat32(r)
	if err != nil {
		return nil, err
	}
	nTracks, err := bintype.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	volume, err := bintype.ReadVec3(r)
	if err != nil {
		return nil, err
	}
	rotation, err := bintype.ReadMat3x3(r)
	if err != nil {
		return nil, err
	}
	translation, err := bintype.ReadVec3(r)
	if err != nil {
		return nil, err
	}
	if err := bintype.Skip(r, 4); err != nil {
		return nil, err
	}

	b := NewForceTorque3D(frequency, frames, volume, rotation, translation)
	b.StartTime = startTime

	for i := uint32(0); i < nTracks; i++ {
		t, err := segment.Decode(r, segment.LabelWidth, int(frames), ForceCodec)
		if err != nil {
			return nil, err
		}
		if err := b.AddTrack(t); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *ForceTorque3D) Type() format.BlockType { return format.ForceTorqueData }

func (b *ForceTorque3D) Format() uint32 { return uint32(b.formatID) }

// Frames returns the per-track frame count every track must match.
func (b *ForceTorque3D) Frames() int32 { return b.frames }

// Tracks returns the force tracks in file order.
func (b *ForceTorque3D) Tracks() []*ForceTrack { return b.tracks }

// NTracks returns the number of force tracks.
func (b *ForceTorque3D) NTracks() int { return len(b.tracks) }

// Track finds a force track by label.
func (b *ForceTorque3D) Track(label string) (*ForceTrack, error) {
	if i, ok := b.index[hash.LabelID(label)]; ok {
		return b.tracks[i], nil
	}

	return nil, errs.ErrTrackNotFound
}

// AddTrack appends a track. The track's frame count must match the block's.
func (b *ForceTorque3D) AddTrack(t *ForceTrack) error {
	if int32(t.Frames()) != b.frames {
		return errs.ErrFrameCountMismatch
	}
	b.index[hash.LabelID(t.Label)] = len(b.tracks)
	b.tracks = append(b.tracks, t)

	return nil
}

// SetTracks replaces the whole track collection. On any failure the prior
// collection is restored untouched.
func (b *ForceTorque3D) SetTracks(tracks []*ForceTrack) error {
	oldTracks, oldIndex := b.tracks, b.index
	b.tracks = nil
	b.index = make(map[uint64]int, len(tracks))
	for _, t := range tracks {
		if err := b.AddTrack(t); err != nil {
			b.tracks, b.index = oldTracks, oldIndex

			return err
		}
	}

	return nil
}

func (b *ForceTorque3D) Size() int {
	size := 4 + 4 + 4 + 4 + 12 + 36 + 12 + 4
	for _, t := range b.tracks {
		size += t.Size(segment.LabelWidth, ForceCodec)
	}

	return size
}

func (b *ForceTorque3D) Write(w io.Writer) error {
	if err := bintype.WriteInt32(w, b.frames); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, b.Frequency); err != nil {
		return err
	}
	if err := bintype.WriteFloat32(w, b.StartTime); err != nil {
		return err
	}
	if err := bintype.WriteUint32(w, uint32(len(b.tracks))); err != nil {
		return err
	}
	if err := bintype.WriteVec3(w, b.Volume); err != nil {
		return err
	}
	if err := bintype.WriteMat3x3(w, b.RotationMatrix); err != nil {
		return err
	}
	if err := bintype.WriteVec3(w, b.TranslationVector); err != nil {
		return err
	}
	if err := bintype.Pad(w, 4); err != nil {
		return err
	}
	for _, t := range b.tracks {
		if err := t.Encode(w, segment.LabelWidth, ForceCodec); err != nil {
			return err
		}
	}

	return nil
}
