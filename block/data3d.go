package block

import (
	"fmt"
	"io"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
	"github.com/movelab/tdf/internal/hash"
	"github.com/movelab/tdf/segment"
)

// MarkerTrack is a sparse channel of 3-float marker positions.
type MarkerTrack = segment.Track[bintype.Vec3]

// NewMarkerTrack builds a marker track from dense per-frame positions; frames
// whose X component is NaN are treated as missing.
func NewMarkerTrack(label string, positions []bintype.Vec3) *MarkerTrack {
	return segment.FromDense(label, positions, segment.Vec3)
}

// Link is one edge of the marker topology table (a stick figure), as a pair
// of track indices.
type Link struct {
	Track1 uint32
	Track2 uint32
}

// Data3D holds the reconstructed 3D marker tracks of a capture.
type Data3D struct {
	Frequency         int32
	StartTime         float32
	Volume            bintype.Vec3
	RotationMatrix    bintype.Mat3x3
	TranslationVector bintype.Vec3
	Flag              format.Data3DFlag
	Links             []Link

	formatID format.Data3DFormat
	frames   int32
	tracks   []*MarkerTrack
	index    map[uint64]int // label hash -> track position
}

// NewData3D creates an empty marker data block in the canonical byTrack form.
func NewData3D(frequency, frames int32, volume bintype.Vec3, rotation bintype.Mat3x3, translation bintype.Vec3) *Data3D {
	return &Data3D{
		Frequency:         frequency,
		Volume:            volume,
		RotationMatrix:    rotation,
		TranslationVector: translation,
		formatID:          format.Data3DByTrack,
		frames:            frames,
		index:             make(map[uint64]int),
	}
}

func buildData3D(r io.Reader, f format.Data3DFormat) (*Data3D, error) {
	if f != format.Data3DByTrack && f != format.Data3DByTrackWithoutLinks {
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
	flag, err := bintype.ReadUint32(r)
	if err != nil {
		return nil, err
	}

	d := NewData3D(frequency, frames, volume, rotation, translation)
	d.StartTime = startTime
	d.Flag = format.Data3DFlag(flag)
	d.formatID = f

	if f == format.Data3DByTrack {
		nLinks, err := bintype.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		if nLinks < 0 {
			return nil, fmt.Errorf("%w: negative link count %d", errs.ErrInvalidContainer, nLinks)
		}
		if err := bintype.Skip(r, 4); err != nil {
			return nil, err
		}
		d.Links = make([]Link, nLinks)
		for i := range d.Links {
			if d.Links[i].Track1, err = bintype.ReadUint32(r); err != nil {
				return nil, err
			}
			if d.Links[i].Track2, err = bintype.ReadUint32(r); err != nil {
				return nil, err
			}
		}
	}

	for i := uint32(0); i < nTracks; i++ {
		t, err := segment.Decode(r, segment.LabelWidth, int(frames), segment.Vec3)
		if err != nil {
			return nil, err
		}
		if err := d.AddTrack(t); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *Data3D) Type() format.BlockType { return format.Data3D }

func (d *Data3D) Format() uint32 { return uint32(d.formatID) }

// Frames returns the per-track frame count every track must match.
func (d *Data3D) Frames() int32 { return d.frames }

// Tracks returns the marker tracks in file order.
func (d *Data3D) Tracks() []*MarkerTrack { return d.tracks }

// NTracks returns the number of marker tracks.
func (d *Data3D) NTracks() int { return len(d.tracks) }

// Track finds a marker track by label.
func (d *Data3D) Track(label string) (*MarkerTrack, error) {
	if i, ok := d.index[hash.LabelID(label)]; ok {
		return d.tracks[i], nil
	}

	return nil, errs.ErrTrackNotFound
}

// AddTrack appends a track. The track's frame count must match the block's.
func (d *Data3D) AddTrack(t *MarkerTrack) error {
	if int32(t.Frames()) != d.frames {
		return errs.ErrFrameCountMismatch
	}
	d.index[hash.LabelID(t.Label)] = len(d.tracks)
	d.tracks = append(d.tracks, t)

	return nil
}

// SetTracks replaces the whole track collection. On any failure the prior
// collection is restored untouched.
func (d *Data3D) SetTracks(tracks []*MarkerTrack) error {
	oldTracks, oldIndex := d.tracks, d.index
	d.tracks = nil
	d.index = make(map[uint64]int, len(tracks))
	for _, t := range tracks {
		if err := d.AddTrack(t); err != nil {
			d.tracks, d.index = oldTracks, oldIndex

			return err
		}
	}

	return nil
}

func (d *Data3D) Size() int {
	base := 4 + 4 + 4 + 4 + 12 + 36 + 12 + 4
	if d.formatID == format.Data3DByTrack {
		base += 4 + 4 + 8*len(d.Links)
	}
	for _, t := range d.tracks {
		base += t.Size(segment.LabelWidth, segment.Vec3)
	}

	return base
}

func (d *Data3D) Write(w io.Writer) error {
	if d.formatID != format.Data3DByTrack && d.formatID != format.Data3DByTrackWithoutLinks {
		return errs.ErrUnsupportedFormat
	}

	if err := bintype.WriteInt32(w, d.frames); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, d.Frequency); err != nil {
		return err
	}
	if err := bintype.WriteFloat32(w, d.StartTime); err != nil {
		return err
	}
	if err := bintype.WriteUint32(w, uint32(len(d.tracks))); err != nil {
		return err
	}
	if err := bintype.WriteVec3(w, d.Volume); err != nil {
		return err
	}
	if err := bintype.WriteMat3x3(w, d.RotationMatrix); err != nil {
		return err
	}
	if err := bintype.WriteVec3(w, d.TranslationVector); err != nil {
		return err
	}
	if err := bintype.WriteUint32(w, uint32(d.Flag)); err != nil {
		return err
	}

	if d.formatID == format.Data3DByTrack {
		if err := bintype.WriteInt32(w, int32(len(d.Links))); err != nil {
			return err
		}
		if err := bintype.Pad(w, 4); err != nil {
			return err
		}
		for _, l := range d.Links {
			if err := bintype.WriteUint32(w, l.Track1); err != nil {
				return err
			}
			if err := bintype.WriteUint32(w, l.Track2); err != nil {
				return err
			}
		}
	}

	for _, t := range d.tracks {
		if err := t.Encode(w, segment.LabelWidth, segment.Vec3); err != nil {
			return err
		}
	}

	return nil
}
