package block

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

// maxPointsPerFrame is the largest per-camera per-frame point list the
// 16-bit count matrix can represent.
const maxPointsPerFrame = math.MaxUint16

// Data2D holds raw 2D camera observations: for every frame, each camera
// contributes a variable-length list of detected image points.
//
// Points is indexed frame-major: Points[frame][camera] is the point list that
// camera saw in that frame. The per-frame lists may be empty but the outer
// shape always covers every frame and camera.
type Data2D struct {
	Frequency int32
	// StartTime is a second-resolution capture timestamp, not the relative
	// start offset the other capture blocks carry.
	StartTime time.Time
	Flags     format.Data2DFlag

	formatID format.Data2DFormat
	frames   int32
	cameras  []uint16
	points   [][][]bintype.Vec2
}

// NewData2D creates an empty 2D data block for the given camera channel map.
// The point grid starts out with zero detections everywhere.
func NewData2D(frequency, frames int32, cameras []uint16) *Data2D {
	points := make([][][]bintype.Vec2, frames)
	for f := range points {
		points[f] = make([][]bintype.Vec2, len(cameras))
	}

	return &Data2D{
		Frequency: frequency,
		StartTime: time.Unix(0, 0),
		formatID:  format.Data2DPCK,
		frames:    frames,
		cameras:   cameras,
		points:    points,
	}
}

func buildData2D(r io.Reader, f format.Data2DFormat) (*Data2D, error) {
	if f != format.Data2DPCK {
		return nil, errs.ErrUnsupportedFormat
	}

	nCams, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	frames, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if nCams < 0 || frames < 0 {
		return nil, fmt.Errorf("%w: negative camera or frame count (%d, %d)",
			errs.ErrInvalidContainer, nCams, frames)
	}
	frequency, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	startTime, err := bintype.ReadTime(r)
	if err != nil {
		return nil, err
	}
	flags, err := bintype.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	cameras, err := bintype.ReadUint16Slice(r, int(nCams))
	if err != nil {
		return nil, err
	}

	b := NewData2D(frequency, frames, cameras)
	b.StartTime = startTime
	b.Flags = format.Data2DFlag(flags)

	// The count matrix is camera-major, the point stream frame-major.
	counts := make([][]uint16, nCams)
	for c := range counts {
		if counts[c], err = bintype.ReadUint16Slice(r, int(frames)); err != nil {
			return nil, err
		}
	}
	for fr := 0; fr < int(frames); fr++ {
		for c := 0; c < int(nCams); c++ {
			n := int(counts[c][fr])
			if n == 0 {
				continue
			}
			pts := make([]bintype.Vec2, n)
			for i := range pts {
				if pts[i], err = bintype.ReadVec2(r); err != nil {
					return nil, err
				}
			}
			b.points[fr][c] = pts
		}
	}

	return b, nil
}

func (b *Data2D) Type() format.BlockType { return format.Data2D }

func (b *Data2D) Format() uint32 { return uint32(b.formatID) }

// Frames returns the number of capture frames.
func (b *Data2D) Frames() int32 { return b.frames }

// Cameras returns the logical camera channel map.
func (b *Data2D) Cameras() []uint16 { return b.cameras }

// NCameras returns the number of cameras.
func (b *Data2D) NCameras() int { return len(b.cameras) }

// Points returns the frame-major point grid.
func (b *Data2D) Points() [][][]bintype.Vec2 { return b.points }

// PointsAt returns the points camera cam detected in frame f.
func (b *Data2D) PointsAt(f, cam int) ([]bintype.Vec2, error) {
	if f < 0 || f >= int(b.frames) || cam < 0 || cam >= len(b.cameras) {
		return nil, errs.ErrIndexOutOfRange
	}

	return b.points[f][cam], nil
}

// SetPointsAt replaces the points camera cam detected in frame f. The list
// must fit the 16-bit per-frame count field.
func (b *Data2D) SetPointsAt(f, cam int, pts []bintype.Vec2) error {
	if f < 0 || f >= int(b.frames) || cam < 0 || cam >= len(b.cameras) {
		return errs.ErrIndexOutOfRange
	}
	if len(pts) > maxPointsPerFrame {
		return fmt.Errorf("%w: %d points in one frame, count field holds at most %d",
			errs.ErrCapacityExceeded, len(pts), maxPointsPerFrame)
	}
	b.points[f][cam] = pts

	return nil
}

func (b *Data2D) Size() int {
	size := 4 + 4 + 4 + 4 + 4
	size += 2 * len(b.cameras)
	size += 2 * len(b.cameras) * int(b.frames)
	for _, frame := range b.points {
		for _, pts := range frame {
			size += 8 * len(pts)
		}
	}

	return size
}

func (b *Data2D) Write(w io.Writer) error {
	if err := bintype.WriteInt32(w, int32(len(b.cameras))); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, b.frames); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, b.Frequency); err != nil {
		return err
	}
	if err := bintype.WriteTime(w, b.StartTime); err != nil {
		return err
	}
	if err := bintype.WriteUint32(w, uint32(b.Flags)); err != nil {
		return err
	}
	if err := bintype.WriteUint16Slice(w, b.cameras); err != nil {
		return err
	}
	counts := make([]uint16, int(b.frames))
	for c := range b.cameras {
		for f := range counts {
			n := len(b.points[f][c])
			if n > maxPointsPerFrame {
				return fmt.Errorf("%w: %d points in one frame, count field holds at most %d",
					errs.ErrCapacityExceeded, n, maxPointsPerFrame)
			}
			counts[f] = uint16(n)
		}
		if err := bintype.WriteUint16Slice(w, counts); err != nil {
			return err
		}
	}
	for _, frame := range b.points {
		for _, pts := range frame {
			for _, p := range pts {
				if err := bintype.WriteVec2(w, p); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
