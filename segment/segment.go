// Package segment implements the generic codec for sparse numeric tracks: a
// named channel of one fixed-width record per frame where missing frames are
// encoded by omission and present frames are grouped into contiguous runs.
//
// On the wire a track is
//
//	label (fixed width, may be zero) |
//	segment count (int32) | 4 bytes padding |
//	segment count × (start int32, length int32) |
//	packed record data per segment, in table order
//
// In memory a track keeps the runs explicit — a sorted list of (start,len)
// segments plus the packed present values — and only synthesizes dense,
// sentinel-filled arrays at the API boundary (Dense). An entirely missing
// channel encodes as segment count 0 with no payload.
package segment

import (
	"fmt"
	"io"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
)

// LabelWidth is the field width of track labels in every labelled block type.
// Force platform tracks are unlabelled and use width 0.
const LabelWidth = 256

// Segment marks one maximal contiguous run of present frames.
type Segment struct {
	Start int32
	Len   int32
}

// Codec reads and writes runs of one fixed-width record type and supplies the
// record-level missingness convention of that type.
type Codec[T any] interface {
	// RecordSize is the on-disk width of one record in bytes.
	RecordSize() int

	// Blank returns the sentinel record a missing frame decodes to.
	Blank() T

	// Missing reports whether v is the sentinel. Only the designated probe
	// field of the record is inspected; the remaining fields are assumed to
	// be present or missing in lockstep.
	Missing(v T) bool

	// ReadRun reads n consecutive records.
	ReadRun(r io.Reader, n int) ([]T, error)

	// WriteRun writes all records of one run.
	WriteRun(w io.Writer, run []T) error
}

// Track is a sparse channel of fixed-width records over [0, frames).
type Track[T any] struct {
	Label string

	frames int
	segs   []Segment
	values []T // packed concatenation of all runs, in segment order
}

// NewTrack returns an empty (entirely missing) track of the given length.
func NewTrack[T any](label string, frames int) *Track[T] {
	return &Track[T]{Label: label, frames: frames}
}

// FromDense builds a track from a dense per-frame slice, grouping the present
// frames into the minimal set of maximal runs. codec.Missing decides presence.
func FromDense[T any](label string, dense []T, codec Codec[T]) *Track[T] {
	t := &Track[T]{Label: label, frames: len(dense)}
	runStart := -1
	for i, v := range dense {
		if codec.Missing(v) {
			if runStart >= 0 {
				t.appendRun(int32(runStart), dense[runStart:i])
				runStart = -1
			}

			continue
		}
		if runStart < 0 {
			runStart = i
		}
	}
	if runStart >= 0 {
		t.appendRun(int32(runStart), dense[runStart:])
	}

	return t
}

func (t *Track[T]) appendRun(start int32, run []T) {
	t.segs = append(t.segs, Segment{Start: start, Len: int32(len(run))})
	t.values = append(t.values, run...)
}

// Frames returns the declared channel length.
func (t *Track[T]) Frames() int {
	return t.frames
}

// Segments returns the run table in file order.
func (t *Track[T]) Segments() []Segment {
	return t.segs
}

// Present returns the number of non-missing frames.
func (t *Track[T]) Present() int {
	return len(t.values)
}

// IsPresent reports whether frame i carries a value.
func (t *Track[T]) IsPresent(i int) bool {
	for _, s := range t.segs {
		if int32(i) >= s.Start && int32(i) < s.Start+s.Len {
			return true
		}
	}

	return false
}

// Dense synthesizes the dense per-frame view of the track. Missing frames
// hold the codec's sentinel record.
func (t *Track[T]) Dense(codec Codec[T]) []T {
	out := make([]T, t.frames)
	blank := codec.Blank()
	for i := range out {
		out[i] = blank
	}
	off := 0
	for _, s := range t.segs {
		copy(out[s.Start:s.Start+s.Len], t.values[off:off+int(s.Len)])
		off += int(s.Len)
	}

	return out
}

// Size returns the encoded byte size of the track.
func (t *Track[T]) Size(labelWidth int, codec Codec[T]) int {
	return labelWidth + 4 + 4 + 8*len(t.segs) + len(t.values)*codec.RecordSize()
}

// Decode reads one track of the given channel length. Runs must be sorted,
// non-overlapping and inside [0, frames); violations fail with
// errs.ErrSegmentOverlap rather than silently letting later runs win.
func Decode[T any](r io.Reader, labelWidth, frames int, codec Codec[T]) (*Track[T], error) {
	t := &Track[T]{frames: frames}

	if labelWidth > 0 {
		label, err := bintype.ReadString(r, labelWidth)
		if err != nil {
			return nil, err
		}
		t.Label = label
	}

	nSegs, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if err := bintype.Skip(r, 4); err != nil {
		return nil, err
	}
	if nSegs < 0 {
		return nil, fmt.Errorf("%w: track %q declares %d runs", errs.ErrSegmentOverlap, t.Label, nSegs)
	}

	segs := make([]Segment, nSegs)
	for i := range segs {
		if segs[i].Start, err = bintype.ReadInt32(r); err != nil {
			return nil, err
		}
		if segs[i].Len, err = bintype.ReadInt32(r); err != nil {
			return nil, err
		}
	}

	next := int32(0)
	for _, s := range segs {
		if s.Start < next || s.Len < 0 || s.Start+s.Len > int32(frames) {
			return nil, fmt.Errorf("%w: track %q run (%d,%d) of %d frames",
				errs.ErrSegmentOverlap, t.Label, s.Start, s.Len, frames)
		}
		next = s.Start + s.Len
	}

	for _, s := range segs {
		run, err := codec.ReadRun(r, int(s.Len))
		if err != nil {
			return nil, err
		}
		t.appendRun(s.Start, run)
	}

	return t, nil
}

// Encode writes the track in wire order: label, run table, packed run data.
func (t *Track[T]) Encode(w io.Writer, labelWidth int, codec Codec[T]) error {
	if labelWidth > 0 {
		if err := bintype.WriteString(w, labelWidth, t.Label); err != nil {
			return err
		}
	}
	if err := bintype.WriteInt32(w, int32(len(t.segs))); err != nil {
		return err
	}
	if err := bintype.Pad(w, 4); err != nil {
		return err
	}
	for _, s := range t.segs {
		if err := bintype.WriteInt32(w, s.Start); err != nil {
			return err
		}
		if err := bintype.WriteInt32(w, s.Len); err != nil {
			return err
		}
	}
	off := 0
	for _, s := range t.segs {
		if err := codec.WriteRun(w, t.values[off:off+int(s.Len)]); err != nil {
			return err
		}
		off += int(s.Len)
	}

	return nil
}
