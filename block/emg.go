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

// emgSampleBias is the constant the upstream format subtracts from the real
// sample count before storing it. Readers must add it back. Unverified against
// a format document, but required for wire compatibility with files produced
// by the reference tooling.
const emgSampleBias = 49

// EMGTrack is a sparse channel of single-float electromyography samples.
type EMGTrack = segment.Track[float32]

// NewEMGTrack builds an EMG track from dense per-frame samples; NaN frames
// are treated as missing.
func NewEMGTrack(label string, samples []float32) *EMGTrack {
	return segment.FromDense(label, samples, segment.Float32)
}

// EMG holds the electromyography signals of a capture. Each signal pairs a
// logical channel number with a sample track; channel numbers are unique
// within the block.
type EMG struct {
	Frequency int32
	StartTime float32

	formatID format.EMGFormat
	samples  int32
	channels []int16
	tracks   []*EMGTrack
	index    map[uint64]int // label hash -> signal position
}

// NewEMG creates an empty EMG block.
func NewEMG(frequency, samples int32) *EMG {
	return &EMG{
		Frequency: frequency,
		formatID:  format.EMGByTrack,
		samples:   samples,
		index:     make(map[uint64]int),
	}
}

func buildEMG(r io.Reader, f format.EMGFormat) (*EMG, error) {
	if f != format.EMGByTrack {
		return nil, errs.ErrUnsupportedFormat
	}

	nSignals, err := bintype.ReadInt32(r)
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
	stored, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if stored+emgSampleBias < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", errs.ErrInvalidContainer, stored+emgSampleBias)
	}

	b := NewEMG(frequency, stored+emgSampleBias)
	b.StartTime = startTime

	channels, err := bintype.ReadInt16Slice(r, int(nSignals))
	if err != nil {
		return nil, err
	}

	for i := int32(0); i < nSignals; i++ {
		t, err := segment.Decode(r, segment.LabelWidth, int(b.samples), segment.Float32)
		if err != nil {
			return nil, err
		}
		if err := b.AddSignalAt(channels[i], t); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *EMG) Type() format.BlockType { return format.EMGData }

func (b *EMG) Format() uint32 { return uint32(b.formatID) }

// Samples returns the per-signal sample count every signal must match.
func (b *EMG) Samples() int32 { return b.samples }

// Tracks returns the signal tracks in file order.
func (b *EMG) Tracks() []*EMGTrack { return b.tracks }

// Channels returns the logical channel numbers, aligned with Tracks.
func (b *EMG) Channels() []int16 { return b.channels }

// NSignals returns the number of signals.
func (b *EMG) NSignals() int { return len(b.tracks) }

// Track finds a signal track by label.
func (b *EMG) Track(label string) (*EMGTrack, error) {
	if i, ok := b.index[hash.LabelID(label)]; ok {
		return b.tracks[i], nil
	}

	return nil, errs.ErrTrackNotFound
}

// Channel returns the logical channel number of the labelled signal.
func (b *EMG) Channel(label string) (int16, error) {
	if i, ok := b.index[hash.LabelID(label)]; ok {
		return b.channels[i], nil
	}

	return 0, errs.ErrTrackNotFound
}

// AddSignal appends a signal on the next free channel number: one past the
// highest channel in use, or 0 for the first signal.
func (b *EMG) AddSignal(t *EMGTrack) error {
	next := int16(0)
	for _, ch := range b.channels {
		if ch >= next {
			next = ch + 1
		}
	}

	return b.AddSignalAt(next, t)
}

// AddSignalAt appends a signal on an explicit channel number. The channel
// must be free and the track's sample count must match the block's.
func (b *EMG) AddSignalAt(channel int16, t *EMGTrack) error {
	if int32(t.Frames()) != b.samples {
		return errs.ErrFrameCountMismatch
	}
	for _, ch := range b.channels {
		if ch == channel {
			return fmt.Errorf("%w: channel %d", errs.ErrChannelInUse, channel)
		}
	}
	b.index[hash.LabelID(t.Label)] = len(b.tracks)
	b.channels = append(b.channels, channel)
	b.tracks = append(b.tracks, t)

	return nil
}

// RemoveSignal removes the labelled signal; its channel number becomes free.
func (b *EMG) RemoveSignal(label string) error {
	i, ok := b.index[hash.LabelID(label)]
	if !ok {
		return errs.ErrTrackNotFound
	}
	b.channels = append(b.channels[:i], b.channels[i+1:]...)
	b.tracks = append(b.tracks[:i], b.tracks[i+1:]...)
	delete(b.index, hash.LabelID(label))
	for j := i; j < len(b.tracks); j++ {
		b.index[hash.LabelID(b.tracks[j].Label)] = j
	}

	return nil
}

// SetSignals replaces the whole signal collection, assigning channels 0..n-1
// in order. On any failure the prior collection is restored untouched.
func (b *EMG) SetSignals(tracks []*EMGTrack) error {
	oldChannels, oldTracks, oldIndex := b.channels, b.tracks, b.index
	b.channels, b.tracks = nil, nil
	b.index = make(map[uint64]int, len(tracks))
	for _, t := range tracks {
		if err := b.AddSignal(t); err != nil {
			b.channels, b.tracks, b.index = oldChannels, oldTracks, oldIndex

			return err
		}
	}

	return nil
}

func (b *EMG) Size() int {
	size := 4 + 4 + 4 + 4 + 2*len(b.channels)
	for _, t := range b.tracks {
		size += t.Size(segment.LabelWidth, segment.Float32)
	}

	return size
}

func (b *EMG) Write(w io.Writer) error {
	if err := bintype.WriteInt32(w, int32(len(b.tracks))); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, b.Frequency); err != nil {
		return err
	}
	if err := bintype.WriteFloat32(w, b.StartTime); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, b.samples-emgSampleBias); err != nil {
		return err
	}
	if err := bintype.WriteInt16Slice(w, b.channels); err != nil {
		return err
	}
	for _, t := range b.tracks {
		if err := t.Encode(w, segment.LabelWidth, segment.Float32); err != nil {
			return err
		}
	}

	return nil
}
