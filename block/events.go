package block

import (
	"fmt"
	"io"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
	"github.com/movelab/tdf/segment"
)

// Event is one labelled temporal marker: a single instant or an ordered
// sequence of instants, in seconds.
type Event struct {
	Label  string
	Kind   format.EventType
	Values []float32
}

// NewEvent builds a single-instant event.
func NewEvent(label string, at float32) Event {
	return Event{Label: label, Kind: format.SingleEvent, Values: []float32{at}}
}

// NewEventSequence builds a multi-instant event.
func NewEventSequence(label string, at []float32) Event {
	return Event{Label: label, Kind: format.EventSequence, Values: at}
}

func (e Event) size() int { return segment.LabelWidth + 4 + 4 + 4*len(e.Values) }

func (e Event) validate() error {
	if e.Kind == format.SingleEvent && len(e.Values) > 1 {
		return fmt.Errorf("%w: single event %q carries %d values",
			errs.ErrEventValueCount, e.Label, len(e.Values))
	}

	return nil
}

// TemporalEvents holds the labelled time markers of a capture.
type TemporalEvents struct {
	StartTime float32

	formatID format.EventsFormat
	events   []Event
}

// NewTemporalEvents creates an empty events block.
func NewTemporalEvents(startTime float32) *TemporalEvents {
	return &TemporalEvents{StartTime: startTime, formatID: format.EventsStandard}
}

func buildTemporalEvents(r io.Reader, f format.EventsFormat) (*TemporalEvents, error) {
	if f != format.EventsStandard {
		return nil, errs.ErrUnsupportedFormat
	}

	nEvents, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if nEvents < 0 {
		return nil, fmt.Errorf("%w: negative event count %d", errs.ErrInvalidContainer, nEvents)
	}
	startTime, err := bintype.ReadFloat32(r)
	if err != nil {
		return nil, err
	}

	b := NewTemporalEvents(startTime)
	for i := int32(0); i < nEvents; i++ {
		var e Event
		if e.Label, err = bintype.ReadString(r, segment.LabelWidth); err != nil {
			return nil, err
		}
		kind, err := bintype.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		e.Kind = format.EventType(kind)
		nValues, err := bintype.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		if nValues < 0 {
			return nil, fmt.Errorf("%w: event %q declares %d values", errs.ErrInvalidContainer, e.Label, nValues)
		}
		if e.Values, err = bintype.ReadFloat32Slice(r, int(nValues)); err != nil {
			return nil, err
		}
		if err := b.AddEvent(e); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *TemporalEvents) Type() format.BlockType { return format.TemporalEvents }

func (b *TemporalEvents) Format() uint32 { return uint32(b.formatID) }

// Events returns the events in file order.
func (b *TemporalEvents) Events() []Event { return b.events }

// NEvents returns the number of events.
func (b *TemporalEvents) NEvents() int { return len(b.events) }

// Event finds an event by label.
func (b *TemporalEvents) Event(label string) (Event, error) {
	for _, e := range b.events {
		if e.Label == label {
			return e, nil
		}
	}

	return Event{}, errs.ErrNotFound
}

// AddEvent appends an event. A single-instant event may carry at most one
// value.
func (b *TemporalEvents) AddEvent(e Event) error {
	if err := e.validate(); err != nil {
		return err
	}
	b.events = append(b.events, e)

	return nil
}

func (b *TemporalEvents) Size() int {
	size := 4 + 4
	for _, e := range b.events {
		size += e.size()
	}

	return size
}

func (b *TemporalEvents) Write(w io.Writer) error {
	if err := bintype.WriteInt32(w, int32(len(b.events))); err != nil {
		return err
	}
	if err := bintype.WriteFloat32(w, b.StartTime); err != nil {
		return err
	}
	for _, e := range b.events {
		if err := e.validate(); err != nil {
			return err
		}
		if err := bintype.WriteString(w, segment.LabelWidth, e.Label); err != nil {
			return err
		}
		if err := bintype.WriteUint32(w, uint32(e.Kind)); err != nil {
			return err
		}
		if err := bintype.WriteInt32(w, int32(len(e.Values))); err != nil {
			return err
		}
		if err := bintype.WriteFloat32Slice(w, e.Values); err != nil {
			return err
		}
	}

	return nil
}
