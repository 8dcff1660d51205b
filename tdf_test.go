package tdf

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/block"
	"github.com/movelab/tdf/container"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

func newFile(t *testing.T) *File {
	t.Helper()

	f, err := New(filepath.Join(t.TempDir(), "capture.tdf"))
	require.NoError(t, err)

	return f
}

func TestNewAndOpen(t *testing.T) {
	f := newFile(t)

	size, err := f.Size()
	require.NoError(t, err)
	require.EqualValues(t, container.HeaderSize+container.EntrySize*container.DefaultEntryCount, size)

	reopened, err := Open(f.Path())
	require.NoError(t, err)
	require.Equal(t, f.Path(), reopened.Path())

	_, err = New(f.Path())
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = Open(filepath.Join(t.TempDir(), "absent.tdf"))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEventsAccessors(t *testing.T) {
	f := newFile(t)

	has, err := f.HasEvents()
	require.NoError(t, err)
	require.False(t, has)

	_, err = f.Events()
	require.ErrorIs(t, err, errs.ErrBlockNotFound)

	events := block.NewTemporalEvents(0)
	require.NoError(t, events.AddEvent(block.NewEventSequence("jaja", []float32{1, 2, 3})))
	require.NoError(t, f.SetEvents(events, ""))

	has, err = f.HasEvents()
	require.NoError(t, err)
	require.True(t, has)

	got, err := f.Events()
	require.NoError(t, err)
	e, err := got.Event("jaja")
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3}, e.Values)

	// Set on an existing block replaces it.
	replacement := block.NewTemporalEvents(0)
	require.NoError(t, replacement.AddEvent(block.NewEvent("toe off", 4)))
	require.NoError(t, f.SetEvents(replacement, ""))

	got, err = f.Events()
	require.NoError(t, err)
	require.Equal(t, 1, got.NEvents())
	_, err = got.Event("jaja")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestData3DAccessors(t *testing.T) {
	f := newFile(t)

	nan := float32(math.NaN())
	d := block.NewData3D(100, 3, bintype.Vec3{2000, 2000, 1500},
		bintype.Mat3x3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, bintype.Vec3{})
	require.NoError(t, d.AddTrack(block.NewMarkerTrack("RASIS", []bintype.Vec3{
		{1, 2, 3}, {nan, nan, nan}, {7, 8, 9},
	})))
	require.NoError(t, f.SetData3D(d, "walking trial"))

	got, err := f.Data3D()
	require.NoError(t, err)
	require.Equal(t, int32(3), got.Frames())

	track, err := got.Track("RASIS")
	require.NoError(t, err)
	require.Equal(t, 2, track.Present())
}

func TestMultipleBlockTypesCoexist(t *testing.T) {
	f := newFile(t)

	events := block.NewTemporalEvents(0)
	require.NoError(t, events.AddEvent(block.NewEvent("start", 0)))
	require.NoError(t, f.SetEvents(events, ""))

	emg := block.NewEMG(1000, 4)
	require.NoError(t, emg.AddSignal(block.NewEMGTrack("tibialis", []float32{1, 2, 3, 4})))
	require.NoError(t, f.SetEMG(emg, ""))

	blocks, err := f.Blocks()
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	gotEMG, err := f.EMG()
	require.NoError(t, err)
	require.Equal(t, 1, gotEMG.NSignals())

	require.NoError(t, f.RemoveBlock(format.EMGData))
	has, err := f.HasEMG()
	require.NoError(t, err)
	require.False(t, has)

	// The events block is untouched by the removal.
	gotEvents, err := f.Events()
	require.NoError(t, err)
	require.Equal(t, 1, gotEvents.NEvents())
}

func TestExplicitSessions(t *testing.T) {
	f := newFile(t)

	w, err := f.OpenWrite()
	require.NoError(t, err)
	events := block.NewTemporalEvents(0)
	require.NoError(t, events.AddEvent(block.NewEvent("start", 0)))
	require.NoError(t, w.AddBlock(events, ""))
	require.NoError(t, w.Close())

	r, err := f.OpenRead()
	require.NoError(t, err)
	defer r.Close()
	require.True(t, r.Has(format.TemporalEvents))
}
