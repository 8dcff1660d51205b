package block

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

var identity = bintype.Mat3x3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func testData3D(t *testing.T) *Data3D {
	t.Helper()

	d := NewData3D(100, 4, bintype.Vec3{2000, 2000, 1500}, identity, bintype.Vec3{})
	d.StartTime = 0.25
	d.Flag = format.Data3DFiltered
	d.Links = []Link{{Track1: 0, Track2: 1}}

	nan := float32(math.NaN())
	require.NoError(t, d.AddTrack(NewMarkerTrack("RASIS", []bintype.Vec3{
		{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12},
	})))
	require.NoError(t, d.AddTrack(NewMarkerTrack("LASIS", []bintype.Vec3{
		{nan, nan, nan}, {1, 1, 1}, {2, 2, 2}, {nan, nan, nan},
	})))

	return d
}

func TestData3DRoundTrip(t *testing.T) {
	decoded := roundTrip(t, testData3D(t)).(*Data3D)

	require.Equal(t, int32(4), decoded.Frames())
	require.Equal(t, int32(100), decoded.Frequency)
	require.Equal(t, float32(0.25), decoded.StartTime)
	require.Equal(t, format.Data3DFiltered, decoded.Flag)
	require.Equal(t, []Link{{Track1: 0, Track2: 1}}, decoded.Links)
	require.Equal(t, 2, decoded.NTracks())

	track, err := decoded.Track("LASIS")
	require.NoError(t, err)
	require.Equal(t, 2, track.Present())
	require.False(t, track.IsPresent(0))
	require.True(t, track.IsPresent(1))

	_, err = decoded.Track("SACRUM")
	require.ErrorIs(t, err, errs.ErrTrackNotFound)
}

func TestData3DWithoutLinksOmitsLinkTable(t *testing.T) {
	withLinks := testData3D(t)

	bare := NewData3D(100, 4, withLinks.Volume, identity, bintype.Vec3{})
	bare.StartTime = withLinks.StartTime
	bare.Flag = withLinks.Flag
	bare.formatID = format.Data3DByTrackWithoutLinks
	require.NoError(t, bare.SetTracks(withLinks.Tracks()))

	// Dropping the table saves its count, padding and one 8-byte link.
	require.Equal(t, withLinks.Size()-16, bare.Size())
	roundTrip(t, bare)
}

func TestData3DFrameCountMismatch(t *testing.T) {
	d := NewData3D(100, 4, bintype.Vec3{}, identity, bintype.Vec3{})
	err := d.AddTrack(NewMarkerTrack("short", []bintype.Vec3{{1, 2, 3}}))
	require.ErrorIs(t, err, errs.ErrFrameCountMismatch)
	require.Zero(t, d.NTracks())
}

func TestData3DSetTracksRollsBack(t *testing.T) {
	d := testData3D(t)
	before := d.Tracks()

	err := d.SetTracks([]*MarkerTrack{
		NewMarkerTrack("ok", make([]bintype.Vec3, 4)),
		NewMarkerTrack("short", make([]bintype.Vec3, 2)),
	})
	require.ErrorIs(t, err, errs.ErrFrameCountMismatch)
	require.Equal(t, before, d.Tracks())

	track, err := d.Track("RASIS")
	require.NoError(t, err)
	require.Equal(t, "RASIS", track.Label)
}

func TestData3DRejectsNegativeCounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testData3D(t).Write(&buf))
	wire := buf.Bytes()

	// Frame count occupies the first four bytes, the link count the four
	// right after the 80-byte fixed header.
	for _, off := range []int{0, 80} {
		corrupt := bytes.Clone(wire)
		copy(corrupt[off:off+4], []byte{0xFF, 0xFF, 0xFF, 0xFF})

		_, err := buildData3D(bytes.NewReader(corrupt), format.Data3DByTrack)
		require.ErrorIs(t, err, errs.ErrInvalidContainer)
	}
}

func TestData3DUnsupportedFormat(t *testing.T) {
	_, err := buildData3D(bytes.NewReader(nil), format.Data3DByFrame)
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)

	d := testData3D(t)
	d.formatID = format.Data3DByFrame
	require.ErrorIs(t, d.Write(new(bytes.Buffer)), errs.ErrUnsupportedFormat)
}
