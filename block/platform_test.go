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

func testPlatforms(t *testing.T) *Platforms {
	t.Helper()

	nan := float32(math.NaN())
	b := NewPlatforms(1000, 3)
	b.StartTime = 0.2

	require.NoError(t, b.AddPlatform(NewPlatformTrack([]PlatformSample{
		{Point: bintype.Vec2{0.1, 0.2}, Force: bintype.Vec3{0, 0, 700}, Torque: 1},
		{Point: bintype.Vec2{0.2, 0.3}, Force: bintype.Vec3{0, 0, 710}, Torque: 2},
		{Point: bintype.Vec2{nan, nan}, Force: bintype.Vec3{nan, nan, nan}, Torque: nan},
	})))
	require.NoError(t, b.AddPlatformAt(4, NewPlatformTrack(make([]PlatformSample, 3))))

	return b
}

func TestPlatformsRoundTrip(t *testing.T) {
	decoded := roundTrip(t, testPlatforms(t)).(*Platforms)

	require.Equal(t, int32(3), decoded.Frames())
	require.Equal(t, 2, decoded.NPlatforms())
	require.Equal(t, []uint16{0, 4}, decoded.Channels())

	track, err := decoded.Platform(0)
	require.NoError(t, err)
	require.Equal(t, 2, track.Present())

	dense := track.Dense(PlatformCodec)
	require.Equal(t, float32(710), dense[1].Force[2])
	require.True(t, math.IsNaN(float64(dense[2].Point[0])))

	_, err = decoded.Platform(9)
	require.ErrorIs(t, err, errs.ErrTrackNotFound)
}

func TestPlatformsChannelInUse(t *testing.T) {
	b := testPlatforms(t)
	err := b.AddPlatformAt(4, NewPlatformTrack(make([]PlatformSample, 3)))
	require.ErrorIs(t, err, errs.ErrChannelInUse)
	require.Equal(t, 2, b.NPlatforms())
}

func TestPlatformsRemoveFreesChannel(t *testing.T) {
	b := testPlatforms(t)
	require.NoError(t, b.RemovePlatform(0))
	require.Equal(t, []uint16{4}, b.Channels())

	require.ErrorIs(t, b.RemovePlatform(0), errs.ErrTrackNotFound)
	require.NoError(t, b.AddPlatformAt(0, NewPlatformTrack(make([]PlatformSample, 3))))
}

func TestPlatformsFrameCountMismatch(t *testing.T) {
	b := testPlatforms(t)
	err := b.AddPlatformAt(7, NewPlatformTrack(make([]PlatformSample, 5)))
	require.ErrorIs(t, err, errs.ErrFrameCountMismatch)
}

func TestPlatformsUnsupportedFormat(t *testing.T) {
	_, err := buildPlatforms(bytes.NewReader(nil), format.PlatformByFrameISS)
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}
