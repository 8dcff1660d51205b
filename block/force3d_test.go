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

func TestForceCodecPlanarLayout(t *testing.T) {
	run := []ForceSample{
		{Point: bintype.Vec3{1, 2, 3}, Force: bintype.Vec3{10, 20, 30}, Torque: bintype.Vec3{100, 200, 300}},
		{Point: bintype.Vec3{4, 5, 6}, Force: bintype.Vec3{40, 50, 60}, Torque: bintype.Vec3{400, 500, 600}},
	}

	var buf bytes.Buffer
	require.NoError(t, ForceCodec.WriteRun(&buf, run))
	require.Equal(t, 2*ForceCodec.RecordSize(), buf.Len())

	// All points precede all forces precede all torques.
	flat, err := bintype.ReadFloat32Slice(bytes.NewReader(buf.Bytes()), 18)
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3, 4, 5, 6, 10, 20, 30, 40, 50, 60, 100, 200, 300, 400, 500, 600}, flat)

	got, err := ForceCodec.ReadRun(bytes.NewReader(buf.Bytes()), 2)
	require.NoError(t, err)
	require.Equal(t, run, got)
}

func TestForceTorque3DRoundTrip(t *testing.T) {
	nan := float32(math.NaN())
	b := NewForceTorque3D(500, 3, bintype.Vec3{1000, 1000, 1000}, identity, bintype.Vec3{})
	b.StartTime = 1.5

	require.NoError(t, b.AddTrack(NewForceTrack("right plate", []ForceSample{
		{Point: bintype.Vec3{1, 1, 0}, Force: bintype.Vec3{0, 0, 700}, Torque: bintype.Vec3{0, 0, 1}},
		{Point: bintype.Vec3{nan, nan, nan}, Force: bintype.Vec3{nan, nan, nan}, Torque: bintype.Vec3{nan, nan, nan}},
		{Point: bintype.Vec3{2, 2, 0}, Force: bintype.Vec3{0, 0, 650}, Torque: bintype.Vec3{0, 0, 2}},
	})))

	decoded := roundTrip(t, b).(*ForceTorque3D)
	require.Equal(t, int32(3), decoded.Frames())
	require.Equal(t, 1, decoded.NTracks())

	track, err := decoded.Track("right plate")
	require.NoError(t, err)
	require.Equal(t, 2, track.Present())
	require.False(t, track.IsPresent(1))

	_, err = decoded.Track("left plate")
	require.ErrorIs(t, err, errs.ErrTrackNotFound)
}

func TestForceTorque3DFrameCountMismatch(t *testing.T) {
	b := NewForceTorque3D(500, 3, bintype.Vec3{}, identity, bintype.Vec3{})
	err := b.AddTrack(NewForceTrack("short", make([]ForceSample, 1)))
	require.ErrorIs(t, err, errs.ErrFrameCountMismatch)
}

func TestForceTorque3DUnsupportedFormat(t *testing.T) {
	_, err := buildForceTorque3D(bytes.NewReader(nil), format.Force3DByFrame)
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}
