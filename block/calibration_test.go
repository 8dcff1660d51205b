package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

var identityD = bintype.Mat3x3d{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func TestCalibrationSeelabRoundTrip(t *testing.T) {
	b := NewCalibration(format.CalibrationSeelab1, format.Seelab1Distortion,
		bintype.Vec3{3000, 3000, 2000}, identity, bintype.Vec3{0, 0, 100})
	b.AddCamera(1, &SeelabCamera{
		RotationMatrix:    identityD,
		TranslationVector: bintype.Vec3d{1, 2, 3},
		Focus:             bintype.Vec2d{1200, 1200},
		OpticalCenter:     bintype.Vec2d{512, 384},
		RadialDistortion:  bintype.Vec2d{0.01, -0.002},
		Decentering:       bintype.Vec2d{0.001, 0.001},
		ThinPrism:         bintype.Vec2d{0, 0},
		Viewport:          Viewport{Origin: bintype.Vec2i{0, 0}, Size: bintype.Vec2i{1024, 768}},
	})
	b.AddCamera(3, &SeelabCamera{
		RotationMatrix: identityD,
		Viewport:       Viewport{Size: bintype.Vec2i{640, 480}},
	})

	decoded := roundTrip(t, b).(*Calibration)
	require.Equal(t, 2, decoded.NCameras())
	require.Equal(t, []int16{1, 3}, decoded.Channels())
	require.Equal(t, format.Seelab1Distortion, decoded.DistortionModel)

	cam, ok := decoded.Cameras()[0].(*SeelabCamera)
	require.True(t, ok)
	require.Equal(t, bintype.Vec2d{1200, 1200}, cam.Focus)
	require.Equal(t, bintype.Vec2i{1024, 768}, cam.Window().Size)
}

func TestCalibrationBTSRoundTrip(t *testing.T) {
	x := make([]float64, btsCoeffs)
	y := make([]float64, btsCoeffs)
	for i := range x {
		x[i] = float64(i) * 0.5
		y[i] = -float64(i)
	}

	b := NewCalibration(format.CalibrationBTS, format.NoDistortion,
		bintype.Vec3{2000, 2000, 2000}, identity, bintype.Vec3{})
	b.AddCamera(0, &BTSCamera{
		RotationMatrix:    identityD,
		TranslationVector: bintype.Vec3d{0, 0, 2500},
		Focus:             bintype.Vec2d{1100, 1100},
		OpticalCenter:     bintype.Vec2d{400, 300},
		XCoefficients:     x,
		YCoefficients:     y,
		Viewport:          Viewport{Size: bintype.Vec2i{800, 600}},
	})

	decoded := roundTrip(t, b).(*Calibration)
	cam, ok := decoded.Cameras()[0].(*BTSCamera)
	require.True(t, ok)
	require.Equal(t, x, cam.XCoefficients)
	require.Equal(t, y, cam.YCoefficients)
}

func TestCalibrationUnsupportedFormat(t *testing.T) {
	_, err := buildCalibration(bytes.NewReader(nil), format.CalibrationFormat(5))
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}

func TestBTSCameraRejectsWrongCoefficientCount(t *testing.T) {
	b := NewCalibration(format.CalibrationBTS, format.NoDistortion,
		bintype.Vec3{}, identity, bintype.Vec3{})
	b.AddCamera(0, &BTSCamera{
		RotationMatrix: identityD,
		XCoefficients:  make([]float64, 3),
		YCoefficients:  make([]float64, 3),
	})

	require.Error(t, b.Write(new(bytes.Buffer)))
}

func TestOpticalSetupRoundTrip(t *testing.T) {
	b := NewOpticalSetup([]OpticalChannel{
		{
			LogicalIndex: 0,
			LensName:     "6mm f/1.4",
			CameraType:   "infrared",
			CameraName:   "cam-north",
			Viewport:     Viewport{Origin: bintype.Vec2i{0, 0}, Size: bintype.Vec2i{1024, 768}},
		},
		{
			LogicalIndex: 2,
			LensName:     "8mm",
			CameraType:   "infrared",
			CameraName:   "cam-south",
			Viewport:     Viewport{Size: bintype.Vec2i{1024, 768}},
		},
	})

	decoded := roundTrip(t, b).(*OpticalSetup)
	require.Equal(t, 2, decoded.NChannels())
	require.Equal(t, "cam-south", decoded.Channels()[1].CameraName)
	require.Equal(t, int32(2), decoded.Channels()[1].LogicalIndex)
}

func TestOpticalSetupUnsupportedFormat(t *testing.T) {
	_, err := buildOpticalSetup(bytes.NewReader(nil), format.OpticalFormat(2))
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}
