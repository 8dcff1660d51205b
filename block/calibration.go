package block

import (
	"io"

	"github.com/movelab/tdf/bintype"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

// Camera is one calibrated camera record. The two supported layouts share
// extrinsics and a viewport but differ in their intrinsic model.
type Camera interface {
	// Rotation returns the camera rotation matrix.
	Rotation() bintype.Mat3x3d

	// Translation returns the camera translation vector.
	Translation() bintype.Vec3d

	// Window returns the active sensor viewport.
	Window() Viewport

	size() int
	write(w io.Writer) error
}

// SeelabCamera is the Seelab-1 intrinsic model: focus, optical center and
// three low-order distortion terms.
type SeelabCamera struct {
	RotationMatrix    bintype.Mat3x3d
	TranslationVector bintype.Vec3d
	Focus             bintype.Vec2d
	OpticalCenter     bintype.Vec2d
	RadialDistortion  bintype.Vec2d
	Decentering       bintype.Vec2d
	ThinPrism         bintype.Vec2d
	Viewport          Viewport
}

func readSeelabCamera(r io.Reader) (*SeelabCamera, error) {
	var c SeelabCamera
	var err error
	if c.RotationMatrix, err = bintype.ReadMat3x3d(r); err != nil {
		return nil, err
	}
	if c.TranslationVector, err = bintype.ReadVec3d(r); err != nil {
		return nil, err
	}
	for _, dst := range []*bintype.Vec2d{
		&c.Focus, &c.OpticalCenter, &c.RadialDistortion, &c.Decentering, &c.ThinPrism,
	} {
		if *dst, err = bintype.ReadVec2d(r); err != nil {
			return nil, err
		}
	}
	if c.Viewport, err = readViewport(r); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *SeelabCamera) Rotation() bintype.Mat3x3d  { return c.RotationMatrix }
func (c *SeelabCamera) Translation() bintype.Vec3d { return c.TranslationVector }
func (c *SeelabCamera) Window() Viewport           { return c.Viewport }

func (c *SeelabCamera) size() int { return 72 + 24 + 5*16 + viewportSize }

func (c *SeelabCamera) write(w io.Writer) error {
	if err := bintype.WriteMat3x3d(w, c.RotationMatrix); err != nil {
		return err
	}
	if err := bintype.WriteVec3d(w, c.TranslationVector); err != nil {
		return err
	}
	for _, v := range []bintype.Vec2d{
		c.Focus, c.OpticalCenter, c.RadialDistortion, c.Decentering, c.ThinPrism,
	} {
		if err := bintype.WriteVec2d(w, v); err != nil {
			return err
		}
	}

	return writeViewport(w, c.Viewport)
}

// btsCoeffs is the polynomial order of the BTS distortion map per axis.
const btsCoeffs = 70

// BTSCamera is the BTS intrinsic model: focus, optical center and a dense
// 70-coefficient polynomial distortion map per image axis.
type BTSCamera struct {
	RotationMatrix    bintype.Mat3x3d
	TranslationVector bintype.Vec3d
	Focus             bintype.Vec2d
	OpticalCenter     bintype.Vec2d
	XCoefficients     []float64
	YCoefficients     []float64
	Viewport          Viewport
}

func readBTSCamera(r io.Reader) (*BTSCamera, error) {
	var c BTSCamera
	var err error
	if c.RotationMatrix, err = bintype.ReadMat3x3d(r); err != nil {
		return nil, err
	}
	if c.TranslationVector, err = bintype.ReadVec3d(r); err != nil {
		return nil, err
	}
	if c.Focus, err = bintype.ReadVec2d(r); err != nil {
		return nil, err
	}
	if c.OpticalCenter, err = bintype.ReadVec2d(r); err != nil {
		return nil, err
	}
	if c.XCoefficients, err = bintype.ReadFloat64Slice(r, btsCoeffs); err != nil {
		return nil, err
	}
	if c.YCoefficients, err = bintype.ReadFloat64Slice(r, btsCoeffs); err != nil {
		return nil, err
	}
	if c.Viewport, err = readViewport(r); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *BTSCamera) Rotation() bintype.Mat3x3d  { return c.RotationMatrix }
func (c *BTSCamera) Translation() bintype.Vec3d { return c.TranslationVector }
func (c *BTSCamera) Window() Viewport           { return c.Viewport }

func (c *BTSCamera) size() int { return 72 + 24 + 2*16 + 2*8*btsCoeffs + viewportSize }

func (c *BTSCamera) write(w io.Writer) error {
	if len(c.XCoefficients) != btsCoeffs || len(c.YCoefficients) != btsCoeffs {
		return errs.ErrIndexOutOfRange
	}
	if err := bintype.WriteMat3x3d(w, c.RotationMatrix); err != nil {
		return err
	}
	if err := bintype.WriteVec3d(w, c.TranslationVector); err != nil {
		return err
	}
	if err := bintype.WriteVec2d(w, c.Focus); err != nil {
		return err
	}
	if err := bintype.WriteVec2d(w, c.OpticalCenter); err != nil {
		return err
	}
	if err := bintype.WriteFloat64Slice(w, c.XCoefficients); err != nil {
		return err
	}
	if err := bintype.WriteFloat64Slice(w, c.YCoefficients); err != nil {
		return err
	}

	return writeViewport(w, c.Viewport)
}

// Calibration holds the stereo-photogrammetric calibration of the camera rig:
// the acquisition volume, its orientation in the lab, and one intrinsic plus
// extrinsic record per camera.
type Calibration struct {
	DistortionModel   format.DistortionModel
	Volume            bintype.Vec3
	RotationMatrix    bintype.Mat3x3
	TranslationVector bintype.Vec3

	formatID format.CalibrationFormat
	channels []int16
	cameras  []Camera
}

// NewCalibration creates an empty calibration block of the given camera
// record layout.
func NewCalibration(f format.CalibrationFormat, model format.DistortionModel, volume bintype.Vec3, rotation bintype.Mat3x3, translation bintype.Vec3) *Calibration {
	return &Calibration{
		DistortionModel:   model,
		Volume:            volume,
		RotationMatrix:    rotation,
		TranslationVector: translation,
		formatID:          f,
	}
}

func buildCalibration(r io.Reader, f format.CalibrationFormat) (*Calibration, error) {
	if f != format.CalibrationSeelab1 && f != format.CalibrationBTS {
		return nil, errs.ErrUnsupportedFormat
	}

	nCams, err := bintype.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	model, err := bintype.ReadInt32(r)
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
	channels, err := bintype.ReadInt16Slice(r, int(nCams))
	if err != nil {
		return nil, err
	}

	b := NewCalibration(f, format.DistortionModel(model), volume, rotation, translation)
	for i := int32(0); i < nCams; i++ {
		var cam Camera
		switch f {
		case format.CalibrationSeelab1:
			cam, err = readSeelabCamera(r)
		case format.CalibrationBTS:
			cam, err = readBTSCamera(r)
		}
		if err != nil {
			return nil, err
		}
		b.AddCamera(channels[i], cam)
	}

	return b, nil
}

func (b *Calibration) Type() format.BlockType { return format.CalibrationData }

func (b *Calibration) Format() uint32 { return uint32(b.formatID) }

// Cameras returns the camera records in file order.
func (b *Calibration) Cameras() []Camera { return b.cameras }

// Channels returns the logical camera channel numbers, aligned with Cameras.
func (b *Calibration) Channels() []int16 { return b.channels }

// NCameras returns the number of calibrated cameras.
func (b *Calibration) NCameras() int { return len(b.cameras) }

// AddCamera appends a camera record on the given logical channel.
func (b *Calibration) AddCamera(channel int16, cam Camera) {
	b.channels = append(b.channels, channel)
	b.cameras = append(b.cameras, cam)
}

func (b *Calibration) Size() int {
	size := 4 + 4 + 12 + 36 + 12 + 2*len(b.channels)
	for _, cam := range b.cameras {
		size += cam.size()
	}

	return size
}

func (b *Calibration) Write(w io.Writer) error {
	if err := bintype.WriteInt32(w, int32(len(b.cameras))); err != nil {
		return err
	}
	if err := bintype.WriteInt32(w, int32(b.DistortionModel)); err != nil {
		return err
	}
	if err := bintype.WriteVec3(w, b.Volume); err != nil {
		return err
	}
	if err := bintype.WriteMat3x3(w, b.RotationMatrix); err != nil {
		return err
	}
	if err := bintype.WriteVec3(w, b.TranslationVector); err != nil {
		return err
	}
	if err := bintype.WriteInt16Slice(w, b.channels); err != nil {
		return err
	}
	for _, cam := range b.cameras {
		if err := cam.write(w); err != nil {
			return err
		}
	}

	return nil
}
