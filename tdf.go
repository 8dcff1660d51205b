// Package tdf reads and writes TDF files, the binary container format for
// biomechanical motion-capture sessions: 3D marker tracks, force platform and
// force/torque data, EMG signals, camera calibration and temporal events, all
// indexed by a fixed-capacity entry table.
//
// The package offers two levels. File is the convenience layer: one call per
// block type, each opening a short-lived session under the hood. The
// container package underneath exposes explicit read and write sessions for
// callers that batch several operations over one open descriptor.
package tdf

import (
	"fmt"

	"github.com/movelab/tdf/block"
	"github.com/movelab/tdf/container"
	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

// File is a handle to a container on disk. It holds no open descriptor;
// every method opens a session for the duration of the call.
type File struct {
	path string
}

// New creates an empty container at path and returns its handle. It fails
// with errs.ErrAlreadyExists if path exists.
func New(path string) (*File, error) {
	if err := container.New(path); err != nil {
		return nil, err
	}

	return &File{path: path}, nil
}

// Open validates the container at path and returns its handle. It fails with
// errs.ErrNotFound if path does not exist and errs.ErrInvalidContainer if the
// signature does not match.
func Open(path string) (*File, error) {
	s, err := container.OpenRead(path)
	if err != nil {
		return nil, err
	}
	s.Close()

	return &File{path: path}, nil
}

// Path returns the container's filesystem path.
func (f *File) Path() string {
	return f.path
}

// OpenRead opens an explicit read session over the container.
func (f *File) OpenRead() (*container.ReadSession, error) {
	return container.OpenRead(f.path)
}

// OpenWrite opens an explicit write session over the container.
func (f *File) OpenWrite() (*container.WriteSession, error) {
	return container.OpenWrite(f.path)
}

// Size returns the container's total byte size on disk.
func (f *File) Size() (int64, error) {
	s, err := container.OpenRead(f.path)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	return s.Size()
}

// Blocks decodes every block in the container.
func (f *File) Blocks() ([]block.Block, error) {
	s, err := container.OpenRead(f.path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return s.Blocks()
}

// Has reports whether the container holds a block of the given type.
func (f *File) Has(typ format.BlockType) (bool, error) {
	s, err := container.OpenRead(f.path)
	if err != nil {
		return false, err
	}
	defer s.Close()

	return s.Has(typ), nil
}

// Block decodes the block of the given type.
func (f *File) Block(typ format.BlockType) (block.Block, error) {
	s, err := container.OpenRead(f.path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return s.Block(typ)
}

// AddBlock appends a block; see container.WriteSession.AddBlock.
func (f *File) AddBlock(b block.Block, comment string) error {
	s, err := container.OpenWrite(f.path)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.AddBlock(b, comment)
}

// RemoveBlock removes the block of the given type; see
// container.WriteSession.RemoveBlock.
func (f *File) RemoveBlock(typ format.BlockType) error {
	s, err := container.OpenWrite(f.path)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.RemoveBlock(typ)
}

// SetBlock stores b, replacing any existing block of the same type.
func (f *File) SetBlock(b block.Block, comment string) error {
	s, err := container.OpenWrite(f.path)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Has(b.Type()) {
		return s.ReplaceBlock(b, comment)
	}

	return s.AddBlock(b, comment)
}

func getBlock[T block.Block](f *File, typ format.BlockType) (T, error) {
	var zero T
	b, err := f.Block(typ)
	if err != nil {
		return zero, err
	}
	t, ok := b.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s block decoded as %T", errs.ErrUnsupportedFormat, typ, b)
	}

	return t, nil
}

// Data3D decodes the 3D marker data block.
func (f *File) Data3D() (*block.Data3D, error) {
	return getBlock[*block.Data3D](f, format.Data3D)
}

// HasData3D reports whether a 3D marker data block exists.
func (f *File) HasData3D() (bool, error) {
	return f.Has(format.Data3D)
}

// SetData3D stores the 3D marker data block.
func (f *File) SetData3D(b *block.Data3D, comment string) error {
	return f.SetBlock(b, comment)
}

// EMG decodes the EMG block.
func (f *File) EMG() (*block.EMG, error) {
	return getBlock[*block.EMG](f, format.EMGData)
}

// HasEMG reports whether an EMG block exists.
func (f *File) HasEMG() (bool, error) {
	return f.Has(format.EMGData)
}

// SetEMG stores the EMG block.
func (f *File) SetEMG(b *block.EMG, comment string) error {
	return f.SetBlock(b, comment)
}

// ForceTorque3D decodes the force/torque block.
func (f *File) ForceTorque3D() (*block.ForceTorque3D, error) {
	return getBlock[*block.ForceTorque3D](f, format.ForceTorqueData)
}

// HasForceTorque3D reports whether a force/torque block exists.
func (f *File) HasForceTorque3D() (bool, error) {
	return f.Has(format.ForceTorqueData)
}

// SetForceTorque3D stores the force/torque block.
func (f *File) SetForceTorque3D(b *block.ForceTorque3D, comment string) error {
	return f.SetBlock(b, comment)
}

// Platforms decodes the force platforms data block.
func (f *File) Platforms() (*block.Platforms, error) {
	return getBlock[*block.Platforms](f, format.ForcePlatformsData)
}

// HasPlatforms reports whether a force platforms data block exists.
func (f *File) HasPlatforms() (bool, error) {
	return f.Has(format.ForcePlatformsData)
}

// SetPlatforms stores the force platforms data block.
func (f *File) SetPlatforms(b *block.Platforms, comment string) error {
	return f.SetBlock(b, comment)
}

// Events decodes the temporal events block.
func (f *File) Events() (*block.TemporalEvents, error) {
	return getBlock[*block.TemporalEvents](f, format.TemporalEvents)
}

// HasEvents reports whether a temporal events block exists.
func (f *File) HasEvents() (bool, error) {
	return f.Has(format.TemporalEvents)
}

// SetEvents stores the temporal events block.
func (f *File) SetEvents(b *block.TemporalEvents, comment string) error {
	return f.SetBlock(b, comment)
}

// Calibration decodes the camera calibration block.
func (f *File) Calibration() (*block.Calibration, error) {
	return getBlock[*block.Calibration](f, format.CalibrationData)
}

// HasCalibration reports whether a camera calibration block exists.
func (f *File) HasCalibration() (bool, error) {
	return f.Has(format.CalibrationData)
}

// SetCalibration stores the camera calibration block.
func (f *File) SetCalibration(b *block.Calibration, comment string) error {
	return f.SetBlock(b, comment)
}

// Data2D decodes the raw 2D camera data block.
func (f *File) Data2D() (*block.Data2D, error) {
	return getBlock[*block.Data2D](f, format.Data2D)
}

// HasData2D reports whether a raw 2D camera data block exists.
func (f *File) HasData2D() (bool, error) {
	return f.Has(format.Data2D)
}

// SetData2D stores the raw 2D camera data block.
func (f *File) SetData2D(b *block.Data2D, comment string) error {
	return f.SetBlock(b, comment)
}

// OpticalSetup decodes the optical system configuration block.
func (f *File) OpticalSetup() (*block.OpticalSetup, error) {
	return getBlock[*block.OpticalSetup](f, format.OpticalSetup)
}

// HasOpticalSetup reports whether an optical system configuration block exists.
func (f *File) HasOpticalSetup() (bool, error) {
	return f.Has(format.OpticalSetup)
}

// SetOpticalSetup stores the optical system configuration block.
func (f *File) SetOpticalSetup(b *block.OpticalSetup, comment string) error {
	return f.SetBlock(b, comment)
}
