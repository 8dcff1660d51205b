// Package block implements the typed payload codecs of the TDF container:
// one codec per block type, composed from the segment-run codec and the typed
// binary primitives, plus the registry that maps a block-type identifier to
// its codec.
package block

import (
	"io"

	"github.com/movelab/tdf/errs"
	"github.com/movelab/tdf/format"
)

// Block is a decoded, typed payload materialized from one entry's byte range.
//
// Write must be the exact byte-inverse of Build: for any payload produced by
// Write, decoding and re-encoding reproduces it bit for bit. Size must equal
// the number of bytes Write emits, computed without writing; the container
// engine sizes new entries with it before allocating file space.
type Block interface {
	// Type returns the block-type identifier stored in the entry table.
	Type() format.BlockType

	// Format returns the sub-format identifier stored alongside the type.
	Format() uint32

	// Size returns the encoded payload size in bytes.
	Size() int

	// Write encodes the payload.
	Write(w io.Writer) error
}

// Build materializes the typed block for typ from size payload bytes at the
// current position of r.
//
// The dispatch is exhaustive over the closed enumeration: unused and
// not-defined slots yield zero-length pseudo blocks, types with a structured
// codec are fully decoded, the remaining in-enum types are preserved as
// opaque Raw blocks, and anything outside the enumeration fails with
// errs.ErrUnknownBlockType.
func Build(r io.Reader, typ format.BlockType, formatID uint32, size int) (Block, error) {
	switch typ {
	case format.UnusedSlot:
		return Unused{}, nil
	case format.NotDefined:
		return NotDefinedBlock{}, nil
	case format.CalibrationData:
		return buildCalibration(r, format.CalibrationFormat(formatID))
	case format.Data2D:
		return buildData2D(r, format.Data2DFormat(formatID))
	case format.Data3D:
		return buildData3D(r, format.Data3DFormat(formatID))
	case format.OpticalSetup:
		return buildOpticalSetup(r, format.OpticalFormat(formatID))
	case format.ForcePlatformsData:
		return buildPlatforms(r, format.PlatformFormat(formatID))
	case format.EMGData:
		return buildEMG(r, format.EMGFormat(formatID))
	case format.ForceTorqueData:
		return buildForceTorque3D(r, format.Force3DFormat(formatID))
	case format.TemporalEvents:
		return buildTemporalEvents(r, format.EventsFormat(formatID))
	case format.CalibrationData2D, format.ForcePlatformsCalibration,
		format.ForcePlatformsCalibration2D, format.AnthropometricData,
		format.VolumetricData, format.AnalogData, format.GeneralCalibrationData:
		// No structured codec; preserve the payload bytes so whole-file
		// copies and replace/remove still work on real captures.
		return buildRaw(r, typ, formatID, size)
	default:
		return nil, errs.ErrUnknownBlockType
	}
}

// Unused is the pseudo block of a sentinel slot. It has no payload.
type Unused struct{}

func (Unused) Type() format.BlockType  { return format.UnusedSlot }
func (Unused) Format() uint32          { return 0 }
func (Unused) Size() int               { return 0 }
func (Unused) Write(_ io.Writer) error { return nil }

// NotDefinedBlock is the pseudo block of a reserved slot. It has no payload.
type NotDefinedBlock struct{}

func (NotDefinedBlock) Type() format.BlockType  { return format.NotDefined }
func (NotDefinedBlock) Format() uint32          { return 0 }
func (NotDefinedBlock) Size() int               { return 0 }
func (NotDefinedBlock) Write(_ io.Writer) error { return nil }
