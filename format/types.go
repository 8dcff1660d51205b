// Package format defines the closed enumerations of the TDF container format:
// the block-type identifiers stored in entry-table records and the per-block
// sub-format identifiers stored alongside them.
package format

// BlockType identifies the kind of payload an entry table record points at.
//
// The enumeration is closed: TDF files only ever carry these 17 identifiers.
// Anything else is a corrupt or incompatible file.
type BlockType uint32

const (
	UnusedSlot                  BlockType = 0  // sentinel: slot reserves table capacity, no payload
	NotDefined                  BlockType = 1  // reserved by the format, no payload
	CalibrationData             BlockType = 2  // camera calibration (Seelab/BTS)
	CalibrationData2D           BlockType = 3  // 2D calibration
	Data2D                      BlockType = 4  // raw 2D camera points
	Data3D                      BlockType = 5  // reconstructed 3D marker tracks
	OpticalSetup                BlockType = 6  // optical system configuration
	ForcePlatformsCalibration   BlockType = 7  // force platform calibration
	ForcePlatformsCalibration2D BlockType = 8  // force platform 2D calibration
	ForcePlatformsData          BlockType = 9  // force platform capture data
	AnthropometricData          BlockType = 10 // anthropometric parameters
	EMGData                     BlockType = 11 // electromyography signals
	ForceTorqueData             BlockType = 12 // force and torque tracks
	VolumetricData              BlockType = 13 // volumetric data
	AnalogData                  BlockType = 14 // general purpose analog data
	GeneralCalibrationData      BlockType = 15 // general purpose calibration
	TemporalEvents              BlockType = 16 // temporal event labels
)

// Valid reports whether t belongs to the closed enumeration.
func (t BlockType) Valid() bool {
	return t <= TemporalEvents
}

func (t BlockType) String() string {
	switch t {
	case UnusedSlot:
		return "UnusedSlot"
	case NotDefined:
		return "NotDefined"
	case CalibrationData:
		return "CalibrationData"
	case CalibrationData2D:
		return "CalibrationData2D"
	case Data2D:
		return "Data2D"
	case Data3D:
		return "Data3D"
	case OpticalSetup:
		return "OpticalSetup"
	case ForcePlatformsCalibration:
		return "ForcePlatformsCalibration"
	case ForcePlatformsCalibration2D:
		return "ForcePlatformsCalibration2D"
	case ForcePlatformsData:
		return "ForcePlatformsData"
	case AnthropometricData:
		return "AnthropometricData"
	case EMGData:
		return "EMGData"
	case ForceTorqueData:
		return "ForceTorqueData"
	case VolumetricData:
		return "VolumetricData"
	case AnalogData:
		return "AnalogData"
	case GeneralCalibrationData:
		return "GeneralCalibrationData"
	case TemporalEvents:
		return "TemporalEvents"
	default:
		return "Unknown"
	}
}

// Sub-format identifiers. Each block type interprets the 32-bit format field
// of its entry on its own; the canonical "byTrack" shapes are the only ones
// the codecs implement, everything else fails with errs.ErrUnsupportedFormat.

// Data3DFormat selects the payload shape of a Data3D block.
type Data3DFormat uint32

const (
	Data3DUnknown             Data3DFormat = 0
	Data3DByTrack             Data3DFormat = 1 // canonical: per-track segment runs + link table
	Data3DByTrackWithoutLinks Data3DFormat = 2
	Data3DByFrame             Data3DFormat = 3
	Data3DByFrameWithoutLinks Data3DFormat = 4
)

// EMGFormat selects the payload shape of an EMG block.
type EMGFormat uint32

const (
	EMGUnknown EMGFormat = 0
	EMGByTrack EMGFormat = 1 // canonical
	EMGByFrame EMGFormat = 2
)

// Force3DFormat selects the payload shape of a force/torque block.
type Force3DFormat uint32

const (
	Force3DUnknown          Force3DFormat = 0
	Force3DByTrack          Force3DFormat = 1 // canonical
	Force3DByFrame          Force3DFormat = 2
	Force3DByTrackWithSpeed Force3DFormat = 3
	Force3DByFrameWithSpeed Force3DFormat = 4
)

// PlatformFormat selects the payload shape of a force platform data block.
type PlatformFormat uint32

const (
	PlatformUnknown    PlatformFormat = 0
	PlatformByTrackISS PlatformFormat = 1 // canonical (ISS single precision, by track)
	PlatformByFrameISS PlatformFormat = 2
	// Formats 3-14 cover the labelled, double-precision and velocity variants
	// of the upstream format; none are implemented.
)

// Data2DFormat selects the payload shape of a 2D data block.
type Data2DFormat uint32

const (
	Data2DUnknown Data2DFormat = 0
	Data2DRTS     Data2DFormat = 1
	Data2DPCK     Data2DFormat = 2 // canonical: per-camera point-count matrix + packed points
	Data2DSYNC    Data2DFormat = 3
)

// CalibrationFormat selects the camera record layout of a calibration block.
type CalibrationFormat uint32

const (
	CalibrationUnknown CalibrationFormat = 0
	CalibrationSeelab1 CalibrationFormat = 1
	CalibrationBTS     CalibrationFormat = 2
)

// OpticalFormat selects the payload shape of an optical setup block.
type OpticalFormat uint32

const (
	OpticalUnknown OpticalFormat = 0
	OpticalBasic   OpticalFormat = 1 // canonical
)

// EventsFormat selects the payload shape of a temporal events block.
type EventsFormat uint32

const (
	EventsUnknown  EventsFormat = 0
	EventsStandard EventsFormat = 1 // canonical
)

// EventType distinguishes single events from event sequences.
type EventType uint32

const (
	SingleEvent   EventType = 0
	EventSequence EventType = 1
)

// Data3DFlag carries the acquisition state of a Data3D block.
type Data3DFlag uint32

const (
	Data3DRawData  Data3DFlag = 0
	Data3DFiltered Data3DFlag = 1
)

// Data2DFlag carries the distortion state of a Data2D block.
type Data2DFlag uint32

const (
	Data2DWithDistortion    Data2DFlag = 0
	Data2DWithoutDistortion Data2DFlag = 1
)

// DistortionModel identifies the camera distortion model of a calibration block.
type DistortionModel int32

const (
	NoDistortion      DistortionModel = 0
	KaliDistortion    DistortionModel = 1
	AmassDistortion   DistortionModel = 2
	Seelab1Distortion DistortionModel = 3 // radial distortion up to 2nd order
)
