// Package errs defines the sentinel errors shared by all tdf packages.
//
// Every failure mode of the container engine and the block codecs maps to one
// of these values so callers can branch with errors.Is. All of them are
// fail-fast and non-retryable: a layout violation in a binary file does not
// heal on a second attempt.
package errs

import "errors"

var (
	// ErrInvalidContainer indicates the file does not start with the TDF
	// signature or declares a structurally impossible count or size.
	ErrInvalidContainer = errors.New("invalid TDF container")

	// ErrAlreadyExists indicates New was asked to create a file that exists.
	ErrAlreadyExists = errors.New("container file already exists")

	// ErrNotFound indicates a missing file or a lookup that matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateBlockType indicates an add for a block type that already has an entry.
	ErrDuplicateBlockType = errors.New("a block of this type already exists")

	// ErrBlockNotFound indicates no entry carries the requested block type.
	ErrBlockNotFound = errors.New("no block of the requested type")

	// ErrCapacityExceeded indicates a fixed-capacity structure has no room
	// left: the entry table has no unused slot, or a per-frame point list
	// exceeds its 16-bit count field.
	ErrCapacityExceeded = errors.New("fixed capacity exceeded")

	// ErrCorruptLayout indicates a used entry follows an unused slot, breaking
	// the trailing-unused invariant of the entry table.
	ErrCorruptLayout = errors.New("unused entries must trail all used entries")

	// ErrUnknownBlockType indicates a block-type identifier outside the closed enumeration.
	ErrUnknownBlockType = errors.New("unknown block type")

	// ErrUnsupportedFormat indicates a sub-format the codec does not implement.
	ErrUnsupportedFormat = errors.New("unsupported block format")

	// ErrFrameCountMismatch indicates a track whose frame count differs from its block.
	ErrFrameCountMismatch = errors.New("track frame count does not match block")

	// ErrChannelInUse indicates an explicit channel number that is already mapped.
	ErrChannelInUse = errors.New("channel number already in use")

	// ErrStringTooLong indicates a string that does not fit its fixed field width.
	ErrStringTooLong = errors.New("string exceeds fixed field width")

	// ErrUnexpectedEOF indicates the stream ended before a fixed-width read completed.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrIndexOutOfRange indicates an entry index outside the entry table.
	ErrIndexOutOfRange = errors.New("entry index out of range")

	// ErrTrackNotFound indicates no track carries the requested label.
	ErrTrackNotFound = errors.New("no track with the requested label")

	// ErrSegmentOverlap indicates a malformed run table: runs that overlap,
	// are out of order, reach past the declared frame count, or a negative
	// run count.
	ErrSegmentOverlap = errors.New("segments overlap or are out of order")

	// ErrEventValueCount indicates a single event carrying more than one value.
	ErrEventValueCount = errors.New("single events carry at most one value")
)
