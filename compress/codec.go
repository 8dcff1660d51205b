// Package compress provides the block compression codecs of the capture
// archiver: Zstandard, S2 and LZ4, behind one Codec interface, plus a no-op
// codec for uncompressed archives.
package compress

import "fmt"

// CompressionType identifies a compression algorithm in archive headers and
// codec lookups.
type CompressionType byte

const (
	CompressionNone CompressionType = 'n'
	CompressionZstd CompressionType = 'z'
	CompressionS2   CompressionType = 's'
	CompressionLZ4  CompressionType = 'l'
)

// Valid reports whether t names a known algorithm.
func (t CompressionType) Valid() bool {
	switch t {
	case CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4:
		return true
	default:
		return false
	}
}

func (t CompressionType) String() string {
	switch t {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// Compressor compresses one complete buffer.
//
// Returned slices are newly allocated and owned by the caller; input slices
// are never modified. Implementations may reuse internal state and must be
// safe for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor is the inverse of Compressor. It validates the input framing
// and fails on corrupted data or data produced by a different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a fresh Codec for the given algorithm. target names the
// caller's usage and only appears in error messages.
func CreateCodec(compressionType CompressionType, target string) (Codec, error) {
	switch compressionType {
	case CompressionNone:
		return NewNoOpCompressor(), nil
	case CompressionZstd:
		return NewZstdCompressor(), nil
	case CompressionS2:
		return NewS2Compressor(), nil
	case CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[CompressionType]Codec{
	CompressionNone: NewNoOpCompressor(),
	CompressionZstd: NewZstdCompressor(),
	CompressionS2:   NewS2Compressor(),
	CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the shared built-in Codec for the given algorithm.
func GetCodec(compressionType CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
