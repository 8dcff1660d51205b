package compress

// ZstdCompressor is the ratio-oriented codec, the default for cold storage of
// capture files. Two implementations exist behind the same type: a cgo
// binding when cgo is available and a pure-Go fallback otherwise; archives
// produced by either decompress with both.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstandard codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
