package bintype

import (
	"io"
	"time"
)

// TimeSize is the on-disk width of a TDF timestamp.
const TimeSize = 4

// Timestamps are signed 32-bit Unix seconds. Sub-second precision is not
// representable: a write/read round trip truncates to the second.

// ReadTime reads one 32-bit Unix timestamp.
func ReadTime(r io.Reader) (time.Time, error) {
	v, err := ReadInt32(r)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(int64(v), 0), nil
}

// WriteTime writes t as a 32-bit Unix timestamp, truncated to the second.
func WriteTime(w io.Writer, t time.Time) error {
	return WriteInt32(w, int32(t.Unix()))
}
