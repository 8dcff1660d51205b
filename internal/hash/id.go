package hash

import "github.com/cespare/xxhash/v2"

// LabelID computes the xxHash64 of a track label. Collection blocks key their
// lookup maps on it so that finding a track by label stays O(1) regardless of
// how many channels a capture carries.
func LabelID(label string) uint64 {
	return xxhash.Sum64String(label)
}
