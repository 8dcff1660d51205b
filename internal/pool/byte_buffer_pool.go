// Package pool provides pooled byte buffers for the I/O-heavy paths of the
// container engine, chiefly the splice copy that compacts a file after a
// block is removed.
package pool

import "sync"

const (
	// SpliceBufferSize is the chunk size of the remove-block compaction copy.
	// Capture files run into hundreds of megabytes; the copy must be chunked,
	// never whole-file resident.
	SpliceBufferSize = 64 * 1024

	// spliceBufferMaxThreshold caps what is returned to the pool so one
	// oversized borrow cannot pin memory for the process lifetime.
	spliceBufferMaxThreshold = 1024 * 1024
)

var spliceBufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, SpliceBufferSize)

		return &b
	},
}

// GetSpliceBuffer borrows a copy buffer from the pool.
func GetSpliceBuffer() *[]byte {
	ptr, _ := spliceBufferPool.Get().(*[]byte)

	return ptr
}

// PutSpliceBuffer returns a buffer to the pool. Buffers grown past the
// threshold are dropped for the garbage collector instead.
func PutSpliceBuffer(buf *[]byte) {
	if buf == nil || cap(*buf) > spliceBufferMaxThreshold {
		return
	}
	spliceBufferPool.Put(buf)
}
