// Package flashslot models the flash-streaming writer treated as an
// external collaborator: a sink that appends artifact bytes
// into the alternate flash slot as they arrive over the network.
package flashslot

// Streamer is the contract the download assembler (pkg/assemble) writes
// through. Append must be safe to call repeatedly with growing byte
// slices; is_final signals the last write so the implementation can flush.
type Streamer interface {
	// Init prepares the streamer for a new artifact, discarding any
	// partial write left over from a previous, abandoned download.
	Init() error

	// Append writes data to the alternate slot. isFinal is true on the
	// last call of a download, so implementations backed by buffered I/O
	// can flush.
	Append(data []byte, isFinal bool) error

	// BytesWritten returns the total bytes appended since the last Init.
	BytesWritten() int64
}
