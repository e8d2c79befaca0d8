package assemble

import (
	"bytes"
)

// initialBufferCapacity is the heap buffer's starting capacity, sized for
// the typical control/deployment document.
const initialBufferCapacity = 1100

// JSON accumulates a JSON response body across the chunks delivered by
// transport.ChunkHandler, tracking the declared content length and
// refusing to hand a truncated or oversized body to the caller.
type JSON struct {
	buf           *bytes.Buffer
	contentLength int64
	haveLength    bool
}

// NewJSON creates a JSON assembler. contentLength is the value of the
// response's Content-Length header, read from the first slice; pass 0
// (unknown) if the header was absent, in which case the length check on
// Final is skipped.
func NewJSON(contentLength int64) *JSON {
	buf := new(bytes.Buffer)
	buf.Grow(initialBufferCapacity)
	return &JSON{
		buf:           buf,
		contentLength: contentLength,
		haveLength:    contentLength > 0,
	}
}

// Handle implements transport.ChunkHandler. It appends chunk to the
// accumulator; bytes.Buffer grows its own backing array on demand, which
// is the Go-native equivalent of the original's explicit double-on-
// overflow discipline. On final it validates the accumulated length
// against the declared Content-Length.
func (a *JSON) Handle(chunk []byte, final bool) error {
	if len(chunk) > 0 {
		if _, err := a.buf.Write(chunk); err != nil {
			return metadataErr("assemble: failed to grow response buffer: " + err.Error())
		}
	}

	if final && a.haveLength {
		if int64(a.buf.Len()) != a.contentLength {
			return metadataErr("assemble: accumulated length does not match Content-Length")
		}
	}

	return nil
}

// Bytes returns the accumulated body. Call only after Handle has been
// invoked with final=true.
func (a *JSON) Bytes() []byte {
	return a.buf.Bytes()
}
