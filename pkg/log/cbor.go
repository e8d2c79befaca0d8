package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// eventEncMode and eventDecMode are the CBOR modes every Event on the wire
// (whether appended to a .ulog file or read back by cmd/update-agent-log)
// is encoded and decoded with. Event's struct tags use small integer keys
// rather than field names, so canonical-sorted, indefinite-length-free
// encoding keeps one CBOR item to a single deterministic byte sequence —
// that determinism is what lets a reader resync after a torn write at the
// end of an append-only log: every complete item before it decodes cleanly.
var (
	eventEncMode cbor.EncMode
	eventDecMode cbor.DecMode
)

func init() {
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	mode, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: building CBOR encoder mode: %v", err))
	}
	eventEncMode = mode

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	dmode, err := decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: building CBOR decoder mode: %v", err))
	}
	eventDecMode = dmode
}

// EncodeEvent returns event's canonical CBOR encoding.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent parses a single CBOR-encoded Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a CBOR encoder bound to the event wire format, for a
// FileLogger (or any other writer) to append events to.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEncMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder bound to the event wire format, for
// cmd/update-agent-log's commands to stream events back out of a log file.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(r)
}
