package rdc

import (
	"github.com/cfreal/simplerdc/linkaddr"
	"github.com/cfreal/simplerdc/packetbuf"
)

// Addr is the 2-byte link-layer node address the MAC operates on.
// Broadcast is the zero value — re-exported from linkaddr so callers
// of this package don't need a second import for the common case.
type Addr = linkaddr.Addr

// Broadcast is the distinguished null address meaning "every neighbor".
var Broadcast = linkaddr.Broadcast

// macHeaderLen is the size, in bytes, of the optional software-ACK MAC
// header: a 2-byte receiver address followed by a 1-byte sequence
// number (spec's 3-byte figure for a 2-byte address).
const macHeaderLen = 3

// Framer is the on-wire link-layer header contract the core consumes.
// framer.Simple satisfies this directly.
type Framer interface {
	Create(buf *packetbuf.Buffer) (int, error)
	Parse(buf *packetbuf.Buffer) (int, error)
}

// UpperMAC is the single capability the core needs from the layer
// above it: delivery of a fully parsed, deduplicated, address-filtered
// frame.
type UpperMAC interface {
	Input(buf *packetbuf.Buffer)
}

// Inspector is the overridable post-sample hook the receive cycler
// calls once per on-time window (§4.3). Inspect returns 0 for
// "nothing heard / CRC fail", a negative value for "mid-FIFO read, do
// not disturb", and a positive value for "frame present".
type Inspector interface {
	Inspect() int8
}

// defaultInspector always reports "nothing heard": the radio is still
// free to interrupt straight into the input path when a frame
// actually arrives, so this is a safe default for platforms with no
// extra radio-internal state to expose.
type defaultInspector struct{}

func (defaultInspector) Inspect() int8 { return 0 }

// cycleState names the receive task's implicit state machine, used
// only for observability (exposed through RDC's CycleState method).
type cycleState int32

const (
	cycleSleeping cycleState = iota
	cycleSampling
	cycleServicing
)

func (s cycleState) String() string {
	switch s {
	case cycleSleeping:
		return "sleeping"
	case cycleSampling:
		return "sampling"
	case cycleServicing:
		return "servicing"
	default:
		return "unknown"
	}
}
