// Package packetbuf implements the single packet buffer the MAC layer
// stages its current outgoing or incoming frame in. It plays the role
// of Contiki's packetbuf.c: a fixed-capacity scratch area with a
// growable header region in front of a payload, plus the handful of
// link-layer attributes (sender, receiver, sequence id, pending flag)
// the duty-cycling MAC needs. There is exactly one buffer in play per
// send or receive; callers are responsible for not reentering it
// (see simplerdc's single-writer discipline).
package packetbuf

import (
	"errors"
	"fmt"

	"github.com/cfreal/simplerdc/linkaddr"
)

const (
	// MaxHeaderSize bounds how many bytes of header (software-ACK
	// header plus framer header) can be allocated in front of a frame.
	MaxHeaderSize = 16
	// MaxPayloadSize bounds the application payload.
	MaxPayloadSize = 64
	// Capacity is the total backing storage: header region + payload.
	Capacity = MaxHeaderSize + MaxPayloadSize
)

// ErrTooLarge is returned when a payload or header allocation would
// overflow the buffer's fixed capacity.
var ErrTooLarge = errors.New("packetbuf: exceeds capacity")

// Buffer is the current outgoing or incoming frame. Its zero value is
// not usable; construct one with New.
type Buffer struct {
	buf     [Capacity]byte
	start   int // index of the first valid header/data byte
	dataLen int // length of the payload, tracked separately from start

	Sender   linkaddr.Addr
	Receiver linkaddr.Addr
	Seq      byte
	// Pending signals, on an outgoing frame, that another frame is
	// queued behind it (set by SendList between back-to-back sends so
	// a receiver knows to keep its radio on).
	Pending bool
}

// New returns an empty, ready-to-use Buffer.
func New() *Buffer {
	b := &Buffer{}
	b.Reset()
	return b
}

// Reset clears the buffer back to empty with no header or payload.
func (b *Buffer) Reset() {
	b.start = Capacity
	b.dataLen = 0
	b.Sender = linkaddr.Addr{}
	b.Receiver = linkaddr.Addr{}
	b.Seq = 0
	b.Pending = false
}

// SetData copies payload in as the buffer's data region, discarding any
// previously allocated header space.
func (b *Buffer) SetData(data []byte) error {
	if len(data) > MaxPayloadSize {
		return fmt.Errorf("%w: payload of %d bytes, max %d", ErrTooLarge, len(data), MaxPayloadSize)
	}
	b.start = Capacity - len(data)
	b.dataLen = len(data)
	copy(b.buf[b.start:], data)
	return nil
}

// HdrAlloc reserves n zeroed bytes immediately in front of the current
// header/data region for a new header, and returns that slice for the
// caller to fill in. It reports false when there isn't room, mirroring
// packetbuf_hdralloc returning 0 on overflow.
func (b *Buffer) HdrAlloc(n int) ([]byte, bool) {
	if n < 0 || b.start-n < 0 {
		return nil, false
	}
	b.start -= n
	hdr := b.buf[b.start : b.start+n]
	clear(hdr)
	return hdr, true
}

// HdrReduce discards n bytes from the front of the buffer, as done on
// receive once a header has been parsed and is no longer needed.
func (b *Buffer) HdrReduce(n int) {
	b.start += n
	if b.start > Capacity {
		b.start = Capacity
	}
}

// TotLen returns the number of valid bytes currently in the buffer
// (every remaining header plus the payload).
func (b *Buffer) TotLen() int {
	return Capacity - b.start
}

// HdrPtr returns the full header-and-data region in wire order, ready
// to hand to radiohal.HAL.Prepare.
func (b *Buffer) HdrPtr() []byte {
	return b.buf[b.start:Capacity]
}

// Data returns the trailing dataLen bytes: the payload beneath
// whatever headers remain. Use SetDataLen to keep it in sync after
// HdrReduce on the receive path.
func (b *Buffer) Data() []byte {
	return b.buf[Capacity-b.dataLen : Capacity]
}

// SetDataLen updates how many trailing bytes count as payload; the
// receive path calls this after stripping a header so Data() reflects
// the new length, mirroring packetbuf_set_datalen(packetbuf_totlen()).
func (b *Buffer) SetDataLen(n int) {
	if n < 0 {
		n = 0
	}
	if n > Capacity {
		n = Capacity
	}
	b.dataLen = n
}
