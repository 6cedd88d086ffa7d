// Package framer implements the on-wire link-layer header the MAC
// layer prepends to and strips from every frame. It is deliberately
// minimal — the framer is an external collaborator per the MAC's
// design, sketched only as a Create/Parse contract — but a concrete
// implementation is provided here (in the spirit of Contiki's
// framer-nullmac) so the module runs end to end without a caller
// having to supply their own.
package framer

import (
	"errors"
	"fmt"

	"github.com/cfreal/simplerdc/linkaddr"
	"github.com/cfreal/simplerdc/packetbuf"
)

// HeaderLen is the size, in bytes, of the Simple framer's header:
// a 2-byte receiver address followed by a 2-byte sender address.
const HeaderLen = 4

// ErrTruncated is returned by Parse when the buffer is shorter than a
// full header.
var ErrTruncated = errors.New("framer: frame shorter than header")

// Simple is a minimal link-layer framer: receiver address followed by
// sender address, no length field (the radio/packet buffer already
// knows the frame length) and no per-frame type byte.
type Simple struct{}

// Create prepends the link-layer header to buf using its Sender and
// Receiver attributes, returning the header length, or a negative
// value on failure (mirroring NETSTACK_FRAMER.create's convention).
func (Simple) Create(buf *packetbuf.Buffer) (int, error) {
	hdr, ok := buf.HdrAlloc(HeaderLen)
	if !ok {
		return -1, fmt.Errorf("framer: no room for %d-byte header", HeaderLen)
	}
	hdr[0], hdr[1] = buf.Receiver[0], buf.Receiver[1]
	hdr[2], hdr[3] = buf.Sender[0], buf.Sender[1]
	return HeaderLen, nil
}

// Parse reads the link-layer header off the front of buf, populates
// its Sender/Receiver attributes, strips the header and resyncs the
// data length, returning the header length, or a negative value on
// failure.
func (Simple) Parse(buf *packetbuf.Buffer) (int, error) {
	if buf.TotLen() < HeaderLen {
		return -1, ErrTruncated
	}
	hdr := buf.HdrPtr()[:HeaderLen]
	buf.Receiver = linkaddr.Addr{hdr[0], hdr[1]}
	buf.Sender = linkaddr.Addr{hdr[2], hdr[3]}
	buf.HdrReduce(HeaderLen)
	buf.SetDataLen(buf.TotLen())
	return HeaderLen, nil
}
