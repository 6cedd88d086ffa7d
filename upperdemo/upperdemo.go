// Package upperdemo provides a trivial rdc.UpperMAC implementation: a
// sink that hands every delivered frame to a callback instead of
// routing it into a real network stack. Nothing else in this module
// imports it; rdc's own tests use their own recording fake.
package upperdemo

import "github.com/cfreal/simplerdc/packetbuf"

// Sink collects every frame rdc.RDC.Input delivers. A nil Handler is
// a silent no-op, so a zero-value Sink is usable directly.
type Sink struct {
	// Handler, if set, is called synchronously with each delivered
	// frame's sender, receiver, sequence number and payload.
	Handler func(sender, receiver [2]byte, seq byte, payload []byte)
}

// Input implements rdc.UpperMAC.
func (s *Sink) Input(buf *packetbuf.Buffer) {
	if s.Handler == nil {
		return
	}
	s.Handler(buf.Sender, buf.Receiver, buf.Seq, buf.Data())
}
