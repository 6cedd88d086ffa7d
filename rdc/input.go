package rdc

import "github.com/cfreal/simplerdc/packetbuf"

// Input is the receive path (§4.6), called by the radio driver once a
// frame has been placed in buf. It runs under r.mu, so it cannot
// observe or mutate the packet buffer a concurrent strobe owns — a
// caller racing Input against Send on the same *packetbuf.Buffer
// still loses, but Input and Send never touch the same buffer
// instance in this design; the mutex only serializes gate/replay/
// txSerial state and the radio.
func (r *RDC) Input(buf *packetbuf.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 1. The frame is in hand; no reason to keep listening. This
	// implementation never accepts a burst (the legacy burst receive
	// path is omitted entirely, per §9 open question #4), so off() is
	// unconditional.
	r.gate.off()

	// 2. Reject empty or unparseable frames.
	if buf.TotLen() == 0 {
		r.logger.Warn("rdc: dropping empty frame")
		return
	}
	if _, err := r.framer.Parse(buf); err != nil {
		r.logger.Warn("rdc: dropping frame, framer parse failed", "err", err)
		return
	}

	seq := buf.Seq

	// 3. Software-ACK variant: strip the inline 3-byte header and use
	// its fields for addressing and dedup instead of the framer's.
	if r.ackUnicast {
		if buf.TotLen() < macHeaderLen {
			r.logger.Warn("rdc: dropping frame, short mac header")
			return
		}
		hdr := buf.HdrPtr()[:macHeaderLen]
		receiver := Addr{hdr[0], hdr[1]}
		seq = hdr[2]
		buf.HdrReduce(macHeaderLen)
		buf.SetDataLen(buf.TotLen())
		buf.Receiver = receiver
		buf.Seq = seq
	}

	// 4. Address filter.
	if !buf.Receiver.IsBroadcast() && buf.Receiver != r.addr {
		return
	}

	// 5. Deduplication.
	if r.replay.seenOrInsert(buf.Sender, seq) {
		r.metrics.ObserveReplayDrop()
		return
	}

	// 6. Optional software ACK: only for a unicast addressed to us.
	if r.ackUnicast && !buf.Receiver.IsBroadcast() {
		ack := [AckLen]byte{r.addr[0], r.addr[1], seq}
		if err := r.radio.Send(ack[:]); err != nil {
			r.logger.Error("rdc: failed to send software ack", "err", err)
		}
	}

	// 7. Deliver upward.
	r.metrics.ObserveDelivered()
	r.upper.Input(buf)
}
