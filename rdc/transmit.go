package rdc

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cfreal/simplerdc/packetbuf"
	"github.com/cfreal/simplerdc/radiohal"
)

// transmit is the strobed transmitter, the hardest piece of the design
// (§4.4). It assumes r.mu is held by the caller for its entire
// duration: the send path owns the radio exclusively while strobing,
// exactly as §5 requires ("on()/off() from any context must not be
// invoked concurrently"; here that's enforced by one mutex rather than
// a single-core cooperative scheduler).
func (r *RDC) transmit(buf *packetbuf.Buffer) (Status, error) {
	// 1. Sanity.
	if !r.gate.enabled && !r.gate.keepRadioOn {
		return ErrFatal, ErrDisabled
	}
	if buf.TotLen() == 0 {
		return ErrFatal, ErrEmptyBuffer
	}

	// 2. Address / header prep.
	buf.Sender = r.addr
	seq := r.txSerial
	r.txSerial++
	buf.Seq = seq

	// 3. Software-ACK header, only when that mode is configured. The
	// receiver field is the frame's actual intended receiver, not its
	// sender — the original source populates it from the sender
	// address by what looks like a copy-paste bug (§9 open question),
	// which this implementation does not reproduce.
	if r.ackUnicast {
		hdr, ok := buf.HdrAlloc(macHeaderLen)
		if !ok {
			return ErrFatal, ErrHeaderAlloc
		}
		hdr[0], hdr[1] = buf.Receiver[0], buf.Receiver[1]
		hdr[2] = seq
	}

	// 4. Framer.
	if _, err := r.framer.Create(buf); err != nil {
		if r.ackUnicast {
			buf.HdrReduce(macHeaderLen)
		}
		return ErrFatal, fmt.Errorf("%w: %v", ErrFramer, err)
	}

	totalLen := buf.TotLen()

	// 5. Stage into radio.
	if err := r.radio.Prepare(buf.HdrPtr()); err != nil {
		return ErrFatal, fmt.Errorf("%w: prepare: %v", ErrRadio, err)
	}

	// 6. Broadcast detection.
	isBroadcast := buf.Receiver.IsBroadcast()

	// 7. Pre-transmit collision check. Unlike ContikiMAC this layer
	// trusts a single CCA sample rather than a burst of them.
	if r.radio.ReceivingPacket() || (!isBroadcast && r.radio.PendingPacket()) {
		return Collision, nil
	}
	if !r.radio.ChannelClear() {
		return Collision, nil
	}

	// 8. Strobe loop.
	deadline := time.Now().Add(r.timing.TxPeriod)
	acked := false
	for time.Now().Before(deadline) {
		r.watchdog.Kick()

		result, err := r.radio.Transmit(totalLen)
		switch result {
		case radiohal.TxCollision:
			return Collision, nil
		case radiohal.TxErr:
			return Err, fmt.Errorf("%w: transmit: %v", ErrRadio, err)
		}
		// Any other result (radiohal.TxSent) is treated as "sent".

		if isBroadcast {
			r.gate.off() // no ACK possible; save energy between repeats
		} else {
			r.gate.on() // listen for the ACK
		}

		// Unconditional timed spin gapping two repeats: intentional,
		// not dead code (§9 open question #3 — BUSYWAIT_UNTIL(0, ...)
		// in the original is an unconditional wait, not a bug).
		busyWaitUntil(nil, r.timing.BetweenTxTime)

		if isBroadcast {
			continue
		}

		// 8.5 ACK window (unicast only).
		if r.radio.ReceivingPacket() || r.radio.PendingPacket() || !r.radio.ChannelClear() {
			if r.radio.ReceivingPacket() {
				busyWaitUntil(func() bool { return !r.radio.ReceivingPacket() }, r.timing.AckDetectWaitTime)
			}
			if r.radio.PendingPacket() {
				var ack [AckLen]byte
				n, _ := r.radio.Read(ack[:])
				if n == AckLen && ackMatches(ack, buf.Receiver, seq, r.ackUnicast) {
					acked = true
					break
				}
				return Collision, nil
			}
		}
	}

	// 9. After the strobe window.
	r.gate.off()

	if isBroadcast {
		// Broadcasts are never ACKed; completing the window is success
		// regardless of mode (§9 open question #2).
		return OK, nil
	}
	if acked {
		return OK, nil
	}
	if r.ackUnicast {
		return NoAck, nil
	}
	// Hardware/driver-ACK variant: trust the radio's own internal
	// check, which would have surfaced a collision or error already.
	return OK, nil
}

// ackMatches reports whether a received AckLen-byte frame is a valid
// ACK for a unicast to receiver carrying sequence number seq. In
// software-ACK mode the first two bytes must match the receiver
// address; in hardware/driver-ACK mode only the sequence byte is
// compared.
func ackMatches(ack [AckLen]byte, receiver Addr, seq byte, softwareAck bool) bool {
	if softwareAck {
		return ack[0] == receiver[0] && ack[1] == receiver[1] && ack[2] == seq
	}
	return ack[2] == seq
}

// busyWaitUntil spins (yielding the processor, not blocking on a
// timer) until cond reports true or d elapses. A nil cond models an
// unconditional timed spin, used for BETWEEN_TX_TIME.
func busyWaitUntil(cond func() bool, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond != nil && cond() {
			return
		}
		runtime.Gosched()
	}
}
