package rdc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAckFrameRoundTrip mirrors spec §8's round-trip property: encode
// a 3-byte software-ACK frame for seq=S, receiver=R, and the decode on
// the peer side accepts iff all three bytes match.
func TestAckFrameRoundTrip(t *testing.T) {
	receiver := Addr{0x12, 0x34}
	seq := byte(200)

	ack := [AckLen]byte{receiver[0], receiver[1], seq}

	assert.True(t, ackMatches(ack, receiver, seq, true))
	assert.True(t, ackMatches(ack, receiver, seq, false)) // hw mode only checks the seq byte

	assert.False(t, ackMatches(ack, Addr{0x12, 0x35}, seq, true))
	assert.True(t, ackMatches(ack, Addr{0x12, 0x35}, seq, false)) // hw mode ignores the address

	assert.False(t, ackMatches(ack, receiver, seq+1, true))
	assert.False(t, ackMatches(ack, receiver, seq+1, false))
}
