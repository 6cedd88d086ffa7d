package rdc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfreal/simplerdc/packetbuf"
	"github.com/cfreal/simplerdc/radiohal"
	"github.com/cfreal/simplerdc/radiohal/radiohaltest"
)

func TestSendListDeliversOneCallbackPerFrameInOrder(t *testing.T) {
	mac, fake, _ := newTestMAC(t, false)
	fake.DefaultTransmit = radiohaltest.TransmitResult{Result: radiohal.TxSent}
	fake.DefaultChannelClear = true

	const n = 4
	bufs := make([]*packetbuf.Buffer, n)
	for i := range bufs {
		bufs[i] = packetbuf.New()
		bufs[i].Receiver = Broadcast
		require.NoError(t, bufs[i].SetData([]byte{byte(i)}))
	}

	var seen []Status
	status := mac.SendList(bufs, func(s Status, retries int) {
		seen = append(seen, s)
		assert.Equal(t, 1, retries)
	})

	assert.Equal(t, OK, status)
	assert.Len(t, seen, n)
	for _, s := range seen {
		assert.Equal(t, OK, s)
	}

	for i, buf := range bufs {
		assert.Equal(t, i < n-1, buf.Pending)
	}
}

func TestSendListStopsAtFirstNonOK(t *testing.T) {
	mac, fake, _ := newTestMAC(t, false)
	fake.DefaultChannelClear = false // every send collides before transmit

	bufs := make([]*packetbuf.Buffer, 3)
	for i := range bufs {
		bufs[i] = packetbuf.New()
		bufs[i].Receiver = Addr{0x00, 0x02}
		require.NoError(t, bufs[i].SetData([]byte{byte(i)}))
	}

	var calls int
	status := mac.SendList(bufs, func(Status, int) { calls++ })

	assert.Equal(t, Collision, status)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, len(fake.TransmitQueue))
}
