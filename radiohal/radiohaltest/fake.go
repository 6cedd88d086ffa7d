// Package radiohaltest provides a deterministic, in-memory
// implementation of radiohal.HAL for unit and property tests of the
// MAC layer, so the strobe/ACK/duty-cycle algorithms can be exercised
// without real SPI/GPIO hardware. It follows the teacher driver's test
// style of a queue of scripted responses consumed FIFO, one per call
// (see michcald-nrf24's mockSPIConn.queueRx).
package radiohaltest

import (
	"sync"

	"github.com/cfreal/simplerdc/radiohal"
)

// TransmitResult is one scripted response to a Transmit call.
type TransmitResult struct {
	Result radiohal.TxResult
	Err    error
}

// Fake is a scriptable radiohal.HAL. Every queue is consumed FIFO;
// once empty, calls fall back to the corresponding Default field,
// except Read, which has no default and returns 0 bytes. Zero value is
// not ready to use — call New.
type Fake struct {
	mu sync.Mutex

	OnCalls  int
	OffCalls int

	PreparedHeaders [][]byte

	TransmitQueue   []TransmitResult
	DefaultTransmit TransmitResult

	ChannelClearQueue   []bool
	DefaultChannelClear bool

	ReceivingQueue   []bool
	DefaultReceiving bool

	PendingQueue   []bool
	DefaultPending bool

	ReadQueue [][]byte

	SentPackets [][]byte
}

// New returns a Fake whose channel reads as clear and everything else
// reads as quiet, until scripted otherwise.
func New() *Fake {
	return &Fake{DefaultChannelClear: true}
}

func (f *Fake) On() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.OnCalls++
}

func (f *Fake) Off() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.OffCalls++
}

func (f *Fake) Prepare(hdr []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), hdr...)
	f.PreparedHeaders = append(f.PreparedHeaders, cp)
	return nil
}

func (f *Fake) Transmit(int) (radiohal.TxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.TransmitQueue) > 0 {
		r := f.TransmitQueue[0]
		f.TransmitQueue = f.TransmitQueue[1:]
		return r.Result, r.Err
	}
	return f.DefaultTransmit, nil
}

func (f *Fake) ChannelClear() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ChannelClearQueue) > 0 {
		v := f.ChannelClearQueue[0]
		f.ChannelClearQueue = f.ChannelClearQueue[1:]
		return v
	}
	return f.DefaultChannelClear
}

func (f *Fake) ReceivingPacket() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ReceivingQueue) > 0 {
		v := f.ReceivingQueue[0]
		f.ReceivingQueue = f.ReceivingQueue[1:]
		return v
	}
	return f.DefaultReceiving
}

func (f *Fake) PendingPacket() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.PendingQueue) > 0 {
		v := f.PendingQueue[0]
		f.PendingQueue = f.PendingQueue[1:]
		return v
	}
	return f.DefaultPending
}

func (f *Fake) Read(buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ReadQueue) == 0 {
		return 0, nil
	}
	data := f.ReadQueue[0]
	f.ReadQueue = f.ReadQueue[1:]
	return copy(buf, data), nil
}

func (f *Fake) Send(buf []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SentPackets = append(f.SentPackets, append([]byte(nil), buf...))
	return nil
}

// QueueTransmit appends a scripted Transmit response.
func (f *Fake) QueueTransmit(r radiohal.TxResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TransmitQueue = append(f.TransmitQueue, TransmitResult{Result: r, Err: err})
}

// QueueRead appends a scripted Read payload.
func (f *Fake) QueueRead(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadQueue = append(f.ReadQueue, data)
}
