package radiohal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSPI is a scriptable, register-storing SPI mock in the spirit of
// the teacher driver's mockSPIConn, generalized from a strict
// call-order queue to a keyed register store: the nRF24's init
// sequence writes then reads back RF_CH, and a queue indexed by call
// order would make that round trip fragile to reorder.
type fakeSPI struct {
	registers map[byte]byte
	writes    [][]byte

	dropChannelWrites bool // simulates a disconnected/dead chip
}

func newFakeSPI() *fakeSPI {
	return &fakeSPI{registers: map[byte]byte{}}
}

func (f *fakeSPI) Tx(w, r []byte) error {
	cmd := w[0]
	f.writes = append(f.writes, append([]byte(nil), w...))

	switch {
	case cmd&0xE0 == _W_REGISTER:
		reg := cmd & 0x1F
		if reg == _RF_CH && f.dropChannelWrites {
			break
		}
		if len(w) >= 2 {
			f.registers[reg] = w[1]
		}
	case cmd <= 0x1F:
		reg := cmd
		if len(r) > 1 {
			r[1] = f.registers[reg]
		}
	}
	r[0] = f.registers[_STATUS]
	return nil
}

type fakePin struct {
	level Level
}

func (p *fakePin) Out(l Level) error { p.level = l; return nil }
func (p *fakePin) In(Pull) error     { return nil }
func (p *fakePin) Read() Level       { return p.level }

func TestNewDeviceInitializesAndVerifiesChannel(t *testing.T) {
	spi := newFakeSPI()
	ce := &fakePin{}

	dev, err := NewDevice(DeviceConfig{
		ChannelNumber: 76,
		NetworkAddr:   [5]byte{0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
	}, spi, ce, nil)

	require.NoError(t, err)
	assert.Equal(t, byte(76), spi.registers[_RF_CH])
	assert.Equal(t, byte(32), spi.registers[_RX_PW_P0])
	assert.Equal(t, byte(0), spi.registers[_EN_AA]) // autoack always disabled
	assert.True(t, bool(ce.level))                   // left in receive mode (On called)
	_ = dev
}

func TestNewDeviceFailsWhenChannelReadbackMismatches(t *testing.T) {
	spi := newFakeSPI()
	spi.dropChannelWrites = true
	ce := &fakePin{}

	_, err := NewDevice(DeviceConfig{
		ChannelNumber: 76,
		NetworkAddr:   [5]byte{0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
	}, spi, ce, nil)

	assert.Error(t, err)
}

func TestNewDeviceRejectsNilCEPin(t *testing.T) {
	_, err := NewDevice(DeviceConfig{ChannelNumber: 1}, newFakeSPI(), nil, nil)
	assert.Error(t, err)
}

func TestPrepareRejectsOversizeFrame(t *testing.T) {
	spi := newFakeSPI()
	dev, err := NewDevice(DeviceConfig{
		ChannelNumber: 1,
		PayloadSize:   8,
	}, spi, &fakePin{}, nil)
	require.NoError(t, err)

	err = dev.Prepare(make([]byte, 9))
	assert.Error(t, err)
}

func TestChannelClearReflectsRPDBit(t *testing.T) {
	spi := newFakeSPI()
	dev, err := NewDevice(DeviceConfig{ChannelNumber: 1}, spi, &fakePin{}, nil)
	require.NoError(t, err)

	spi.registers[_RPD] = 0
	assert.True(t, dev.ChannelClear())
	assert.False(t, dev.ReceivingPacket())

	spi.registers[_RPD] = 1
	assert.False(t, dev.ChannelClear())
	assert.True(t, dev.ReceivingPacket())
}
