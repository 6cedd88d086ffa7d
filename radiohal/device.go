package radiohal

import (
	"fmt"
	"sync"
	"time"

	"github.com/cfreal/simplerdc/logging"
)

// --- NRF24L01+ registers/commands/bits ---
// Adapted from the teacher driver's register map, trimmed to exactly
// what the duty-cycling MAC's HAL needs: this package runs the
// chip with hardware auto-ack (EN_AA) and auto-retransmit permanently
// disabled, because a real EN_AA ACK is consumed by the silicon and
// never appears as a readable RX frame — which is exactly the byte
// stream the MAC's software-ACK detection (spec §4.4 step 8.5) needs
// to see. See DESIGN.md for the full rationale.
const (
	_CONFIG     = 0x00
	_RF_CH      = 0x05
	_RF_SETUP   = 0x06
	_STATUS     = 0x07
	_RPD        = 0x09
	_RX_ADDR_P0 = 0x0A
	_RX_ADDR_P1 = 0x0B
	_TX_ADDR    = 0x10
	_RX_PW_P0   = 0x11
	_RX_PW_P1   = 0x12
	_DYNPD      = 0x1C
	_FEATURE    = 0x1D

	_W_REGISTER   = 0x20
	_R_RX_PAYLOAD = 0x61
	_W_TX_PAYLOAD = 0xA0
	_FLUSH_TX     = 0xE1
	_FLUSH_RX     = 0xE2
	_NOP          = 0xFF
)

const (
	_PWR_UP  = 1 << 1
	_PRIM_RX = 1 << 0
	_RX_DR   = 1 << 6
	_TX_DS   = 1 << 5
	_MAX_RT  = 1 << 4
	_EN_CRC  = 1 << 3
	_CRCO    = 1 << 2

	_EN_AA     = 0x01
	_EN_RXADDR = 0x02
	_ERX_P0    = 1 << 0
	_ERX_P1    = 1 << 1
	_SETUP_AW  = 0x03
)

// DataRate and PALevel mirror the teacher driver's enums one for one.
type DataRate byte

const (
	DataRate250kbps DataRate = iota
	DataRate1mbps
	DataRate2mbps
)

type PALevel byte

const (
	PALevelMin PALevel = iota
	PALevelLow
	PALevelHigh
	PALevelMax
)

// DeviceConfig configures the physical nRF24L01+ channel. Every node
// sharing a channel uses the same NetworkAddr: addressing between
// nodes happens above this HAL, in the MAC's own 2-byte linkaddr.Addr,
// carried inside the frame payload. The chip-level address only
// selects which physical RF channel/pipe this module is listening on.
type DeviceConfig struct {
	ChannelNumber byte
	NetworkAddr   [5]byte
	PayloadSize   byte // 1..32, fixed (no dynamic payload: no fragmentation, no streaming)
	DataRate      DataRate
	PALevel       PALevel
	AddressWidth  byte // 3..5, defaults to 5
}

func (c *DeviceConfig) applyDefaults() {
	if c.PayloadSize == 0 {
		c.PayloadSize = 32
	}
	if c.AddressWidth == 0 {
		c.AddressWidth = 5
	}
	if c.PALevel == 0 {
		c.PALevel = PALevelMax
	}
}

// Device is the nRF24L01+ driver. It implements radiohal.HAL directly.
type Device struct {
	config  DeviceConfig
	conn    SPI
	ce      Pin
	logger  logging.Logger
	mu      sync.Mutex
	scratch [33]byte
}

// NewDevice initializes a Device over the given SPI connection and CE
// pin. The radio is left in receive mode (equivalent to On()) once
// configuration completes.
func NewDevice(cfg DeviceConfig, conn SPI, ce Pin, logger logging.Logger) (*Device, error) {
	cfg.applyDefaults()
	if cfg.ChannelNumber > 124 {
		return nil, fmt.Errorf("radiohal: channel number must be 0..124, got %d", cfg.ChannelNumber)
	}
	if ce == nil {
		return nil, fmt.Errorf("radiohal: CE pin not configured")
	}
	if logger == nil {
		logger = logging.Nop{}
	}

	d := &Device{config: cfg, conn: conn, ce: ce, logger: logger}
	d.ce.Out(Low)

	d.setCE(false)
	d.writeRegister(_CONFIG, 0)
	d.clearStatus()
	d.flushTX()
	d.flushRX()

	configValue := byte(_PWR_UP | _PRIM_RX | _EN_CRC | _CRCO)
	d.writeRegister(_CONFIG, configValue)
	time.Sleep(5 * time.Millisecond)

	d.writeRegister(_RF_CH, cfg.ChannelNumber)
	d.writeRegister(_SETUP_AW, cfg.AddressWidth-2)

	var rfSetup byte
	switch cfg.DataRate {
	case DataRate2mbps:
		rfSetup |= 1 << 3
	case DataRate250kbps:
		rfSetup |= 1 << 5
	}
	switch cfg.PALevel {
	case PALevelLow:
		rfSetup |= 1 << 1
	case PALevelHigh:
		rfSetup |= 2 << 1
	case PALevelMax:
		rfSetup |= 3 << 1
	}
	d.writeRegister(_RF_SETUP, rfSetup)

	// Auto-ack and auto-retransmit are always off; see the package doc.
	d.writeRegister(_EN_AA, 0)
	d.writeRegister(_EN_RXADDR, _ERX_P0|_ERX_P1)
	d.writeRegisterN(_RX_ADDR_P1, cfg.NetworkAddr[:])
	d.writeRegisterN(_TX_ADDR, cfg.NetworkAddr[:])
	// Pipe 0 must mirror TX_ADDR; disabled hardware ACKs mean this is
	// only needed so stray RX_P0 traffic doesn't get silently dropped.
	d.writeRegisterN(_RX_ADDR_P0, cfg.NetworkAddr[:])
	d.writeRegister(_DYNPD, 0)
	d.writeRegister(_FEATURE, 0)
	d.writeRegister(_RX_PW_P0, cfg.PayloadSize)
	d.writeRegister(_RX_PW_P1, cfg.PayloadSize)

	readChannel := d.readRegister(_RF_CH)
	if readChannel != cfg.ChannelNumber {
		return nil, fmt.Errorf("radiohal: failed to verify nRF24L01+ connection: check wiring/power")
	}

	d.logger.Info("nRF24L01+ initialized", "channel", cfg.ChannelNumber)
	d.On()
	return d, nil
}

// --- SPI primitives, ported from the teacher driver ---

func (d *Device) spiTransfer(n int) (status byte, response []byte) {
	slice := d.scratch[:n]
	if err := d.conn.Tx(slice, slice); err != nil {
		d.logger.Error("spi transfer failed", "err", err)
		return 0, nil
	}
	if n > 0 {
		return d.scratch[0], d.scratch[1:n]
	}
	return 0, nil
}

func (d *Device) writeRegister(reg, val byte) {
	d.scratch[0] = _W_REGISTER | reg
	d.scratch[1] = val
	d.spiTransfer(2)
}

func (d *Device) readRegister(reg byte) byte {
	d.scratch[0] = reg
	d.scratch[1] = _NOP
	_, data := d.spiTransfer(2)
	if len(data) > 0 {
		return data[0]
	}
	return 0
}

func (d *Device) writeRegisterN(reg byte, data []byte) {
	d.scratch[0] = _W_REGISTER | reg
	copy(d.scratch[1:], data)
	d.spiTransfer(1 + len(data))
}

func (d *Device) flushTX() {
	d.scratch[0] = _FLUSH_TX
	d.spiTransfer(1)
}

func (d *Device) flushRX() {
	d.scratch[0] = _FLUSH_RX
	d.spiTransfer(1)
}

func (d *Device) clearStatus() {
	d.writeRegister(_STATUS, _RX_DR|_TX_DS|_MAX_RT)
}

func (d *Device) setCE(level bool) {
	if level {
		d.ce.Out(High)
	} else {
		d.ce.Out(Low)
	}
}

// --- radiohal.HAL ---

// On enters receive mode: CE high with PRIM_RX set.
func (d *Device) On() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setCE(false)
	d.writeRegister(_CONFIG, d.readRegister(_CONFIG)|_PRIM_RX)
	d.setCE(true)
	time.Sleep(130 * time.Microsecond)
	d.clearStatus()
	d.flushRX()
}

// Off leaves receive mode: CE low, PRIM_RX cleared, standby.
func (d *Device) Off() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setCE(false)
	d.writeRegister(_CONFIG, d.readRegister(_CONFIG)&^byte(_PRIM_RX))
}

// Prepare loads hdr into the TX FIFO without transmitting.
func (d *Device) Prepare(hdr []byte) error {
	if len(hdr) > int(d.config.PayloadSize) {
		return fmt.Errorf("radiohal: frame of %d bytes exceeds payload size %d", len(hdr), d.config.PayloadSize)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.setCE(false)
	d.writeRegister(_CONFIG, d.readRegister(_CONFIG)&^byte(_PRIM_RX))

	d.scratch[0] = _W_TX_PAYLOAD
	size := int(d.config.PayloadSize)
	for i := 1; i <= size; i++ {
		d.scratch[i] = 0
	}
	copy(d.scratch[1:], hdr)
	d.spiTransfer(1 + size)
	return nil
}

// transmitTimeout bounds how long Transmit waits for TX_DS with
// hardware retransmit disabled; a short packet at any supported data
// rate completes well inside this.
const transmitTimeout = 5 * time.Millisecond

// Transmit pulses CE to send the frame staged by Prepare and waits for
// the chip to report TX_DS. With auto-retransmit disabled, the chip
// has no notion of a MAC-level collision; collision avoidance happens
// entirely via ChannelClear/ReceivingPacket/PendingPacket checks before
// Transmit is called (see DESIGN.md).
func (d *Device) Transmit(int) (TxResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.setCE(true)
	time.Sleep(15 * time.Microsecond)
	d.setCE(false)

	deadline := time.Now().Add(transmitTimeout)
	for time.Now().Before(deadline) {
		status := d.readRegister(_STATUS)
		if status&_TX_DS != 0 {
			d.clearStatus()
			return TxSent, nil
		}
		if status&_MAX_RT != 0 {
			d.clearStatus()
			d.flushTX()
			return TxErr, fmt.Errorf("radiohal: unexpected MAX_RT with auto-retransmit disabled")
		}
		time.Sleep(100 * time.Microsecond)
	}
	d.flushTX()
	return TxErr, fmt.Errorf("radiohal: timed out waiting for TX_DS")
}

// ChannelClear performs a one-shot carrier detect (RPD register).
func (d *Device) ChannelClear() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegister(_RPD)&0x01 == 0
}

// ReceivingPacket approximates "actively arriving" with the same
// carrier-detect bit: the nRF24L01+ exposes no separate in-progress-
// reception signal the way some 802.15.4 radios do.
func (d *Device) ReceivingPacket() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegister(_RPD)&0x01 != 0
}

func (d *Device) available() bool {
	return (d.readRegister(_STATUS)>>1)&0x07 != 7
}

// PendingPacket reports whether an unread frame sits in the RX FIFO.
func (d *Device) PendingPacket() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.available()
}

// Read copies the pending RX payload into buf.
func (d *Device) Read(buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.available() {
		return 0, nil
	}
	size := int(d.config.PayloadSize)
	d.scratch[0] = _R_RX_PAYLOAD
	for i := 1; i <= size; i++ {
		d.scratch[i] = _NOP
	}
	_, data := d.spiTransfer(1 + size)
	d.clearStatus()
	return copy(buf, data), nil
}

// Send synchronously prepares and transmits buf: used only to emit a
// software ACK from the receive path.
func (d *Device) Send(buf []byte) error {
	if err := d.Prepare(buf); err != nil {
		return err
	}
	res, err := d.Transmit(len(buf))
	if err != nil {
		return err
	}
	if res != TxSent {
		return fmt.Errorf("radiohal: software ack send failed: %s", res)
	}
	return nil
}
