package radiohal

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/cfreal/simplerdc/logging"
)

// realPin adapts a periph.io gpio.PinIO to the Pin interface, the way
// the teacher driver's adapter-periph.go does for its own Pin type.
type realPin struct {
	gpio.PinIO
}

func (p *realPin) Out(l Level) error {
	if l == High {
		return p.PinIO.Out(gpio.High)
	}
	return p.PinIO.Out(gpio.Low)
}

func (p *realPin) In(pull Pull) error {
	var pp gpio.Pull
	switch pull {
	case PullFloat:
		pp = gpio.Float
	case PullDown:
		pp = gpio.PullDown
	case PullUp:
		pp = gpio.PullUp
	default:
		pp = gpio.PullNoChange
	}
	return p.PinIO.In(pp, gpio.NoEdge)
}

func (p *realPin) Read() Level {
	if p.PinIO.Read() == gpio.High {
		return High
	}
	return Low
}

// HardwareConfig configures the Linux/periph.io backed nRF24L01+.
type HardwareConfig struct {
	DeviceConfig
	// CEPin is the GPIO pin number (BCM numbering) for Chip Enable.
	// Defaults to 25.
	CEPin int
	// SpiBusPath is the SPI device node. Defaults to "/dev/spidev0.0".
	SpiBusPath string
	// SpiClockHz is the SPI clock frequency. Defaults to 1MHz.
	SpiClockHz int
	Logger     logging.Logger
}

// NewHardware initializes a Device against a real nRF24L01+ over
// periph.io's SPI and GPIO support.
func NewHardware(c HardwareConfig) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("radiohal: periph.io host init: %w", err)
	}

	if c.SpiBusPath == "" {
		c.SpiBusPath = "/dev/spidev0.0"
	}
	port, err := spireg.Open(c.SpiBusPath)
	if err != nil {
		return nil, fmt.Errorf("radiohal: open SPI port: %w", err)
	}

	if c.SpiClockHz == 0 {
		c.SpiClockHz = 1_000_000
	}
	conn, err := port.Connect(physic.Frequency(c.SpiClockHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("radiohal: connect SPI: %w", err)
	}

	if c.CEPin == 0 {
		c.CEPin = 25
	}
	ceName := fmt.Sprintf("GPIO%d", c.CEPin)
	ce := gpioreg.ByName(ceName)
	if ce == nil {
		port.Close()
		return nil, fmt.Errorf("radiohal: failed to open CE pin %s", ceName)
	}

	dev, err := NewDevice(c.DeviceConfig, conn, &realPin{PinIO: ce}, c.Logger)
	if err != nil {
		port.Close()
		return nil, err
	}
	return dev, nil
}
