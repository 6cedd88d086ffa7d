// Package config loads simplerdc's runtime configuration: the
// compile-time knobs of the original MAC (SIMPLERDC_CHECKRATE,
// SIMPLERDC_ACK_UNICAST, NETSTACK_CONF_MAC_SEQNO_HISTORY), now ordinary
// fields loaded from YAML and overridable from the command line, the
// way doismellburning-samoyed layers yaml.v3 under pflag.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the complete set of runtime knobs a simplerdc node needs.
type Config struct {
	CheckRate    int           `yaml:"check_rate"`
	OnTimeMillis int           `yaml:"on_time_millis"`
	AckUnicast   bool          `yaml:"ack_unicast"`
	SeqnoHistory int           `yaml:"seqno_history"`
	Channel      byte          `yaml:"channel"`
	NodeAddrHi   byte          `yaml:"node_addr_hi"`
	NodeAddrLo   byte          `yaml:"node_addr_lo"`
	SpiBus       string        `yaml:"spi_bus"`
	CEPin        int           `yaml:"ce_pin"`
	LogLevel     string        `yaml:"log_level"`
	MetricsAddr  string        `yaml:"metrics_addr"`
}

// OnTime returns OnTimeMillis as a time.Duration.
func (c Config) OnTime() time.Duration {
	return time.Duration(c.OnTimeMillis) * time.Millisecond
}

// Default returns the configuration the original MAC ships with:
// CHECK_RATE=8, software ACKs off, a 2-entry replay history.
func Default() Config {
	return Config{
		CheckRate:    8,
		OnTimeMillis: 8, // ~1/128s
		AckUnicast:   false,
		SeqnoHistory: 2,
		Channel:      76,
		SpiBus:       "/dev/spidev0.0",
		CEPin:        25,
		LogLevel:     "info",
	}
}

// Load reads and merges a YAML file on top of Default. An empty path
// returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// BindFlags registers pflag overrides for every field onto fs, so a
// command-line invocation can override the YAML file without editing
// it, the way doismellburning-samoyed layers CLI flags over config.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.CheckRate, "check-rate", c.CheckRate, "wake-up rate in Hz, must be a power of two")
	fs.IntVar(&c.OnTimeMillis, "on-time-ms", c.OnTimeMillis, "receive on-time in milliseconds")
	fs.BoolVar(&c.AckUnicast, "ack-unicast", c.AckUnicast, "emit software ACKs instead of trusting radio autoack")
	fs.IntVar(&c.SeqnoHistory, "seqno-history", c.SeqnoHistory, "replay filter capacity")
	fs.Uint8Var(&c.Channel, "channel", c.Channel, "radio channel number")
	fs.Uint8Var(&c.NodeAddrHi, "addr-hi", c.NodeAddrHi, "this node's address, high byte")
	fs.Uint8Var(&c.NodeAddrLo, "addr-lo", c.NodeAddrLo, "this node's address, low byte")
	fs.StringVar(&c.SpiBus, "spi-bus", c.SpiBus, "SPI device node")
	fs.IntVar(&c.CEPin, "ce-pin", c.CEPin, "GPIO pin number for radio CE")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn, or error")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "address to serve Prometheus metrics on, empty to disable")
}
