// Package rdc implements the duty-cycling MAC sublayer: periodic
// wake/sleep receive cycling, strobed transmission with early-ACK
// detection, CCA-gated channel access, a tiny replay filter, and the
// OK/COLLISION/NOACK/DEFERRED/ERR/ERR_FATAL failure taxonomy returned
// to the upper MAC. The radio device driver, packet buffer, framer,
// timer primitives, upper MAC, and watchdog are all external
// collaborators, injected through Config.
package rdc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cfreal/simplerdc/logging"
	"github.com/cfreal/simplerdc/metrics"
	"github.com/cfreal/simplerdc/packetbuf"
	"github.com/cfreal/simplerdc/radiohal"
	"github.com/cfreal/simplerdc/watchdog"
)

// DefaultReplayHistory is NETSTACK_CONF_MAC_SEQNO_HISTORY's default.
const DefaultReplayHistory = 2

// Config wires every external collaborator and runtime knob the core
// needs. Radio, Framer and Upper are required; everything else has a
// usable zero-value default.
type Config struct {
	// Addr is this node's own link-layer address.
	Addr Addr

	// CheckRate is the wake-up rate in Hz; must be a power of two.
	// Defaults to 8.
	CheckRate int
	// OnTime is how long the radio stays on per wake-up. Defaults to
	// 1/128s.
	OnTime time.Duration
	// BetweenTxTime overrides the derived inter-repeat gap; zero uses
	// the timing default for the configured ack mode.
	BetweenTxTime time.Duration
	// AckUnicast selects software-ACK mode (true) over trusting the
	// radio/driver's own autoack (false). Runtime equivalent of
	// SIMPLERDC_ACK_UNICAST.
	AckUnicast bool
	// ReplayHistory is the replay filter's capacity. Defaults to
	// DefaultReplayHistory.
	ReplayHistory int

	Radio  radiohal.HAL
	Framer Framer
	Upper  UpperMAC

	// Inspector overrides the receive cycler's post-sample hook.
	// Defaults to "always return 0".
	Inspector Inspector
	Logger    logging.Logger
	Watchdog  watchdog.Watchdog
	Metrics   *metrics.Collector
}

// RDC is one duty-cycling MAC instance: the gate, replay table and
// sequence counter the design calls out as process-wide state, all
// collected here and guarded by one mutex (§9's design note).
type RDC struct {
	mu sync.Mutex

	addr       Addr
	ackUnicast bool
	timing     *Timing
	gate       gate
	replay     *replayFilter
	txSerial   byte

	radio     radiohal.HAL
	framer    Framer
	upper     UpperMAC
	inspector Inspector
	logger    logging.Logger
	watchdog  watchdog.Watchdog
	metrics   *metrics.Collector

	state  atomic.Int32
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates cfg and returns an RDC instance. The radio starts
// powered off; call Init to start the receive cycler and enable duty
// cycling.
func New(cfg Config) (*RDC, error) {
	if cfg.Radio == nil {
		return nil, fmt.Errorf("rdc: Config.Radio is required")
	}
	if cfg.Framer == nil {
		return nil, fmt.Errorf("rdc: Config.Framer is required")
	}
	if cfg.Upper == nil {
		return nil, fmt.Errorf("rdc: Config.Upper is required")
	}
	if cfg.CheckRate == 0 {
		cfg.CheckRate = 8
	}
	if cfg.OnTime == 0 {
		cfg.OnTime = time.Second / 128
	}
	if cfg.ReplayHistory == 0 {
		cfg.ReplayHistory = DefaultReplayHistory
	}
	if cfg.Inspector == nil {
		cfg.Inspector = defaultInspector{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop{}
	}
	if cfg.Watchdog == nil {
		cfg.Watchdog = watchdog.Nop{}
	}

	timing, err := NewTiming(cfg.CheckRate, cfg.OnTime, cfg.AckUnicast, cfg.BetweenTxTime)
	if err != nil {
		return nil, err
	}

	return &RDC{
		addr:       cfg.Addr,
		ackUnicast: cfg.AckUnicast,
		timing:     timing,
		gate:       gate{radio: cfg.Radio},
		replay:     newReplayFilter(cfg.ReplayHistory),
		txSerial:   1, // sequence numbers start at 1, per §3
		radio:      cfg.Radio,
		framer:     cfg.Framer,
		upper:      cfg.Upper,
		inspector:  cfg.Inspector,
		logger:     cfg.Logger,
		watchdog:   cfg.Watchdog,
		metrics:    cfg.Metrics,
	}, nil
}

// Init starts the receive cycler and enables duty cycling (§4.7).
// The cycler runs until ctx is cancelled or Stop is called.
func (r *RDC) Init(ctx context.Context) {
	r.mu.Lock()
	r.gate.radioOn = false
	r.gate.enabled = true
	r.replay.reset()
	r.mu.Unlock()

	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	go r.runCycler(cctx)
}

// Stop halts the receive cycler. Init must have been called first.
func (r *RDC) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// SendCallback receives the final status of one send attempt and the
// retransmission count, always 1 at this layer (retries belong to the
// upper MAC).
type SendCallback func(status Status, retries int)

// Send transmits buf and invokes cb with the result, unless the
// result is Deferred (never returned by this implementation, but kept
// for the facade's completeness per §4.5).
func (r *RDC) Send(buf *packetbuf.Buffer, cb SendCallback) Status {
	r.mu.Lock()
	status, err := r.transmit(buf)
	r.mu.Unlock()

	if err != nil {
		r.logger.Debug("rdc: send finished", "status", status, "err", err)
	} else {
		r.logger.Debug("rdc: send finished", "status", status)
	}
	r.metrics.ObserveStrobe(status.String())

	if cb != nil && status != Deferred {
		cb(status, 1)
	}
	return status
}

// SendList transmits each buffer in order, setting Pending on every
// buffer but the last so the receiver knows to keep listening for the
// next one, and stops at the first non-OK result (§4.5).
func (r *RDC) SendList(bufs []*packetbuf.Buffer, cb SendCallback) Status {
	last := OK
	for i, buf := range bufs {
		buf.Pending = i < len(bufs)-1
		last = r.Send(buf, cb)
		if last != OK {
			break
		}
	}
	return last
}

// On re-enables duty cycling (turn_on in §4.7).
func (r *RDC) On() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.gate.enabled {
		r.gate.enabled = true
		r.gate.keepRadioOn = false
	}
}

// Off disables duty cycling. If keepRadioOn, the radio is left powered
// and pinned on; otherwise it is turned off immediately (turn_off in
// §4.7).
func (r *RDC) Off(keepRadioOn bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gate.enabled = false
	if keepRadioOn {
		r.gate.keepRadioOn = true
		r.gate.radioOn = true
		r.radio.On()
		return
	}
	r.gate.keepRadioOn = false
	if r.gate.radioOn {
		r.radio.Off()
		r.gate.radioOn = false
	}
}

// ChannelCheckInterval returns the wake-up period.
func (r *RDC) ChannelCheckInterval() time.Duration {
	return time.Second / time.Duration(r.timing.CheckRate)
}
