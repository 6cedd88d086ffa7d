// Package watchdog provides the Watchdog capability the strobed
// transmitter kicks once per repeat during a long send, matching the
// original MAC's watchdog_periodic() call inside its strobe loop.
package watchdog

import (
	"sync"
	"time"

	"github.com/cfreal/simplerdc/logging"
)

// Watchdog is kicked periodically by a long-running operation to prove
// it hasn't wedged.
type Watchdog interface {
	Kick()
}

// Nop never complains; it is the default when no watchdog is wired.
type Nop struct{}

func (Nop) Kick() {}

// Ticker is a software watchdog: if Kick isn't called within Deadline
// of the previous kick (or of Start), it logs a warning. There is no
// hardware reset here — on a sensor node the real watchdog peripheral
// would do that; this is the host-side analogue. rdc itself defaults
// to Nop.
type Ticker struct {
	Deadline time.Duration
	Logger   logging.Logger

	mu       sync.Mutex
	last     time.Time
	timer    *time.Timer
	stopped  bool
}

// NewTicker starts a Ticker with the given deadline and logger. A nil
// logger is treated as logging.Nop{}.
func NewTicker(deadline time.Duration, logger logging.Logger) *Ticker {
	if logger == nil {
		logger = logging.Nop{}
	}
	t := &Ticker{Deadline: deadline, Logger: logger, last: time.Now()}
	t.timer = time.AfterFunc(deadline, t.fire)
	return t
}

func (t *Ticker) fire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.Logger.Warn("watchdog not kicked within deadline", "deadline", t.Deadline)
}

// Kick resets the deadline timer.
func (t *Ticker) Kick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.last = time.Now()
	t.timer.Reset(t.Deadline)
}

// Stop permanently disarms the ticker.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.timer.Stop()
}
