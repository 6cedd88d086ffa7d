package rdc

import (
	"context"
	"time"
)

// runCycler is the receive duty cycler: an endlessly-looping task
// alternating on → wait(OnTime) → inspect → maybe off → wait(OffTime),
// stopped via ctx cancellation (the native substitute for "stopping a
// Contiki process", per §9's design note). It holds r.mu only for the
// brief on()/off()/inspect bookkeeping, never across the sleeps, so a
// frame arriving mid-window can still reach Input without waiting out
// the whole on-time.
func (r *RDC) runCycler(ctx context.Context) {
	defer r.wg.Done()
	for {
		r.mu.Lock()
		r.state.Store(int32(cycleSampling))
		r.gate.on()
		r.mu.Unlock()

		if !sleepCtx(ctx, r.timing.OnTime) {
			return
		}

		status := r.inspector.Inspect()

		r.mu.Lock()
		switch {
		case status == 0:
			// Nothing heard, or a CRC failure: go back to sleep.
			r.state.Store(int32(cycleSleeping))
			r.gate.off()
		case status < 0:
			// Mid-FIFO read: leave the radio alone, the inspector is
			// expected to resolve this on its own.
			r.state.Store(int32(cycleServicing))
		default:
			// Frame present: leave the radio alone, the input path
			// (triggered by the driver reading the frame) turns it off.
			r.state.Store(int32(cycleServicing))
		}
		r.mu.Unlock()

		if !sleepCtx(ctx, r.timing.OffTime) {
			return
		}
	}
}

// sleepCtx sleeps for d or returns false early if ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// CycleState reports the receive task's current phase, for
// diagnostics; the core algorithm never reads it.
func (r *RDC) CycleState() string {
	return cycleState(r.state.Load()).String()
}
