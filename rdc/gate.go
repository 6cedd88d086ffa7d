package rdc

import "github.com/cfreal/simplerdc/radiohal"

// gate is the RDC-instance's radio-state guard: the single enabled /
// keepRadioOn / radioOn triple the design calls out as process-wide
// state (§3, §9's "collect them into a single RDC-instance struct").
// Every field is touched only while the owning RDC's mutex is held.
type gate struct {
	enabled     bool
	keepRadioOn bool
	radioOn     bool
	radio       radiohal.HAL
}

// on turns the radio on iff the gate allows it and it isn't already
// on; otherwise it is a no-op, matching the "idempotent at gate level"
// invariant.
func (g *gate) on() {
	if !g.enabled || g.radioOn {
		return
	}
	g.radio.On()
	g.radioOn = true
}

// off turns the radio off iff the gate allows it, the radio is
// currently on, and nothing is pinning it on.
func (g *gate) off() {
	if !g.enabled || !g.radioOn || g.keepRadioOn {
		return
	}
	g.radio.Off()
	g.radioOn = false
}
