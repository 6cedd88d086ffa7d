// Package metrics wraps github.com/prometheus/client_golang to expose
// the duty-cycling MAC's observable behavior: how much of the time the
// radio actually spends on, how strobes resolve, and how often the
// replay filter drops a duplicate. It is wired in as an optional,
// nil-safe collaborator — nothing in rdc requires metrics to function.
// rdc reports strobe outcomes, replay drops and deliveries; it does not
// call ObserveRadioOn, so radio-on time is recorded only by callers
// that feed it themselves.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector is the metrics surface the core MAC reports into.
type Collector struct {
	radioOnSeconds   prometheus.Counter
	strobeOutcomes   *prometheus.CounterVec
	replayDrops      prometheus.Counter
	inputDelivered   prometheus.Counter
}

// NewCollector builds a Collector and registers its metrics against
// reg. Passing prometheus.NewRegistry() keeps tests isolated from the
// global default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		radioOnSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simplerdc",
			Name:      "radio_on_seconds_total",
			Help:      "Cumulative time the radio has spent powered on.",
		}),
		strobeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simplerdc",
			Name:      "strobe_outcomes_total",
			Help:      "Strobed transmissions by resulting status.",
		}, []string{"status"}),
		replayDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simplerdc",
			Name:      "replay_drops_total",
			Help:      "Frames dropped by the replay filter as duplicates.",
		}),
		inputDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simplerdc",
			Name:      "input_delivered_total",
			Help:      "Frames delivered to the upper MAC.",
		}),
	}
	reg.MustRegister(c.radioOnSeconds, c.strobeOutcomes, c.replayDrops, c.inputDelivered)
	return c
}

// ObserveRadioOn adds seconds of radio-on time to the running total.
func (c *Collector) ObserveRadioOn(seconds float64) {
	if c == nil {
		return
	}
	c.radioOnSeconds.Add(seconds)
}

// ObserveStrobe records one strobe's final status.
func (c *Collector) ObserveStrobe(status string) {
	if c == nil {
		return
	}
	c.strobeOutcomes.WithLabelValues(status).Inc()
}

// ObserveReplayDrop records one replay-filter rejection.
func (c *Collector) ObserveReplayDrop() {
	if c == nil {
		return
	}
	c.replayDrops.Inc()
}

// ObserveDelivered records one frame handed to the upper MAC.
func (c *Collector) ObserveDelivered() {
	if c == nil {
		return
	}
	c.inputDelivered.Inc()
}
