// SPDX-License-Identifier: EPL-2.0

package audchan

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ik5/audchan/channel"
	"github.com/ik5/audchan/pool"
)

// Play outcomes as reported in the result label.
const (
	resultOK         = "ok"
	resultNoop       = "noop"
	resultUnroutable = "unroutable"
	resultLoadFailed = "load_failed"
	resultSuperseded = "superseded"
	resultClosed     = "closed"
)

// Metrics exposes manager activity to Prometheus. A nil *Metrics records
// nothing.
type Metrics struct {
	Plays        *prometheus.CounterVec
	Allocations  *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	Crossfades   prometheus.Counter
}

// NewMetrics creates the manager metrics and registers them with registry.
func NewMetrics(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Plays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audchan_plays_total",
				Help: "Play requests partitioned by category and outcome.",
			},
			[]string{"category", "result"},
		),
		Allocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audchan_allocations_total",
				Help: "Voice allocations partitioned by category and the policy rule that picked the voice.",
			},
			[]string{"category", "rule"},
		),
		LoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "audchan_load_duration_seconds",
				Help:    "Time spent waiting for the loader.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"category"},
		),
		Crossfades: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "audchan_crossfades_total",
				Help: "BGM track changes that faded the previous track out.",
			},
		),
	}

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register audchan metrics: %w", err)
	}
	return m, nil
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.Plays.Describe(ch)
	m.Allocations.Describe(ch)
	m.LoadDuration.Describe(ch)
	m.Crossfades.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.Plays.Collect(ch)
	m.Allocations.Collect(ch)
	m.LoadDuration.Collect(ch)
	m.Crossfades.Collect(ch)
}

func (m *Metrics) play(cat channel.Category, result string) {
	if m == nil {
		return
	}
	m.Plays.WithLabelValues(cat.String(), result).Inc()
}

func (m *Metrics) allocation(cat channel.Category, rule pool.Rule) {
	if m == nil {
		return
	}
	m.Allocations.WithLabelValues(cat.String(), rule.String()).Inc()
}

func (m *Metrics) load(cat channel.Category, d time.Duration) {
	if m == nil {
		return
	}
	m.LoadDuration.WithLabelValues(cat.String()).Observe(d.Seconds())
}

func (m *Metrics) crossfade() {
	if m == nil {
		return
	}
	m.Crossfades.Inc()
}
