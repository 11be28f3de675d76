/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics exposes lottery session counters to Prometheus.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/llm-d/parking-lottery/pkg/core"
)

const (
	namespace = "lottery"

	// LabelCategory is the apartment category of a draw.
	LabelCategory = "category"
	// LabelOutcome is "success" or the failure reason of a draw.
	LabelOutcome = "outcome"
	// LabelKind is the reservation kind (pair or spot).
	LabelKind = "kind"
	// LabelResult is the end state of a session.
	LabelResult = "result"

	OutcomeSuccess = "success"

	SessionComplete   = "complete"
	SessionIncomplete = "incomplete"
	SessionAborted    = "aborted"
)

// Recorder receives lottery events.
type Recorder interface {
	RecordDraw(category core.Category, outcome string)
	RecordReservations(kind core.ReservationKind, count int)
	RecordSession(result string, freeSpots int)
}

// NoopRecorder drops everything.
type NoopRecorder struct{}

func (NoopRecorder) RecordDraw(core.Category, string)             {}
func (NoopRecorder) RecordReservations(core.ReservationKind, int) {}
func (NoopRecorder) RecordSession(string, int)                    {}

// PrometheusRecorder implements Recorder with client_golang collectors.
type PrometheusRecorder struct {
	draws        *prometheus.CounterVec
	reservations *prometheus.CounterVec
	sessions     *prometheus.CounterVec
	freeSpots    prometheus.Gauge
}

// NewPrometheusRecorder creates the lottery collectors and registers them
// with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		return nil, fmt.Errorf("registerer cannot be nil")
	}
	r := &PrometheusRecorder{
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Number of draws by apartment category and outcome.",
		}, []string{LabelCategory, LabelOutcome}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_total",
			Help:      "Number of personal reservations made before the draws.",
		}, []string{LabelKind}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Number of lottery sessions by end state.",
		}, []string{LabelResult}),
		freeSpots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "free_spots",
			Help:      "Free spots left after the last session.",
		}),
	}
	for _, c := range []prometheus.Collector{r.draws, r.reservations, r.sessions, r.freeSpots} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register lottery metrics: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) RecordDraw(category core.Category, outcome string) {
	r.draws.WithLabelValues(string(category), outcome).Inc()
}

func (r *PrometheusRecorder) RecordReservations(kind core.ReservationKind, count int) {
	if count <= 0 {
		return
	}
	r.reservations.WithLabelValues(string(kind)).Add(float64(count))
}

func (r *PrometheusRecorder) RecordSession(result string, freeSpots int) {
	r.sessions.WithLabelValues(result).Inc()
	r.freeSpots.Set(float64(freeSpots))
}
