package metricsadapter

import (
	"errors"

	"tokengate/contexts/asset-control/ledger-controller/ports"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports gate decisions and pause switch positions to Prometheus.
type Recorder struct {
	decisions *prometheus.CounterVec
	paused    *prometheus.GaugeVec
}

func NewRecorder(namespace string, registerer prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Number of controller requests by operation and gate outcome",
		}, []string{"operation", "outcome"}),
		paused: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controller_paused",
			Help:      "1 when the asset's pause switch is on",
		}, []string{"mint"}),
	}
	if registerer == nil {
		return r, nil
	}
	err := errors.Join(
		registerer.Register(r.decisions),
		registerer.Register(r.paused),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recorder) RecordDecision(operation string, outcome string) {
	r.decisions.WithLabelValues(operation, outcome).Inc()
}

func (r *Recorder) RecordPaused(mint string, paused bool) {
	value := 0.0
	if paused {
		value = 1
	}
	r.paused.WithLabelValues(mint).Set(value)
}

var _ ports.DecisionRecorder = (*Recorder)(nil)
