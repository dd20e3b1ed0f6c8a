package metricsadapter

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsDecisions(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder, err := NewRecorder("tokengate", registry)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	recorder.RecordDecision("move", "allowed")
	recorder.RecordDecision("move", "allowed")
	recorder.RecordDecision("move", "paused")

	if got := testutil.ToFloat64(recorder.decisions.WithLabelValues("move", "allowed")); got != 2 {
		t.Fatalf("expected 2 allowed moves, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.decisions.WithLabelValues("move", "paused")); got != 1 {
		t.Fatalf("expected 1 paused move, got %v", got)
	}
}

func TestRecorderPausedGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder, err := NewRecorder("tokengate", registry)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	recorder.RecordPaused("mint-a", true)
	expected := `
# HELP tokengate_controller_paused 1 when the asset's pause switch is on
# TYPE tokengate_controller_paused gauge
tokengate_controller_paused{mint="mint-a"} 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "tokengate_controller_paused"); err != nil {
		t.Fatalf("unexpected gauge: %v", err)
	}

	recorder.RecordPaused("mint-a", false)
	if got := testutil.ToFloat64(recorder.paused.WithLabelValues("mint-a")); got != 0 {
		t.Fatalf("expected gauge reset to 0, got %v", got)
	}
}

func TestNewRecorderRejectsDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	if _, err := NewRecorder("tokengate", registry); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewRecorder("tokengate", registry); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
