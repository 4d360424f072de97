package hfsmmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sceneforge/hfsm"
)

func TestMetricsRecordTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordTransition(0, hfsm.Change, 1)
	m.RecordTransition(0, hfsm.Change, 2)

	var out dto.Metric
	if err := m.transitions.WithLabelValues("CHANGE").Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := out.GetCounter().GetValue(); got != 2 {
		t.Fatalf("transitions_total{kind=CHANGE} = %v, want 2", got)
	}
}

func TestMetricsRecordCancelledPending(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordCancelledPending(3)

	var out dto.Metric
	if err := m.guardCancellations.Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := out.GetCounter().GetValue(); got != 1 {
		t.Fatalf("guard_cancellations_total = %v, want 1", got)
	}
}

func TestMetricsImplementsLogger(t *testing.T) {
	var _ hfsm.Logger = New(prometheus.NewRegistry())
}
