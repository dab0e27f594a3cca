package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDomainMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDomainMetrics(reg)
	m.IncRegistration(ResultSuccess)
	m.IncRegistration(ResultConflict)
	m.IncLogin(ResultRejected)
	m.IncLogin(ResultRejected)
	m.IncMovement("Entrada")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	checks := []struct {
		name, label, value string
		want               float64
	}{
		{"bicisena_registrations_total", "result", ResultSuccess, 1},
		{"bicisena_registrations_total", "result", ResultConflict, 1},
		{"bicisena_logins_total", "result", ResultRejected, 2},
		{"bicisena_movements_total", "accion", "Entrada", 1},
	}
	for _, c := range checks {
		got, err := fetchCounterValue(mfs, c.name, c.label, c.value)
		if err != nil {
			t.Fatalf("fetch %s: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s{%s=%q} expected %v, got %v", c.name, c.label, c.value, c.want, got)
		}
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/usuario/qr/{codigo}", 200, 15*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/usuario/qr/{codigo}"); err != nil || got != 1 {
		t.Fatalf("expected 1 request for route, got %v (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected unmatched route labelled unknown, got %v (%v)", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewDomainMetrics(nil).IncLogin(ResultSuccess)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)
	var d *DomainMetrics
	d.IncMovement("Salida")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, labelName, labelValue string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == labelName && label.GetValue() == labelValue {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("metric %s{%s=%q} not found", name, labelName, labelValue)
}
