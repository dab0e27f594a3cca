package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels shared by the domain counters.
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// DomainMetrics counts registrations, logins and gate movements.
type DomainMetrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	movements     *prometheus.CounterVec
}

// NewDomainMetrics registers the domain counters on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bicisena_registrations_total",
		Help: "Rider registration attempts by result.",
	}, []string{"result"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bicisena_logins_total",
		Help: "Rider login attempts by result.",
	}, []string{"result"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bicisena_movements_total",
		Help: "Gate movements recorded by action.",
	}, []string{"accion"})
	reg.MustRegister(registrations, logins, movements)
	return &DomainMetrics{
		registrations: registrations,
		logins:        logins,
		movements:     movements,
	}
}

func (d *DomainMetrics) IncRegistration(result string) {
	if d == nil || d.registrations == nil {
		return
	}
	d.registrations.WithLabelValues(normalizeLabel(result)).Inc()
}

func (d *DomainMetrics) IncLogin(result string) {
	if d == nil || d.logins == nil {
		return
	}
	d.logins.WithLabelValues(normalizeLabel(result)).Inc()
}

func (d *DomainMetrics) IncMovement(action string) {
	if d == nil || d.movements == nil {
		return
	}
	d.movements.WithLabelValues(normalizeLabel(action)).Inc()
}
