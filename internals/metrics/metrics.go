// file: internals/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type collectors struct {
	approvalTransitions *prometheus.CounterVec
	visibilityChanges   *prometheus.CounterVec
	auditEvents         *prometheus.CounterVec
}

var (
	once sync.Once
	c    *collectors
)

func get() *collectors {
	once.Do(func() {
		c = &collectors{
			approvalTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "rating_approval_transitions_total",
				Help: "Approval state transitions by entity and resulting status.",
			}, []string{"entity", "to"}),
			visibilityChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "rating_visibility_changes_total",
				Help: "Visibility flag changes by entity and direction.",
			}, []string{"entity", "hidden"}),
			auditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "rating_audit_events_total",
				Help: "Audit events by delivery result (published, dropped, failed, delivered).",
			}, []string{"result"}),
		}
		prometheus.MustRegister(c.approvalTransitions, c.visibilityChanges, c.auditEvents)
	})
	return c
}

func ApprovalTransition(entity, to string) {
	get().approvalTransitions.WithLabelValues(entity, to).Inc()
}

func VisibilityChange(entity string, hidden bool) {
	v := "false"
	if hidden {
		v = "true"
	}
	get().visibilityChanges.WithLabelValues(entity, v).Inc()
}

func AuditEvent(result string) {
	get().auditEvents.WithLabelValues(result).Inc()
}

// AuditEventCount reads the current counter value; used by tests and the
// health endpoint.
func AuditEventCount(result string) float64 {
	return counterValue(get().auditEvents.WithLabelValues(result))
}

func counterValue(counter prometheus.Counter) float64 {
	var m dto.Metric
	if err := counter.Write(&m); err != nil || m.GetCounter() == nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
