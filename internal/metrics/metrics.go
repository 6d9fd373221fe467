package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters exposed on /metrics. Each instance
// carries its own registry so tests can construct one without collisions.
type Metrics struct {
	TransactionsCreated  *prometheus.CounterVec
	AuthorizationDenials prometheus.Counter
	LoginFailures        prometheus.Counter

	registry *prometheus.Registry
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		TransactionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payledger_transactions_created_total",
			Help: "Total number of transactions created",
		}, []string{"currency", "type"}),
		AuthorizationDenials: factory.NewCounter(prometheus.CounterOpts{
			Name: "payledger_authorization_denials_total",
			Help: "Total number of transactions rejected by the authorization policy",
		}),
		LoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "payledger_login_failures_total",
			Help: "Total number of failed login attempts",
		}),
		registry: registry,
	}
}

// Handler serves the registry in prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
