package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/breaker"
)

type Registry struct {
	reg              *prometheus.Registry
	BreakerState     *prometheus.GaugeVec
	ShortCircuits    *prometheus.CounterVec
	UpstreamFailures *prometheus.CounterVec
	RoutedRequests   *prometheus.CounterVec
	Unrouted         prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gateway_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open.",
	}, []string{"breaker"})
	shortCircuits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_breaker_short_circuits_total",
	}, []string{"breaker"})
	upstreamFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_upstream_failures_total",
	}, []string{"route"})
	routed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_routed_requests_total",
	}, []string{"route"})
	unrouted := prometheus.NewCounter(prometheus.CounterOpts{Name: "gateway_unrouted_requests_total"})

	r.MustRegister(state, shortCircuits, upstreamFailures, routed, unrouted)
	return &Registry{
		reg:              r,
		BreakerState:     state,
		ShortCircuits:    shortCircuits,
		UpstreamFailures: upstreamFailures,
		RoutedRequests:   routed,
		Unrouted:         unrouted,
	}
}

// ObserveStateChange matches breaker.StateChangeFunc.
func (r *Registry) ObserveStateChange(name string, _, to breaker.State) {
	r.BreakerState.WithLabelValues(name).Set(float64(to))
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
