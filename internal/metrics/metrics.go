// Package metrics exposes storefront counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "evstore"

// Metrics owns a private registry so tests can build independent instances.
// All observe methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	intentResolutions *prometheus.CounterVec
	loanQuotes        *prometheus.CounterVec
	chatTurns         *prometheus.CounterVec
	rateLimited       *prometheus.CounterVec
	orders            prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		intentResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chatbot",
			Name:      "intent_resolutions_total",
			Help:      "Chatbot inputs by the matching tier that answered them.",
		}, []string{"tier"}),
		loanQuotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loan",
			Name:      "quotes_total",
			Help:      "Loan quotes computed, split by zero and regular outcomes.",
		}, []string{"outcome"}),
		chatTurns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chatbot",
			Name:      "turns_total",
			Help:      "Conversation turns appended, by sender.",
		}, []string{"sender"}),
		rateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
		orders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Orders placed through checkout.",
		}),
	}
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveIntent counts one resolved chatbot input.
func (m *Metrics) ObserveIntent(tier string) {
	if m == nil {
		return
	}
	m.intentResolutions.WithLabelValues(tier).Inc()
}

// ObserveQuote counts one computed loan quote.
func (m *Metrics) ObserveQuote(zero bool) {
	if m == nil {
		return
	}
	outcome := "quoted"
	if zero {
		outcome = "zero"
	}
	m.loanQuotes.WithLabelValues(outcome).Inc()
}

// ObserveTurn counts one appended conversation turn.
func (m *Metrics) ObserveTurn(sender string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(sender).Inc()
}

// ObserveRateLimited counts one rejected request.
func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(route).Inc()
}

// ObserveOrder counts one placed order.
func (m *Metrics) ObserveOrder() {
	if m == nil {
		return
	}
	m.orders.Inc()
}
