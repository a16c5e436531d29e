package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the Prometheus collectors the service exposes.
type Metrics struct {
	registry *prometheus.Registry

	OTPIssued        prometheus.Counter
	WithdrawalsByOut *prometheus.CounterVec
	BookingsByStatus *prometheus.CounterVec
}

// New registers the application collectors on a private registry.
func New(appName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		OTPIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jambolush",
			Subsystem: "withdrawal",
			Name:      "otp_issued_total",
			Help:      "Number of withdrawal OTP codes issued, including resends.",
			ConstLabels: prometheus.Labels{
				"app": appName,
			},
		}),
		WithdrawalsByOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jambolush",
			Subsystem: "withdrawal",
			Name:      "requests_total",
			Help:      "Withdrawal requests by outcome.",
		}, []string{"outcome"}),
		BookingsByStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jambolush",
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Booking status transitions.",
		}, []string{"status"}),
	}

	registry.MustRegister(m.OTPIssued, m.WithdrawalsByOut, m.BookingsByStatus)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
