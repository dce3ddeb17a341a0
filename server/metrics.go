package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meikuraledutech/crewflow"
)

type metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	flows     prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewflow_mutations_total",
			Help: "Flow mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		flows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crewflow_flows",
			Help: "Flows currently open for editing.",
		}),
	}
	m.registry.MustRegister(m.mutations, m.flows)
	return m
}

func (m *metrics) observe(op string, err error) {
	m.mutations.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, crewflow.ErrValidationRejected):
		return "rejected"
	case errors.Is(err, crewflow.ErrNotFound):
		return "not_found"
	case errors.Is(err, crewflow.ErrMalformedSnapshot):
		return "malformed"
	}
	return "error"
}

func (m *metrics) handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
