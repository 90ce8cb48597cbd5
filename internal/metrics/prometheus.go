package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "alpacka"

// Prometheus exposes HTTP and generation metrics on its own registry
type Prometheus struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	optimizationsTotal  *prometheus.CounterVec
	generationDuration  *prometheus.HistogramVec
	tokensUsed          *prometheus.CounterVec
}

// NewPrometheus registers the collectors on a fresh registry
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Prometheus{
		registry: registry,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"endpoint", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: promNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),
		optimizationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "optimizer",
				Name:      "optimizations_total",
				Help:      "Total number of optimization attempts by outcome",
			},
			[]string{"provider", "model", "outcome"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: promNamespace,
				Subsystem: "optimizer",
				Name:      "generation_duration_seconds",
				Help:      "Generation endpoint call duration in seconds",
				Buckets:   []float64{.25, .5, 1, 2, 5, 10, 30},
			},
			[]string{"provider", "model"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "optimizer",
				Name:      "tokens_used_total",
				Help:      "Total tokens used for generation calls",
			},
			[]string{"provider", "model", "type"}, // type: input/output
		),
	}
}

// Registry returns the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	p.httpRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (p *Prometheus) RecordGeneration(_ context.Context, generation Generation) {
	p.optimizationsTotal.WithLabelValues(generation.Provider, generation.Model, generation.Outcome).Inc()
	p.generationDuration.WithLabelValues(generation.Provider, generation.Model).Observe(generation.Duration.Seconds())

	if generation.InputTokens > 0 {
		p.tokensUsed.WithLabelValues(generation.Provider, generation.Model, "input").Add(float64(generation.InputTokens))
	}
	if generation.OutputTokens > 0 {
		p.tokensUsed.WithLabelValues(generation.Provider, generation.Model, "output").Add(float64(generation.OutputTokens))
	}
}
