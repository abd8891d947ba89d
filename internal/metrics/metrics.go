// Package metrics собирает метрики сервиса в собственный prometheus.Registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpmetrics "github.com/slok/go-http-metrics/metrics/prometheus"
	httpmiddleware "github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
)

// Metrics — набор метрик одного экземпляра сервера.
type Metrics struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	httpMiddleware     httpmiddleware.Middleware
}

// New регистрирует метрики в новом реестре.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophchat_generations_total",
			Help: "Generation cycles by mode and outcome",
		}, []string{"mode", "outcome"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophchat_generation_seconds",
			Help:    "Duration of a generation cycle including persistence",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"mode"}),
	}
	reg.MustRegister(m.generations, m.generationDuration)

	m.httpMiddleware = httpmiddleware.New(httpmiddleware.Config{
		Recorder: httpmetrics.NewRecorder(httpmetrics.Config{Registry: reg}),
	})
	return m
}

// ObserveGeneration учитывает один цикл генерации.
func (m *Metrics) ObserveGeneration(mode, outcome string, elapsed time.Duration) {
	m.generations.WithLabelValues(mode, outcome).Inc()
	m.generationDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// Middleware оборачивает хендлеры HTTP-метриками (go-http-metrics). handlerID задаётся на группу маршрутов,
// иначе в метку попадёт путь с идентификаторами чатов.
func (m *Metrics) Middleware(handlerID string) func(http.Handler) http.Handler {
	return std.HandlerProvider(handlerID, m.httpMiddleware)
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам и внешним сборщикам.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
