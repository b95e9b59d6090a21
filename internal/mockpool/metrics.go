package mockpool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// poolMetrics holds the pool's prometheus collectors. Each pool owns its
// registry so repeated pools in one process never collide.
type poolMetrics struct {
	registry *prometheus.Registry

	started    prometheus.Counter
	killed     prometheus.Counter
	revived    prometheus.Counter
	alive      prometheus.Gauge
	healthHits prometheus.Counter
}

func newPoolMetrics() *poolMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &poolMetrics{
		registry: registry,
		started: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockpool_servers_started_total",
			Help: "Servers started since pool creation.",
		}),
		killed: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockpool_servers_killed_total",
			Help: "Servers killed since pool creation.",
		}),
		revived: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockpool_servers_revived_total",
			Help: "Servers revived since pool creation.",
		}),
		alive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mockpool_servers_alive",
			Help: "Servers currently serving.",
		}),
		healthHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "mockpool_health_requests_total",
			Help: "Health probes answered across all servers.",
		}),
	}
}
