// Package mockpool runs a pool of lightweight HTTP servers that stand in
// for the endpoints monitored during a load test. Each server answers
// /health and /kill; a management API exposes the live endpoint list, pool
// statistics, scaling, revival, and prometheus metrics. An optional churn
// loop kills and revives servers at a bounded rate to exercise monitor
// failure handling.
package mockpool

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by the mockpool package.
var (
	// ErrInvalidConfig is returned when the pool configuration is invalid.
	ErrInvalidConfig = errors.New("mockpool: invalid configuration")
	// ErrPortsExhausted is returned when the port range cannot hold the
	// requested number of servers.
	ErrPortsExhausted = errors.New("mockpool: port range exhausted")
	// ErrUnknownServer is returned when an operation names a port the pool
	// never started a server on.
	ErrUnknownServer = errors.New("mockpool: unknown server")
)

// Config holds pool configuration.
type Config struct {
	// Servers is the number of endpoint servers to start.
	Servers int

	// BasePort and MaxPort bound the endpoint server port range.
	// Defaults: 20000–60000.
	BasePort int
	MaxPort  int

	// MgmtPort is the management API port. Default: 8081.
	MgmtPort int

	// ChurnRate is the number of kill/revive cycles per second. Zero
	// disables churn.
	ChurnRate float64
}

// ApplyDefaults applies default values to unset fields.
func (c *Config) ApplyDefaults() {
	if c.BasePort == 0 {
		c.BasePort = 20000
	}
	if c.MaxPort == 0 {
		c.MaxPort = 60000
	}
	if c.MgmtPort == 0 {
		c.MgmtPort = 8081
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Servers <= 0 {
		return fmt.Errorf("%w: servers must be positive", ErrInvalidConfig)
	}
	if c.BasePort > c.MaxPort {
		return fmt.Errorf("%w: base port %d above max port %d", ErrInvalidConfig, c.BasePort, c.MaxPort)
	}
	if c.Servers > c.MaxPort-c.BasePort+1 {
		return fmt.Errorf("%w: %d servers do not fit in ports %d-%d", ErrPortsExhausted, c.Servers, c.BasePort, c.MaxPort)
	}
	if c.ChurnRate < 0 {
		return fmt.Errorf("%w: churn rate must not be negative", ErrInvalidConfig)
	}
	return nil
}

// server is one lightweight endpoint server.
type server struct {
	id      int64
	port    int
	srv     *http.Server
	running atomic.Bool
}

// Pool manages a collection of endpoint servers plus the management API.
type Pool struct {
	id      string
	cfg     Config
	log     *zap.Logger
	metrics *poolMetrics

	mu      sync.RWMutex
	servers map[int]*server
	counter int64

	mgmt      *http.Server
	startTime time.Time
}

// New creates a pool. The configuration is validated up front; nothing
// listens until Start.
func New(cfg Config, log *zap.Logger) (*Pool, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pool{
		id:      uuid.NewString(),
		cfg:     cfg,
		log:     log.With(zap.String("pool", cfg.poolLabel())),
		metrics: newPoolMetrics(),
		servers: make(map[int]*server),
	}, nil
}

func (c Config) poolLabel() string {
	return fmt.Sprintf("%d-%d", c.BasePort, c.MaxPort)
}

// ID returns the pool's unique instance identifier.
func (p *Pool) ID() string {
	return p.id
}

// Start brings up the endpoint servers and the management API, then runs
// the churn loop (if configured) until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) error {
	p.startTime = time.Now()

	started := 0
	for port := p.cfg.BasePort; port <= p.cfg.MaxPort && started < p.cfg.Servers; port++ {
		if err := p.startServer(port); err != nil {
			p.log.Warn("port unavailable, skipping", zap.Int("port", port), zap.Error(err))
			continue
		}
		started++
	}
	if started < p.cfg.Servers {
		p.shutdownServers(context.Background())
		return fmt.Errorf("%w: started %d of %d servers", ErrPortsExhausted, started, p.cfg.Servers)
	}
	p.log.Info("endpoint servers started", zap.Int("count", started))

	if err := p.startMgmt(); err != nil {
		p.shutdownServers(context.Background())
		return err
	}
	p.log.Info("management API listening", zap.Int("port", p.cfg.MgmtPort))

	if p.cfg.ChurnRate > 0 {
		go p.churnLoop(ctx)
	}
	return nil
}

// Shutdown stops the management API and every endpoint server.
func (p *Pool) Shutdown(ctx context.Context) error {
	var firstErr error
	if p.mgmt != nil {
		if err := p.mgmt.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := p.shutdownServers(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (p *Pool) shutdownServers(ctx context.Context) error {
	p.mu.Lock()
	servers := make([]*server, 0, len(p.servers))
	for _, s := range p.servers {
		servers = append(servers, s)
	}
	p.mu.Unlock()

	var firstErr error
	for _, s := range servers {
		if s.running.CompareAndSwap(true, false) {
			p.metrics.alive.Dec()
			if err := s.srv.Shutdown(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// startServer starts a single endpoint server on port and registers it.
func (p *Pool) startServer(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	s := &server{
		id:   atomic.AddInt64(&p.counter, 1),
		port: port,
	}
	s.running.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		p.metrics.healthHits.Inc()
		if !s.running.Load() {
			http.Error(w, "server is not running", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"healthy","id":%d,"port":%d}`, s.id, s.port)
	})
	mux.HandleFunc("/kill", func(w http.ResponseWriter, r *http.Request) {
		if err := p.Kill(s.port); err != nil {
			http.Error(w, "server already stopped", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"killed","id":%d,"port":%d}`, s.id, s.port)
	})

	s.srv = &http.Server{Handler: mux}
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			p.log.Warn("endpoint server failed", zap.Int("port", port), zap.Error(err))
			if s.running.CompareAndSwap(true, false) {
				p.metrics.alive.Dec()
			}
		}
	}()

	p.mu.Lock()
	p.servers[port] = s
	p.mu.Unlock()

	p.metrics.started.Inc()
	p.metrics.alive.Inc()
	return nil
}

// Kill shuts a server down. The port stays registered so the server can be
// revived later.
func (p *Pool) Kill(port int) error {
	p.mu.RLock()
	s, ok := p.servers[port]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: port %d", ErrUnknownServer, port)
	}
	if !s.running.CompareAndSwap(true, false) {
		return fmt.Errorf("%w: port %d already stopped", ErrUnknownServer, port)
	}

	p.metrics.killed.Inc()
	p.metrics.alive.Dec()

	// Shutdown outside the request path so /kill can answer first.
	go func() {
		if err := s.srv.Shutdown(context.Background()); err != nil {
			p.log.Warn("shutdown failed", zap.Int("port", port), zap.Error(err))
		}
	}()
	return nil
}

// Revive restarts a previously killed server on its original port.
func (p *Pool) Revive(port int) error {
	p.mu.RLock()
	s, ok := p.servers[port]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: port %d", ErrUnknownServer, port)
	}
	if s.running.Load() {
		return fmt.Errorf("%w: port %d already running", ErrUnknownServer, port)
	}

	if err := p.startServer(port); err != nil {
		return err
	}
	p.metrics.revived.Inc()
	return nil
}

// Endpoints returns health-check URLs for up to limit running servers,
// ordered by port. A non-positive limit returns all of them.
func (p *Pool) Endpoints(limit int) []string {
	p.mu.RLock()
	ports := make([]int, 0, len(p.servers))
	for port, s := range p.servers {
		if s.running.Load() {
			ports = append(ports, port)
		}
	}
	p.mu.RUnlock()

	sort.Ints(ports)
	if limit > 0 && limit < len(ports) {
		ports = ports[:limit]
	}

	endpoints := make([]string, len(ports))
	for i, port := range ports {
		endpoints[i] = fmt.Sprintf("http://localhost:%d/health", port)
	}
	return endpoints
}

// Stats summarizes the pool for the management API.
func (p *Pool) Stats() map[string]any {
	p.mu.RLock()
	registered := len(p.servers)
	alive := 0
	for _, s := range p.servers {
		if s.running.Load() {
			alive++
		}
	}
	p.mu.RUnlock()

	return map[string]any{
		"pool_id":       p.id,
		"registered":    registered,
		"current_alive": alive,
		"max_possible":  p.cfg.MaxPort - p.cfg.BasePort + 1,
		"uptime_ms":     time.Since(p.startTime).Milliseconds(),
	}
}

// Scale adjusts the number of running servers to count, starting fresh
// servers or killing the highest ports as needed.
func (p *Pool) Scale(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: negative scale target", ErrInvalidConfig)
	}

	running := p.runningPorts()
	switch {
	case count > len(running):
		needed := count - len(running)
		for port := p.cfg.BasePort; port <= p.cfg.MaxPort && needed > 0; port++ {
			p.mu.RLock()
			s, known := p.servers[port]
			p.mu.RUnlock()
			if known && s.running.Load() {
				continue
			}
			var err error
			if known {
				err = p.Revive(port)
			} else {
				err = p.startServer(port)
			}
			if err != nil {
				continue
			}
			needed--
		}
		if needed > 0 {
			return fmt.Errorf("%w: %d servers short of scale target", ErrPortsExhausted, needed)
		}
	case count < len(running):
		for _, port := range running[count:] {
			if err := p.Kill(port); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Pool) runningPorts() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ports := make([]int, 0, len(p.servers))
	for port, s := range p.servers {
		if s.running.Load() {
			ports = append(ports, port)
		}
	}
	sort.Ints(ports)
	return ports
}

// churnLoop kills and revives random servers at the configured rate until
// ctx is cancelled. Each cycle takes down one server, waits for the next
// rate token, and brings it back.
func (p *Pool) churnLoop(ctx context.Context) {
	limiter := newChurnLimiter(p.cfg.ChurnRate)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		ports := p.runningPorts()
		if len(ports) == 0 {
			continue
		}
		port := ports[rng.Intn(len(ports))]
		if err := p.Kill(port); err != nil {
			continue
		}
		p.log.Debug("churn: killed", zap.Int("port", port))

		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if err := p.Revive(port); err != nil {
			p.log.Warn("churn: revive failed", zap.Int("port", port), zap.Error(err))
			continue
		}
		p.log.Debug("churn: revived", zap.Int("port", port))
	}
}
