package mockpool

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// newChurnLimiter paces kill/revive cycles. Burst of one keeps churn evenly
// spread instead of front-loaded.
func newChurnLimiter(perSecond float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// startMgmt brings up the management API.
func (p *Pool) startMgmt() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p.cfg.MgmtPort))
	if err != nil {
		return fmt.Errorf("%w: management port %d: %v", ErrInvalidConfig, p.cfg.MgmtPort, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/endpoints", p.handleEndpoints)
	mux.HandleFunc("/stats", p.handleStats)
	mux.HandleFunc("/scale", p.handleScale)
	mux.HandleFunc("/kill", p.handleKill)
	mux.HandleFunc("/revive", p.handleRevive)
	mux.Handle("/metrics", promhttp.HandlerFor(p.metrics.registry, promhttp.HandlerOpts{}))

	p.mgmt = &http.Server{Handler: mux}
	go func() {
		if err := p.mgmt.Serve(ln); err != nil && err != http.ErrServerClosed {
			p.log.Error("management API failed", zap.Error(err))
		}
	}()
	return nil
}

func (p *Pool) handleEndpoints(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, ep := range p.Endpoints(limit) {
		fmt.Fprintln(w, ep)
	}
}

func (p *Pool) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p.Stats()); err != nil {
		p.log.Warn("encoding stats", zap.Error(err))
	}
}

func (p *Pool) handleScale(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		http.Error(w, "invalid count", http.StatusBadRequest)
		return
	}
	if err := p.Scale(count); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	fmt.Fprintf(w, `{"status":"scaled","count":%d}`, count)
}

func (p *Pool) handleKill(w http.ResponseWriter, r *http.Request) {
	port, err := strconv.Atoi(r.URL.Query().Get("port"))
	if err != nil {
		http.Error(w, "invalid port", http.StatusBadRequest)
		return
	}
	if err := p.Kill(port); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	fmt.Fprintf(w, `{"status":"killed","port":%d}`, port)
}

func (p *Pool) handleRevive(w http.ResponseWriter, r *http.Request) {
	port, err := strconv.Atoi(r.URL.Query().Get("port"))
	if err != nil {
		http.Error(w, "invalid port", http.StatusBadRequest)
		return
	}
	if err := p.Revive(port); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	fmt.Fprintf(w, `{"status":"revived","port":%d}`, port)
}
