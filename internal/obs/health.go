package obs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HealthCheck func(context.Context) error

// HealthChecks are named dependency probes; the process is healthy only when
// all of them pass.
type HealthChecks map[string]HealthCheck

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (hc HealthChecks) run(ctx context.Context) (healthReport, bool) {
	rep := healthReport{Status: "ok", Checks: make(map[string]string, len(hc))}
	names := make([]string, 0, len(hc))
	for n := range hc {
		names = append(names, n)
	}
	sort.Strings(names)

	ok := true
	for _, n := range names {
		if err := hc[n](ctx); err != nil {
			rep.Checks[n] = err.Error()
			ok = false
			continue
		}
		rep.Checks[n] = "ok"
	}
	if !ok {
		rep.Status = "unavailable"
	}
	return rep, ok
}

// HealthHandler answers 200 or 503 with a JSON report of every check.
func HealthHandler(checks HealthChecks) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		rep, ok := checks.run(ctx)
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(rep)
	})
}

// BootstrapMetricsServer serves /metrics and /healthz for the background
// workers, which have no HTTP API of their own.
func BootstrapMetricsServer(addr string, l *zap.Logger, checks HealthChecks) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", HealthHandler(checks))
	ms := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      3 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		l.Info("metrics listening", zap.String("addr", addr))
		if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("metrics server error", zap.Error(err))
		}
	}()
	return ms
}
