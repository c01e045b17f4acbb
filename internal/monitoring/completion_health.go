package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/commentlens/internal/metrics"
)

const HEALTHCHECK_INTERVAL = 30 * time.Second

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// MonitorCompletionHealth checks the completion service once immediately and then on
// every tick until ctx is done.
func MonitorCompletionHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		isHealthy := checker.HealthCheck(ctx)
		if healthy.Swap(isHealthy) != isHealthy {
			if isHealthy {
				slog.Info("[HealthCheck] Completion service recovered")
			} else {
				slog.Warn("[HealthCheck] Completion service is unhealthy")
			}
		}
		if isHealthy {
			metrics.CompletionHealthy.Set(1)
		} else {
			metrics.CompletionHealthy.Set(0)
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
