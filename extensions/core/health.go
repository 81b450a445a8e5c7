// ABOUTME: Health aggregation across all registered extensions.
// ABOUTME: Probes run concurrently under isolation; overall is worst-of.

package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultHealthTimeout bounds one health probe when no timeout is configured.
const DefaultHealthTimeout = 3 * time.Second

// HealthCheck is one extension's aggregated health entry.
type HealthCheck struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthReport is the aggregate served by the health endpoint.
type HealthReport struct {
	Overall    Status                 `json:"overall"`
	Extensions map[string]HealthCheck `json:"extensions"`
}

// HealthAggregator probes every registered extension. A probe that panics,
// returns a bad status, or times out marks that extension unhealthy without
// affecting the others.
type HealthAggregator struct {
	registry *Registry
	logger   *slog.Logger
	timeout  time.Duration
}

// NewHealthAggregator creates an aggregator. A zero timeout falls back to
// DefaultHealthTimeout.
func NewHealthAggregator(registry *Registry, logger *slog.Logger, timeout time.Duration) *HealthAggregator {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &HealthAggregator{registry: registry, logger: logger, timeout: timeout}
}

// CheckAll probes every extension concurrently and returns the aggregate.
// Extensions without a probe are reported healthy.
func (a *HealthAggregator) CheckAll(ctx context.Context) HealthReport {
	exts := a.registry.All()
	report := HealthReport{
		Overall:    StatusHealthy,
		Extensions: make(map[string]HealthCheck, len(exts)),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, ext := range exts {
		wg.Add(1)
		go func(ext *Extension) {
			defer wg.Done()
			check := a.probe(ctx, ext)
			mu.Lock()
			report.Extensions[ext.Name] = check
			if statusRank(check.Status) > statusRank(report.Overall) {
				report.Overall = check.Status
			}
			mu.Unlock()
		}(ext)
	}
	wg.Wait()
	return report
}

func (a *HealthAggregator) probe(ctx context.Context, ext *Extension) HealthCheck {
	check := HealthCheck{Status: StatusHealthy, CheckedAt: time.Now().UTC()}
	if ext.HealthCheck == nil {
		return check
	}

	pctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		status HealthStatus
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("health check panic: %v", r)}
			}
		}()
		status, err := ext.HealthCheck(pctx)
		done <- outcome{status: status, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			check.Status = StatusUnhealthy
			check.Error = o.err.Error()
			break
		}
		check.Status = o.status.Status
		check.Message = o.status.Message
		if check.Status == "" {
			check.Status = StatusHealthy
		}
	case <-pctx.Done():
		check.Status = StatusUnhealthy
		check.Error = fmt.Sprintf("health check timed out after %s", a.timeout)
	}

	if check.Status == StatusUnhealthy {
		a.logger.Warn("extension unhealthy",
			slog.String("extension", ext.Name),
			slog.String("error", check.Error),
		)
	}
	return check
}

func statusRank(s Status) int {
	switch s {
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	default:
		return 0
	}
}
