// ABOUTME: Tests for health aggregation across extensions.
// ABOUTME: Verifies isolation, timeouts, defaults, and worst-of overall status.

package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func healthExt(name string, fn HealthFunc) *Extension {
	return &Extension{Name: name, HealthCheck: fn}
}

func TestCheckAllWorstOf(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{name: "all healthy", statuses: []Status{StatusHealthy, StatusHealthy}, want: StatusHealthy},
		{name: "one degraded", statuses: []Status{StatusHealthy, StatusDegraded}, want: StatusDegraded},
		{name: "one unhealthy", statuses: []Status{StatusDegraded, StatusUnhealthy}, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			for i, status := range tt.statuses {
				s := status
				ext := healthExt(string(rune('a'+i)), func(ctx context.Context) (HealthStatus, error) {
					return HealthStatus{Status: s}, nil
				})
				if err := reg.Register(ext); err != nil {
					t.Fatalf("Register() error = %v", err)
				}
			}

			a := NewHealthAggregator(reg, testLogger(), time.Second)
			report := a.CheckAll(context.Background())
			if report.Overall != tt.want {
				t.Errorf("overall = %q, want %q", report.Overall, tt.want)
			}
		})
	}
}

func TestCheckAllIsolatesFailures(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(healthExt("good", func(ctx context.Context) (HealthStatus, error) {
		return HealthStatus{Status: StatusHealthy, Message: "all good"}, nil
	})); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(healthExt("bad", func(ctx context.Context) (HealthStatus, error) {
		return HealthStatus{}, errors.New("connection refused")
	})); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	a := NewHealthAggregator(reg, testLogger(), time.Second)
	report := a.CheckAll(context.Background())

	if report.Overall != StatusUnhealthy {
		t.Errorf("overall = %q, want %q", report.Overall, StatusUnhealthy)
	}
	good := report.Extensions["good"]
	if good.Status != StatusHealthy {
		t.Errorf("good status = %q, want healthy", good.Status)
	}
	bad := report.Extensions["bad"]
	if bad.Status != StatusUnhealthy {
		t.Errorf("bad status = %q, want unhealthy", bad.Status)
	}
	if bad.Error != "connection refused" {
		t.Errorf("bad error = %q, want the probe's error", bad.Error)
	}
	if bad.CheckedAt.IsZero() {
		t.Error("expected checkedAt to be set")
	}
}

func TestCheckAllRecoversPanic(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(healthExt("panicky", func(ctx context.Context) (HealthStatus, error) {
		panic("probe exploded")
	})); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	a := NewHealthAggregator(reg, testLogger(), time.Second)
	report := a.CheckAll(context.Background())

	if report.Extensions["panicky"].Status != StatusUnhealthy {
		t.Errorf("status = %q, want unhealthy", report.Extensions["panicky"].Status)
	}
	if report.Extensions["panicky"].Error == "" {
		t.Error("expected panic captured in error")
	}
}

func TestCheckAllTimeout(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(healthExt("stuck", func(ctx context.Context) (HealthStatus, error) {
		time.Sleep(2 * time.Second)
		return HealthStatus{Status: StatusHealthy}, nil
	})); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	a := NewHealthAggregator(reg, testLogger(), 50*time.Millisecond)
	start := time.Now()
	report := a.CheckAll(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("CheckAll blocked on a stuck probe for %s", elapsed)
	}

	if report.Extensions["stuck"].Status != StatusUnhealthy {
		t.Errorf("status = %q, want unhealthy after timeout", report.Extensions["stuck"].Status)
	}
}

func TestCheckAllDefaultsMissingProbeToHealthy(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&Extension{Name: "silent"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	a := NewHealthAggregator(reg, testLogger(), time.Second)
	report := a.CheckAll(context.Background())

	if report.Overall != StatusHealthy {
		t.Errorf("overall = %q, want healthy", report.Overall)
	}
	if report.Extensions["silent"].Status != StatusHealthy {
		t.Errorf("status = %q, want healthy", report.Extensions["silent"].Status)
	}
}
