package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream 503")

func fail(_ context.Context) (string, error) { return "", errUpstream }
func succeed(_ context.Context) (string, error) { return "ok", nil }

func TestBreaker_ClosedPassesThrough(t *testing.T) {
	b := NewBreaker("calcom", DefaultBreakerConfig())

	got, err := Do(context.Background(), b, succeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if b.State() != CircuitClosed {
		t.Errorf("expected closed state, got %s", b.State())
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker("openweather", BreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, _ = Do(context.Background(), b, fail)
	}
	if b.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", b.State())
	}

	called := false
	_, err := Do(context.Background(), b, func(_ context.Context) (string, error) {
		called = true
		return "", nil
	})
	if called {
		t.Error("fn must not run while the circuit is open")
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b := NewBreaker("calcom", BreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})

	_, _ = Do(context.Background(), b, fail)
	_, _ = Do(context.Background(), b, fail)
	if b.Failures() != 2 {
		t.Fatalf("expected 2 failures, got %d", b.Failures())
	}

	_, _ = Do(context.Background(), b, succeed)
	if b.Failures() != 0 {
		t.Errorf("expected failures reset, got %d", b.Failures())
	}
	if b.State() != CircuitClosed {
		t.Errorf("expected closed state, got %s", b.State())
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker("calcom", BreakerConfig{FailureThreshold: 1, ResetTimeout: 30 * time.Second})
	b.nowFunc = func() time.Time { return now }

	_, _ = Do(context.Background(), b, fail)
	if b.State() != CircuitOpen {
		t.Fatalf("expected open, got %s", b.State())
	}

	now = now.Add(30 * time.Second)
	if b.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open after reset timeout, got %s", b.State())
	}

	// A failed probe reopens.
	_, _ = Do(context.Background(), b, fail)
	if b.State() != CircuitOpen {
		t.Fatalf("expected reopened circuit, got %s", b.State())
	}

	// A successful probe closes.
	now = now.Add(31 * time.Second)
	if _, err := Do(context.Background(), b, succeed); err != nil {
		t.Fatalf("probe should run: %v", err)
	}
	if b.State() != CircuitClosed {
		t.Errorf("expected closed after successful probe, got %s", b.State())
	}
}

func TestBreaker_CallerCancelDoesNotTrip(t *testing.T) {
	b := NewBreaker("openweather", BreakerConfig{FailureThreshold: 1, ResetTimeout: time.Minute})

	_, _ = Do(context.Background(), b, func(_ context.Context) (string, error) {
		return "", context.Canceled
	})
	if b.State() != CircuitClosed {
		t.Errorf("caller cancellation must not open the circuit, got %s", b.State())
	}
}

func TestBreaker_ConcurrentUse(t *testing.T) {
	b := NewBreaker("calcom", BreakerConfig{FailureThreshold: 1000, ResetTimeout: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = Do(context.Background(), b, fail)
			} else {
				_, _ = Do(context.Background(), b, succeed)
			}
		}(i)
	}
	wg.Wait()

	if b.State() != CircuitClosed {
		t.Errorf("expected closed, got %s", b.State())
	}
}

func TestRegistry_GetReturnsSameBreaker(t *testing.T) {
	r := NewRegistry(DefaultBreakerConfig())

	a := r.Get("calcom")
	if a != r.Get("calcom") {
		t.Error("expected the same breaker for the same provider")
	}
	if a == r.Get("openweather") {
		t.Error("expected distinct breakers per provider")
	}

	states := r.States()
	if len(states) != 2 || states["calcom"] != "closed" {
		t.Errorf("unexpected states: %v", states)
	}
}

func TestCircuitState_String(t *testing.T) {
	cases := map[CircuitState]string{
		CircuitClosed:    "closed",
		CircuitOpen:      "open",
		CircuitHalfOpen:  "half-open",
		CircuitState(42): "unknown",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("%d: expected %q, got %q", s, want, s.String())
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(0, 0)
	if cfg.FailureThreshold != 5 || cfg.ResetTimeout != 30*time.Second {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	cfg = FromConfig(2, 10)
	if cfg.FailureThreshold != 2 || cfg.ResetTimeout != 10*time.Second {
		t.Errorf("expected overrides, got %+v", cfg)
	}
}
