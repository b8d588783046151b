package authcore

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricLoginSuccess)
	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("disabled metrics recorded %d", got)
	}

	snap := m.Snapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("disabled snapshot has %d counters", len(snap.Counters))
	}
}

func TestMetricsCountersConcurrent(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricLoginSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricLoginSuccess); got != workers*perWorker {
		t.Fatalf("counter = %d, want %d", got, workers*perWorker)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricLoginLatency, 3*time.Millisecond)
	m.Observe(MetricLoginLatency, 30*time.Millisecond)
	m.Observe(MetricLoginLatency, 2*time.Second)

	snap := m.Snapshot()
	buckets, ok := snap.Histograms[MetricLoginLatency]
	if !ok {
		t.Fatal("expected a login latency histogram in the snapshot")
	}

	var total uint64
	for _, b := range buckets {
		total += b
	}
	if total != 3 {
		t.Fatalf("histogram holds %d samples, want 3", total)
	}
	if buckets[0] != 1 {
		t.Fatalf("fastest bucket = %d, want 1", buckets[0])
	}
	if buckets[len(buckets)-1] != 1 {
		t.Fatalf("overflow bucket = %d, want 1", buckets[len(buckets)-1])
	}
}

func TestEngineCountsOperations(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	seedUser(t, engine, "alice@example.com", "correct-horse")

	engine.Login(ctx, "alice@example.com", "wrong-password")
	engine.Login(ctx, "alice@example.com", "correct-horse")

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("login failures = %d, want 1", snap.Counters[MetricLoginFailure])
	}
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("login successes = %d, want 1", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricSignupSuccess] != 1 {
		t.Fatalf("signups = %d, want 1", snap.Counters[MetricSignupSuccess])
	}
	if snap.Counters[MetricSessionCreated] != 1 {
		t.Fatalf("sessions created = %d, want 1", snap.Counters[MetricSessionCreated])
	}
}
