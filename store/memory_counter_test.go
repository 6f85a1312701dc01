package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMemoryCounter_Incr(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCounter()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.Incr(ctx, "client", time.Minute)
		if err != nil {
			t.Fatalf("Incr() error = %v", err)
		}
		if got != want {
			t.Errorf("Incr() = %d, want %d", got, want)
		}
	}

	if got, _ := c.Incr(ctx, "other", time.Minute); got != 1 {
		t.Errorf("Incr() for new key = %d, want 1", got)
	}

	now = now.Add(time.Minute)
	if got, _ := c.Incr(ctx, "client", time.Minute); got != 1 {
		t.Errorf("Incr() after window = %d, want 1", got)
	}
}

func TestMemoryCounter_Prune(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCounter()
	c.now = func() time.Time { return now }

	c.Incr(context.Background(), "a", time.Second)
	c.Incr(context.Background(), "b", time.Hour)

	now = now.Add(2 * time.Second)
	c.Prune()

	if got := c.Len(); got != 1 {
		t.Errorf("Len() after Prune = %d, want 1", got)
	}
}

func TestMemoryCounter_Concurrent(t *testing.T) {
	c := NewMemoryCounter()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Incr(context.Background(), "shared", time.Hour)
		}()
	}
	wg.Wait()

	got, _ := c.Incr(context.Background(), "shared", time.Hour)
	if got != 51 {
		t.Errorf("Incr() = %d, want 51", got)
	}
}

func TestMemoryCounter_RunPruner(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewMemoryCounter()
	c.Incr(context.Background(), "a", time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.RunPruner(ctx, 5*time.Millisecond)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() with pruner running = %d, want 0", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPruner did not return after cancel")
	}
}
