package services

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQuotaCounter_AcquireUntilLimit(t *testing.T) {
	c := NewQuotaCounter(3, false)

	for i := 0; i < 3; i++ {
		if err := c.Acquire(); err != nil {
			t.Fatalf("acquire %d: %v", i+1, err)
		}
	}
	if err := c.Acquire(); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	usage := c.Usage()
	if usage.Count != 3 || usage.Remaining != 0 {
		t.Fatalf("usage = %+v", usage)
	}
}

func TestQuotaCounter_ConcurrentAcquireNeverOvershoots(t *testing.T) {
	const limit = 50
	c := NewQuotaCounter(limit, false)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < limit*3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Acquire() == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != limit {
		t.Fatalf("granted %d acquisitions, want exactly %d", granted, limit)
	}
}

func TestQuotaCounter_DailyRollover(t *testing.T) {
	c := NewQuotaCounter(2, false)
	day := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return day }
	c.day = c.today()

	if err := c.Acquire(); err != nil {
		t.Fatal(err)
	}
	if err := c.Acquire(); err != nil {
		t.Fatal(err)
	}
	if err := c.Acquire(); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota exhaustion, got %v", err)
	}

	// 日付が変わると自動でリセット
	day = day.Add(2 * time.Hour)
	if err := c.Acquire(); err != nil {
		t.Fatalf("acquire after rollover: %v", err)
	}
	usage := c.Usage()
	if usage.Count != 1 {
		t.Fatalf("count after rollover = %d, want 1", usage.Count)
	}
}

func TestQuotaCounter_Disabled(t *testing.T) {
	c := NewQuotaCounter(1, true)
	for i := 0; i < 5; i++ {
		if err := c.Acquire(); err != nil {
			t.Fatalf("disabled counter rejected acquire: %v", err)
		}
	}
	usage := c.Usage()
	if usage.Count != 5 {
		t.Fatalf("count = %d, want 5 (disabled still counts)", usage.Count)
	}
	if !usage.Disabled {
		t.Fatal("usage should report disabled")
	}
}

func TestQuotaCounter_Reset(t *testing.T) {
	c := NewQuotaCounter(1, false)
	if err := c.Acquire(); err != nil {
		t.Fatal(err)
	}
	c.Reset()
	if err := c.Acquire(); err != nil {
		t.Fatalf("acquire after reset: %v", err)
	}
}
