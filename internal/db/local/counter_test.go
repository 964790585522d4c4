package local

import (
	"context"
	"sync"
	"testing"
)

func TestCounter_Next(t *testing.T) {
	c := NewCounter()
	ctx := context.Background()

	tests := []struct {
		floor int64
		want  int64
	}{
		{1000, 1001},
		{1000, 1002},
		{500, 1003},
		{2000, 2001},
	}
	for _, tt := range tests {
		got, err := c.Next(ctx, "seq", tt.floor)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != tt.want {
			t.Errorf("Next(floor=%d) = %d, want %d", tt.floor, got, tt.want)
		}
	}

	if got, _ := c.Next(ctx, "other", 0); got != 1 {
		t.Errorf("keys must be independent, got %d", got)
	}
}

func TestCounter_Reset(t *testing.T) {
	c := NewCounter()
	ctx := context.Background()
	_, _ = c.Next(ctx, "seq", 5000)

	if err := c.Reset(ctx, "seq", 1000); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got, _ := c.Next(ctx, "seq", 0); got != 1001 {
		t.Errorf("Next after Reset = %d, want 1001", got)
	}
}

func TestCounter_Concurrent(t *testing.T) {
	c := NewCounter()
	ctx := context.Background()

	const n = 200
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := c.Next(ctx, "seq", 1000)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d ids, want %d", len(seen), n)
	}
}
