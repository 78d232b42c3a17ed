package db

import (
	"context"
	"sync"
	"testing"
)

func TestNextRequestSeqMonotonic(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 10; i++ {
		v, err := NextRequestSeq(ctx, d)
		if err != nil {
			t.Fatalf("NextRequestSeq failed: %v", err)
		}
		if v <= prev {
			t.Fatalf("sequence not increasing: got %d after %d", v, prev)
		}
		prev = v
	}
}

func TestNextRequestSeqConcurrent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	const n = 32
	values := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := NextRequestSeq(ctx, d)
			if err != nil {
				t.Errorf("NextRequestSeq failed: %v", err)
				return
			}
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool)
	var max int64
	for v := range values {
		if seen[v] {
			t.Fatalf("duplicate sequence value %d", v)
		}
		seen[v] = true
		if v > max {
			max = v
		}
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct values, want %d", len(seen), n)
	}
	if max != n {
		t.Errorf("max sequence value = %d, want %d", max, n)
	}
}
