package gallery

import (
	"sync"
	"testing"
	"time"
)

func Test_IDGenerator_UniqueWithinSameMillisecond(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	ids := NewIDGenerator(func() time.Time { return frozen })

	const n = 256
	seen := make(map[int64]struct{}, n)
	var last int64
	for i := 0; i < n; i++ {
		got := ids.Next()
		if _, dup := seen[got]; dup {
			t.Fatalf("Next() returned duplicate id: %d", got)
		}
		if got <= last {
			t.Fatalf("Next() returned %d, not greater than previous %d", got, last)
		}
		seen[got] = struct{}{}
		last = got
	}
}

func Test_IDGenerator_ConcurrentCallers(t *testing.T) {
	ids := NewIDGenerator(nil)

	const workers, perWorker = 8, 100
	results := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				results <- ids.Next()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]struct{}, workers*perWorker)
	for id := range results {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d across goroutines", id)
		}
		seen[id] = struct{}{}
	}
}

func Test_IDGenerator_Observe(t *testing.T) {
	frozen := time.UnixMilli(1000)
	ids := NewIDGenerator(func() time.Time { return frozen })

	// An id loaded from storage that lies in the future of the clock
	ids.Observe(5_000_000)
	if got := ids.Next(); got != 5_000_001 {
		t.Fatalf("expected id after observed one, got %d", got)
	}

	// Observing a smaller id does not move the generator backwards
	ids.Observe(10)
	if got := ids.Next(); got != 5_000_002 {
		t.Fatalf("expected 5000002, got %d", got)
	}
}
