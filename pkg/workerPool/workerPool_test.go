package workerPool

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestBatchPreservesSubmissionOrder(t *testing.T) {
	pool := New(Config{Workers: 4})

	const jobs = 100
	batch := pool.NewBatch(jobs)
	for i := 0; i < jobs; i++ {
		i := i
		batch.Submit(func() (any, error) {
			// Stagger completions so finish order differs from submit order.
			time.Sleep(time.Duration(jobs-i) * 10 * time.Microsecond)
			return i * 2, nil
		})
	}

	results := batch.Wait()
	if len(results) != jobs {
		t.Fatalf("expected %d results, got %d", jobs, len(results))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("job %d: unexpected error %v", i, res.Err)
		}
		if res.Value.(int) != i*2 {
			t.Fatalf("job %d: expected %d, got %v", i, i*2, res.Value)
		}
	}
}

func TestBatchPropagatesErrors(t *testing.T) {
	pool := New(Config{Workers: 2})

	sentinel := errors.New("job failed")
	batch := pool.NewBatch(3)
	batch.Submit(func() (any, error) { return "ok", nil })
	batch.Submit(func() (any, error) { return nil, sentinel })
	batch.Submit(func() (any, error) { return "ok", nil })

	results := batch.Wait()
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("successful jobs must not carry errors")
	}
	if !errors.Is(results[1].Err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", results[1].Err)
	}
}

func TestPoolSharedAcrossBatches(t *testing.T) {
	pool := New(Config{Workers: 2})

	done := make(chan struct{}, 4)
	for b := 0; b < 4; b++ {
		go func(b int) {
			batch := pool.NewBatch(10)
			for i := 0; i < 10; i++ {
				i := i
				batch.Submit(func() (any, error) {
					return fmt.Sprintf("%d-%d", b, i), nil
				})
			}
			results := batch.Wait()
			for i, res := range results {
				if res.Value.(string) != fmt.Sprintf("%d-%d", b, i) {
					t.Errorf("batch %d job %d: got %v", b, i, res.Value)
				}
			}
			done <- struct{}{}
		}(b)
	}

	for i := 0; i < 4; i++ {
		<-done
	}
}

func TestBatchUnderfill(t *testing.T) {
	pool := New(Config{Workers: 1})

	batch := pool.NewBatch(5)
	batch.Submit(func() (any, error) { return 1, nil })
	batch.Submit(func() (any, error) { return 2, nil })

	results := batch.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results for a partially filled batch, got %d", len(results))
	}
}
