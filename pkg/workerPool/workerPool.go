// Package workerPool runs independent CPU-bound jobs on a fixed set of
// workers. veilbox uses it to fan out bulk encryption requests; each job is a
// self-contained transform with no shared state, so the pool needs nothing
// beyond result collection.
package workerPool

import (
	"runtime"
	"sync"
)

type task struct {
	run   func() (any, error)
	index int
	batch *Batch
}

// Pool is a fixed-size worker pool. It is safe for concurrent use; batches
// from different callers interleave on the same workers.
type Pool struct {
	tasks chan task
}

// Config sizes the pool. Zero values pick defaults based on the host.
type Config struct {
	Workers   int
	QueueSize int
}

// New starts the workers and returns the pool. The workers run for the
// lifetime of the process.
func New(config Config) *Pool {
	if config.Workers < 1 {
		config.Workers = runtime.NumCPU()
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1024
	}

	p := &Pool{tasks: make(chan task, config.QueueSize)}
	for i := 0; i < config.Workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.tasks {
		value, err := t.run()
		t.batch.results[t.index] = Result{Value: value, Err: err}
		t.batch.wg.Done()
	}
}

// Result is the outcome of one submitted job.
type Result struct {
	Value any
	Err   error
}

// Batch collects results for a fixed number of jobs, preserving submission
// order regardless of completion order.
type Batch struct {
	pool    *Pool
	results []Result
	next    int
	wg      sync.WaitGroup
}

// NewBatch prepares a batch of at most size jobs.
func (p *Pool) NewBatch(size int) *Batch {
	return &Batch{
		pool:    p,
		results: make([]Result, size),
	}
}

// Submit queues the next job of the batch. Submitting more jobs than the
// batch size panics; the caller sized the batch.
func (b *Batch) Submit(run func() (any, error)) {
	if b.next >= len(b.results) {
		panic("workerPool: batch overflow")
	}
	b.wg.Add(1)
	b.pool.tasks <- task{run: run, index: b.next, batch: b}
	b.next++
}

// Wait blocks until every submitted job finished and returns the results in
// submission order.
func (b *Batch) Wait() []Result {
	b.wg.Wait()
	return b.results[:b.next]
}
