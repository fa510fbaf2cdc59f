// Package parallel provides a bounded worker pool for running many
// independent matching jobs concurrently. Expressions are immutable and
// substitutions are confined to a single matching call, so jobs need no
// coordination beyond result collection; the pool exists to cap goroutine
// fan-out and to provide backpressure when a batch is much larger than the
// worker count.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// ErrPoolShutdown is returned when submitting work to a pool that has been
// shut down.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shut down")

// WorkerPool manages a fixed set of goroutines executing submitted tasks.
// Submission blocks when every worker is busy and the task buffer is full,
// which keeps large batches from exhausting memory.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
	logger       zerolog.Logger
}

// NewWorkerPool creates a pool with the given worker count. A count of zero
// or less defaults to the number of CPU cores. The logger traces pool
// lifecycle at debug level; pass zerolog.Nop() to disable.
func NewWorkerPool(maxWorkers int, logger zerolog.Logger) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker(i)
	}
	pool.logger.Debug().Int("workers", maxWorkers).Msg("worker pool started")

	return pool
}

func (wp *WorkerPool) worker(id int) {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			if task != nil {
				task()
			}
		case <-wp.shutdownChan:
			wp.logger.Debug().Int("worker", id).Msg("worker stopped")
			return
		}
	}
}

// Submit queues a task for execution, blocking until a worker accepts it,
// the context is cancelled, or the pool is shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting work, drains queued tasks, and waits for the
// workers to exit. Safe to call multiple times.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		// Drain queued tasks before signalling the workers.
		for {
			select {
			case task := <-wp.taskChan:
				if task != nil {
					task()
				}
			default:
				close(wp.shutdownChan)
				wp.workerWg.Wait()
				wp.logger.Debug().Msg("worker pool shut down")
				return
			}
		}
	})
}
