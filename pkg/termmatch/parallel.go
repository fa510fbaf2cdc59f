package termmatch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gitrdm/gotermmatch/internal/parallel"
)

// BatchOption configures MatchBatch.
type BatchOption func(*batchConfig)

type batchConfig struct {
	workers int
	logger  zerolog.Logger
}

// WithWorkers sets the worker count for a batch match. Zero or less
// defaults to the number of CPU cores.
func WithWorkers(n int) BatchOption {
	return func(c *batchConfig) { c.workers = n }
}

// WithBatchLogger installs a structured logger tracing batch execution at
// debug level. The default is a no-op logger.
func WithBatchLogger(logger zerolog.Logger) BatchOption {
	return func(c *batchConfig) { c.logger = logger }
}

// MatchBatch matches one pattern against many subject expressions on a
// bounded worker pool and returns the complete substitution list for each
// subject, index-aligned with the input. Expressions are immutable and each
// matching call confines its state, so the jobs run without coordination.
//
// Cancelling ctx stops the in-flight searches; subjects whose search was
// cancelled report the substitutions found so far.
func MatchBatch(ctx context.Context, pattern Expression, subjects []Expression, opts ...BatchOption) [][]*Substitution {
	cfg := batchConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([][]*Substitution, len(subjects))
	if len(subjects) == 0 || pattern == nil {
		return results
	}

	pool := parallel.NewWorkerPool(cfg.workers, cfg.logger)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	for i, subject := range subjects {
		i, subject := i, subject
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			results[i] = MatchContext(ctx, subject, pattern).All()
		})
		if err != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()

	matched := 0
	for _, r := range results {
		if len(r) > 0 {
			matched++
		}
	}
	cfg.logger.Debug().
		Int("subjects", len(subjects)).
		Int("matched", matched).
		Msg("batch match complete")

	return results
}
