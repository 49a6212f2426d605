package sync

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/tablesync/pkg/frame"
	"golang.org/x/sync/errgroup"
)

// maxWorkerCeiling caps the derived worker pool size.
const maxWorkerCeiling = 32

// rowOutcome carries one worker's verdict back to the aggregation point.
type rowOutcome struct {
	action rowAction
	failed bool
	step   string
	err    string
	values map[string]any
}

// reconcileParallel processes disjoint rows concurrently. Each row's
// existence-check-then-write runs as its own implicit transaction on a pool
// connection, so commit batching does not apply; counters and failures are
// aggregated after all workers finish, which keeps them identical to the
// sequential algorithm. Two workers racing on colliding keys can both
// attempt an insert; the backend decides, and the losing row is recorded
// as a failure.
func (e *Engine) reconcileParallel(ctx context.Context, op Operation, f *frame.Frame, qualified string, opts Options, result *Result) {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU() + 4
		if workers > maxWorkerCeiling {
			workers = maxWorkerCeiling
		}
	}
	e.logger.Info("processing rows in parallel",
		slog.Int("rows", f.Len()), slog.Int("workers", workers))

	db := e.db.DB()
	outcomes := make([]rowOutcome, f.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < f.Len(); i++ {
		g.Go(func() error {
			values := f.NormalizedRow(i)
			action, _, err := e.processRow(gctx, db, op, f, qualified, opts.Keys, values, false)
			if err != nil {
				outcomes[i] = rowOutcome{failed: true, step: "parallel processing", err: err.Error(), values: values}
				return nil
			}
			outcomes[i] = rowOutcome{action: action, values: values}
			return nil
		})
	}
	// Workers never return errors; Wait is the collection barrier.
	_ = g.Wait()

	for i, o := range outcomes {
		if o.failed {
			result.Failures = append(result.Failures,
				Failure{Step: o.step, Row: &RowRef{Index: i, Values: renderRow(f, o.values)}, Error: o.err})
			continue
		}
		switch o.action {
		case actionInsert:
			result.Insertions++
		case actionUpdate:
			result.Updates++
		case actionSkip:
			result.Skips++
		}
	}
}
