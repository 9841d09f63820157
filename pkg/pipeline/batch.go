package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpfielding/dither.go/pkg/logging"
	"github.com/jpfielding/dither.go/pkg/util"
)

// Progress is reported once per file, including files skipped after
// cancellation, so Done always reaches Total.
type Progress struct {
	Done   int
	Total  int
	Result Result
}

// ProgressFunc receives progress updates. Calls are serialized.
type ProgressFunc func(Progress)

// BatchResult summarizes a RunBatch call.
type BatchResult struct {
	RunID   string
	Results []Result
	Elapsed time.Duration
}

// Failed returns the results that carry an error.
func (b BatchResult) Failed() []Result {
	var failed []Result
	for _, r := range b.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunBatch processes files, up to Settings.Concurrency() at a time. Each file
// is dithered on a single goroutine. A failing file does not stop the others;
// all failures are joined into the returned error. Once ctx is cancelled no
// new file is started and the remaining results carry ctx.Err().
//
// Results are in the order of files.
func (r *Runner) RunBatch(ctx context.Context, files []string, progress ProgressFunc) (BatchResult, error) {
	batch := BatchResult{
		RunID:   util.NewRunID(),
		Results: make([]Result, len(files)),
	}
	ctx = logging.AppendCtx(ctx, slog.String("run", batch.RunID))
	slog.InfoContext(ctx, "batch starting", "files", len(files), "workers", r.settings.Concurrency(), "config", r.settings.Config.String())
	start := time.Now()

	var (
		mu   sync.Mutex
		done int
	)
	report := func(res Result) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if res.Err != nil {
			slog.WarnContext(ctx, "file failed", "src", res.Source, "error", res.Err)
		}
		if progress != nil {
			progress(Progress{Done: done, Total: len(files), Result: res})
		}
	}

	var g errgroup.Group
	g.SetLimit(r.settings.Concurrency())
	for i, src := range files {
		if err := ctx.Err(); err != nil {
			batch.Results[i] = Result{Source: src, Err: err}
			report(batch.Results[i])
			continue
		}
		g.Go(func() error {
			res, _ := r.Run(ctx, src)
			batch.Results[i] = res
			report(res)
			return nil
		})
	}
	_ = g.Wait()
	batch.Elapsed = time.Since(start)

	var errs []error
	for _, res := range batch.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	slog.InfoContext(ctx, "batch finished", "files", len(files), "failed", len(errs), "elapsed", batch.Elapsed)
	return batch, errors.Join(errs...)
}
