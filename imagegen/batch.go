package imagegen

import (
	"context"
	"errors"
	"sync"

	"hashart/shutdown"
)

// Job is one hash queued for rendering. Index is the job's position in the
// input, so outcomes can be reported in order.
type Job struct {
	Index int
	Hash  string
}

// Outcome is the result of one Job. Exactly one of Result and Err is set.
type Outcome struct {
	Job
	Result *Result
	Err    error
}

// Skipped reports whether the job never ran because the batch was stopped.
func (o Outcome) Skipped() bool {
	return errors.Is(o.Err, context.Canceled) ||
		errors.Is(o.Err, context.DeadlineExceeded) ||
		errors.Is(o.Err, shutdown.ErrTrackerClosed)
}

// Batch renders many hashes with a fixed number of workers. When a
// shutdown.Manager is attached each render is a tracked operation, so a
// SIGINT lets in-flight renders finish while the rest are skipped.
type Batch struct {
	gen     *Generator
	workers int
	mgr     *shutdown.Manager
}

// NewBatch returns a Batch using workers goroutines (at least one).
func NewBatch(gen *Generator, workers int, mgr *shutdown.Manager) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{gen: gen, workers: workers, mgr: mgr}
}

// Workers returns the worker count.
func (b *Batch) Workers() int {
	return b.workers
}

// Run renders every hash and returns one Outcome per hash, in input order.
// onDone, if set, is called from worker goroutines as each job finishes.
func (b *Batch) Run(ctx context.Context, hashes []string, onDone func(Outcome)) []Outcome {
	outcomes := make([]Outcome, len(hashes))
	jobs := make(chan Job)

	var wg sync.WaitGroup
	workers := min(b.workers, max(1, len(hashes)))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				out := b.run(ctx, job)
				outcomes[job.Index] = out
				if onDone != nil {
					onDone(out)
				}
			}
		}()
	}

	for i, hash := range hashes {
		jobs <- Job{Index: i, Hash: hash}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (b *Batch) run(ctx context.Context, job Job) Outcome {
	out := Outcome{Job: job}
	ran := false
	render := func(ctx context.Context) error {
		ran = true
		res, err := b.gen.Generate(ctx, job.Hash)
		out.Result = res
		return err
	}

	if b.mgr != nil {
		out.Err = b.mgr.Do(ctx, "render "+job.Hash, render)
	} else {
		out.Err = render(ctx)
	}
	if out.Err != nil {
		out.Result = nil
		if !ran {
			b.gen.skipped(job.Hash, out.Err)
		}
	}
	return out
}

// Failed returns the outcomes that ran and failed, skipping cancelled ones.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil && !o.Skipped() {
			failed = append(failed, o)
		}
	}
	return failed
}
