package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"atlas-fetcher/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Orchestrator runs one batch of fetch-and-persist tasks over a bounded
// pool of workers. A failure on one identifier never aborts the batch;
// every submitted identifier ends up in exactly one tally bucket.
type Orchestrator struct {
	provider OrderProvider
	store    RecordStore

	workers int
	pace    time.Duration
	out     io.Writer
	outMu   sync.Mutex
	log     *zap.Logger
}

type Option func(*Orchestrator)

// WithWorkers bounds in-flight tasks. Values above the batch size are
// harmless; non-positive values fall back to 1.
func WithWorkers(n int) Option { return func(o *Orchestrator) { o.workers = n } }

// WithPace inserts a delay after each completed task, per worker.
func WithPace(d time.Duration) Option { return func(o *Orchestrator) { o.pace = d } }

// WithOutput redirects console progress lines (default os.Stdout).
func WithOutput(w io.Writer) Option { return func(o *Orchestrator) { o.out = w } }

func WithLogger(l *zap.Logger) Option { return func(o *Orchestrator) { o.log = l } }

func NewOrchestrator(provider OrderProvider, store RecordStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{provider: provider, store: store}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers <= 0 {
		o.workers = 1
	}
	if o.out == nil {
		o.out = os.Stdout
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

type task struct {
	pos int
	id  domain.OrderID
}

type counters struct {
	succeeded atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

// Run processes ids and blocks until every one of them is tallied.
// Cancelling ctx does not cut the batch short; it makes the remaining
// fetches fail fast, so the returned tally still covers the whole input.
func (o *Orchestrator) Run(ctx context.Context, ids []domain.OrderID) domain.Tally {
	total := len(ids)
	log := o.log.With(zap.String("run_id", uuid.NewString()))
	log.Info("batch_started", zap.Int("total", total), zap.Int("workers", o.workers))

	var c counters
	tasks := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				switch o.processOne(ctx, log, t, total) {
				case domain.OutcomeSucceeded:
					c.succeeded.Add(1)
				case domain.OutcomeSkipped:
					c.skipped.Add(1)
				default:
					c.failed.Add(1)
				}
				o.sleepPace(ctx)
			}
		}()
	}

	for i, id := range ids {
		tasks <- task{pos: i + 1, id: id}
	}
	close(tasks)
	wg.Wait()

	t := domain.Tally{
		Succeeded: int(c.succeeded.Load()),
		Failed:    int(c.failed.Load()),
		Skipped:   int(c.skipped.Load()),
		Total:     total,
	}
	log.Info("batch_finished",
		zap.Int("succeeded", t.Succeeded),
		zap.Int("failed", t.Failed),
		zap.Int("skipped", t.Skipped),
		zap.Int("total", t.Total))
	return t
}

func (o *Orchestrator) processOne(ctx context.Context, log *zap.Logger, t task, total int) (outcome domain.Outcome) {
	l := log.With(zap.String("order_id", string(t.id)))
	defer func() {
		if r := recover(); r != nil {
			l.Warn("task_panic", zap.Any("r", r))
			outcome = domain.OutcomeFailed
		}
	}()

	exists, err := o.store.Exists(ctx, t.id)
	if err != nil {
		l.Warn("exists_check_failed", zap.Error(err))
		return domain.OutcomeFailed
	}
	if exists {
		o.printf("[%d/%d] Order %s already exists, skipping...\n", t.pos, total, t.id)
		return domain.OutcomeSkipped
	}

	o.printf("[%d/%d] Fetching order %s...\n", t.pos, total, t.id)
	doc, err := o.provider.Fetch(ctx, t.id)
	if err != nil {
		l.Warn("fetch_failed", zap.Error(err))
		return domain.OutcomeFailed
	}

	if err := o.store.Write(ctx, t.id, doc); err != nil {
		l.Error("write_failed", zap.Error(err))
		return domain.OutcomeFailed
	}
	l.Info("order_saved")
	return domain.OutcomeSucceeded
}

// printf serializes progress lines so concurrent workers never
// interleave mid-line on the shared writer.
func (o *Orchestrator) printf(format string, args ...any) {
	o.outMu.Lock()
	defer o.outMu.Unlock()
	fmt.Fprintf(o.out, format, args...)
}

func (o *Orchestrator) sleepPace(ctx context.Context) {
	if o.pace <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(o.pace):
	}
}
