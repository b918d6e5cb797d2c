package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Takashicc/repub/internal/log"
	"github.com/Takashicc/repub/internal/model"
	"go.uber.org/zap"
)

type WorkPool interface {
	Push(job model.Job)
}

// Summary counts the jobs a pool finished.
type Summary struct {
	Done   int
	Failed int
}

// Pool runs a Worker on size goroutines. Results are written to out in
// completion order. A failing job is reported as an "error:" line and never
// stops the others.
type Pool struct {
	queue  chan model.Job
	worker Worker
	out    *LineWriter
	runID  string
	wg     sync.WaitGroup
	done   atomic.Int64
	failed atomic.Int64
}

func NewPool(ctx context.Context, size int, worker Worker, out *LineWriter, runID string) *Pool {
	if size < 1 {
		size = 1
	}
	pool := &Pool{
		queue:  make(chan model.Job),
		worker: worker,
		out:    out,
		runID:  runID,
	}

	for i := 0; i < size; i++ {
		pool.wg.Add(1)
		go pool.run(ctx, i)
	}

	return pool
}

// Implement WorkPool interface
func (p *Pool) Push(job model.Job) {
	p.queue <- job
}

// Wait closes the queue and blocks until every pushed job is handled.
func (p *Pool) Wait() Summary {
	close(p.queue)
	p.wg.Wait()
	return Summary{Done: int(p.done.Load()), Failed: int(p.failed.Load())}
}

// Run pushes every job, waits for the pool to drain and logs the totals.
func (p *Pool) Run(jobs model.JobList) Summary {
	for _, job := range jobs {
		p.Push(job)
	}
	summary := p.Wait()
	log.Info("Batch finished",
		zap.String("run_id", p.runID),
		zap.Int("total", jobs.Len()),
		zap.Int("done", summary.Done),
		zap.Int("failed", summary.Failed))
	return summary
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log.Debug("Worker is running", zap.Int("worker_id", id), zap.String("run_id", p.runID))

	for job := range p.queue {
		log.Debug("Job received by worker",
			zap.Int("worker_id", id),
			zap.Int("job_id", job.ID),
			zap.String("path", job.Path))

		job.Status = model.JobStatusRunning
		line, err := p.handle(ctx, job)
		if err != nil {
			job.Status = model.JobStatusFailed
			p.failed.Add(1)
			log.Warn("Job failed",
				zap.String("run_id", p.runID),
				zap.String("type", job.Type),
				zap.String("path", job.Path),
				zap.Error(err))
			line = fmt.Sprintf("error: %s: %v", job.Path, err)
		} else {
			job.Status = model.JobStatusDone
			p.done.Add(1)
		}

		if err := p.out.WriteLine(line); err != nil {
			log.Error("Error writing result", zap.String("path", job.Path), zap.Error(err))
		}
	}
}

// handle isolates one job: a cancelled context or a panic fails that job only.
func (p *Pool) handle(ctx context.Context, job model.Job) (line string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.worker.Handle(ctx, job)
}
