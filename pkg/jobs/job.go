package jobs

import (
	"context"
	"sync/atomic"
)

// Priority orders pending jobs. Higher values run first.
type Priority int

const (
	Low Priority = iota
	Medium
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return "unknown"
}

// Param is the opaque argument handed to an Action. Use a Registry to pass
// handles instead of large values.
type Param interface{}

// Action is the body of a job.
type Action func(Param)

// Status counts outstanding jobs. It is shared by every job of a batch and
// is done once the counter reaches zero.
type Status struct {
	counter   atomic.Int64
	abandoned atomic.Int64
	done      chan struct{}
}

func newStatus(n int) *Status {
	s := &Status{done: make(chan struct{})}
	s.counter.Store(int64(n))
	if n <= 0 {
		close(s.done)
	}
	return s
}

// complete marks one job as finished.
func (s *Status) complete() {
	if s.counter.Add(-1) == 0 {
		close(s.done)
	}
}

// abandon marks one job as finished without having run.
func (s *Status) abandon() {
	s.abandoned.Add(1)
	s.complete()
}

// Counter returns the number of jobs that have not finished.
func (s *Status) Counter() int { return int(s.counter.Load()) }

// Abandoned returns the number of jobs dropped by a scheduler shutdown.
func (s *Status) Abandoned() int { return int(s.abandoned.Load()) }

// Done is closed when the counter reaches zero.
func (s *Status) Done() <-chan struct{} { return s.done }

// Wait blocks until every job sharing the status has finished.
func (s *Status) Wait() { <-s.done }

// WaitContext is Wait with cancellation.
func (s *Status) WaitContext(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Job is one unit of work.
type Job struct {
	action   Action
	param    Param
	priority Priority
	status   *Status

	seq   uint64
	index int
}

func NewJob(action Action, param Param, priority Priority) *Job {
	return &Job{action: action, param: param, priority: priority, status: newStatus(1), index: -1}
}

func (j *Job) Priority() Priority { return j.priority }
func (j *Job) Param() Param       { return j.param }
func (j *Job) Status() *Status    { return j.status }

// Join blocks until the job has run or was abandoned.
func (j *Job) Join() { j.status.Wait() }

func (j *Job) JoinContext(ctx context.Context) error { return j.status.WaitContext(ctx) }

// Batch is a group of jobs joined as one.
type Batch struct {
	jobs   []*Job
	status *Status
}

// NewBatch binds copies of jobs to one shared status. The given jobs are
// left untouched and can still be kicked on their own.
func NewBatch(jobs ...*Job) *Batch {
	b := &Batch{status: newStatus(len(jobs))}
	for _, j := range jobs {
		b.jobs = append(b.jobs, &Job{
			action:   j.action,
			param:    j.param,
			priority: j.priority,
			status:   b.status,
			index:    -1,
		})
	}
	return b
}

// FanOut builds a batch that runs action once per parameter.
func FanOut(action Action, params []Param, priority Priority) *Batch {
	b := &Batch{status: newStatus(len(params))}
	for _, p := range params {
		b.jobs = append(b.jobs, &Job{action: action, param: p, priority: priority, status: b.status, index: -1})
	}
	return b
}

func (b *Batch) Len() int        { return len(b.jobs) }
func (b *Batch) Jobs() []*Job    { return b.jobs }
func (b *Batch) Status() *Status { return b.status }

// Join blocks until every job of the batch has run or was abandoned.
func (b *Batch) Join() { b.status.Wait() }

func (b *Batch) JoinContext(ctx context.Context) error { return b.status.WaitContext(ctx) }
