package jobs

import (
	"container/heap"
	"errors"
	"log"
	"runtime"
	"sync"
)

// DefaultReservedCores is the number of CPUs left to the rest of the process.
const DefaultReservedCores = 2

// ErrClosed is returned when kicking jobs into a closed scheduler.
var ErrClosed = errors.New("jobs: scheduler closed")

// CPUCount returns the number of logical CPUs.
func CPUCount() int { return runtime.NumCPU() }

// ThreadCount returns the worker count for the machine: every CPU except
// the reserved ones, and never fewer than one.
func ThreadCount(reserved int) int {
	return max(1, CPUCount()-reserved)
}

type options struct {
	workers  int
	reserved int
	executor func() Executor
}

type Option func(*options)

// WithWorkers fixes the number of workers. Values below one fall back to
// ThreadCount.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

func WithReservedCores(n int) Option { return func(o *options) { o.reserved = n } }

// WithExecutor sets the factory that gives each worker its executor.
func WithExecutor(f func() Executor) Option { return func(o *options) { o.executor = f } }

// Scheduler runs jobs on a fixed pool of workers in strict priority order.
type Scheduler struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   jobQueue
	seq     uint64
	closed  bool
	threads int

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts the workers. The scheduler runs until Close.
func New(opts ...Option) *Scheduler {
	o := options{reserved: DefaultReservedCores, executor: func() Executor { return fiberExecutor{} }}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Scheduler{threads: o.workers}
	if s.threads < 1 {
		s.threads = ThreadCount(o.reserved)
	}
	s.cond = sync.NewCond(&s.mu)
	heap.Init(&s.queue)

	for i := 0; i < s.threads; i++ {
		s.wg.Add(1)
		go s.worker(i, o.executor())
	}
	return s
}

// Threads returns the number of workers.
func (s *Scheduler) Threads() int { return s.threads }

// Pending returns the number of queued jobs.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Kick queues one job. A job kicked after Close is abandoned, so Join on it
// returns at once.
func (s *Scheduler) Kick(j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		j.status.abandon()
		return ErrClosed
	}
	s.push(j)
	s.cond.Signal()
	return nil
}

// KickBatch queues every job of b at once.
func (s *Scheduler) KickBatch(b *Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		for _, j := range b.jobs {
			j.status.abandon()
		}
		return ErrClosed
	}
	for _, j := range b.jobs {
		s.push(j)
	}
	s.cond.Broadcast()
	return nil
}

func (s *Scheduler) push(j *Job) {
	s.seq++
	j.seq = s.seq
	heap.Push(&s.queue, j)
}

func (s *Scheduler) worker(id int, exec Executor) {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for s.queue.Len() == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		j := heap.Pop(&s.queue).(*Job)
		s.mu.Unlock()

		if err := exec.Execute(j); err != nil {
			log.Printf("⚠️  Worker %d: %v\n", id, err)
		}
		j.status.complete()
	}
}

// Close stops the workers. Running jobs finish; queued jobs are abandoned
// and their joiners released. Close is safe to call more than once.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.cond.Broadcast()
		s.mu.Unlock()

		s.wg.Wait()

		s.mu.Lock()
		abandoned := s.queue.Len()
		for s.queue.Len() > 0 {
			heap.Pop(&s.queue).(*Job).status.abandon()
		}
		s.mu.Unlock()

		if abandoned > 0 {
			log.Printf("   ℹ️  Scheduler closed, abandoned %d queued jobs\n", abandoned)
		}
	})
}
