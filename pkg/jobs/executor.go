package jobs

import (
	"fmt"
	"runtime"
)

// Executor runs the action of one job on behalf of a worker. Execute must
// return only once the action has returned.
type Executor interface {
	Execute(j *Job) error
}

// fiberExecutor gives every job its own goroutine and parks the worker until
// it finishes. A panicking action is reported as an error.
type fiberExecutor struct{}

func (fiberExecutor) Execute(j *Job) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("job panicked: %v", r)
			}
		}()
		j.action(j.param)
		done <- nil
	}()
	return <-done
}

// Yield lets other goroutines run. Long actions can call it between steps.
func Yield() { runtime.Gosched() }
