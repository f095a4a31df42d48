package utils

import (
	"errors"
	"sync"
)

// ParallelTask is a unit of work run by RunParallel.
type ParallelTask func() error

// RunParallel executes tasks concurrently and returns their errors in task order.
func RunParallel(tasks ...ParallelTask) []error {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask) {
			defer wg.Done()
			errs[index] = t()
		}(i, task)
	}

	wg.Wait()
	return errs
}

// Parallel runs tasks concurrently and joins any errors they return.
func Parallel(tasks ...ParallelTask) error {
	return errors.Join(RunParallel(tasks...)...)
}
