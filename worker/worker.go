package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	defer sentry.Recover()

	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}

		f()
	}
}

// To be used by a function that may be CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Batch submits every function to the pool and blocks until all of them have
// returned. Callers must guarantee the functions are read/write-disjoint.
func Batch(fns []func()) {
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for _, f := range fns {
		f := f
		Submit(func() {
			defer wg.Done()
			f()
		})
	}
	wg.Wait()
}

// Count returns the number of workers in the pool.
func Count() int {
	return runtime.NumCPU()
}
