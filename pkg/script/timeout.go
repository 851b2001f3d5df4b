package script

import (
	"fmt"
	"sync"
	"time"
)

// RunTimeout is the hard limit for a single script run.
const RunTimeout = 30 * time.Second

// runResult passes a run's outcome back from the worker goroutine.
type runResult struct {
	result *Result
	errors []ScriptError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the run exceeds RunTimeout. A generation counter discards results of
// runs that were superseded while in flight.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan runResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Result, []ScriptError, error) {
	timer := time.NewTimer(RunTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("script run superseded by newer request")
		}

		return res.result, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("script run timed out after %s", RunTimeout)
	}
}
