package animator

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// mixer is the implementation of the Mixer interface.
type mixer struct {
	mu          sync.Mutex
	controllers []Controller
	errs        []error

	workers   int
	queueSize int
	batchSize int

	// pool manages a bounded set of reusable goroutines for the parallel advance.
	// Initialized lazily on the first Advance that needs more than one batch.
	pool worker.DynamicWorkerPool
}

// Mixer drives many Controllers through one tick at a time.
//
// Controllers are independent of each other, so the Mixer partitions them into batches and
// advances the batches in parallel on a worker pool. Each controller is only ever touched by
// one worker per tick, and Advance returns only once every batch has finished, so successive
// ticks are applied in order for every controller.
type Mixer interface {
	// Add registers a controller with the mixer. Adding the same controller twice is a no-op.
	//
	// Parameters:
	//   - c: the controller to add
	Add(c Controller)

	// Remove unregisters a controller.
	//
	// Parameters:
	//   - c: the controller to remove
	//
	// Returns:
	//   - bool: true if the controller was registered
	Remove(c Controller) bool

	// Len returns the number of registered controllers.
	//
	// Returns:
	//   - int: the controller count
	Len() int

	// Controllers returns a snapshot of the registered controllers in registration order.
	//
	// Returns:
	//   - []Controller: the controllers
	Controllers() []Controller

	// Advance advances every registered controller by dt and blocks until all are done.
	// Errors from individual controllers are joined; one failing controller does not stop the others.
	//
	// Parameters:
	//   - dt: elapsed time since the previous tick in seconds
	//
	// Returns:
	//   - error: ErrNegativeDelta if dt is negative or infinite, or the joined controller errors
	Advance(dt float32) error

	// Workers returns the maximum number of pool workers used by Advance.
	//
	// Returns:
	//   - int: the worker count
	Workers() int

	// Release stops the worker pool. The mixer must not be advanced afterwards.
	Release()
}

var _ Mixer = &mixer{}

// NewMixer creates a new Mixer with the provided options applied.
//
// Parameters:
//   - options: variadic list of MixerBuilderOption functions to configure the Mixer
//
// Returns:
//   - Mixer: the constructed mixer
func NewMixer(options ...MixerBuilderOption) Mixer {
	m := &mixer{}
	for _, opt := range options {
		opt(m)
	}
	m.workers = common.Coalesce(m.workers, max(runtime.NumCPU()-1, 1))
	m.queueSize = common.Coalesce(m.queueSize, 256)
	m.batchSize = common.Coalesce(m.batchSize, 64)
	return m
}

func (m *mixer) Add(c Controller) {
	if c == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.controllers, c) {
		return
	}
	m.controllers = append(m.controllers, c)
}

func (m *mixer) Remove(c Controller) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.controllers, c)
	if i < 0 {
		return false
	}
	m.controllers = slices.Delete(m.controllers, i, i+1)
	return true
}

func (m *mixer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

func (m *mixer) Controllers() []Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.controllers)
}

func (m *mixer) Workers() int {
	return m.workers
}

func (m *mixer) Advance(dt float32) error {
	if !validDelta(dt) {
		return fmt.Errorf("mixer advance by %v: %w", dt, ErrNegativeDelta)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.controllers)
	if n == 0 {
		return nil
	}
	if cap(m.errs) < n {
		m.errs = make([]error, n)
	}
	errs := m.errs[:n]
	clear(errs)

	batch := max(m.batchSize, (n+m.workers-1)/m.workers)
	if n <= batch {
		m.advanceRange(0, n, dt, errs)
		return errors.Join(errs...)
	}

	if m.pool == nil {
		m.pool = worker.NewDynamicWorkerPool(m.workers, m.queueSize, 1*time.Second)
	}

	// A WaitGroup is the per-tick barrier.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += batch {
		end := min(start+batch, n)
		wg.Add(1)
		id := taskID
		taskID++
		m.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				m.advanceRange(start, end, dt, errs)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}

// advanceRange advances controllers[start:end], recording each error in its own slot.
func (m *mixer) advanceRange(start, end int, dt float32, errs []error) {
	for i := start; i < end; i++ {
		if _, err := m.controllers[i].Advance(dt); err != nil {
			errs[i] = fmt.Errorf("controller %d: %w", i, err)
		}
	}
}

func (m *mixer) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pool != nil {
		m.pool.Stop()
		m.pool = nil
	}
}
