package animator

// MixerBuilderOption is a functional option for configuring a Mixer during construction.
type MixerBuilderOption func(*mixer)

// WithWorkers is an option builder that sets the maximum number of pool workers.
// Defaults to one less than the number of CPUs, minimum 1.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - MixerBuilderOption: a function that applies the workers option to a mixer
func WithWorkers(workers int) MixerBuilderOption {
	return func(m *mixer) {
		if workers > 0 {
			m.workers = workers
		}
	}
}

// WithQueueSize is an option builder that sets the capacity of the pool's task queue.
//
// Parameters:
//   - size: the queue capacity
//
// Returns:
//   - MixerBuilderOption: a function that applies the queue size option to a mixer
func WithQueueSize(size int) MixerBuilderOption {
	return func(m *mixer) {
		if size > 0 {
			m.queueSize = size
		}
	}
}

// WithBatchSize is an option builder that sets the minimum number of controllers advanced per
// pool task. Ticks with no more controllers than one batch run on the calling goroutine.
//
// Parameters:
//   - size: the minimum batch size
//
// Returns:
//   - MixerBuilderOption: a function that applies the batch size option to a mixer
func WithBatchSize(size int) MixerBuilderOption {
	return func(m *mixer) {
		if size > 0 {
			m.batchSize = size
		}
	}
}

// WithControllers is an option builder that registers controllers at construction.
//
// Parameters:
//   - controllers: the controllers to add
//
// Returns:
//   - MixerBuilderOption: a function that applies the controllers option to a mixer
func WithControllers(controllers ...Controller) MixerBuilderOption {
	return func(m *mixer) {
		for _, c := range controllers {
			m.Add(c)
		}
	}
}
