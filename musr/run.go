package musr

import "sync"

// Channel is a single raw histogram of a run.
type Channel struct {
	// T0 is the time-zero bin stored in the data file; values <= 0 mean the
	// file did not provide one.
	T0 float64
	// T0Estimated is the time-zero bin guessed by the data reader.
	T0Estimated float64
	Bins        []float64
}

// Temperature is a measured sample temperature with its spread.
type Temperature struct {
	Value float64
	Sigma float64
}

// RawRun holds the raw histograms of one run.
type RawRun struct {
	Name string
	// TimeResolution is the bin width in ns.
	TimeResolution float64
	Channels       map[int]*Channel

	Field        float64
	Energy       float64
	Temperatures []Temperature
}

// Channel returns channel no or nil if it is not present.
func (r *RawRun) Channel(no int) *Channel {
	if r == nil || r.Channels == nil {
		return nil
	}
	return r.Channels[no]
}

// TimeStep returns the bin width in µs.
func (r *RawRun) TimeStep() float64 {
	return r.TimeResolution * 1e-3
}

// Metadata returns the run metadata handed to auxiliary functions.
func (r *RawRun) Metadata() Metadata {
	m := Metadata{Field: r.Field, Energy: r.Energy}
	for _, t := range r.Temperatures {
		m.Temperatures = append(m.Temperatures, t.Value)
	}
	return m
}

// Metadata is the scalar run information functions may depend on.
type Metadata struct {
	Field        float64
	Energy       float64
	Temperatures []float64
}

// RunRepository looks up raw runs by name.
type RunRepository interface {
	Run(name string) (*RawRun, bool)
}

// MemoryRepository is a RunRepository backed by a map. It is safe for
// concurrent use.
type MemoryRepository struct {
	mu   sync.RWMutex
	runs map[string]*RawRun
}

// NewMemoryRepository returns a repository holding runs.
func NewMemoryRepository(runs ...*RawRun) *MemoryRepository {
	r := &MemoryRepository{runs: make(map[string]*RawRun, len(runs))}
	for _, run := range runs {
		r.Add(run)
	}
	return r
}

// Add stores run under its name, replacing an existing entry.
func (r *MemoryRepository) Add(run *RawRun) {
	if run == nil {
		return
	}
	r.mu.Lock()
	r.runs[run.Name] = run
	r.mu.Unlock()
}

// Run implements RunRepository.
func (r *MemoryRepository) Run(name string) (*RawRun, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[name]
	return run, ok
}
