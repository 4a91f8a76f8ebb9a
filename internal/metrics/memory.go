package metrics

import "sync"

// Memory keeps metrics in process. It backs `doctor` output and tests.
type Memory struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string][]float64
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		counters:   make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func memKey(name string, labels Labels) string {
	if k := labels.Key(); k != "" {
		return name + "{" + k + "}"
	}
	return name
}

// IncCounter implements Backend.
func (m *Memory) IncCounter(name string, delta float64, labels Labels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[memKey(name, labels)] += delta
}

// ObserveHistogram implements Backend.
func (m *Memory) ObserveHistogram(name string, value float64, labels Labels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey(name, labels)
	m.histograms[k] = append(m.histograms[k], value)
}

// Counter returns the current counter value.
func (m *Memory) Counter(name string, labels Labels) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[memKey(name, labels)]
}

// Samples returns a copy of the observed histogram values.
func (m *Memory) Samples(name string, labels Labels) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.histograms[memKey(name, labels)]...)
}

// Flush implements Backend.
func (m *Memory) Flush() error { return nil }

// Close implements Backend.
func (m *Memory) Close() error { return nil }

var _ Backend = (*Memory)(nil)
