package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process request and error counters. A nil *Metrics is a
// valid no-op receiver, so the middleware chain never has to branch on
// whether metrics are enabled.
type Metrics struct {
	mu       sync.Mutex
	requests map[counterKey]*requestStat
	errors   map[counterKey]int64
}

type counterKey struct {
	path   string
	method string
	label  string
}

type requestStat struct {
	count   int64
	elapsed time.Duration
}

// NewMetrics builds an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[counterKey]*requestStat),
		errors:   make(map[counterKey]int64),
	}
}

// RecordRequest counts one handled request per path/method/status and
// accumulates its wall time.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := counterKey{path: path, method: method, label: strconv.Itoa(status)}
	m.mu.Lock()
	defer m.mu.Unlock()
	stat := m.requests[key]
	if stat == nil {
		stat = &requestStat{}
		m.requests[key] = stat
	}
	stat.count++
	stat.elapsed += duration
}

// RecordError counts one error response per path/method/error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[counterKey{path: path, method: method, label: code}]++
}
