package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-numeral-engine/model"
)

// MetricsData is a copyable snapshot of job metrics.
type MetricsData struct {
	JobsCreated          int64                   `json:"jobs_created"`
	JobsCompleted        int64                   `json:"jobs_completed"`
	JobsFailed           int64                   `json:"jobs_failed"`
	AverageExecutionTime time.Duration           `json:"average_execution_time_ns"`
	JobsByType           map[model.JobType]int64 `json:"jobs_by_type"`
	LastUpdated          time.Time               `json:"last_updated"`
}

// SuccessRate returns the fraction of finished jobs that completed, or 1
// when nothing has finished yet.
func (d MetricsData) SuccessRate() float64 {
	finished := d.JobsCompleted + d.JobsFailed
	if finished == 0 {
		return 1.0
	}
	return float64(d.JobsCompleted) / float64(finished)
}

// Metrics tracks counters for job operations.
type Metrics struct {
	mu            sync.RWMutex
	created       int64
	completed     int64
	failed        int64
	totalExecTime time.Duration
	byType        map[model.JobType]int64
	lastUpdated   time.Time
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		byType:      make(map[model.JobType]int64),
		lastUpdated: time.Now(),
	}
}

// RecordCreated increments the creation counter.
func (m *Metrics) RecordCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
	m.byType[jobType]++
	m.lastUpdated = time.Now()
}

// RecordCompleted records a successful completion.
func (m *Metrics) RecordCompleted(_ model.JobType, execTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed++
	m.totalExecTime += execTime
	m.lastUpdated = time.Now()
}

// RecordFailed records a job failure.
func (m *Metrics) RecordFailed(_ model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
	m.lastUpdated = time.Now()
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() MetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byType := make(map[model.JobType]int64, len(m.byType))
	for k, v := range m.byType {
		byType[k] = v
	}

	var avg time.Duration
	if m.completed > 0 {
		avg = m.totalExecTime / time.Duration(m.completed)
	}

	return MetricsData{
		JobsCreated:          m.created,
		JobsCompleted:        m.completed,
		JobsFailed:           m.failed,
		AverageExecutionTime: avg,
		JobsByType:           byType,
		LastUpdated:          m.lastUpdated,
	}
}

// SuccessRate reports the live success rate without taking a snapshot.
func (m *Metrics) SuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	finished := m.completed + m.failed
	if finished == 0 {
		return 1.0
	}
	return float64(m.completed) / float64(finished)
}
