// Package analytics tracks correlation activity and produces summary
// statistics for the engine.
package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-numeral-engine/model"
	"github.com/gcbaptista/go-numeral-engine/services"
)

const (
	analyticsFileName = "analytics.json"
	maxEventsToKeep   = 10000 // keep the last 10k events for performance
)

// Service records correlation events and reports aggregate statistics.
type Service struct {
	mutex        sync.RWMutex
	events       []model.CorrelationEvent
	documents    services.DocumentManager
	dataFilePath string
	logger       *zap.Logger
}

// NewService creates an analytics service persisting under dataDir. The
// document manager may be nil when no document store is in play.
func NewService(dataDir string, documents services.DocumentManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	service := &Service{
		events:       make([]model.CorrelationEvent, 0),
		documents:    documents,
		dataFilePath: filepath.Join(dataDir, analyticsFileName),
		logger:       logger,
	}

	if err := service.loadData(); err != nil {
		logger.Warn("failed to load analytics data", zap.Error(err))
	}

	return service
}

// TrackEvent records a correlation event. Persistence happens asynchronously.
func (s *Service) TrackEvent(event model.CorrelationEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth.
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}

	go func() {
		if err := s.saveData(); err != nil {
			s.logger.Warn("failed to save analytics data", zap.Error(err))
		}
	}()
}

// GetStats returns aggregate statistics over the recorded events.
func (s *Service) GetStats() model.StatsReport {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := time.Now()
	last24h := s.filterEventsByTime(s.events, now.Add(-24*time.Hour))

	report := model.StatsReport{
		TotalRuns:       len(s.events),
		Runs24h:         len(last24h),
		AvgResponseTime: s.calculateAvgResponseTime(s.events),
		AvgNumeralCount: s.calculateAvgNumeralCount(s.events),
		RunsByMode:      s.countRunsByMode(s.events),
		GeneratedAt:     now,
	}
	if s.documents != nil {
		report.TotalDocuments = len(s.documents.ListDocuments())
	}

	return report
}

func (s *Service) filterEventsByTime(events []model.CorrelationEvent, after time.Time) []model.CorrelationEvent {
	var filtered []model.CorrelationEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func (s *Service) calculateAvgResponseTime(events []model.CorrelationEvent) float64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return float64(total.Milliseconds()) / float64(len(events))
}

func (s *Service) calculateAvgNumeralCount(events []model.CorrelationEvent) float64 {
	if len(events) == 0 {
		return 0
	}

	total := 0
	for _, event := range events {
		total += event.NumeralCount
	}
	return float64(total) / float64(len(events))
}

func (s *Service) countRunsByMode(events []model.CorrelationEvent) map[string]int {
	counts := make(map[string]int)
	for _, event := range events {
		counts[event.Mode]++
	}
	return counts
}

// loadData loads previously persisted events from disk.
func (s *Service) loadData() error {
	if err := os.MkdirAll(filepath.Dir(s.dataFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	data, err := os.ReadFile(s.dataFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}

	return nil
}

// saveData writes the current events to disk.
func (s *Service) saveData() error {
	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.dataFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	if err := os.WriteFile(s.dataFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}

	return nil
}
