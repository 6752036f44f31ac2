// Package engine wires the correlation pipeline to document storage and
// background jobs. It is the composition root: the linguistic tagger is
// initialized here, once per process, and handed to the normalizer as an
// explicit immutable dependency.
package engine

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-numeral-engine/config"
	"github.com/gcbaptista/go-numeral-engine/internal/correlation"
	internalErrors "github.com/gcbaptista/go-numeral-engine/internal/errors"
	"github.com/gcbaptista/go-numeral-engine/internal/jobs"
	"github.com/gcbaptista/go-numeral-engine/internal/normalizer"
	"github.com/gcbaptista/go-numeral-engine/internal/persistence"
	"github.com/gcbaptista/go-numeral-engine/model"
	"github.com/gcbaptista/go-numeral-engine/store"
)

const (
	dataDirPerm       = 0755
	documentStoreFile = "documents.gob"
	maxConcurrentJobs = 4
)

// Engine manages registered documents and their computed label maps.
// It implements services.Correlator and services.DocumentManager.
type Engine struct {
	store      *store.DocumentStore
	correlator *correlation.Service
	settings   config.EngineSettings
	dataDir    string
	jobManager *jobs.Manager
	logger     *zap.Logger
}

// NewEngine creates the engine, loading previously persisted documents from
// dataDir. A failed tagger initialization is not fatal: the normalizer runs
// in its reduced-precision mode instead.
func NewEngine(dataDir string, settings config.EngineSettings, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.ApplyDefaults()

	tagger, err := normalizer.DefaultTagger()
	if err != nil {
		logger.Warn("linguistic tagger unavailable, labels degrade to lower-case + trim", zap.Error(err))
		tagger = nil
	}

	correlator, err := correlation.NewService(normalizer.New(tagger, settings.ExtraStopWords...), settings)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		logger.Warn("could not create data directory, persistence disabled for this run",
			zap.String("data_dir", dataDir), zap.Error(err))
	}

	docStore := &store.DocumentStore{}
	storePath := filepath.Join(dataDir, documentStoreFile)
	if err := persistence.LoadGob(storePath, docStore); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to load document store, starting empty",
				zap.String("path", storePath), zap.Error(err))
		}
		docStore.Init()
	} else {
		logger.Info("loaded document store",
			zap.String("path", storePath), zap.Int("documents", len(docStore.Docs)))
	}

	jobManager := jobs.NewManager(maxConcurrentJobs, logger)
	jobManager.Start()

	return &Engine{
		store:      docStore,
		correlator: correlator,
		settings:   settings,
		dataDir:    dataDir,
		jobManager: jobManager,
		logger:     logger,
	}, nil
}

// Close shuts down background workers, waiting for running jobs.
func (e *Engine) Close() {
	e.jobManager.Stop()
}

// ExtractAndNormalize runs the text-only extraction path.
func (e *Engine) ExtractAndNormalize(text string) model.LabelMap {
	return e.correlator.ExtractAndNormalize(text)
}

// Correlate runs the full correlation pipeline on the supplied inputs.
func (e *Engine) Correlate(text string, detections []model.Detection) model.LabelMap {
	return e.correlator.Correlate(text, detections)
}

// AddDocument registers a document, generating an ID when it carries none,
// and persists the store.
func (e *Engine) AddDocument(doc model.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	e.store.Mu.Lock()
	if _, exists := e.store.Docs[doc.ID]; exists {
		e.store.Mu.Unlock()
		return "", internalErrors.NewDocumentAlreadyExistsError(doc.ID)
	}
	e.store.Docs[doc.ID] = doc
	// Stale labels from a previous registration under the same ID are gone
	// by construction; nothing to invalidate here.
	e.store.Mu.Unlock()

	if err := e.persistStore(); err != nil {
		e.logger.Warn("failed to persist document store", zap.Error(err))
	}
	e.logger.Info("document added",
		zap.String("document_id", doc.ID),
		zap.Int("text_bytes", len(doc.Text)),
		zap.Int("detections", len(doc.Detections)))
	return doc.ID, nil
}

// GetDocument returns a registered document.
func (e *Engine) GetDocument(id string) (model.Document, error) {
	e.store.Mu.RLock()
	defer e.store.Mu.RUnlock()

	doc, exists := e.store.Docs[id]
	if !exists {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(id)
	}
	return doc, nil
}

// DeleteDocument removes a document and its labels, then persists the store.
func (e *Engine) DeleteDocument(id string) error {
	e.store.Mu.Lock()
	if _, exists := e.store.Docs[id]; !exists {
		e.store.Mu.Unlock()
		return internalErrors.NewDocumentNotFoundError(id)
	}
	delete(e.store.Docs, id)
	delete(e.store.Labels, id)
	e.store.Mu.Unlock()

	if err := e.persistStore(); err != nil {
		e.logger.Warn("failed to persist document store", zap.Error(err))
	}
	e.logger.Info("document deleted", zap.String("document_id", id))
	return nil
}

// ListDocuments returns all registered document IDs, sorted.
func (e *Engine) ListDocuments() []string {
	e.store.Mu.RLock()
	defer e.store.Mu.RUnlock()

	ids := make([]string, 0, len(e.store.Docs))
	for id := range e.store.Docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetLabels returns the label map for a document, computing and persisting
// it on first access.
func (e *Engine) GetLabels(id string) (model.LabelMap, error) {
	e.store.Mu.RLock()
	doc, exists := e.store.Docs[id]
	if !exists {
		e.store.Mu.RUnlock()
		return nil, internalErrors.NewDocumentNotFoundError(id)
	}
	if labels, computed := e.store.Labels[id]; computed {
		e.store.Mu.RUnlock()
		return labels, nil
	}
	e.store.Mu.RUnlock()

	labels := e.correlator.Correlate(doc.Text, doc.Detections)

	e.store.Mu.Lock()
	e.store.Labels[id] = labels
	e.store.Mu.Unlock()

	if err := e.persistStore(); err != nil {
		e.logger.Warn("failed to persist labels", zap.String("document_id", id), zap.Error(err))
	}
	return labels, nil
}

// GetJob returns the state of a background job.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// JobMetrics returns a snapshot of background job metrics.
func (e *Engine) JobMetrics() jobs.MetricsData {
	return e.jobManager.GetMetrics()
}

func (e *Engine) persistStore() error {
	return persistence.SaveGob(filepath.Join(e.dataDir, documentStoreFile), e.store)
}
