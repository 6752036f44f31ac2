package engine

import (
	"context"

	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-numeral-engine/internal/errors"
	"github.com/gcbaptista/go-numeral-engine/model"
)

// CorrelateAsync computes the label map for a registered document in the
// background and returns the job ID for polling.
func (e *Engine) CorrelateAsync(documentID string) (string, error) {
	e.store.Mu.RLock()
	_, exists := e.store.Docs[documentID]
	e.store.Mu.RUnlock()
	if !exists {
		return "", internalErrors.NewDocumentNotFoundError(documentID)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeCorrelate, documentID, nil)
	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.runCorrelateJob(ctx, job)
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// DeleteDocumentAsync removes a document and its labels in the background
// and returns the job ID for polling.
func (e *Engine) DeleteDocumentAsync(documentID string) (string, error) {
	e.store.Mu.RLock()
	_, exists := e.store.Docs[documentID]
	e.store.Mu.RUnlock()
	if !exists {
		return "", internalErrors.NewDocumentNotFoundError(documentID)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeDeleteDocument, documentID, nil)
	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.runDeleteDocumentJob(ctx, job)
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

func (e *Engine) runDeleteDocumentJob(ctx context.Context, job *model.Job) error {
	e.jobManager.UpdateJobProgress(job.ID, 0, 2, "deleting document")

	if err := ctx.Err(); err != nil {
		return err
	}

	e.store.Mu.Lock()
	if _, exists := e.store.Docs[job.DocumentID]; !exists {
		e.store.Mu.Unlock()
		// The document was deleted after the job was queued.
		return internalErrors.NewDocumentNotFoundError(job.DocumentID)
	}
	delete(e.store.Docs, job.DocumentID)
	delete(e.store.Labels, job.DocumentID)
	e.store.Mu.Unlock()

	e.jobManager.UpdateJobProgress(job.ID, 1, 2, "persisting store")
	if err := e.persistStore(); err != nil {
		e.logger.Warn("failed to persist document store",
			zap.String("document_id", job.DocumentID), zap.Error(err))
	}
	e.logger.Info("document deleted", zap.String("document_id", job.DocumentID))

	e.jobManager.UpdateJobProgress(job.ID, 2, 2, "done")
	return nil
}

func (e *Engine) runCorrelateJob(ctx context.Context, job *model.Job) error {
	e.jobManager.UpdateJobProgress(job.ID, 0, 2, "loading document")

	e.store.Mu.RLock()
	doc, exists := e.store.Docs[job.DocumentID]
	e.store.Mu.RUnlock()
	if !exists {
		// The document was deleted after the job was queued.
		return internalErrors.NewDocumentNotFoundError(job.DocumentID)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	e.jobManager.UpdateJobProgress(job.ID, 1, 2, "correlating detections with text")
	labels := e.correlator.Correlate(doc.Text, doc.Detections)

	e.store.Mu.Lock()
	e.store.Labels[job.DocumentID] = labels
	e.store.Mu.Unlock()

	if err := e.persistStore(); err != nil {
		e.logger.Warn("failed to persist labels",
			zap.String("document_id", job.DocumentID), zap.Error(err))
	}

	e.jobManager.UpdateJobProgress(job.ID, 2, 2, "done")
	return nil
}
