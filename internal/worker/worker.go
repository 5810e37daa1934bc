// Package worker runs the background asset-cleanup sweep: blob deletions
// deferred by the asset handlers are consumed from the queue and retried
// until they succeed or land in the DLQ.
package worker

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/careerforge/backend/pkg/queue"
)

// BlobDeleter removes one object from the blob store.
type BlobDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// CleanupProcessor consumes asset cleanup jobs.
type CleanupProcessor struct {
	queue  *queue.Queue
	blobs  BlobDeleter
	logger *zap.Logger
}

// NewCleanupProcessor creates the processor.
func NewCleanupProcessor(q *queue.Queue, blobs BlobDeleter, logger *zap.Logger) *CleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupProcessor{queue: q, blobs: blobs, logger: logger}
}

// Run consumes jobs until ctx is cancelled.
func (p *CleanupProcessor) Run(ctx context.Context) {
	p.logger.Info("asset cleanup worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("asset cleanup worker stopped")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}
		p.process(ctx, job)
	}
}

func (p *CleanupProcessor) process(ctx context.Context, job *queue.Job) {
	var payload queue.AssetCleanupPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		p.logger.Warn("invalid cleanup payload, dropping", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if payload.Key == "" {
		return
	}

	err := p.blobs.DeleteObject(ctx, payload.Key)
	if err != nil && !isNotFound(err) {
		p.logger.Warn("blob delete failed",
			zap.String("job_id", job.ID),
			zap.String("key", payload.Key),
			zap.Error(err),
		)
		_ = p.queue.Retry(ctx, job)
		return
	}
	p.logger.Info("blob removed",
		zap.String("key", payload.Key),
		zap.String("company", payload.CompanySlug),
		zap.String("kind", payload.Kind),
	)
}

// isNotFound treats a missing object as already cleaned up.
func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "NoSuchKey") || strings.Contains(msg, "NotFound")
}
