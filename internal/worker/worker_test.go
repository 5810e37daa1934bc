package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/careerforge/backend/pkg/queue"
)

type mockBlobDeleter struct {
	err     error
	deleted []string
}

func (d *mockBlobDeleter) DeleteObject(_ context.Context, key string) error {
	if d.err != nil {
		return d.err
	}
	d.deleted = append(d.deleted, key)
	return nil
}

func cleanupJob(t *testing.T, key string) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(queue.AssetCleanupPayload{Key: key, CompanySlug: "acme", Kind: "logo"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &queue.Job{ID: "job-1", Type: queue.JobTypeAssetCleanup, Payload: payload}
}

func TestProcess_DeletesBlob(t *testing.T) {
	blobs := &mockBlobDeleter{}
	p := NewCleanupProcessor(nil, blobs, nil)

	p.process(context.Background(), cleanupJob(t, "companies/acme/logos/1-logo.png"))
	if len(blobs.deleted) != 1 || blobs.deleted[0] != "companies/acme/logos/1-logo.png" {
		t.Fatalf("unexpected deletions %v", blobs.deleted)
	}
}

func TestProcess_MissingObjectIsSuccess(t *testing.T) {
	blobs := &mockBlobDeleter{err: errors.New("operation error S3: DeleteObject, NoSuchKey")}
	p := NewCleanupProcessor(nil, blobs, nil)

	// A missing blob means the work is already done; no retry is attempted
	// (a retry would need the queue, which is absent here).
	p.process(context.Background(), cleanupJob(t, "companies/acme/logos/gone.png"))
}

func TestProcess_DropsInvalidPayload(t *testing.T) {
	blobs := &mockBlobDeleter{}
	p := NewCleanupProcessor(nil, blobs, nil)

	p.process(context.Background(), &queue.Job{ID: "bad", Payload: json.RawMessage(`{`)})
	p.process(context.Background(), cleanupJob(t, ""))
	if len(blobs.deleted) != 0 {
		t.Fatalf("nothing should be deleted, got %v", blobs.deleted)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(errors.New("api error NoSuchKey: the key does not exist")) {
		t.Fatal("NoSuchKey should count as not found")
	}
	if !isNotFound(errors.New("StatusCode: 404, NotFound")) {
		t.Fatal("NotFound should count as not found")
	}
	if isNotFound(errors.New("AccessDenied")) {
		t.Fatal("AccessDenied is a real failure")
	}
}
