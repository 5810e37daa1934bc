// Package assets implements logo and banner management: uploads land in the
// blob store under the company's namespace and the public URL is merged into
// branding; deletes null the branding field and hand blob removal to the
// background sweep.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/careerforge/backend/internal/companies"
	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/pkg/apperr"
	"github.com/careerforge/backend/pkg/queue"
	"github.com/careerforge/backend/pkg/storage"
)

// Asset kinds; also the branding keys the handlers touch.
const (
	KindLogo   = "logo"
	KindBanner = "banner"
)

// BlobStore is the storage surface asset handlers need.
type BlobStore interface {
	Bucket() string
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
	KeyFromURL(url string) (string, bool)
}

// CleanupEnqueuer schedules background blob removal.
type CleanupEnqueuer interface {
	EnqueueAssetCleanup(ctx context.Context, payload queue.AssetCleanupPayload) error
}

// Handler implements the asset steps.
type Handler struct {
	store   companies.Store
	guard   *companies.Guard
	blobs   BlobStore
	cleanup CleanupEnqueuer
	logger  *zap.Logger
}

// NewHandler creates an asset handler. blobs may be nil when storage is not
// configured; asset steps then fail with StorageMisconfigured.
func NewHandler(store companies.Store, guard *companies.Guard, blobs BlobStore, cleanup CleanupEnqueuer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, guard: guard, blobs: blobs, cleanup: cleanup, logger: logger}
}

// UploadLogo implements UPLOAD_LOGO.
func (h *Handler) UploadLogo(ctx context.Context, req *event.Request) (any, error) {
	return h.upload(ctx, req, KindLogo)
}

// UploadBanner implements UPLOAD_BANNER.
func (h *Handler) UploadBanner(ctx context.Context, req *event.Request) (any, error) {
	return h.upload(ctx, req, KindBanner)
}

// DeleteLogo implements DELETE_LOGO.
func (h *Handler) DeleteLogo(ctx context.Context, req *event.Request) (any, error) {
	return h.delete(ctx, req, KindLogo)
}

// DeleteBanner implements DELETE_BANNER.
func (h *Handler) DeleteBanner(ctx context.Context, req *event.Request) (any, error) {
	return h.delete(ctx, req, KindBanner)
}

type uploadPayload struct {
	Slug        string `json:"slug"`
	File        string `json:"file"` // raw base64 or data: URL
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

func (h *Handler) upload(ctx context.Context, req *event.Request, kind string) (any, error) {
	if h.blobs == nil || h.blobs.Bucket() == "" {
		return nil, apperr.StorageMisconfigured("assets bucket is not configured; set AWS_S3_ASSETS_BUCKET")
	}
	var p uploadPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		return nil, apperr.Validation("slug is required")
	}
	if p.File == "" {
		return nil, apperr.Validation("file is required")
	}

	company, err := h.guard.CheckSlug(ctx, p.Slug, req.Identity)
	if err != nil {
		return nil, err
	}

	data, contentType, err := decodeFile(p.File, p.ContentType, p.Filename)
	if err != nil {
		return nil, err
	}
	if len(data) > storage.MaxAssetFileSize {
		return nil, apperr.Validation("file exceeds the 5MB limit")
	}
	ext, ok := storage.ExtensionForContentType(contentType)
	if !ok {
		return nil, apperr.Validation("unsupported file type: " + contentType)
	}

	key := storage.AssetKey(company.Slug, kind, ext)
	url, err := h.blobs.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, classifyStorageError(err)
	}

	branding, err := mergeBrandingField(company.Branding, kind, url)
	if err != nil {
		return nil, apperr.Upstream("failed to merge branding", err)
	}
	updated, err := h.store.Update(ctx, company.ID, companies.UpdateFields{Branding: branding})
	if err != nil {
		return nil, apperr.Upstream("failed to save branding", err)
	}
	h.logger.Info("asset uploaded",
		zap.String("company", company.Slug),
		zap.String("kind", kind),
		zap.String("key", key),
	)
	return map[string]any{"url": url, "company": updated}, nil
}

type deleteAssetPayload struct {
	Slug string `json:"slug"`
}

func (h *Handler) delete(ctx context.Context, req *event.Request, kind string) (any, error) {
	var p deleteAssetPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		return nil, apperr.Validation("slug is required")
	}

	company, err := h.guard.CheckSlug(ctx, p.Slug, req.Identity)
	if err != nil {
		return nil, err
	}

	currentURL := brandingField(company.Branding, kind)

	branding, err := mergeBrandingField(company.Branding, kind, nil)
	if err != nil {
		return nil, apperr.Upstream("failed to merge branding", err)
	}
	updated, err := h.store.Update(ctx, company.ID, companies.UpdateFields{Branding: branding})
	if err != nil {
		return nil, apperr.Upstream("failed to save branding", err)
	}

	// Blob removal happens in the background sweep; a storage problem never
	// fails this request.
	if currentURL != "" && h.blobs != nil && h.cleanup != nil {
		if key, ok := h.blobs.KeyFromURL(currentURL); ok {
			if err := h.cleanup.EnqueueAssetCleanup(ctx, queue.AssetCleanupPayload{
				Key:         key,
				CompanySlug: company.Slug,
				Kind:        kind,
			}); err != nil {
				h.logger.Warn("failed to enqueue asset cleanup",
					zap.String("key", key), zap.Error(err))
			}
		} else {
			h.logger.Warn("could not derive storage key from URL", zap.String("url", currentURL))
		}
	}
	return map[string]any{"company": updated}, nil
}

// decodeFile turns the payload's file string into raw bytes. Accepts a data:
// URL (content type taken from the URL) or plain base64 (content type from
// the payload or the filename extension).
func decodeFile(file, contentType, filename string) ([]byte, string, error) {
	if strings.HasPrefix(file, "data:") {
		rest := strings.TrimPrefix(file, "data:")
		semi := strings.Index(rest, ";base64,")
		if semi < 0 {
			return nil, "", apperr.Validation("malformed data URL")
		}
		ct := rest[:semi]
		data, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
		if err != nil {
			return nil, "", apperr.Validation("invalid base64 data")
		}
		return data, ct, nil
	}
	data, err := base64.StdEncoding.DecodeString(file)
	if err != nil {
		return nil, "", apperr.Validation("invalid base64 data")
	}
	if contentType == "" {
		contentType = contentTypeForFilename(filename)
	}
	return data, contentType, nil
}

func contentTypeForFilename(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	switch strings.ToLower(filename[idx:]) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return ""
	}
}

// mergeBrandingField sets a single key in the branding object, preserving
// everything else. value nil clears the field.
func mergeBrandingField(branding json.RawMessage, key string, value any) (json.RawMessage, error) {
	m := map[string]any{}
	if len(branding) > 0 {
		if err := json.Unmarshal(branding, &m); err != nil {
			return nil, err
		}
	}
	m[key] = value
	return json.Marshal(m)
}

// brandingField reads a string field out of the branding object.
func brandingField(branding json.RawMessage, key string) string {
	if len(branding) == 0 {
		return ""
	}
	m := map[string]any{}
	if err := json.Unmarshal(branding, &m); err != nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// classifyStorageError distinguishes a misconfigured bucket and a gateway
// permission defect from generic upstream failures.
func classifyStorageError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchBucket"):
		return apperr.StorageMisconfigured("assets bucket does not exist; create it or fix AWS_S3_ASSETS_BUCKET")
	case strings.Contains(msg, "AccessDenied"):
		return apperr.Upstream("storage permission denied; check the bucket policy grants PutObject to this principal", err)
	default:
		return apperr.Upstream("failed to upload file", err)
	}
}
