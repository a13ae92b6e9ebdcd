// Package snapshot archives calculation results to MinIO S3-compatible storage.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"sales_quotation_backend/internal/quotations/pricing"
	"sales_quotation_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const contentTypeJSON = "application/json"

// objectStore is the subset of *minio.Client the archive needs.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archive writes one JSON document per calculation run.
type Archive struct {
	client objectStore
	bucket string
}

// document is the archived form of a calculation run.
type document struct {
	ArchivedAt time.Time       `json:"archived_at"`
	Result     *pricing.Result `json:"result"`
}

// NewArchive creates a MinIO-backed archive. It returns nil, nil when MinIO is not configured.
func NewArchive(cfg config.MinIOConfig) (*Archive, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return newArchive(client, cfg.GetMinioBucketCalculationSnapshots()), nil
}

func newArchive(client objectStore, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// EnsureBucket creates the snapshot bucket if it doesn't exist.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}
	return nil
}

// ObjectKey is where the snapshot of one run is stored.
func ObjectKey(quotationID int64, runID string) string {
	return fmt.Sprintf("%d/%s.json", quotationID, runID)
}

// Save uploads res and returns its object key.
func (a *Archive) Save(ctx context.Context, res *pricing.Result) (string, error) {
	body, err := json.Marshal(document{ArchivedAt: time.Now().UTC(), Result: res})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := ObjectKey(res.QuotationID, res.RunID)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentTypeJSON,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return key, nil
}
