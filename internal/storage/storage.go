package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/streamtube/backend/internal/config"
	"github.com/streamtube/backend/internal/logging"
	"github.com/streamtube/backend/internal/metrics"
)

// Storage provides object storage operations
type Storage struct {
	client        *minio.Client
	bucketName    string
	publicBaseURL string
	logger        *logging.Logger
}

// UploadResult identifies a stored object. StorageID is the object key
// used for later deletion; URL is what clients stream from.
type UploadResult struct {
	URL       string
	StorageID string
}

// New creates a new storage client
func New(cfg config.StorageConfig, logger *logging.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:        client,
		bucketName:    cfg.BucketName,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// observe records one blob store round trip in the metrics and the log
func (s *Storage) observe(operation, objectName string, start time.Time, err error) {
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordStorageOperation(operation, status, elapsed.Seconds())

	if s.logger != nil {
		s.logger.LogStorageOperation(operation, s.bucketName, objectName, elapsed, err)
	}
}

// Upload stores a stream under a fresh object key in the given folder
// (videos, thumbnails, avatars, covers) and returns where it landed.
func (s *Storage) Upload(ctx context.Context, folder, filename string, reader io.Reader, size int64) (*UploadResult, error) {
	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(filename))

	start := time.Now()
	_, err := s.client.PutObject(ctx, s.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: getContentType(filename),
	})
	s.observe("upload", objectName, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	return &UploadResult{
		URL:       s.objectURL(objectName),
		StorageID: objectName,
	}, nil
}

// Delete deletes an object from storage
func (s *Storage) Delete(ctx context.Context, objectName string) error {
	start := time.Now()
	err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
	s.observe("delete", objectName, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// objectURL builds the public URL clients fetch an object from
func (s *Storage) objectURL(objectName string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + objectName
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucketName, objectName)
}

// getContentType returns the content type based on file extension
func getContentType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".webm":
		return "video/webm"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
