package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"path"

	"github.com/univent/univent/internal/config"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// ErrStorageUnavailable marks an upload that kept failing after the retry.
var ErrStorageUnavailable = errors.New("attachment storage unavailable")

// Store uploads event attachments to external object storage and returns a
// publicly reachable URL.
type Store interface {
	Upload(ctx context.Context, name, contentType string, content []byte) (string, error)
}

// GCSStore stores attachments in a Google Cloud Storage bucket.
type GCSStore struct {
	service *storage.Service
	bucket  string
	folder  string
}

func NewGCSStore(ctx context.Context, cfg config.Storage) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	service, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{service: service, bucket: cfg.Bucket, folder: cfg.Folder}, nil
}

func (s *GCSStore) Upload(ctx context.Context, name, contentType string, content []byte) (string, error) {
	objectName := path.Join(s.folder, name)
	object := &storage.Object{Name: objectName}
	_, err := s.service.Objects.
		Insert(s.bucket, object).
		Media(bytes.NewReader(content), googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}

// IsTimeout reports whether the upload failure is timeout-class and therefore
// worth a single retry.
func IsTimeout(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 504 || apiErr.Code == 408
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
