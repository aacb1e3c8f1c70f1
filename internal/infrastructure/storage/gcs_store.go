package storage

import (
	"bytes"
	"client_portal/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

const (
	defaultPublicHost = "https://storage.googleapis.com/"
	uploadAttempts    = 4
	uploadTimeout     = 50 * time.Second
)

// GCSStore keeps documents in a Cloud Storage bucket. Objects are written
// once; a path that already exists is left untouched.
type GCSStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
	publicBase string
	backoff    time.Duration
}

var _ interfaces.IDocumentStore = (*GCSStore)(nil)

// NewGCSStore builds a store on bucket. publicBase is the URL prefix returned
// by Put; it defaults to the public storage.googleapis.com address.
func NewGCSStore(client *gcs.Client, bucket, publicBase string) *GCSStore {
	if publicBase == "" {
		publicBase = defaultPublicHost + bucket + "/"
	}
	if !strings.HasSuffix(publicBase, "/") {
		publicBase += "/"
	}
	return &GCSStore{
		bucket:     client.Bucket(bucket),
		bucketName: bucket,
		publicBase: publicBase,
		backoff:    time.Second,
	}
}

func (s *GCSStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	path = strings.TrimPrefix(path, "/")
	backoff := s.backoff
	var lastErr error
	for i := 0; i < uploadAttempts; i++ {
		err := s.write(ctx, path, data)
		if err == nil {
			return s.publicBase + path, nil
		}
		lastErr = err
		log.Printf("[storage][gcs] upload failed object=%s attempt=%d/%d backoff=%s err=%v", path, i+1, uploadAttempts, backoff, err)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("upload %s failed after %d attempts: %w", path, uploadAttempts, lastErr)
}

func (s *GCSStore) write(ctx context.Context, path string, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.bucket.Object(path).If(gcs.Conditions{DoesNotExist: true}).NewWriter(writeCtx)
	w.ContentType = "application/pdf"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		if alreadyExists(err) {
			return nil
		}
		return fmt.Errorf("copy to object: %w", err)
	}
	if err := w.Close(); err != nil {
		if alreadyExists(err) {
			log.Printf("[storage][gcs] object already exists, keeping it object=%s", path)
			return nil
		}
		return fmt.Errorf("finalize object: %w", err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, url string) ([]byte, error) {
	object, err := s.objectName(url)
	if err != nil {
		return nil, err
	}
	r, err := s.bucket.Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrDocumentNotFound, url)
		}
		return nil, fmt.Errorf("open object %s: %w", object, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// objectName maps a URL handed out by Put, or a gs:// URL on the same
// bucket, back to the object name.
func (s *GCSStore) objectName(url string) (string, error) {
	if rest, ok := strings.CutPrefix(url, s.publicBase); ok && rest != "" {
		return rest, nil
	}
	if rest, ok := strings.CutPrefix(url, "gs://"+s.bucketName+"/"); ok && rest != "" {
		return rest, nil
	}
	return "", fmt.Errorf("%w: %s is not in bucket %s", interfaces.ErrDocumentNotFound, url, s.bucketName)
}

func alreadyExists(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
