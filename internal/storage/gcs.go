package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSBucket stores objects in a Google Cloud Storage bucket.
type GCSBucket struct {
	client        *storage.Client
	name          string
	publicBaseURL string
}

// NewGCSClient creates a storage client with read/write scope using
// application default credentials.
func NewGCSClient(ctx context.Context, opts ...option.ClientOption) (*storage.Client, error) {
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return client, nil
}

// NewGCSBucket wraps the named bucket. publicBaseURL replaces
// https://storage.googleapis.com when set.
func NewGCSBucket(client *storage.Client, name, publicBaseURL string) *GCSBucket {
	return &GCSBucket{
		client:        client,
		name:          name,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

// Name returns the bucket name.
func (b *GCSBucket) Name() string { return b.name }

// Upload writes r to key.
func (b *GCSBucket) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.name).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %q: %w", key, err)
	}
	return nil
}

// Remove deletes each key. Missing objects are not an error.
func (b *GCSBucket) Remove(ctx context.Context, keys ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var errs []error
	for _, key := range keys {
		err := b.client.Bucket(b.name).Object(key).Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			errs = append(errs, fmt.Errorf("delete object %q in bucket %q: %w", key, b.name, err))
		}
	}
	return errors.Join(errs...)
}

// PublicURL returns the URL a player or browser can fetch key from.
func (b *GCSBucket) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if b.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", b.publicBaseURL, b.name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.name, key)
}
