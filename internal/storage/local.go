package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalBucket keeps objects in a directory tree, one directory per bucket.
type LocalBucket struct {
	name string
	dir  string
}

// NewLocalBucket returns a bucket rooted at root/name.
func NewLocalBucket(root, name string) (*LocalBucket, error) {
	abs, err := filepath.Abs(filepath.Join(root, name))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create bucket directory: %w", err)
	}
	return &LocalBucket{name: name, dir: abs}, nil
}

// Name returns the bucket name.
func (b *LocalBucket) Name() string { return b.name }

func (b *LocalBucket) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(key, "/")))
	if clean == "." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(b.dir, clean), nil
}

// Upload writes r to key.
func (b *LocalBucket) Upload(ctx context.Context, key string, r io.Reader, _ string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("write object %q: %w", key, err)
	}
	return f.Close()
}

// Remove deletes each key. Missing objects are not an error.
func (b *LocalBucket) Remove(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		p, err := b.path(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublicURL returns a file:// URL for key.
func (b *LocalBucket) PublicURL(key string) string {
	p, err := b.path(key)
	if err != nil {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String()
}

// IsRemoteURL reports whether u can be fetched by a remote service: an http(s)
// or data URL.
func IsRemoteURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "data:")
}

// InlineURL reads the object behind a file:// URL from PublicURL and returns
// it as a base64 data URL.
func InlineURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a local object url: %s", fileURL)
	}
	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	if err != nil {
		return "", fmt.Errorf("read object: %w", err)
	}
	return "data:" + ContentTypeFor(u.Path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
