package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/asteroid-belt/studydeck/internal/config"
)

// Buckets groups the two logical buckets the application writes to.
type Buckets struct {
	Audio  Bucket
	Images Bucket

	client *storage.Client
}

// Open builds the buckets for the configured backend.
func Open(ctx context.Context, cfg *config.Config) (*Buckets, error) {
	switch cfg.Storage.Backend {
	case config.StorageGCS:
		client, err := NewGCSClient(ctx)
		if err != nil {
			return nil, err
		}
		return &Buckets{
			Audio:  NewGCSBucket(client, cfg.Storage.AudioBucket, cfg.Storage.PublicBaseURL),
			Images: NewGCSBucket(client, cfg.Storage.ImageBucket, cfg.Storage.PublicBaseURL),
			client: client,
		}, nil
	case config.StorageLocal, "":
		root := config.GetPaths(cfg).LocalStorage
		audio, err := NewLocalBucket(root, cfg.Storage.AudioBucket)
		if err != nil {
			return nil, err
		}
		images, err := NewLocalBucket(root, cfg.Storage.ImageBucket)
		if err != nil {
			return nil, err
		}
		return &Buckets{Audio: audio, Images: images}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases the GCS client, if any.
func (b *Buckets) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
