package playlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/mutation"
	"github.com/asteroid-belt/studydeck/internal/storage"
)

// ErrNotAudio is returned for uploads whose type is not audio/*.
var ErrNotAudio = errors.New("not an audio file")

// AudioStore persists playlist rows. *db.DB satisfies it.
type AudioStore interface {
	ListAudio(ctx context.Context, userID string) ([]models.AudioAsset, error)
	CreateAudio(ctx context.Context, a *models.AudioAsset) error
	DeleteAudio(ctx context.Context, userID, id string) error
}

// Library keeps a user's uploaded tracks in sync with storage and the store.
type Library struct {
	store  AudioStore
	bucket storage.Bucket
	queue  *Queue
	now    func() time.Time
}

// NewLibrary creates an empty library.
func NewLibrary(store AudioStore, bucket storage.Bucket) *Library {
	return &Library{
		store:  store,
		bucket: bucket,
		queue:  NewQueue(nil),
		now:    time.Now,
	}
}

// Queue returns the play queue.
func (l *Library) Queue() *Queue { return l.queue }

// Load replaces the queue with the stored tracks, newest first.
func (l *Library) Load(ctx context.Context, userID string) error {
	rows, err := l.store.ListAudio(ctx, userID)
	if err != nil {
		log.Warnw("list audio failed", "op", "playlist.load", "user", userID, "error", err)
		l.queue = NewQueue(nil)
		return fmt.Errorf("list audio: %w", err)
	}
	l.queue = NewQueue(rows)
	return nil
}

// Upload stores an audio file and prepends it to the queue. Non-audio files
// are rejected with ErrNotAudio before anything is written.
func (l *Library) Upload(ctx context.Context, userID, filename string, r io.Reader, size int64) (*models.AudioAsset, error) {
	contentType := storage.ContentTypeFor(filename)
	if !strings.HasPrefix(contentType, "audio/") {
		return nil, fmt.Errorf("%s: %w", filename, ErrNotAudio)
	}

	key := storage.ObjectKey(userID, l.now(), filename)
	if err := l.bucket.Upload(ctx, key, r, contentType); err != nil {
		log.Warnw("audio upload failed", "op", "playlist.upload", "user", userID, "key", key, "error", err)
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	asset := &models.AudioAsset{
		UserID:    userID,
		Name:      baseName(filename),
		FileURL:   l.bucket.PublicURL(key),
		ObjectKey: key,
		FileSize:  size,
		MimeType:  contentType,
	}
	if err := l.store.CreateAudio(ctx, asset); err != nil {
		log.Warnw("audio insert failed", "op", "playlist.upload", "user", userID, "key", key, "error", err)
		return nil, fmt.Errorf("save audio: %w", err)
	}

	l.queue.Prepend(*asset)
	return asset, nil
}

// Remove deletes a track's blob, best effort, then its row. The track leaves
// the queue either way; a failed row delete is reported as LocalOnly.
func (l *Library) Remove(ctx context.Context, userID, id string) mutation.Result {
	asset, ok := l.queue.Find(id)
	if !ok {
		return mutation.Failed(mutation.Unchanged, fmt.Errorf("track %s is not in the playlist", id))
	}

	key := asset.ObjectKey
	if key == "" {
		key = storage.KeyFromURL(userID, asset.FileURL)
	}
	if err := l.bucket.Remove(ctx, key); err != nil {
		log.Warnw("audio blob delete failed", "op", "playlist.remove", "user", userID, "key", key, "error", err)
	}

	l.queue.Remove(id)
	if err := l.store.DeleteAudio(ctx, userID, id); err != nil {
		log.Warnw("audio delete failed", "op", "playlist.remove", "user", userID, "id", id, "error", err)
		return mutation.Failed(mutation.LocalOnly, fmt.Errorf("delete audio: %w", err))
	}
	return mutation.OK()
}

func baseName(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	return filename[strings.LastIndex(filename, "/")+1:]
}
