package playlist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/mutation"
	"github.com/asteroid-belt/studydeck/internal/storage"
)

type memoryAudio struct {
	rows      []models.AudioAsset
	nextID    int
	createErr error
	deleteErr error
	listErr   error
}

func (m *memoryAudio) ListAudio(ctx context.Context, userID string) ([]models.AudioAsset, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.AudioAsset
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *memoryAudio) CreateAudio(ctx context.Context, a *models.AudioAsset) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	a.ID = fmt.Sprintf("track-%d", m.nextID)
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memoryAudio) DeleteAudio(ctx context.Context, userID, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, r := range m.rows {
		if r.ID == id && r.UserID == userID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	return nil
}

func newTestLibrary(t *testing.T) (*Library, *memoryAudio, string) {
	t.Helper()
	root := t.TempDir()
	bucket, err := storage.NewLocalBucket(root, "audio-files")
	require.NoError(t, err)

	store := &memoryAudio{}
	lib := NewLibrary(store, bucket)
	lib.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return lib, store, root
}

func TestLibrary_Upload(t *testing.T) {
	lib, store, root := newTestLibrary(t)
	ctx := context.Background()

	asset, err := lib.Upload(ctx, "u1", "/music/lofi.mp3", strings.NewReader("ID3"), 3)
	require.NoError(t, err)
	assert.Equal(t, "lofi.mp3", asset.Name)
	assert.Equal(t, "audio/mpeg", asset.MimeType)
	assert.Equal(t, "u1/1700000000000-lofi.mp3", asset.ObjectKey)
	assert.Equal(t, int64(3), asset.FileSize)
	assert.True(t, strings.HasPrefix(asset.FileURL, "file://"))

	data, err := os.ReadFile(filepath.Join(root, "audio-files", "u1", "1700000000000-lofi.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))

	require.Len(t, store.rows, 1)
	assert.Equal(t, 1, lib.Queue().Len())
}

func TestLibrary_UploadPrepends(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	ctx := context.Background()

	_, err := lib.Upload(ctx, "u1", "first.mp3", strings.NewReader("a"), 1)
	require.NoError(t, err)
	lib.now = func() time.Time { return time.UnixMilli(1700000001000) }
	_, err = lib.Upload(ctx, "u1", "second.ogg", strings.NewReader("b"), 1)
	require.NoError(t, err)

	assert.Equal(t, "second.ogg", lib.Queue().Tracks()[0].Name)
}

func TestLibrary_UploadRejectsNonAudio(t *testing.T) {
	lib, store, root := newTestLibrary(t)

	_, err := lib.Upload(context.Background(), "u1", "notes.pdf", strings.NewReader("%PDF"), 4)
	assert.ErrorIs(t, err, ErrNotAudio)
	assert.Empty(t, store.rows)

	_, statErr := os.Stat(filepath.Join(root, "audio-files", "u1"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLibrary_UploadRowFailure(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	store.createErr = errors.New("db down")

	_, err := lib.Upload(context.Background(), "u1", "a.mp3", strings.NewReader("a"), 1)
	require.Error(t, err)
	assert.Equal(t, 0, lib.Queue().Len())
}

func TestLibrary_Remove(t *testing.T) {
	lib, store, root := newTestLibrary(t)
	ctx := context.Background()

	asset, err := lib.Upload(ctx, "u1", "a.mp3", strings.NewReader("a"), 1)
	require.NoError(t, err)

	res := lib.Remove(ctx, "u1", asset.ID)
	assert.Equal(t, mutation.Committed, res.Outcome)
	assert.NoError(t, res.Err)
	assert.Empty(t, store.rows)
	assert.Equal(t, 0, lib.Queue().Len())

	_, statErr := os.Stat(filepath.Join(root, "audio-files", "u1", "1700000000000-a.mp3"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLibrary_RemoveRowFailureIsLocalOnly(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	ctx := context.Background()

	asset, err := lib.Upload(ctx, "u1", "a.mp3", strings.NewReader("a"), 1)
	require.NoError(t, err)

	store.deleteErr = errors.New("db down")
	res := lib.Remove(ctx, "u1", asset.ID)
	assert.Equal(t, mutation.LocalOnly, res.Outcome)
	assert.Error(t, res.Err)
	assert.True(t, res.Diverged())
	assert.Equal(t, 0, lib.Queue().Len())
	assert.Len(t, store.rows, 1)
}

func TestLibrary_RemoveUnknown(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	res := lib.Remove(context.Background(), "u1", "missing")
	assert.Equal(t, mutation.Unchanged, res.Outcome)
	assert.Error(t, res.Err)
}

func TestLibrary_Load(t *testing.T) {
	lib, store, _ := newTestLibrary(t)
	store.rows = []models.AudioAsset{
		{ID: "old", UserID: "u1"},
		{ID: "other", UserID: "u2"},
		{ID: "new", UserID: "u1"},
	}

	require.NoError(t, lib.Load(context.Background(), "u1"))
	require.Equal(t, 2, lib.Queue().Len())
	assert.Equal(t, "new", lib.Queue().Tracks()[0].ID)

	store.listErr = errors.New("db down")
	require.Error(t, lib.Load(context.Background(), "u1"))
	assert.Equal(t, 0, lib.Queue().Len())
}
