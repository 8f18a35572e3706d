package notes

import (
	"context"
	"strings"

	"github.com/asteroid-belt/studydeck/internal/log"
)

// LoadErrorContent is shown in place of a file that could not be fetched.
const LoadErrorContent = "Error loading file content"

// Source lists and fetches repository content. *Client satisfies it.
type Source interface {
	List(ctx context.Context, repo Repo, path string) ([]Entry, error)
	Fetch(ctx context.Context, downloadURL string) (string, error)
}

// Browser tracks navigation through one notes repository.
type Browser struct {
	source  Source
	repo    Repo
	hasRepo bool

	path    string
	entries []Entry
	file    *Entry
	content string
}

// NewBrowser creates a browser with no repository selected.
func NewBrowser(source Source) *Browser {
	return &Browser{source: source}
}

// SetRepo selects the repository named by rawURL and resets navigation.
func (b *Browser) SetRepo(rawURL string) error {
	repo, err := ParseRepoURL(rawURL)
	if err != nil {
		return err
	}
	b.repo = repo
	b.hasRepo = true
	b.path = ""
	b.entries = nil
	b.closeFile()
	return nil
}

// Repo returns the selected repository and whether one is set.
func (b *Browser) Repo() (Repo, bool) {
	return b.repo, b.hasRepo
}

// Path returns the current directory.
func (b *Browser) Path() string { return b.path }

// Entries returns the filtered listing of the current directory.
func (b *Browser) Entries() []Entry { return b.entries }

// File returns the open file, or nil when a directory is shown.
func (b *Browser) File() *Entry { return b.file }

// Content returns the raw text of the open file.
func (b *Browser) Content() string { return b.content }

// Load lists path. On failure the listing is empty and the error is returned.
func (b *Browser) Load(ctx context.Context, path string) error {
	if !b.hasRepo {
		return ErrInvalidRepoURL
	}
	path = strings.Trim(path, "/")
	entries, err := b.source.List(ctx, b.repo, path)
	if err != nil {
		log.Warnw("list notes failed", "op", "notes.list", "repo", b.repo.String(), "path", path, "error", err)
		b.entries = []Entry{}
		return err
	}
	b.entries = Filter(entries)
	b.path = path
	b.closeFile()
	return nil
}

// Open enters a directory or opens a file. A failed fetch still opens the
// file, with LoadErrorContent as its content, and returns the error.
func (b *Browser) Open(ctx context.Context, e Entry) error {
	if e.IsDir() {
		return b.Load(ctx, e.Path)
	}
	if e.DownloadURL == "" {
		return nil
	}
	entry := e
	b.file = &entry
	content, err := b.source.Fetch(ctx, e.DownloadURL)
	if err != nil {
		log.Warnw("fetch note failed", "op", "notes.fetch", "repo", b.repo.String(), "path", e.Path, "error", err)
		b.content = LoadErrorContent
		return err
	}
	b.content = content
	return nil
}

// Up closes the open file, or moves to the parent directory.
func (b *Browser) Up(ctx context.Context) error {
	if b.file != nil {
		b.closeFile()
		return nil
	}
	return b.Load(ctx, Parent(b.path))
}

func (b *Browser) closeFile() {
	b.file = nil
	b.content = ""
}
