// Package notes browses a read-only notes repository on GitHub.
package notes

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidRepoURL is returned for URLs that do not name a GitHub repository.
var ErrInvalidRepoURL = errors.New("invalid GitHub URL")

var repoPattern = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/?#]+)`)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

// String returns owner/name.
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the canonical https URL of the repository.
func (r Repo) URL() string {
	return "https://github.com/" + r.String()
}

// ParseRepoURL extracts the repository from a github.com URL. A trailing .git
// and any path after the repository name are ignored.
func ParseRepoURL(raw string) (Repo, error) {
	m := repoPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Repo{}, ErrInvalidRepoURL
	}
	name := strings.TrimSuffix(m[2], ".git")
	if m[1] == "" || name == "" {
		return Repo{}, ErrInvalidRepoURL
	}
	return Repo{Owner: m[1], Name: name}, nil
}

// Entry types reported by the contents API.
const (
	TypeDir  = "dir"
	TypeFile = "file"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name        string
	Path        string
	Type        string
	Size        int
	DownloadURL string
	HTMLURL     string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == TypeDir
}

// Filter keeps directories and markdown or text files, preserving order.
func Filter(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name, ".md") || strings.HasSuffix(e.Name, ".txt") {
			out = append(out, e)
		}
	}
	return out
}

// Parent returns the directory containing path. The root's parent is the root.
func Parent(path string) string {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}
