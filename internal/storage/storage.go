// Package storage stores uploaded blobs (playlist audio and tutor images).
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Bucket is a flat key/value blob store with public URLs.
type Bucket interface {
	Name() string
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Remove(ctx context.Context, keys ...string) error
	PublicURL(key string) string
}

// ObjectKey returns the key for a new upload: "{user}/{unixMillis}-{filename}".
func ObjectKey(userID string, now time.Time, filename string) string {
	return fmt.Sprintf("%s/%d-%s", userID, now.UnixMilli(), path.Base(filepath.ToSlash(filename)))
}

// KeyFromURL recovers an object key from its public URL. Only the last path
// segment is used, prefixed with the owning user.
func KeyFromURL(userID, publicURL string) string {
	p := publicURL
	if u, err := url.Parse(publicURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	seg := p[strings.LastIndex(p, "/")+1:]
	if unescaped, err := url.PathUnescape(seg); err == nil {
		seg = unescaped
	}
	return userID + "/" + seg
}

// ContentTypeFor guesses a MIME type from a file name. An unknown extension
// yields "application/octet-stream".
func ContentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".opus":
		return "audio/opus"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".aac":
		return "audio/aac"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
