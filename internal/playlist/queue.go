// Package playlist manages the study timer's audio queue.
package playlist

import "github.com/asteroid-belt/studydeck/internal/models"

// Queue is an ordered track list with a current position.
type Queue struct {
	tracks []models.AudioAsset
	index  int
}

// NewQueue returns a queue positioned at the first track.
func NewQueue(tracks []models.AudioAsset) *Queue {
	return &Queue{tracks: append([]models.AudioAsset(nil), tracks...)}
}

// Tracks returns the tracks in queue order.
func (q *Queue) Tracks() []models.AudioAsset { return q.tracks }

// Len returns the number of tracks.
func (q *Queue) Len() int { return len(q.tracks) }

// Index returns the current position.
func (q *Queue) Index() int { return q.index }

// Current returns the current track, or false when the queue is empty.
func (q *Queue) Current() (models.AudioAsset, bool) {
	if q.index < 0 || q.index >= len(q.tracks) {
		return models.AudioAsset{}, false
	}
	return q.tracks[q.index], true
}

// Next advances, wrapping to the first track.
func (q *Queue) Next() {
	if len(q.tracks) == 0 {
		return
	}
	q.index = (q.index + 1) % len(q.tracks)
}

// Prev steps back, wrapping to the last track.
func (q *Queue) Prev() {
	if len(q.tracks) == 0 {
		return
	}
	q.index = (q.index - 1 + len(q.tracks)) % len(q.tracks)
}

// Select moves to position i if it is in range.
func (q *Queue) Select(i int) bool {
	if i < 0 || i >= len(q.tracks) {
		return false
	}
	q.index = i
	return true
}

// Prepend adds a track at the front. The current position is unchanged.
func (q *Queue) Prepend(a models.AudioAsset) {
	q.tracks = append([]models.AudioAsset{a}, q.tracks...)
}

// Find returns the track with id.
func (q *Queue) Find(id string) (models.AudioAsset, bool) {
	for _, t := range q.tracks {
		if t.ID == id {
			return t, true
		}
	}
	return models.AudioAsset{}, false
}

// Remove drops the track with id. The position resets to the first track
// when it was at or past the old last position; otherwise it is kept.
func (q *Queue) Remove(id string) bool {
	oldLen := len(q.tracks)
	for i, t := range q.tracks {
		if t.ID != id {
			continue
		}
		q.tracks = append(q.tracks[:i:i], q.tracks[i+1:]...)
		if q.index >= oldLen-1 {
			q.index = 0
		}
		return true
	}
	return false
}
