package music

import (
	"iter"
	"math/rand/v2"
)

// Queue is an ordered list of pending tracks for one guild. Insertion
// order is play order; the front of the queue plays next.
//
// Queue performs no locking of its own. A Queue belongs to exactly one
// Session, which serializes every access behind the per-guild lock.
type Queue struct {
	tracks []Track
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// Enqueue appends a track to the tail of the queue and returns its
// 1-based position. No size limit is enforced.
func (q *Queue) Enqueue(t Track) int {
	q.tracks = append(q.tracks, t)
	return len(q.tracks)
}

// EnqueueFront inserts a track at the head of the queue, so it plays
// before everything already queued.
func (q *Queue) EnqueueFront(t Track) {
	q.tracks = append([]Track{t}, q.tracks...)
}

// DequeueFront removes and returns the head of the queue. The second
// return value is false when the queue is empty.
func (q *Queue) DequeueFront() (Track, bool) {
	if len(q.tracks) == 0 {
		return Track{}, false
	}
	head := q.tracks[0]
	q.tracks = q.tracks[1:]
	return head, true
}

// RemoveAt removes and returns the track at the given 1-based index.
// Returns ErrIndexOutOfRange when index < 1 or index > Len().
func (q *Queue) RemoveAt(index int) (Track, error) {
	if index < 1 || index > len(q.tracks) {
		return Track{}, ErrIndexOutOfRange
	}
	removed := q.tracks[index-1]
	q.tracks = append(q.tracks[:index-1], q.tracks[index:]...)
	return removed, nil
}

// Shuffle produces a uniformly random permutation of the queue.
// Returns ErrInsufficientItems, leaving the queue unchanged, when fewer
// than two tracks are queued.
func (q *Queue) Shuffle() error {
	if len(q.tracks) < 2 {
		return ErrInsufficientItems
	}
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
	return nil
}

// Clear empties the queue. Clearing an empty queue is a no-op.
func (q *Queue) Clear() {
	q.tracks = nil
}

// Preview returns a lazy, finite, restartable sequence of up to limit
// tracks from the head of the queue, plus the count of remaining tracks
// beyond the limit. A limit below zero previews the whole queue.
//
// The sequence reads the live queue; it must be consumed before the
// queue is mutated again.
func (q *Queue) Preview(limit int) (iter.Seq[Track], int) {
	n := len(q.tracks)
	if limit < 0 || limit > n {
		limit = n
	}
	seq := func(yield func(Track) bool) {
		for i := 0; i < limit && i < len(q.tracks); i++ {
			if !yield(q.tracks[i]) {
				return
			}
		}
	}
	return seq, n - limit
}

// Snapshot returns a copy of the queued tracks in play order. Mutating
// the returned slice does not affect the queue.
func (q *Queue) Snapshot() []Track {
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Append adds the given tracks to the tail of the queue in order,
// keeping whatever is already queued.
func (q *Queue) Append(tracks []Track) {
	q.tracks = append(q.tracks, tracks...)
}
