package music

import (
	"errors"
	"fmt"
)

// Common playback and queue errors.
var (
	// ErrIndexOutOfRange indicates a 1-based queue index outside [1, len].
	ErrIndexOutOfRange = errors.New("queue index out of range")

	// ErrInsufficientItems indicates an operation that needs at least two
	// queued tracks, such as shuffle.
	ErrInsufficientItems = errors.New("not enough tracks in queue")

	// ErrEmptyQueue indicates an operation that requires a non-empty queue.
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrPlaylistNotFound indicates no saved playlist exists under the
	// requested name for the guild.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNothingPlaying indicates a playback command that requires an
	// active track (pause, skip, stop).
	ErrNothingPlaying = errors.New("nothing is playing")

	// ErrNotPaused indicates resume was called while playback was not
	// paused.
	ErrNotPaused = errors.New("playback is not paused")
)

// PlaybackError wraps a failure reported by the audio output backend for
// a specific track. Playback errors never trigger a retry of the same
// track and never auto-advance the queue.
type PlaybackError struct {
	GuildID string
	Track   Track
	Err     error
}

// Error implements the error interface.
func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %q failed in guild %s: %v", e.Track.Title, e.GuildID, e.Err)
}

// Unwrap returns the underlying backend error.
func (e *PlaybackError) Unwrap() error {
	return e.Err
}
