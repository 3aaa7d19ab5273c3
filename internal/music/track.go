package music

import "fmt"

// Track is a resolved, playable unit of audio with its display metadata.
// Tracks are immutable once constructed; queue and playlist operations
// copy them by value.
type Track struct {
	// Title is the human-readable track title.
	Title string
	// StreamLocator is the opaque handle the audio backend uses to fetch
	// and decode the audio. Callers never interpret it.
	StreamLocator string
	// PageURL is the source page the track was resolved from.
	PageURL string
	// DurationSeconds is the track length in seconds, 0 when unknown.
	DurationSeconds int
	// ThumbnailURL is the artwork URL, possibly empty.
	ThumbnailURL string
	// RequestedBy identifies the user who requested the track. It is an
	// opaque reference rendered verbatim in notifications.
	RequestedBy string
}

// FormatDuration renders the track duration as m:ss, or "unknown" when
// the duration was not reported by the resolver.
func (t Track) FormatDuration() string {
	if t.DurationSeconds <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d:%02d", t.DurationSeconds/60, t.DurationSeconds%60)
}
