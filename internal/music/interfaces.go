package music

// AudioOutput streams one track at a time for a single guild's voice
// connection. Implementations own the decode/encode pipeline; the
// session only hands them stream locators.
type AudioOutput interface {
	// Play begins streaming the audio behind locator. It returns once the
	// pipeline has started; completion is reported exactly once through
	// onComplete, from a separate goroutine, with nil for clean completion
	// (including an explicit Stop) and an error for a backend failure.
	Play(locator string, onComplete func(err error)) error

	// Stop tears down the current stream, if any. The pending onComplete
	// fires with nil.
	Stop()

	// Pause suspends output without tearing down the stream.
	Pause()

	// Resume continues a paused stream.
	Resume()

	// SetVolume sets the software gain in percent (0-200). Takes effect
	// on the live stream and persists for later tracks.
	SetVolume(percent int)

	// Volume returns the current gain in percent.
	Volume() int

	// Close releases the output's resources after the guild session ends.
	Close()
}

// Notifier receives playback side effects for rendering. Each transition
// into the Playing state emits NowPlaying; backend failures emit
// PlaybackError. Implementations must not call back into the session
// synchronously.
type Notifier interface {
	// NowPlaying announces the track that just started for the guild.
	// fromQueue is true when the track advanced out of the queue rather
	// than starting from a direct play command.
	NowPlaying(guildID string, track Track, fromQueue bool)

	// PlaybackError reports a track whose output finished with an error.
	PlaybackError(guildID string, track Track, err error)
}
