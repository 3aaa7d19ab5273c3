package music

import (
	"fmt"
	"log/slog"
	"sync"
)

// State describes what a guild session is doing with its audio output.
type State int

// Session states.
const (
	// StateIdle means no track is playing and no output is active.
	StateIdle State = iota
	// StatePlaying means a track is actively streaming.
	StatePlaying
	// StatePaused means a track is loaded but output is suspended.
	StatePaused
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Session is the per-guild playback state machine. It owns the guild's
// queue and now-playing track and serializes every transition behind a
// single mutex, so a user command and the output-completion event can
// never race on the same advancement. Sessions for different guilds are
// fully independent.
type Session struct {
	guildID  string
	output   AudioOutput
	notifier Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	nowPlaying *Track
	queue      *Queue
	// generation tags each started stream; a completion carrying a stale
	// generation was superseded by stop or a newer play and is dropped.
	generation uint64
}

// NewSession creates an idle session for the guild using the given
// audio output.
func NewSession(guildID string, output AudioOutput, notifier Notifier, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		guildID:  guildID,
		output:   output,
		notifier: notifier,
		logger:   logger,
		queue:    NewQueue(),
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() string {
	return s.guildID
}

// Play starts the track immediately when the session is idle, otherwise
// appends it to the queue. Returns whether playback started and, when
// queued instead, the track's 1-based queue position.
func (s *Session) Play(track Track) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		pos := s.queue.Enqueue(track)
		return false, pos, nil
	}

	if err := s.startLocked(track, false); err != nil {
		return false, 0, err
	}
	return true, 0, nil
}

// PlayNext starts the track immediately when the session is idle,
// otherwise inserts it at the head of the queue so it plays after the
// current track. Returns whether playback started.
func (s *Session) PlayNext(track Track) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		s.queue.EnqueueFront(track)
		return false, nil
	}

	if err := s.startLocked(track, false); err != nil {
		return false, err
	}
	return true, nil
}

// Pause suspends output. Returns ErrNothingPlaying unless a track is
// actively playing.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return ErrNothingPlaying
	}
	s.output.Pause()
	s.state = StatePaused
	return nil
}

// Resume continues a paused track. Returns ErrNotPaused unless the
// session is paused.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return ErrNotPaused
	}
	s.output.Resume()
	s.state = StatePlaying
	return nil
}

// Skip stops the current output. The resulting clean-completion event is
// what advances the session to the next queued track, so skip and
// natural completion share one advancement path.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return ErrNothingPlaying
	}
	s.output.Stop()
	return nil
}

// Stop halts output, clears the queue and the now-playing track, and
// returns the session to idle. The completion event produced by tearing
// down the output observes an idle session and does nothing.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return ErrNothingPlaying
	}
	s.generation++
	s.queue.Clear()
	s.nowPlaying = nil
	s.state = StateIdle
	s.output.Stop()
	return nil
}

// Now returns the current track and state. The boolean is false when
// nothing is playing or paused.
func (s *Session) Now() (Track, State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nowPlaying == nil {
		return Track{}, s.state, false
	}
	return *s.nowPlaying, s.state, true
}

// Shuffle randomly permutes the queue.
func (s *Session) Shuffle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Shuffle()
}

// RemoveTrack removes the track at the 1-based queue index.
func (s *Session) RemoveTrack(index int) (Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.RemoveAt(index)
}

// ClearQueue empties the queue without touching the current track.
// Returns how many tracks were dropped.
func (s *Session) ClearQueue() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.queue.Len()
	s.queue.Clear()
	return n
}

// QueuePreview returns up to limit tracks from the head of the queue and
// the count of tracks beyond the limit.
func (s *Session) QueuePreview(limit int) ([]Track, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, rest := s.queue.Preview(limit)
	var out []Track
	for t := range seq {
		out = append(out, t)
	}
	return out, rest
}

// QueueSnapshot returns a copy of the full queue in play order.
func (s *Session) QueueSnapshot() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Snapshot()
}

// QueueLen returns the number of queued tracks.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// AppendTracks adds tracks to the tail of the queue, keeping existing
// contents.
func (s *Session) AppendTracks(tracks []Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Append(tracks)
}

// SetVolume adjusts the output gain in percent.
func (s *Session) SetVolume(percent int) {
	s.output.SetVolume(percent)
}

// Volume returns the output gain in percent.
func (s *Session) Volume() int {
	return s.output.Volume()
}

// Close stops any playback and releases the audio output. The session
// must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state != StateIdle {
		s.generation++
		s.queue.Clear()
		s.nowPlaying = nil
		s.state = StateIdle
		s.output.Stop()
	}
	s.mu.Unlock()
	s.output.Close()
}

// startLocked begins streaming track and announces it. Callers hold the
// session lock.
func (s *Session) startLocked(track Track, fromQueue bool) error {
	s.generation++
	gen := s.generation

	t := track
	s.nowPlaying = &t
	s.state = StatePlaying

	err := s.output.Play(track.StreamLocator, func(playErr error) {
		s.handleCompletion(gen, playErr)
	})
	if err != nil {
		s.nowPlaying = nil
		s.state = StateIdle
		return fmt.Errorf("failed to start playback of %q: %w", track.Title, err)
	}

	s.logger.Info("track started",
		slog.String("guild_id", s.guildID),
		slog.String("title", track.Title),
		slog.Bool("from_queue", fromQueue))

	if s.notifier != nil {
		s.notifier.NowPlaying(s.guildID, track, fromQueue)
	}
	return nil
}

// handleCompletion is the single advancement path for the session. Clean
// completion pops the queue head and plays it, or goes idle when the
// queue is empty. Error completion reports and goes idle without popping
// anything, so a failing track can never drain the rest of the queue.
func (s *Session) handleCompletion(gen uint64, playErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.state == StateIdle {
		// Superseded by stop or a newer stream.
		return
	}

	finished := s.nowPlaying
	s.nowPlaying = nil
	s.state = StateIdle

	if playErr != nil {
		s.logger.Error("track finished with error",
			slog.String("guild_id", s.guildID),
			slog.Any("error", playErr))
		if s.notifier != nil && finished != nil {
			s.notifier.PlaybackError(s.guildID, *finished, playErr)
		}
		return
	}

	next, ok := s.queue.DequeueFront()
	if !ok {
		return
	}

	if err := s.startLocked(next, true); err != nil {
		s.logger.Error("failed to advance to next track",
			slog.String("guild_id", s.guildID),
			slog.String("title", next.Title),
			slog.Any("error", err))
		if s.notifier != nil {
			s.notifier.PlaybackError(s.guildID, next, err)
		}
	}
}
