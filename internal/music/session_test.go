package music_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/archeon-bot/archeon/internal/music"
)

// fakeOutput records playback calls and hands the captured completion
// callback to the test so transitions can be driven deterministically.
type fakeOutput struct {
	mu         sync.Mutex
	played     []string
	onComplete func(error)
	stops      int
	pauses     int
	resumes    int
	closes     int
	volume     int
	playErr    error
}

func (f *fakeOutput) Play(locator string, onComplete func(err error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.played = append(f.played, locator)
	f.onComplete = onComplete
	return nil
}

func (f *fakeOutput) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeOutput) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
}

func (f *fakeOutput) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
}

func (f *fakeOutput) SetVolume(percent int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = percent
}

func (f *fakeOutput) Volume() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakeOutput) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
}

// complete fires the most recently captured completion callback the way
// a real output would, from outside the session lock.
func (f *fakeOutput) complete(err error) {
	f.mu.Lock()
	cb := f.onComplete
	f.mu.Unlock()
	cb(err)
}

func (f *fakeOutput) playedLocators() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.played))
	copy(out, f.played)
	return out
}

// recordingNotifier captures playback notifications.
type recordingNotifier struct {
	mu          sync.Mutex
	nowPlaying  []music.Track
	playbackErr []error
}

func (n *recordingNotifier) NowPlaying(guildID string, track music.Track, fromQueue bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nowPlaying = append(n.nowPlaying, track)
}

func (n *recordingNotifier) PlaybackError(guildID string, track music.Track, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.playbackErr = append(n.playbackErr, err)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.playbackErr)
}

func newTestSession(t *testing.T) (*music.Session, *fakeOutput, *recordingNotifier) {
	t.Helper()
	output := &fakeOutput{}
	notifier := &recordingNotifier{}
	return music.NewSession("guild-1", output, notifier, nil), output, notifier
}

func TestSessionPlayWhenIdleStarts(t *testing.T) {
	sess, output, _ := newTestSession(t)

	started, pos, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !started {
		t.Error("Play() on idle session did not start playback")
	}
	if pos != 0 {
		t.Errorf("Play() position = %d, want 0 when started", pos)
	}

	track, state, ok := sess.Now()
	if !ok || track.Title != "a" {
		t.Errorf("Now() = (%q, ok=%v), want track a", track.Title, ok)
	}
	if state != music.StatePlaying {
		t.Errorf("state = %v, want playing", state)
	}
	if got := output.playedLocators(); len(got) != 1 || got[0] != "stream://a" {
		t.Errorf("output played %v, want [stream://a]", got)
	}
}

func TestSessionPlayWhilePlayingQueues(t *testing.T) {
	sess, _, _ := newTestSession(t)

	if _, _, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"}); err != nil {
		t.Fatalf("Play(a) error = %v", err)
	}

	started, pos, err := sess.Play(music.Track{Title: "b", StreamLocator: "stream://b"})
	if err != nil {
		t.Fatalf("Play(b) error = %v", err)
	}
	if started {
		t.Error("Play() while playing started instead of queueing")
	}
	if pos != 1 {
		t.Errorf("queue position = %d, want 1", pos)
	}

	started, pos, err = sess.Play(music.Track{Title: "c", StreamLocator: "stream://c"})
	if err != nil {
		t.Fatalf("Play(c) error = %v", err)
	}
	if started || pos != 2 {
		t.Errorf("Play(c) = (started=%v, pos=%d), want queued at 2", started, pos)
	}
}

func TestSessionPlayNextInsertsAtHead(t *testing.T) {
	sess, _, _ := newTestSession(t)

	if _, _, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"}); err != nil {
		t.Fatalf("Play(a) error = %v", err)
	}
	if _, _, err := sess.Play(music.Track{Title: "b", StreamLocator: "stream://b"}); err != nil {
		t.Fatalf("Play(b) error = %v", err)
	}

	started, err := sess.PlayNext(music.Track{Title: "priority", StreamLocator: "stream://priority"})
	if err != nil {
		t.Fatalf("PlayNext() error = %v", err)
	}
	if started {
		t.Error("PlayNext() while playing started instead of queueing")
	}

	snapshot := sess.QueueSnapshot()
	if len(snapshot) != 2 || snapshot[0].Title != "priority" {
		t.Errorf("queue head = %v, want priority first", snapshot)
	}
}

func TestSessionPauseResume(t *testing.T) {
	sess, output, _ := newTestSession(t)

	if err := sess.Pause(); !errors.Is(err, music.ErrNothingPlaying) {
		t.Errorf("Pause() on idle error = %v, want ErrNothingPlaying", err)
	}
	if err := sess.Resume(); !errors.Is(err, music.ErrNotPaused) {
		t.Errorf("Resume() on idle error = %v, want ErrNotPaused", err)
	}

	if _, _, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if err := sess.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if _, state, _ := sess.Now(); state != music.StatePaused {
		t.Errorf("state after pause = %v, want paused", state)
	}
	if err := sess.Pause(); !errors.Is(err, music.ErrNothingPlaying) {
		t.Errorf("Pause() while paused error = %v, want ErrNothingPlaying", err)
	}

	if err := sess.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if _, state, _ := sess.Now(); state != music.StatePlaying {
		t.Errorf("state after resume = %v, want playing", state)
	}

	if output.pauses != 1 || output.resumes != 1 {
		t.Errorf("output pauses = %d, resumes = %d, want 1 each", output.pauses, output.resumes)
	}
}

func TestSessionSkipAdvancesThroughCompletion(t *testing.T) {
	sess, output, _ := newTestSession(t)

	for _, title := range []string{"a", "b", "c"} {
		if _, _, err := sess.Play(music.Track{Title: title, StreamLocator: "stream://" + title}); err != nil {
			t.Fatalf("Play(%s) error = %v", title, err)
		}
	}

	if err := sess.Skip(); err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if output.stops != 1 {
		t.Fatalf("output stops = %d, want 1", output.stops)
	}

	// The output reports the stopped stream as a clean completion.
	output.complete(nil)

	track, state, ok := sess.Now()
	if !ok || track.Title != "b" {
		t.Errorf("Now() after skip = (%q, ok=%v), want track b", track.Title, ok)
	}
	if state != music.StatePlaying {
		t.Errorf("state = %v, want playing", state)
	}
	snapshot := sess.QueueSnapshot()
	if len(snapshot) != 1 || snapshot[0].Title != "c" {
		t.Errorf("queue after skip = %v, want [c]", snapshot)
	}
}

func TestSessionSkipWhenIdle(t *testing.T) {
	sess, _, _ := newTestSession(t)

	if err := sess.Skip(); !errors.Is(err, music.ErrNothingPlaying) {
		t.Errorf("Skip() on idle error = %v, want ErrNothingPlaying", err)
	}
}

func TestSessionCompletionWithEmptyQueueGoesIdle(t *testing.T) {
	sess, output, _ := newTestSession(t)

	if _, _, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	output.complete(nil)

	_, state, ok := sess.Now()
	if ok {
		t.Error("Now() reports a track after final completion")
	}
	if state != music.StateIdle {
		t.Errorf("state = %v, want idle", state)
	}
}

func TestSessionErrorCompletionDoesNotAdvance(t *testing.T) {
	sess, output, notifier := newTestSession(t)

	if _, _, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"}); err != nil {
		t.Fatalf("Play(a) error = %v", err)
	}
	if _, _, err := sess.Play(music.Track{Title: "b", StreamLocator: "stream://b"}); err != nil {
		t.Fatalf("Play(b) error = %v", err)
	}

	output.complete(errors.New("stream died"))

	_, state, ok := sess.Now()
	if ok || state != music.StateIdle {
		t.Errorf("after error completion state = %v, ok = %v, want idle without track", state, ok)
	}
	// The failing track must not drain the queue.
	if got := sess.QueueLen(); got != 1 {
		t.Errorf("queue length after error completion = %d, want 1", got)
	}
	if notifier.errorCount() != 1 {
		t.Errorf("playback error notifications = %d, want 1", notifier.errorCount())
	}
	if got := output.playedLocators(); len(got) != 1 {
		t.Errorf("output played %v, want no auto-advance after error", got)
	}
}

func TestSessionStopClearsEverything(t *testing.T) {
	sess, output, _ := newTestSession(t)

	for _, title := range []string{"a", "b", "c"} {
		if _, _, err := sess.Play(music.Track{Title: title, StreamLocator: "stream://" + title}); err != nil {
			t.Fatalf("Play(%s) error = %v", title, err)
		}
	}

	if err := sess.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	_, state, ok := sess.Now()
	if ok || state != music.StateIdle {
		t.Errorf("after stop state = %v, ok = %v, want idle without track", state, ok)
	}
	if got := sess.QueueLen(); got != 0 {
		t.Errorf("queue length after stop = %d, want 0", got)
	}

	// The torn-down stream still reports completion; it must not restart
	// anything.
	output.complete(nil)
	if got := output.playedLocators(); len(got) != 1 {
		t.Errorf("output played %v after stop, want no restart", got)
	}
	if _, state, _ := sess.Now(); state != music.StateIdle {
		t.Errorf("state after stale completion = %v, want idle", state)
	}
}

func TestSessionStopWhenIdle(t *testing.T) {
	sess, _, _ := newTestSession(t)

	if err := sess.Stop(); !errors.Is(err, music.ErrNothingPlaying) {
		t.Errorf("Stop() on idle error = %v, want ErrNothingPlaying", err)
	}
}

func TestSessionStaleCompletionAfterNewPlay(t *testing.T) {
	sess, output, _ := newTestSession(t)

	if _, _, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"}); err != nil {
		t.Fatalf("Play(a) error = %v", err)
	}
	staleComplete := output.onComplete

	if err := sess.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if _, _, err := sess.Play(music.Track{Title: "b", StreamLocator: "stream://b"}); err != nil {
		t.Fatalf("Play(b) error = %v", err)
	}

	// The first stream's completion arrives late; the second stream must
	// keep playing.
	staleComplete(nil)

	track, state, ok := sess.Now()
	if !ok || track.Title != "b" {
		t.Errorf("Now() = (%q, ok=%v), want track b", track.Title, ok)
	}
	if state != music.StatePlaying {
		t.Errorf("state = %v, want playing", state)
	}
}

func TestSessionStartFailure(t *testing.T) {
	output := &fakeOutput{playErr: errors.New("no voice connection")}
	sess := music.NewSession("guild-1", output, &recordingNotifier{}, nil)

	if _, _, err := sess.Play(music.Track{Title: "a", StreamLocator: "stream://a"}); err == nil {
		t.Fatal("Play() with failing output returned nil error")
	}

	_, state, ok := sess.Now()
	if ok || state != music.StateIdle {
		t.Errorf("after failed start state = %v, ok = %v, want idle", state, ok)
	}
}

func TestSessionRemoveAndClearQueue(t *testing.T) {
	sess, _, _ := newTestSession(t)

	for _, title := range []string{"a", "b", "c"} {
		if _, _, err := sess.Play(music.Track{Title: title, StreamLocator: "stream://" + title}); err != nil {
			t.Fatalf("Play(%s) error = %v", title, err)
		}
	}

	removed, err := sess.RemoveTrack(1)
	if err != nil {
		t.Fatalf("RemoveTrack(1) error = %v", err)
	}
	if removed.Title != "b" {
		t.Errorf("removed title = %q, want b", removed.Title)
	}

	if n := sess.ClearQueue(); n != 1 {
		t.Errorf("ClearQueue() = %d, want 1", n)
	}
	if got := sess.QueueLen(); got != 0 {
		t.Errorf("queue length = %d, want 0", got)
	}

	// Clearing the queue leaves the current track alone.
	track, state, ok := sess.Now()
	if !ok || track.Title != "a" || state != music.StatePlaying {
		t.Errorf("Now() = (%q, %v, ok=%v), want a still playing", track.Title, state, ok)
	}
}
