package music_test

import (
	"errors"
	"testing"

	"github.com/archeon-bot/archeon/internal/music"
)

func makeTracks(titles ...string) []music.Track {
	tracks := make([]music.Track, 0, len(titles))
	for _, title := range titles {
		tracks = append(tracks, music.Track{Title: title, StreamLocator: "stream://" + title})
	}
	return tracks
}

func queueTitles(q *music.Queue) []string {
	snapshot := q.Snapshot()
	titles := make([]string, 0, len(snapshot))
	for _, t := range snapshot {
		titles = append(titles, t.Title)
	}
	return titles
}

func TestQueueEnqueuePreservesOrder(t *testing.T) {
	q := music.NewQueue()

	for i, track := range makeTracks("a", "b", "c") {
		pos := q.Enqueue(track)
		if pos != i+1 {
			t.Errorf("Enqueue(%q) position = %d, want %d", track.Title, pos, i+1)
		}
	}

	got := queueTitles(q)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("queue order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueueEnqueueFront(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b"))

	q.EnqueueFront(music.Track{Title: "priority"})

	head, ok := q.DequeueFront()
	if !ok {
		t.Fatal("DequeueFront() returned no track")
	}
	if head.Title != "priority" {
		t.Errorf("head title = %q, want %q", head.Title, "priority")
	}
}

func TestQueueDequeueFrontEmpty(t *testing.T) {
	q := music.NewQueue()

	if _, ok := q.DequeueFront(); ok {
		t.Error("DequeueFront() on empty queue returned ok = true")
	}
}

func TestQueueRemoveAt(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b", "c"))

	removed, err := q.RemoveAt(2)
	if err != nil {
		t.Fatalf("RemoveAt(2) error = %v", err)
	}
	if removed.Title != "b" {
		t.Errorf("removed title = %q, want %q", removed.Title, "b")
	}

	got := queueTitles(q)
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("queue length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("queue order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueueRemoveAtOutOfRange(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b", "c"))

	tests := []struct {
		name  string
		index int
	}{
		{name: "zero", index: 0},
		{name: "negative", index: -1},
		{name: "past end", index: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := q.RemoveAt(tt.index); !errors.Is(err, music.ErrIndexOutOfRange) {
				t.Errorf("RemoveAt(%d) error = %v, want ErrIndexOutOfRange", tt.index, err)
			}
			if q.Len() != 3 {
				t.Errorf("queue length after failed removal = %d, want 3", q.Len())
			}
		})
	}
}

func TestQueueShuffleRequiresTwoTracks(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
	}{
		{name: "empty", titles: nil},
		{name: "single", titles: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := music.NewQueue()
			q.Append(makeTracks(tt.titles...))

			if err := q.Shuffle(); !errors.Is(err, music.ErrInsufficientItems) {
				t.Errorf("Shuffle() error = %v, want ErrInsufficientItems", err)
			}
		})
	}
}

func TestQueueShufflePreservesContents(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b", "c", "d", "e"))

	if err := q.Shuffle(); err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}
	if q.Len() != 5 {
		t.Fatalf("queue length after shuffle = %d, want 5", q.Len())
	}

	seen := make(map[string]bool)
	for _, title := range queueTitles(q) {
		seen[title] = true
	}
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		if !seen[title] {
			t.Errorf("track %q missing after shuffle", title)
		}
	}
}

func TestQueueClearIsIdempotent(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b"))

	q.Clear()
	if q.Len() != 0 {
		t.Errorf("queue length after clear = %d, want 0", q.Len())
	}

	q.Clear()
	if q.Len() != 0 {
		t.Errorf("queue length after second clear = %d, want 0", q.Len())
	}
}

func TestQueuePreview(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b", "c", "d", "e"))

	seq, rest := q.Preview(3)
	var got []string
	for track := range seq {
		got = append(got, track.Title)
	}

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("preview length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("preview[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if rest != 2 {
		t.Errorf("remainder = %d, want 2", rest)
	}
}

func TestQueuePreviewIsRestartable(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b"))

	seq, _ := q.Preview(2)
	for range 2 {
		var count int
		for range seq {
			count++
		}
		if count != 2 {
			t.Errorf("preview yielded %d tracks, want 2", count)
		}
	}
}

func TestQueuePreviewBeyondLength(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b"))

	seq, rest := q.Preview(10)
	var count int
	for range seq {
		count++
	}
	if count != 2 {
		t.Errorf("preview yielded %d tracks, want 2", count)
	}
	if rest != 0 {
		t.Errorf("remainder = %d, want 0", rest)
	}
}

func TestQueueSnapshotIsACopy(t *testing.T) {
	q := music.NewQueue()
	q.Append(makeTracks("a", "b"))

	snapshot := q.Snapshot()
	snapshot[0].Title = "mutated"

	if got := queueTitles(q)[0]; got != "a" {
		t.Errorf("queue head after snapshot mutation = %q, want %q", got, "a")
	}
}
