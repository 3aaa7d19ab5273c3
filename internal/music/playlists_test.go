package music_test

import (
	"errors"
	"testing"

	"github.com/archeon-bot/archeon/internal/music"
)

func TestPlaylistStoreSaveAndLoad(t *testing.T) {
	store := music.NewPlaylistStore()
	tracks := makeTracks("a", "b", "c")

	if err := store.Save("guild-1", "favorites", tracks); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load("guild-1", "favorites")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != len(tracks) {
		t.Fatalf("loaded %d tracks, want %d", len(loaded), len(tracks))
	}
	for i := range tracks {
		if loaded[i].Title != tracks[i].Title {
			t.Errorf("loaded[%d].Title = %q, want %q", i, loaded[i].Title, tracks[i].Title)
		}
	}
}

func TestPlaylistStoreSaveEmpty(t *testing.T) {
	store := music.NewPlaylistStore()

	if err := store.Save("guild-1", "empty", nil); !errors.Is(err, music.ErrEmptyQueue) {
		t.Errorf("Save() with no tracks error = %v, want ErrEmptyQueue", err)
	}
}

func TestPlaylistStoreSaveOverwrites(t *testing.T) {
	store := music.NewPlaylistStore()

	if err := store.Save("guild-1", "mix", makeTracks("a", "b")); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if err := store.Save("guild-1", "mix", makeTracks("c")); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, err := store.Load("guild-1", "mix")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != "c" {
		t.Errorf("loaded = %v, want single track %q", loaded, "c")
	}
}

func TestPlaylistStoreLoadMissing(t *testing.T) {
	store := music.NewPlaylistStore()

	if _, err := store.Load("guild-1", "nope"); !errors.Is(err, music.ErrPlaylistNotFound) {
		t.Errorf("Load() error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestPlaylistStoreIsolatesGuilds(t *testing.T) {
	store := music.NewPlaylistStore()

	if err := store.Save("guild-1", "mix", makeTracks("a")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := store.Load("guild-2", "mix"); !errors.Is(err, music.ErrPlaylistNotFound) {
		t.Errorf("Load() from other guild error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestPlaylistStoreLoadReturnsCopy(t *testing.T) {
	store := music.NewPlaylistStore()

	if err := store.Save("guild-1", "mix", makeTracks("a", "b")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load("guild-1", "mix")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	loaded[0].Title = "mutated"

	again, err := store.Load("guild-1", "mix")
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again[0].Title != "a" {
		t.Errorf("stored track title = %q, want %q", again[0].Title, "a")
	}
}

func TestPlaylistStoreList(t *testing.T) {
	store := music.NewPlaylistStore()

	if err := store.Save("guild-1", "zebra", makeTracks("a")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save("guild-1", "alpha", makeTracks("a", "b")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	infos := store.List("guild-1")
	if len(infos) != 2 {
		t.Fatalf("List() returned %d playlists, want 2", len(infos))
	}
	if infos[0].Name != "alpha" || infos[1].Name != "zebra" {
		t.Errorf("List() order = [%q, %q], want sorted by name", infos[0].Name, infos[1].Name)
	}
	if infos[0].TrackCount != 2 {
		t.Errorf("alpha track count = %d, want 2", infos[0].TrackCount)
	}
}

func TestPlaylistStoreListEmpty(t *testing.T) {
	store := music.NewPlaylistStore()

	if infos := store.List("guild-1"); len(infos) != 0 {
		t.Errorf("List() on empty store returned %d playlists, want 0", len(infos))
	}
}
