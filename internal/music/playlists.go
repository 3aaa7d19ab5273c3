package music

import (
	"sort"
	"sync"
)

// PlaylistInfo describes one saved playlist for listing.
type PlaylistInfo struct {
	Name       string
	TrackCount int
}

// PlaylistStore holds named queue snapshots per guild. Snapshots are
// copies taken at save time and stay independent of the live queue.
// The store lives for the process lifetime; nothing is persisted.
type PlaylistStore struct {
	mu      sync.RWMutex
	byGuild map[string]map[string][]Track
}

// NewPlaylistStore creates an empty playlist store.
func NewPlaylistStore() *PlaylistStore {
	return &PlaylistStore{
		byGuild: make(map[string]map[string][]Track),
	}
}

// Save snapshots tracks under name for the guild, overwriting any
// existing playlist with the same name. Returns ErrEmptyQueue when
// there is nothing to save.
func (s *PlaylistStore) Save(guildID, name string, tracks []Track) error {
	if len(tracks) == 0 {
		return ErrEmptyQueue
	}

	snapshot := make([]Track, len(tracks))
	copy(snapshot, tracks)

	s.mu.Lock()
	defer s.mu.Unlock()

	playlists, ok := s.byGuild[guildID]
	if !ok {
		playlists = make(map[string][]Track)
		s.byGuild[guildID] = playlists
	}
	playlists[name] = snapshot
	return nil
}

// Load returns a copy of the named playlist's tracks for the guild.
// Returns ErrPlaylistNotFound when no playlist exists under that name.
func (s *PlaylistStore) Load(guildID, name string) ([]Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks, ok := s.byGuild[guildID][name]
	if !ok {
		return nil, ErrPlaylistNotFound
	}

	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out, nil
}

// List returns the guild's saved playlists sorted by name. The result
// is empty when the guild has no playlists.
func (s *PlaylistStore) List(guildID string) []PlaylistInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlists := s.byGuild[guildID]
	infos := make([]PlaylistInfo, 0, len(playlists))
	for name, tracks := range playlists {
		infos = append(infos, PlaylistInfo{Name: name, TrackCount: len(tracks)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
