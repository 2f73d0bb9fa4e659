// Package memory implements storage.Store in process memory. It backs unit
// tests and database-free local runs; a single mutex serializes all mutation,
// which trivially satisfies the atomic-toggle contract.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Yekna/dj-jukebox/internal/errs"
	"github.com/Yekna/dj-jukebox/internal/model"
)

// Store is the in-memory persistence layer.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*model.Room        // room ID -> room
	songs map[string]*model.SongRequest // song ID -> song
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		rooms: make(map[string]*model.Room),
		songs: make(map[string]*model.SongRequest),
	}
}

func (s *Store) CreateRoom(_ context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if !r.Active {
			continue
		}
		if r.DJID == room.DJID {
			return errs.ErrOwnerHasActiveRoom
		}
		if r.Pin == room.Pin {
			return errs.ErrPinInUse
		}
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	cp := *room
	s.rooms[room.ID] = &cp
	return nil
}

func (s *Store) ActiveRoomByPin(_ context.Context, pin string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.Active && r.Pin == pin {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errs.ErrRoomNotFound
}

func (s *Store) ActiveRoomByDJ(_ context.Context, djID string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.Active && r.DJID == djID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errs.ErrRoomNotFound
}

func (s *Store) RoomByID(_ context.Context, id string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, errs.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) CloseRoom(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok || !r.Active {
		return errs.ErrRoomNotFound
	}
	r.Active = false
	return nil
}

func (s *Store) CreateSong(_ context.Context, song *model.SongRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if song.CreatedAt.IsZero() {
		song.CreatedAt = time.Now()
	}
	cp := copySong(song)
	s.songs[song.ID] = cp
	return nil
}

func (s *Store) SongByID(_ context.Context, id string) (*model.SongRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	song, ok := s.songs[id]
	if !ok {
		return nil, errs.ErrSongNotFound
	}
	return copySong(song), nil
}

func (s *Store) SongsByRoom(_ context.Context, roomID string) ([]model.SongRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SongRequest
	for _, song := range s.songs {
		if song.RoomID == roomID {
			out = append(out, *copySong(song))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) ToggleVote(_ context.Context, songID, voterID string) (*model.SongRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := s.songs[songID]
	if !ok {
		return nil, errs.ErrSongNotFound
	}
	removed := false
	for i, v := range song.Voters {
		if v.VoterID == voterID {
			song.Voters = append(song.Voters[:i], song.Voters[i+1:]...)
			song.Votes--
			removed = true
			break
		}
	}
	if !removed {
		song.Voters = append(song.Voters, model.SongVote{
			SongID:    songID,
			VoterID:   voterID,
			CreatedAt: time.Now(),
		})
		song.Votes++
	}
	return copySong(song), nil
}

func (s *Store) UpdateStatus(_ context.Context, songID string, status model.SongStatus) (*model.SongRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := s.songs[songID]
	if !ok {
		return nil, errs.ErrSongNotFound
	}
	song.Status = status
	return copySong(song), nil
}

func copySong(song *model.SongRequest) *model.SongRequest {
	cp := *song
	cp.Voters = make([]model.SongVote, len(song.Voters))
	copy(cp.Voters, song.Voters)
	return &cp
}
