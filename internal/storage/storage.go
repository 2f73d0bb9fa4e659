// Package storage defines the narrow persistence interface for rooms and song
// requests. The postgres implementation backs the service in production; the
// memory implementation backs tests and local development without a database.
package storage

import (
	"context"

	"github.com/Yekna/dj-jukebox/internal/model"
)

// RoomStore persists rooms. "Active" lookups filter on active = true; closed
// rooms are invisible to them but still reachable by ID.
type RoomStore interface {
	// CreateRoom inserts a new active room. Returns errs.ErrPinInUse if an
	// active room already holds the pin, errs.ErrOwnerHasActiveRoom if the
	// owner already has an active room.
	CreateRoom(ctx context.Context, room *model.Room) error
	ActiveRoomByPin(ctx context.Context, pin string) (*model.Room, error)
	ActiveRoomByDJ(ctx context.Context, djID string) (*model.Room, error)
	// RoomByID resolves a room regardless of active state (rooms are never
	// deleted, so songs in closed rooms still have an owner).
	RoomByID(ctx context.Context, id string) (*model.Room, error)
	// CloseRoom flips active to false. No-op error ErrRoomNotFound if absent.
	CloseRoom(ctx context.Context, id string) error
}

// SongStore persists song requests and their voter sets.
type SongStore interface {
	CreateSong(ctx context.Context, song *model.SongRequest) error
	SongByID(ctx context.Context, id string) (*model.SongRequest, error)
	// SongsByRoom returns the room's songs ordered by creation time ascending.
	SongsByRoom(ctx context.Context, roomID string) ([]model.SongRequest, error)
	// ToggleVote atomically adds voterID to the song's voter set (stepping the
	// count up) or removes it (stepping down) depending on current membership,
	// and returns the updated song. Implementations must make the
	// check-mutate-count sequence atomic; concurrent toggles for the same
	// (song, voter) pair must not double-apply a delta.
	ToggleVote(ctx context.Context, songID, voterID string) (*model.SongRequest, error)
	UpdateStatus(ctx context.Context, songID string, status model.SongStatus) (*model.SongRequest, error)
}

// Store is the full persistence surface the room service depends on.
type Store interface {
	RoomStore
	SongStore
}
